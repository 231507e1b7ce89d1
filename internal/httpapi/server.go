package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mmserve/internal/engine"
	"mmserve/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Invoke(ctx context.Context, modelID string, payload []byte) ([]byte, error)
	ListModels(ctx context.Context) ([]string, error)
	Status() types.StatusResponse
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		ids, err := svc.ListModels(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.ModelsResponse{Models: ids}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Post("/models/{id}/invoke", func(w http.ResponseWriter, r *http.Request) {
		modelID := chi.URLParam(r, "id")
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "failed to read request body")
			return
		}

		lvl := requestLogLevel(r)
		start := time.Now()
		if lvl >= LevelDebug && zlog != nil {
			z := zlog.Debug().Str("path", r.URL.Path).Str("model", modelID).Int("payload_bytes", len(payload))
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				z = z.Str("request_id", rid)
			}
			z.Msg("invoke start")
		}

		// Join server base context with request context so shutdown cancels work too.
		joinedCtx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		out, err := svc.Invoke(joinedCtx, modelID, payload)
		if err != nil {
			// If context was canceled (client disconnect or shutdown), just return.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := statusForInvokeError(err)
			writeJSONError(w, status, err.Error())
			logInvokeEnd(r, lvl, modelID, status, start, err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		if _, err := w.Write(out); err != nil {
			logInvokeEnd(r, lvl, modelID, 0, start, err)
			return
		}
		logInvokeEnd(r, lvl, modelID, http.StatusOK, start, nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("draining"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// statusForInvokeError maps engine errors to HTTP status codes. The
// distinctions matter to callers: 404 means the model does not exist,
// 5xx means it exists but could not be served, 422 means this particular
// payload was rejected by an otherwise healthy model.
func statusForInvokeError(err error) int {
	switch {
	case engine.IsUnknownModel(err):
		return http.StatusNotFound
	case engine.IsTransientFetch(err):
		return http.StatusServiceUnavailable
	case engine.IsConstructionFailed(err):
		return http.StatusInternalServerError
	case engine.IsPredictionFailed(err):
		return http.StatusUnprocessableEntity
	case engine.IsLoadTimeout(err):
		return http.StatusGatewayTimeout
	case engine.IsShuttingDown(err):
		return http.StatusServiceUnavailable
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

func logInvokeEnd(r *http.Request, lvl LogLevel, modelID string, status int, start time.Time, err error) {
	if lvl < LevelInfo || zlog == nil {
		return
	}
	z := zlog.Info().Str("model", modelID).Int("status", status).Dur("dur", time.Since(start))
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	if err != nil {
		z = z.Err(err)
	}
	z.Msg("invoke end")
}
