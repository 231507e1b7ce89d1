package runtime

import (
	"context"
	"encoding/json"
	"fmt"
)

// linearArtifact is the on-disk format for the built-in backend: a plain
// linear regression exported as JSON.
type linearArtifact struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	Prediction float64 `json:"prediction"`
}

// LinearRuntime loads JSON linear-regression artifacts. It exists so the
// server is usable out of the box and so tests have a deterministic
// backend; production deployments register their own Runtime.
type LinearRuntime struct{}

func NewLinearRuntime() *LinearRuntime { return &LinearRuntime{} }

func (LinearRuntime) Construct(ctx context.Context, artifact []byte) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var a linearArtifact
	if err := json.Unmarshal(artifact, &a); err != nil {
		return nil, ErrConstruction("invalid JSON artifact: " + err.Error())
	}
	if len(a.Weights) == 0 {
		return nil, ErrConstruction("artifact has no weights")
	}
	return &linearHandle{weights: a.Weights, intercept: a.Intercept}, nil
}

type linearHandle struct {
	weights   []float64
	intercept float64
	closed    bool
}

func (h *linearHandle) Predict(ctx context.Context, payload []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var req predictRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, ErrPrediction("invalid JSON payload: " + err.Error())
	}
	if len(req.Features) != len(h.weights) {
		return nil, ErrPrediction(fmt.Sprintf("expected %d features, got %d", len(h.weights), len(req.Features)))
	}
	y := h.intercept
	for i, w := range h.weights {
		y += w * req.Features[i]
	}
	b, err := json.Marshal(predictResponse{Prediction: y})
	if err != nil {
		return nil, ErrPrediction(err.Error())
	}
	return b, nil
}

func (h *linearHandle) Close() error {
	h.closed = true
	return nil
}
