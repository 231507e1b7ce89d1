package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mmserve/internal/config"
	"mmserve/internal/engine"
	"mmserve/internal/httpapi"
	"mmserve/internal/runtime"
	"mmserve/internal/store"
)

var version = "dev"

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mmserve",
		Short:         "Multi-model inference server with on-demand loading and LRU eviction",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var (
		cfgPath       string
		addr          string
		artifactsDir  string
		capacityBytes int64
		capacitySlots int
		evictionOff   bool
		loadTimeout   time.Duration
		drainTimeout  time.Duration
		logLevel      string
	)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP serving daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Config{}
			if cfgPath != "" {
				var err error
				cfg, err = config.Load(cfgPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}
			// Flags (and their env defaults) override file values when set.
			if cmd.Flags().Changed("addr") || cfg.Addr == "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("artifacts-dir") || cfg.ArtifactsDir == "" {
				cfg.ArtifactsDir = artifactsDir
			}
			if cmd.Flags().Changed("capacity-bytes") {
				cfg.CapacityBytes = capacityBytes
			}
			if cmd.Flags().Changed("capacity-slots") {
				cfg.CapacitySlots = capacitySlots
			}
			if cmd.Flags().Changed("eviction-off") {
				cfg.EvictionOff = evictionOff
			}
			if cmd.Flags().Changed("log-level") || cfg.LogLevel == "" {
				cfg.LogLevel = logLevel
			}
			fileLoad, err := config.ParseDuration(cfg.LoadTimeout)
			if err != nil {
				return fmt.Errorf("load_timeout: %w", err)
			}
			if cmd.Flags().Changed("load-timeout") || fileLoad == 0 {
				fileLoad = loadTimeout
			}
			fileDrain, err := config.ParseDuration(cfg.DrainTimeout)
			if err != nil {
				return fmt.Errorf("drain_timeout: %w", err)
			}
			if cmd.Flags().Changed("drain-timeout") || fileDrain == 0 {
				fileDrain = drainTimeout
			}
			return run(cfg, fileLoad, fileDrain)
		},
	}
	serve.Flags().StringVarP(&cfgPath, "config", "c", os.Getenv("MMSERVE_CONFIG"), "Path to config file (.yaml/.json/.toml)")
	serve.Flags().StringVar(&addr, "addr", envOr("MMSERVE_ADDR", ":8080"), "HTTP listen address")
	serve.Flags().StringVar(&artifactsDir, "artifacts-dir", envOr("MMSERVE_ARTIFACTS_DIR", "~/models/artifacts"), "Directory holding model artifacts")
	serve.Flags().Int64Var(&capacityBytes, "capacity-bytes", 0, "Resident artifact byte budget (0=unlimited)")
	serve.Flags().IntVar(&capacitySlots, "capacity-slots", 0, "Resident model count budget (0=unlimited)")
	serve.Flags().BoolVar(&evictionOff, "eviction-off", false, "Disable eviction entirely")
	serve.Flags().DurationVar(&loadTimeout, "load-timeout", 30*time.Second, "Per-load fetch+construct timeout")
	serve.Flags().DurationVar(&drainTimeout, "drain-timeout", 5*time.Second, "Shutdown drain timeout")
	serve.Flags().StringVar(&logLevel, "log-level", envOr("MMSERVE_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	root.AddCommand(serve)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("mmserve", version)
		},
	})

	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func run(cfg config.Config, loadTimeout, drainTimeout time.Duration) error {
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).With().Timestamp().Logger()

	st, err := store.NewFSStore(cfg.ArtifactsDir)
	if err != nil {
		return err
	}
	eng := engine.New(st, runtime.NewLinearRuntime(), engine.Config{
		CapacityBytes:    cfg.CapacityBytes,
		CapacitySlots:    cfg.CapacitySlots,
		EvictionDisabled: cfg.EvictionOff,
		LoadTimeout:      loadTimeout,
		DrainTimeout:     drainTimeout,
	}, engine.WithLogger(logger.With().Str("component", "engine").Logger()))

	httpapi.SetLogger(logger.With().Str("component", "http").Logger())
	if cfg.MaxBodyBytes > 0 {
		httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	}
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, cfg.CORSMethods, cfg.CORSHeaders)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	mux := httpapi.NewMux(eng)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("artifacts_dir", cfg.ArtifactsDir).Msg("mmserve listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout+time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("graceful shutdown error")
	}
	cancelBase()
	if err := eng.Close(); err != nil {
		logger.Warn().Err(err).Msg("engine close error")
	}
	return nil
}
