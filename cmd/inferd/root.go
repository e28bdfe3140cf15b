package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"inferd/internal/config"
	"inferd/internal/engine"
	"inferd/internal/httpapi"
	"inferd/internal/manager"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		host       string
		port       int
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "inferd",
		Short:         "OpenAI-compatible inference server for a local llama.cpp model",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; real env vars win over it.
			_ = godotenv.Load()

			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.LoadFile(configPath, cfg); err != nil {
					return err
				}
			}
			cfg, err := config.FromEnv(cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "optional config file (yaml/json/toml)")
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
	return cmd
}

func run(cfg config.Config) error {
	log := newLogger(cfg.LogLevel)

	mgr := manager.New(engine.New(), engine.LoadConfig{
		ModelPath:     cfg.ModelPath,
		NGPULayers:    cfg.NGPULayers,
		NCtx:          cfg.NCtx,
		NBatch:        cfg.NBatch,
		NThreads:      cfg.NThreads,
		UseMlock:      cfg.UseMlock,
		UseMmap:       cfg.UseMmap,
		RopeFreqBase:  cfg.RopeFreqBase,
		RopeFreqScale: cfg.RopeFreqScale,
	}, log)
	defer func() {
		if err := mgr.Close(); err != nil {
			log.Warn().Err(err).Msg("releasing model handle failed")
		}
	}()

	// Preload is best-effort: a failed load is reported but the server still
	// starts, and the first request retries the load.
	log.Info().Str("model", cfg.ModelName).Msg("preloading model")
	if _, err := mgr.Acquire(context.Background()); err != nil {
		log.Warn().Err(err).Msg("preload failed; model will be loaded on first request")
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: httpapi.NewMux(mgr, cfg, log),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("model", cfg.ModelName).Msg("inferd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
