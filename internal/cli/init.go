// Package cli provides the interactive menu and the setup helpers shared by
// the ledger binary.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ledger/internal/config"
	"ledger/internal/log"
)

// SetupLogger builds a stderr logger at the given LOG_LEVEL and installs it
// as the slog default. Unknown levels fall back to warn.
func SetupLogger(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	logger := log.New(cfg)
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using warn", log.FieldError, err)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development. A missing file is
// fine; a malformed one is reported so the caller can warn about it.
func LoadEnvFile() error {
	return config.LoadEnvFile()
}

// LoadConfig reads the environment, applies overrides (command-line flags)
// and validates the result once.
func LoadConfig(overrides func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		overrides(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAndValidateConfig is LoadConfig that exits the process on failure.
func LoadAndValidateConfig(logger *log.Logger, overrides func(*config.Config)) *config.Config {
	cfg, err := LoadConfig(overrides)
	if err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
