package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nhle/bugnet-provider/internal/credential"
	"github.com/nhle/bugnet-provider/internal/model"
	"github.com/nhle/bugnet-provider/internal/store"
	"github.com/nhle/bugnet-provider/internal/tracker"
)

// secretLookup resolves a credential by key; swapped out in tests.
type secretLookup func(key string) (string, error)

// ResolveConfig loads the configuration file and, when no connection
// string is configured, falls back to the one stored in the OS keyring.
func ResolveConfig(path string, logger *slog.Logger) (model.ProviderConfig, error) {
	return resolveConfig(path, credential.Get, logger)
}

func resolveConfig(
	path string,
	lookup secretLookup,
	logger *slog.Logger,
) (model.ProviderConfig, error) {
	cfg, err := model.LoadConfig(path)
	if err != nil {
		return model.ProviderConfig{}, err
	}
	if cfg.ConnectionString != "" {
		return cfg, nil
	}

	dsn, err := lookup(credential.ConnectionStringKey)
	switch {
	case errors.Is(err, credential.ErrNotFound):
		logger.Debug("no connection string in keyring")
	case err != nil:
		logger.Warn("keyring unavailable", slog.Any("error", err))
	default:
		cfg.ConnectionString = dsn
	}
	return cfg, nil
}

// NewProvider builds a tracker client backed by a per-call SQL store.
func NewProvider(cfg model.ProviderConfig, logger *slog.Logger) (*tracker.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w (set connection_string, BUGNET_CONNECTION_STRING or run `bugnet config set-connection`)", err)
	}

	db, err := store.NewSQLStore(cfg.Driver, cfg.ConnectionString, logger)
	if err != nil {
		return nil, err
	}

	return tracker.NewClient(cfg, db, tracker.WithLogger(logger))
}
