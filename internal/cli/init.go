// Package cli carries the shared startup and interaction helpers used
// by the render-bridge commands.
package cli

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/playbook3d/render-bridge/internal/auth"
	"github.com/playbook3d/render-bridge/internal/config"
	"github.com/playbook3d/render-bridge/internal/logging"
	"github.com/playbook3d/render-bridge/internal/secrets"
)

// Bootstrap initializes logging, loads configuration, resolves secrets,
// and returns a ready auth client. Exits fatally on failure.
func Bootstrap(ctx context.Context) (*config.Config, *auth.TokenStore, *auth.Client) {
	start := time.Now()

	cfg := config.Load()
	logging.Init(cfg.LogLevel)

	src, err := secrets.FromConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.SecretsSource).Msg("Failed to initialize secret source")
	}
	if err := secrets.Apply(ctx, cfg, src); err != nil {
		log.Fatal().Err(err).Str("source", cfg.SecretsSource).Msg("Failed to resolve secrets")
	}

	if err := cfg.Validate(); err != nil {
		var missing *config.MissingError
		if errors.As(err, &missing) {
			log.Fatal().Strs("keys", missing.Keys).Msg("Configuration incomplete; set the missing keys or configure a secret source")
		}
		log.Fatal().Err(err).Msg("Configuration invalid")
	}

	tokens := auth.NewTokenStore()
	client := auth.NewClient(cfg, tokens)

	logging.NewStartupLogger("render-bridge").
		Endpoint("base", cfg.BaseURL).
		Endpoint("stream", cfg.WebsocketURL).
		Config("secretsSource", cfg.SecretsSource).
		Config("logLevel", cfg.LogLevel).
		InitDuration(time.Since(start)).
		Log()

	return cfg, tokens, client
}
