// Package secrets resolves the bridge's secret-backed configuration values
// (endpoint URLs and the application x-api-key) from a pluggable source.
//
// Three sources are supported, selected by PLAYBOOK_SECRETS_SOURCE:
//
//   - "env": values come from the environment / .env file and are already
//     present on the Config; nothing is fetched.
//   - "secretsmanager": a single AWS Secrets Manager secret holding the
//     values as a JSON object keyed by the environment variable names.
//   - "ssm": one AWS SSM Parameter Store SecureString per value under a
//     common path prefix.
//
// The source is consulted exactly once at startup; the fetched values are
// written onto the Config before Validate runs.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/playbook3d/render-bridge/internal/config"
)

// secretKeys are the configuration values a remote source may supply,
// named after their environment variables.
var secretKeys = []string{"ALIAS_URL", "USER_URL", "X_API_KEY", "BASE_URL", "WEBSOCKET_URL"}

// Source supplies secret-backed configuration values keyed by their
// environment variable names. Missing keys are simply absent from the map.
type Source interface {
	Fetch(ctx context.Context) (map[string]string, error)
}

// FromConfig builds the Source selected by cfg.SecretsSource.
func FromConfig(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.SecretsSource {
	case "", "env":
		return envSource{}, nil
	case "secretsmanager":
		if cfg.SecretName == "" {
			return nil, &config.MissingError{Keys: []string{"SECRET_NAME"}}
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return &SecretsManagerSource{
			client:     secretsmanager.NewFromConfig(awsCfg),
			secretName: cfg.SecretName,
		}, nil
	case "ssm":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return &ParameterStoreSource{
			client: ssm.NewFromConfig(awsCfg),
			prefix: cfg.SSMPrefix,
		}, nil
	}
	return nil, fmt.Errorf("unknown secrets source %q", cfg.SecretsSource)
}

// Apply fetches from the source and writes the values onto the config.
// Fetched values win over whatever the environment provided.
func Apply(ctx context.Context, cfg *config.Config, src Source) error {
	values, err := src.Fetch(ctx)
	if err != nil {
		return err
	}
	for key, value := range values {
		if value == "" {
			continue
		}
		switch key {
		case "ALIAS_URL":
			cfg.AliasURL = value
		case "USER_URL":
			cfg.UserURLTemplate = value
		case "X_API_KEY":
			cfg.XAPIKey = value
		case "BASE_URL":
			cfg.BaseURL = value
		case "WEBSOCKET_URL":
			cfg.WebsocketURL = value
		}
	}
	if cfg.WebsocketURL == "" {
		cfg.WebsocketURL = cfg.BaseURL
	}
	return nil
}

// envSource is the no-op source: config.Load already read the environment.
type envSource struct{}

func (envSource) Fetch(context.Context) (map[string]string, error) {
	return nil, nil
}

// secretsManagerAPI is the slice of the Secrets Manager client we use.
type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerSource reads a single JSON secret from AWS Secrets Manager.
type SecretsManagerSource struct {
	client     secretsManagerAPI
	secretName string
}

// Fetch retrieves and decodes the JSON secret.
func (s *SecretsManagerSource) Fetch(ctx context.Context) (map[string]string, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretName),
	})
	if err != nil {
		return nil, fmt.Errorf("get secret %s: %w", s.secretName, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", s.secretName)
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &values); err != nil {
		return nil, fmt.Errorf("parse secret %s as JSON: %w", s.secretName, err)
	}
	log.Debug().Str("secret", s.secretName).Int("keys", len(values)).Msg("Secret loaded from Secrets Manager")
	return values, nil
}

// ssmAPI is the slice of the SSM client we use.
type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParameterStoreSource reads one SecureString parameter per secret key
// under a common path prefix, e.g. /playbook/render-bridge/ALIAS_URL.
type ParameterStoreSource struct {
	client ssmAPI
	prefix string
}

// Fetch retrieves every known parameter. Parameters that do not exist are
// skipped; the config validation step reports anything still missing.
func (s *ParameterStoreSource) Fetch(ctx context.Context) (map[string]string, error) {
	prefix := s.prefix
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	values := make(map[string]string, len(secretKeys))
	for _, key := range secretKeys {
		name := prefix + key
		out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			log.Debug().Str("param", name).Err(err).Msg("Parameter not available, skipping")
			continue
		}
		if out.Parameter != nil && out.Parameter.Value != nil {
			values[key] = *out.Parameter.Value
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no parameters found under %s", prefix)
	}
	log.Debug().Str("prefix", prefix).Int("keys", len(values)).Msg("Secrets loaded from Parameter Store")
	return values, nil
}
