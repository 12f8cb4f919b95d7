// Package config provides application configuration through environment variables.
//
// The configuration is built once at startup and passed by reference into
// every component that needs it; business logic never reads the ambient
// environment directly. Secret-backed values (alias URL, user URL, x-api-key,
// base URL) may be populated from a remote secret source before Validate is
// called — see the secrets package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all bridge configuration.
type Config struct {
	// AliasURL is the token-issuance endpoint; the API key is appended
	// directly to it.
	AliasURL string
	// UserURLTemplate is the per-user profile endpoint with a '*'
	// placeholder for the username.
	UserURLTemplate string
	// XAPIKey is the application-level key sent in the x-api-key header.
	XAPIKey string
	// BaseURL is the render service base URL (uploads and job submission).
	BaseURL string
	// WebsocketURL is the result-stream endpoint. Defaults to BaseURL.
	WebsocketURL string

	// APIKey is the user's Playbook API key (36 characters).
	APIKey string
	// TeamID is the resolved team the renders are billed to.
	TeamID string

	// HTTPTimeout bounds each request/response call.
	HTTPTimeout time.Duration
	// ResultTimeout bounds the wait for a terminal render result.
	ResultTimeout time.Duration

	// SecretsSource selects where secret-backed values come from:
	// "env", "secretsmanager", or "ssm".
	SecretsSource string
	// SecretName is the AWS Secrets Manager secret id holding the
	// endpoint values as a JSON object.
	SecretName string
	// SSMPrefix is the Parameter Store path prefix for per-key parameters.
	SSMPrefix string
	// AWSRegion is the region for the remote secret backends.
	AWSRegion string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		AliasURL:        env.GetString("ALIAS_URL", ""),
		UserURLTemplate: env.GetString("USER_URL", ""),
		XAPIKey:         env.GetString("X_API_KEY", ""),
		BaseURL:         env.GetString("BASE_URL", ""),
		WebsocketURL:    env.GetString("WEBSOCKET_URL", env.GetString("BASE_URL", "")),

		APIKey: env.GetString("PLAYBOOK_API_KEY", ""),
		TeamID: env.GetString("PLAYBOOK_TEAM_ID", ""),

		HTTPTimeout:   env.GetDuration("PLAYBOOK_HTTP_TIMEOUT_SECONDS", 30, time.Second),
		ResultTimeout: env.GetDuration("PLAYBOOK_RESULT_TIMEOUT_SECONDS", 300, time.Second),

		SecretsSource: env.GetString("PLAYBOOK_SECRETS_SOURCE", "env"),
		SecretName:    env.GetString("SECRET_NAME", ""),
		SSMPrefix:     env.GetString("PLAYBOOK_SSM_PREFIX", "/playbook/render-bridge/"),
		AWSRegion:     env.GetString("AWS_REGION", "us-east-2"),

		LogLevel: env.GetString("PLAYBOOK_LOG_LEVEL", "info"),
	}
}

// MissingError reports required configuration values that are absent.
// It is raised before any I/O and is not retryable.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Keys, ", "))
}

// Validate checks that every endpoint value a session needs is present.
// Call it after the secret source has been applied.
func (c *Config) Validate() error {
	var missing []string
	if c.AliasURL == "" {
		missing = append(missing, "ALIAS_URL")
	}
	if c.UserURLTemplate == "" {
		missing = append(missing, "USER_URL")
	}
	if c.XAPIKey == "" {
		missing = append(missing, "X_API_KEY")
	}
	if c.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}
	if len(missing) > 0 {
		return &MissingError{Keys: missing}
	}
	return nil
}

// loadDotEnv searches for a .env file starting from the current directory
// and walking up the tree, loading the first one found.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
