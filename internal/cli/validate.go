package cli

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/playbook3d/render-bridge/internal/auth"
)

// HandleAuthError processes auth.Error and exits with appropriate messaging.
func HandleAuthError(err error) {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		switch authErr.Kind {
		case auth.KindInvalidCredentialFormat:
			log.Fatal().Msg("API key must be a 36-character key from the web editor's settings page")
		case auth.KindTokenExchangeFailed:
			log.Fatal().Err(err).Int("status", authErr.Status).Msg("API key was rejected. Please check your key and try again")
		case auth.KindMalformedToken:
			log.Fatal().Err(err).Msg("Received an unreadable access token. Please try again later")
		case auth.KindProfileFetchFailed:
			log.Fatal().Err(err).Int("status", authErr.Status).Msg("Could not load your account profile")
		case auth.KindMalformedResponse:
			log.Fatal().Err(err).Msg("Account profile response was incomplete")
		default:
			log.Fatal().Err(err).Msg("Authentication failed")
		}
	} else {
		log.Fatal().Err(err).Msg("unexpected error during authentication")
	}
	os.Exit(1)
}
