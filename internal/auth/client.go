// Package auth exchanges a long-lived Playbook API key for a short-lived
// access token and resolves the account profile behind it.
//
// The exchange is two hops: GET {aliasURL}{apiKey} issues a JWT, whose
// payload claims identify the user; GET {userURL} (with the username
// substituted into the template) returns the profile. Tokens are not
// refreshed automatically — every authentication-dependent operation
// requests a fresh one.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/playbook3d/render-bridge/internal/config"
)

// apiKeyLength is the exact length of a well-formed Playbook API key.
const apiKeyLength = 36

// UserProfile is a point-in-time snapshot of the account behind an API
// key. It is fetched per authentication call and never cached; the credit
// balance is stale the moment it is read.
type UserProfile struct {
	Email   string
	Credits float64
}

// Client authenticates API keys against the Playbook accounts service.
type Client struct {
	httpClient      *http.Client
	aliasURL        string
	userURLTemplate string
	xAPIKey         string
	tokens          *TokenStore
}

// NewClient creates an authentication client. Every successful exchange
// stores the issued token in tokens.
func NewClient(cfg *config.Config, tokens *TokenStore) *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: cfg.HTTPTimeout},
		aliasURL:        cfg.AliasURL,
		userURLTemplate: cfg.UserURLTemplate,
		xAPIKey:         cfg.XAPIKey,
		tokens:          tokens,
	}
}

// tokenResponse is the token-issuance endpoint response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// profileResponse is the per-user profile endpoint response. Pointer
// fields distinguish absent from zero-valued.
type profileResponse struct {
	Email     *string `json:"email"`
	UsersTier *struct {
		Credits *float64 `json:"credits"`
	} `json:"users_tier"`
}

// Authenticate exchanges the API key for an access token, stores it, and
// returns the account profile. The key format is checked before any
// network activity.
func (c *Client) Authenticate(ctx context.Context, apiKey string) (*UserProfile, error) {
	if len(apiKey) != apiKeyLength {
		return nil, &Error{
			Kind:    KindInvalidCredentialFormat,
			Message: fmt.Sprintf("API key must be %d characters, got %d", apiKeyLength, len(apiKey)),
		}
	}

	token, err := c.exchangeToken(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	c.tokens.Set(token)

	profile, err := c.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	log.Info().Str("email", profile.Email).Float64("credits", profile.Credits).Msg("Authenticated with Playbook")
	return profile, nil
}

// Validate reports whether the API key authenticates successfully. A key
// of the wrong length short-circuits to false with zero network calls.
// Callers that need the profile should call Authenticate directly rather
// than validating first; Validate performs the same round trips.
func (c *Client) Validate(ctx context.Context, apiKey string) bool {
	if len(apiKey) != apiKeyLength {
		return false
	}
	_, err := c.Authenticate(ctx, apiKey)
	if err != nil {
		log.Debug().Err(err).Msg("API key validation failed")
	}
	return err == nil
}

// exchangeToken calls the token-issuance endpoint and decodes the issued
// token's claims.
func (c *Client) exchangeToken(ctx context.Context, apiKey string) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.aliasURL+apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTokenExchangeFailed, Message: "token exchange request failed", Err: err}
	}
	defer resp.Body.Close()
	log.Debug().Int("statusCode", resp.StatusCode).Dur("duration", time.Since(start)).Msg("Token exchange response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Kind: KindTokenExchangeFailed, Status: resp.StatusCode, Message: "token exchange failed"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &Error{Kind: KindMalformedToken, Message: "token response is not valid JSON", Err: err}
	}
	if tr.AccessToken == "" {
		return nil, &Error{Kind: KindMalformedToken, Message: "token response carries no access_token"}
	}

	return DecodeToken(tr.AccessToken)
}

// DecodeToken parses the claims out of a JWT's payload segment without
// verifying the signature; the bridge is a client of the issuer, not a
// validator. The segment is URL-safe base64; the parser restores padding.
func DecodeToken(raw string) (*Token, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, &Error{Kind: KindMalformedToken, Message: "access token payload did not decode", Err: err}
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return nil, &Error{Kind: KindMalformedToken, Message: "access token claims carry no username"}
	}

	token := &Token{Raw: raw, Claims: claims, Username: username}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		token.ExpiresAt = exp.Time
	}
	return token, nil
}

// fetchProfile resolves the account profile for the token's user.
func (c *Client) fetchProfile(ctx context.Context, token *Token) (*UserProfile, error) {
	url := strings.Replace(c.userURLTemplate, "*", token.Username, 1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Authorization", token.Raw)
	req.Header.Set("x-api-key", c.xAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindProfileFetchFailed, Message: "profile request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Kind: KindProfileFetchFailed, Status: resp.StatusCode, Message: "profile fetch failed"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read profile response: %w", err)
	}

	var pr profileResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: "profile response is not valid JSON", Err: err}
	}
	if pr.Email == nil || pr.UsersTier == nil || pr.UsersTier.Credits == nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: "profile response is missing email or users_tier.credits"}
	}

	return &UserProfile{Email: *pr.Email, Credits: *pr.UsersTier.Credits}, nil
}
