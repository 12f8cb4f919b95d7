package result

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/playbook3d/render-bridge/internal/auth"
	"github.com/playbook3d/render-bridge/internal/config"
)

// Poll settings: exponential backoff 5s, 10s, 20s, 30s (max).
const (
	initialPollInterval = 5 * time.Second
	maxPollInterval     = 30 * time.Second
)

// Poller retrieves the result artifact by polling the download-URL
// endpoint until the named artifact becomes available. It is the
// fallback when the message stream is unavailable to the host.
type Poller struct {
	httpClient *http.Client
	baseURL    string
	xAPIKey    string
	tokens     *auth.TokenStore
	timeout    time.Duration
	interval   time.Duration
}

// NewPoller creates a result poller. The download-URL endpoint enforces
// the same authorization as the upload flow, so polls carry the current
// token and the application x-api-key.
func NewPoller(cfg *config.Config, tokens *auth.TokenStore) *Poller {
	return &Poller{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:    cfg.BaseURL,
		xAPIKey:    cfg.XAPIKey,
		tokens:     tokens,
		timeout:    cfg.ResultTimeout,
		interval:   initialPollInterval,
	}
}

// Await polls for the named result artifact until a download URL is
// issued or the wait timeout elapses. Transient poll errors are logged
// and retried.
func (p *Poller) Await(ctx context.Context, artifact string) (*RenderResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	interval := p.interval
	for {
		resultURL, err := p.poll(ctx, artifact)
		if err != nil {
			log.Debug().Str("artifact", artifact).Err(err).Msg("Result poll error, retrying")
		} else if resultURL != "" {
			log.Info().Str("imageUrl", resultURL).Msg("Render result available")
			return &RenderResult{ImageURL: resultURL}, nil
		}

		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return nil, &Error{Kind: KindConnectionError, Message: "timed out polling for render result", Err: ctx.Err()}
			}
			return nil, &Error{Kind: KindConnectionError, Message: "result poll cancelled", Err: ctx.Err()}
		case <-time.After(interval):
		}

		interval *= 2
		if interval > maxPollInterval {
			interval = maxPollInterval
		}
	}
}

// poll asks for a download URL once; an empty URL means not ready yet.
func (p *Poller) poll(ctx context.Context, artifact string) (string, error) {
	endpoint := fmt.Sprintf("%s/upload-assets/get-download-urls?filename=%s", p.baseURL, url.QueryEscape(artifact))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build poll request: %w", err)
	}
	if token := p.tokens.Current(); token != nil {
		req.Header.Set("Authorization", token.Raw)
	}
	req.Header.Set("x-api-key", p.xAPIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil // not ready
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("poll rejected with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read poll response: %w", err)
	}
	var ur struct {
		SaveResult string `json:"save_result"`
	}
	if err := json.Unmarshal(body, &ur); err != nil {
		return "", fmt.Errorf("parse poll response: %w", err)
	}
	return ur.SaveResult, nil
}
