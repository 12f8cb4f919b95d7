// Package assets moves render-pass images into the render service's
// asset store via single-use pre-signed URLs.
//
// Each pass is handled independently: request a write location, PUT the
// raw bytes, request the matching read location. Upload is best-effort
// per item — a failing pass is logged and omitted from the result — and
// fails as a whole only when no pass made it through. Pre-signed URLs
// are time-limited and never persisted across sessions.
package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/playbook3d/render-bridge/internal/auth"
	"github.com/playbook3d/render-bridge/internal/config"
)

const (
	uploadURLPath   = "/upload-assets/get-upload-urls"
	downloadURLPath = "/upload-assets/get-download-urls"
)

// Uploader pushes render passes to the service's asset store.
type Uploader struct {
	httpClient *http.Client
	baseURL    string
	xAPIKey    string
	tokens     *auth.TokenStore
}

// NewUploader creates an asset uploader. Authorization headers on the
// URL-issuing calls come from the token store; the PUT itself carries
// none, the pre-signed URL is the credential.
func NewUploader(cfg *config.Config, tokens *auth.TokenStore) *Uploader {
	return &Uploader{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:    cfg.BaseURL,
		xAPIKey:    cfg.XAPIKey,
		tokens:     tokens,
	}
}

// UploadRequest is a batch of render passes destined for one render job.
// Team and Workflow must be resolved (non-empty, not the "NONE" menu
// sentinel) before any upload happens.
type UploadRequest struct {
	Team     string
	Workflow string
	Passes   map[string][]byte
}

// unselected is the host menu's placeholder value for an unresolved choice.
const unselected = "NONE"

// urlResponse is the shape of both URL-issuing endpoints.
type urlResponse struct {
	SaveResult string `json:"save_result"`
}

// Upload pushes every pass and returns passName -> download URL for the
// ones that succeeded. Per-pass failures are logged and skipped; the
// error is non-nil only for a precondition violation or when zero passes
// succeeded.
func (u *Uploader) Upload(ctx context.Context, req UploadRequest) (map[string]string, error) {
	if req.Team == "" || req.Team == unselected {
		return nil, &Error{Kind: KindSelectionRequired, Message: "no team selected"}
	}
	if req.Workflow == "" || req.Workflow == unselected {
		return nil, &Error{Kind: KindSelectionRequired, Message: "no workflow selected"}
	}

	// Sorted pass order keeps logs and server interaction deterministic.
	names := make([]string, 0, len(req.Passes))
	for name := range req.Passes {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names))
	var lastErr error
	for _, name := range names {
		downloadURL, err := u.uploadPass(ctx, name, req.Passes[name])
		if err != nil {
			log.Warn().Str("pass", name).Err(err).Msg("Render pass upload failed, skipping")
			lastErr = err
			continue
		}
		results[name] = downloadURL
	}

	if len(results) == 0 && len(names) > 0 {
		return nil, &Error{Kind: KindAllUploadsFailed, Message: "all render pass uploads failed", Err: lastErr}
	}
	log.Info().Int("uploaded", len(results)).Int("requested", len(names)).Msg("Render passes uploaded")
	return results, nil
}

// uploadPass moves a single pass: upload URL, PUT, download URL.
func (u *Uploader) uploadPass(ctx context.Context, name string, data []byte) (string, error) {
	uploadURL, err := u.fetchURL(ctx, uploadURLPath, name, KindGetUploadURLFailed)
	if err != nil {
		return "", err
	}

	if err := u.put(ctx, name, uploadURL, data); err != nil {
		return "", err
	}

	return u.fetchURL(ctx, downloadURLPath, name, KindGetDownloadURLFailed)
}

// fetchURL asks the service for a pre-signed location for the named pass.
func (u *Uploader) fetchURL(ctx context.Context, path, pass string, failKind ErrorKind) (string, error) {
	endpoint := fmt.Sprintf("%s%s?filename=%s", u.baseURL, path, url.QueryEscape(pass))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build URL request: %w", err)
	}
	if token := u.tokens.Current(); token != nil {
		req.Header.Set("Authorization", token.Raw)
	}
	req.Header.Set("x-api-key", u.xAPIKey)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", &Error{Kind: failKind, Pass: pass, Message: "URL request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{Kind: failKind, Pass: pass, Status: resp.StatusCode, Message: "URL request rejected"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read URL response: %w", err)
	}

	var ur urlResponse
	if err := json.Unmarshal(body, &ur); err != nil {
		return "", &Error{Kind: failKind, Pass: pass, Message: "URL response is not valid JSON", Err: err}
	}
	if ur.SaveResult == "" {
		return "", &Error{Kind: failKind, Pass: pass, Message: "URL response carries no save_result"}
	}
	return ur.SaveResult, nil
}

// put pushes the raw image bytes to the pre-signed location.
func (u *Uploader) put(ctx context.Context, pass, target string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build PUT request: %w", err)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindPutFailed, Pass: pass, Message: "PUT failed", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Kind: KindPutFailed, Pass: pass, Status: resp.StatusCode, Message: "PUT rejected"}
	}
	log.Debug().Str("pass", pass).Int("bytes", len(data)).Msg("Render pass stored")
	return nil
}
