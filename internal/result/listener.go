// Package result waits for the terminal artifact of a submitted render
// job, either over the service's message stream or by polling the
// download-URL endpoint.
//
// The stream emits exactly one terminal state: a message whose status is
// "success", carrying the result image URL. Progress messages are
// ignored and malformed frames are logged and skipped; only connection
// failures and a structurally broken terminal message end the wait early.
package result

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"github.com/playbook3d/render-bridge/internal/config"
)

// RenderResult is the terminal artifact of a render job.
type RenderResult struct {
	ImageURL string
}

// streamMessage is the inbound stream frame. Only the success shape is
// modeled; anything else is ignored by status.
type streamMessage struct {
	Status string `json:"status"`
	Data   *struct {
		Outputs []struct {
			Data *struct {
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"data"`
		} `json:"outputs"`
	} `json:"data"`
}

// Listener waits on the persistent message stream.
type Listener struct {
	url     string
	timeout time.Duration
}

// NewListener creates a stream listener bound to the configured result
// endpoint and wait timeout.
func NewListener(cfg *config.Config) *Listener {
	return &Listener{url: cfg.WebsocketURL, timeout: cfg.ResultTimeout}
}

// Await opens the stream and blocks until the terminal success message
// arrives, the connection fails, or the wait timeout elapses. The caller
// may cancel at any time through ctx; the connection is closed on every
// exit path.
func (l *Listener) Await(ctx context.Context) (*RenderResult, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, l.url, nil)
	if err != nil {
		return nil, &Error{Kind: KindConnectionError, Message: "result stream dial failed", Err: err}
	}
	defer conn.CloseNow()

	log.Debug().Str("url", l.url).Dur("timeout", l.timeout).Msg("Listening for render result")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, &Error{Kind: KindConnectionError, Message: "timed out waiting for render result", Err: ctx.Err()}
			}
			if ctx.Err() != nil {
				return nil, &Error{Kind: KindConnectionError, Message: "result wait cancelled", Err: ctx.Err()}
			}
			return nil, &Error{Kind: KindConnectionError, Message: "result stream read failed", Err: err}
		}

		var msg streamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Int("bytes", len(data)).Msg("Skipping malformed stream message")
			continue
		}

		if msg.Status != "success" {
			log.Debug().Str("status", msg.Status).Msg("Ignoring non-terminal stream message")
			continue
		}

		res, err := extractResult(&msg)
		if err != nil {
			return nil, err
		}
		conn.Close(websocket.StatusNormalClosure, "result received")
		log.Info().Str("imageUrl", res.ImageURL).Msg("Render result received")
		return res, nil
	}
}

// extractResult pulls the image URL out of a terminal message.
func extractResult(msg *streamMessage) (*RenderResult, error) {
	if msg.Data == nil || len(msg.Data.Outputs) == 0 {
		return nil, &Error{Kind: KindMalformedResult, Message: "success message carries no outputs"}
	}
	out := msg.Data.Outputs[0]
	if out.Data == nil || len(out.Data.Images) == 0 || out.Data.Images[0].URL == "" {
		return nil, &Error{Kind: KindMalformedResult, Message: "success message carries no image URL"}
	}
	return &RenderResult{ImageURL: out.Data.Images[0].URL}, nil
}
