package result

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/playbook3d/render-bridge/internal/auth"
	"github.com/playbook3d/render-bridge/internal/config"
)

const successFrame = `{
	"status": "success",
	"data": {
		"outputs": [
			{"data": {"images": [{"url": "https://x/y.png"}]}}
		]
	}
}`

// streamServer serves one websocket connection and writes the given
// frames in order, then holds the connection open.
func streamServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		ctx := r.Context()
		for _, frame := range frames {
			if err := conn.Write(ctx, websocket.MessageText, []byte(frame)); err != nil {
				return
			}
		}
		// Keep the connection open until the client closes it.
		conn.Read(ctx)
	}))
}

func listenerFor(srvURL string, timeout time.Duration) *Listener {
	return NewListener(&config.Config{WebsocketURL: srvURL, ResultTimeout: timeout})
}

func TestAwaitSkipsNoiseUntilSuccess(t *testing.T) {
	srv := streamServer(t, []string{
		"not json",
		`{"status": "pending"}`,
		successFrame,
	})
	defer srv.Close()

	res, err := listenerFor(srv.URL, 5*time.Second).Await(context.Background())
	if err != nil {
		t.Fatalf("Await returned error: %v", err)
	}
	if res.ImageURL != "https://x/y.png" {
		t.Errorf("ImageURL = %q, want %q", res.ImageURL, "https://x/y.png")
	}
}

func TestAwaitMalformedTerminalMessage(t *testing.T) {
	cases := []struct {
		name  string
		frame string
	}{
		{"no data", `{"status": "success"}`},
		{"empty outputs", `{"status": "success", "data": {"outputs": []}}`},
		{"no images", `{"status": "success", "data": {"outputs": [{"data": {"images": []}}]}}`},
		{"empty url", `{"status": "success", "data": {"outputs": [{"data": {"images": [{"url": ""}]}}]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := streamServer(t, []string{tc.frame})
			defer srv.Close()

			_, err := listenerFor(srv.URL, 5*time.Second).Await(context.Background())
			var resErr *Error
			if !errors.As(err, &resErr) {
				t.Fatalf("Await error = %v, want *Error", err)
			}
			if resErr.Kind != KindMalformedResult {
				t.Errorf("Kind = %v, want %v", resErr.Kind, KindMalformedResult)
			}
		})
	}
}

func TestAwaitDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no stream here", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := listenerFor(srv.URL, 2*time.Second).Await(context.Background())
	var resErr *Error
	if !errors.As(err, &resErr) {
		t.Fatalf("Await error = %v, want *Error", err)
	}
	if resErr.Kind != KindConnectionError {
		t.Errorf("Kind = %v, want %v", resErr.Kind, KindConnectionError)
	}
}

func TestAwaitTimesOutWithoutTerminalMessage(t *testing.T) {
	srv := streamServer(t, []string{`{"status": "pending"}`})
	defer srv.Close()

	start := time.Now()
	_, err := listenerFor(srv.URL, 200*time.Millisecond).Await(context.Background())
	var resErr *Error
	if !errors.As(err, &resErr) {
		t.Fatalf("Await error = %v, want *Error", err)
	}
	if resErr.Kind != KindConnectionError {
		t.Errorf("Kind = %v, want %v", resErr.Kind, KindConnectionError)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error does not unwrap to DeadlineExceeded: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Await blocked %v past its deadline", elapsed)
	}
}

func pollTokens(raw string) *auth.TokenStore {
	tokens := auth.NewTokenStore()
	tokens.Set(&auth.Token{Raw: raw, Username: "alice"})
	return tokens
}

func TestPollerReturnsResultAfterRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if got := r.URL.Query().Get("filename"); got != "renders/run-1.png" {
			t.Errorf("filename = %q, want %q", got, "renders/run-1.png")
		}
		if got := r.Header.Get("Authorization"); got != "poll-token" {
			t.Errorf("Authorization = %q, want %q", got, "poll-token")
		}
		if got := r.Header.Get("x-api-key"); got != "app-key" {
			t.Errorf("x-api-key = %q, want %q", got, "app-key")
		}
		if calls < 3 {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"save_result": "https://x/y.png"})
	}))
	defer srv.Close()

	p := NewPoller(&config.Config{
		BaseURL:       srv.URL,
		XAPIKey:       "app-key",
		HTTPTimeout:   time.Second,
		ResultTimeout: 10 * time.Second,
	}, pollTokens("poll-token"))
	p.interval = time.Millisecond

	res, err := p.Await(context.Background(), "renders/run-1.png")
	if err != nil {
		t.Fatalf("Await returned error: %v", err)
	}
	if res.ImageURL != "https://x/y.png" {
		t.Errorf("ImageURL = %q, want %q", res.ImageURL, "https://x/y.png")
	}
	if calls != 3 {
		t.Errorf("poll calls = %d, want 3", calls)
	}
}

func TestPollerTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := NewPoller(&config.Config{
		BaseURL:       srv.URL,
		XAPIKey:       "app-key",
		HTTPTimeout:   time.Second,
		ResultTimeout: 50 * time.Millisecond,
	}, pollTokens("poll-token"))
	p.interval = 10 * time.Millisecond

	_, err := p.Await(context.Background(), "renders/run-1.png")
	var resErr *Error
	if !errors.As(err, &resErr) {
		t.Fatalf("Await error = %v, want *Error", err)
	}
	if resErr.Kind != KindConnectionError {
		t.Errorf("Kind = %v, want %v", resErr.Kind, KindConnectionError)
	}
}
