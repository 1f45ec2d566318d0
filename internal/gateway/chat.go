package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/suPer8Hu/journal-terminal/internal/ai"
	"github.com/suPer8Hu/journal-terminal/internal/sse"
)

type ChatRequest struct {
	SessionID string       `json:"session_id,omitempty"`
	Messages  []ai.Message `json:"messages"`
}

// Stream posts req to /chat/stream and delivers deltas until the done marker.
// Both channels are closed when the stream ends; errs carries at most one error.
func (c *Client) Stream(ctx context.Context, req ChatRequest) (<-chan string, <-chan error) {
	out := make(chan string, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		hreq, err := c.newRequest(ctx, http.MethodPost, "/chat/stream", req)
		if err != nil {
			errs <- err
			return
		}
		hreq.Header.Set("Accept", "text/event-stream")

		// streams outlive the default client timeout
		hc := *c.http
		hc.Timeout = 0
		resp, err := hc.Do(hreq)
		if err != nil {
			errs <- err
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			errs <- c.readErr(resp)
			return
		}

		err = sse.Read(ctx, resp.Body, func(s string) {
			select {
			case out <- s:
			case <-ctx.Done():
			}
		})
		if err != nil {
			errs <- err
		}
	}()

	return out, errs
}

func (c *Client) readErr(resp *http.Response) error {
	var env envelope
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	err := json.Unmarshal(raw, &env)
	return statusErr(resp.StatusCode, env, err, raw)
}

// Chat owns at most one in-flight stream. Starting a new one or calling Cancel aborts the
// previous stream.
type Chat struct {
	client *Client

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewChat(c *Client) *Chat {
	return &Chat{client: c}
}

// Send cancels any running stream and starts a new one bound to ctx.
func (ch *Chat) Send(ctx context.Context, req ChatRequest) (<-chan string, <-chan error) {
	sctx, cancel := context.WithCancel(ctx)

	ch.mu.Lock()
	if ch.cancel != nil {
		ch.cancel()
	}
	ch.cancel = cancel
	ch.mu.Unlock()

	return ch.client.Stream(sctx, req)
}

// Cancel aborts the in-flight stream, if any.
func (ch *Chat) Cancel() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.cancel != nil {
		ch.cancel()
		ch.cancel = nil
	}
}
