package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/suPer8Hu/journal-terminal/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

func collect(chunks <-chan string, errs <-chan error) (string, error) {
	var b strings.Builder
	for c := range chunks {
		b.WriteString(c)
	}
	return b.String(), <-errs
}

func TestOpenRouterStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": keepalive\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ignored\"}}]}\n\n")
	}))
	defer srv.Close()

	p := NewOpenRouterProvider(srv.URL, "key", "m", "", "")
	got, err := collect(p.StreamChat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}))
	require.NoError(t, err)
	assert.Equal(t, "Hello", got)
}

func TestOpenRouterChat_StatusErrors(t *testing.T) {
	for _, code := range []int{http.StatusTooManyRequests, http.StatusPaymentRequired} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", code)
		}))

		p := NewOpenRouterProvider(srv.URL, "key", "m", "", "")
		_, err := p.Chat(context.Background(), nil)
		srv.Close()

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, code, se.Code)
		assert.Equal(t, code == http.StatusTooManyRequests, IsRateLimited(err))
		assert.Equal(t, code == http.StatusPaymentRequired, IsCreditsExhausted(err))
	}
}

func TestOpenRouter_RequiresKey(t *testing.T) {
	p := NewOpenRouterProvider("", "", "m", "", "")
	_, err := p.Chat(context.Background(), nil)
	assert.Error(t, err)
}

func TestOllamaStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"a"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"b"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":""},"done":true}`)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama")
	got, err := collect(p.StreamChat(context.Background(), nil))
	require.NoError(t, err)
	assert.Equal(t, "ab", got)
}

func TestOllamaChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":{"role":"assistant","content":"pong"}}`)
	}))
	defer srv.Close()

	got, err := NewOllamaProvider(srv.URL, "").Chat(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", got)
}

func TestStreamChat_CancelledConsumerDoesNotLeak(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for i := 0; i < 100; i++ {
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n\n")
			flusher.Flush()
		}
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	p := NewOpenRouterProvider(srv.URL, "key", "m", "", "")
	chunks, errs := p.StreamChat(ctx, nil)

	<-chunks
	cancel()
	for range chunks {
	}
	err := <-errs
	assert.Error(t, err)
}

type chatOnly struct{ reply string }

func (c chatOnly) Chat(ctx context.Context, messages []Message) (string, error) { return c.reply, nil }

func TestStream_FallsBackToChat(t *testing.T) {
	got, err := collect(Stream(context.Background(), chatOnly{reply: "whole"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "whole", got)
}

func TestImagePrompt(t *testing.T) {
	p, err := ImagePrompt("Monitor")
	require.NoError(t, err)
	assert.Contains(t, p, "monitor")

	_, err = ImagePrompt("toaster")
	assert.ErrorIs(t, err, ErrUnknownImageKind)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(" Fake ", func(ctx context.Context, model string) (Provider, error) {
		return chatOnly{reply: model}, nil
	})

	p, err := reg.Get(context.Background(), "FAKE", "m1")
	require.NoError(t, err)
	got, _ := p.Chat(context.Background(), nil)
	assert.Equal(t, "m1", got)

	_, err = reg.Get(context.Background(), "other", "")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestRegistry_ValidateListsRegistered(t *testing.T) {
	reg := NewRegistryFromConfig(config.Config{})
	assert.Equal(t, []string{"ollama", "openai", "openrouter"}, reg.Names())

	require.NoError(t, reg.Validate(" OpenAI "))

	err := reg.Validate("olama")
	require.ErrorIs(t, err, ErrUnknownProvider)
	assert.Contains(t, err.Error(), `"olama"`)
	assert.Contains(t, err.Error(), "ollama, openai, openrouter")
}
