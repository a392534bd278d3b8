package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_SendsRequestAndReturnsContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "hyperion", payload["model"])
		assert.Equal(t, 0.7, payload["temperature"])
		assert.Equal(t, false, payload["stream"])
		msgs, _ := payload["messages"].([]any)
		require.Len(t, msgs, 1)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"here you go: []"}}]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "", "secret")
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), Request{Prompt: "p", Model: "hyperion", Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "here you go: []", out)
}

func TestComplete_UpstreamStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "/v1/chat/completions", "")
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), Request{Prompt: "p"})
	var se *StatusError
	require.True(t, errors.As(err, &se), "err=%v", err)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
}

func TestComplete_NoChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "", "")
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), Request{Prompt: "p"})
	require.ErrorIs(t, err, ErrNoChoices)
}

func TestComplete_HonoursContextDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(srv.URL, "", "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.Complete(ctx, Request{Prompt: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	t.Parallel()
	_, err := New("  ", "", "")
	require.Error(t, err)
}
