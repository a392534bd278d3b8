package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNoChoices = errors.New("completion: response has no choices")
)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion: upstream status %d: %s", e.StatusCode, e.Body)
}

// Request is a single non-streaming completion call.
type Request struct {
	Prompt      string
	Model       string
	Temperature float64
}

// Client talks to an OpenAI-style chat completions endpoint. The API key is
// server-side configuration and never leaves this process.
type Client struct {
	baseURL    string
	path       string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, path, apiKey string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("completion: base url required")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/v1/chat/completions"
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		baseURL:    baseURL,
		path:       path,
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient swaps the transport, mostly for tests.
func NewWithHTTPClient(baseURL, path, apiKey string, hc *http.Client) (*Client, error) {
	c, err := New(baseURL, path, apiKey)
	if err != nil {
		return nil, err
	}
	if hc != nil {
		c.httpClient = hc
	}
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete performs exactly one upstream call and returns the first choice's
// message content. Deadlines and cancellation come from ctx.
func (c *Client) Complete(ctx context.Context, in Request) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       in.Model,
		Messages:    []chatMessage{{Role: "user", Content: in.Prompt}},
		Temperature: in.Temperature,
		Stream:      false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("completion: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(raw)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return "", &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("completion: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrNoChoices
	}
	return out.Choices[0].Message.Content, nil
}
