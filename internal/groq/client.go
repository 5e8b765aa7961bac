package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/conneroisu/groq-go"

	"captioncraft/internal/llm"
)

const (
	serviceName    = "Groq"
	defaultModel   = "llama-3.3-70b-versatile"
	defaultTimeout = 60 * time.Second
)

var _ llm.ChatCompleter = (*Client)(nil)

// Client calls the Groq chat completions API. The key is supplied per call.
type Client struct {
	model     groq.ChatModel
	timeout   time.Duration
	transport http.RoundTripper
	baseURL   string
}

type Option func(*Client)

func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = groq.ChatModel(model)
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		model:     defaultModel,
		timeout:   defaultTimeout,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Complete(ctx context.Context, apiKey string, req llm.ChatRequest) (string, error) {
	recorder := &statusRecorder{next: c.transport}
	opts := []groq.Opts{groq.WithClient(&http.Client{Timeout: c.timeout, Transport: recorder})}
	if c.baseURL != "" {
		opts = append(opts, groq.WithBaseURL(c.baseURL))
	}

	client, err := groq.NewClient(apiKey, opts...)
	if err != nil {
		return "", fmt.Errorf("create groq client: %w", err)
	}

	request := groq.ChatCompletionRequest{
		Model: c.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: req.System},
			{Role: groq.RoleUser, Content: req.User},
		},
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	}
	if req.JSON {
		request.ResponseFormat = &groq.ChatResponseFormat{Type: "json_object"}
	}

	resp, err := client.ChatCompletion(ctx, request)
	if err != nil {
		if recorder.status >= http.StatusBadRequest {
			return "", &llm.APIError{Service: serviceName, StatusCode: recorder.status, Message: recorder.message}
		}
		return "", fmt.Errorf("generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", &llm.APIError{Service: serviceName, StatusCode: http.StatusOK, Message: "Groq returned no choices"}
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", &llm.APIError{Service: serviceName, StatusCode: http.StatusOK, Message: "Groq returned an empty response"}
	}
	return content, nil
}

// statusRecorder keeps the status and error message of the last failed
// response so callers see what the endpoint said. A 5xx response becomes a
// transport error: groq-go re-sends 500 and 503 without any bound, and a
// failed call must reach the caller after one request.
type statusRecorder struct {
	next    http.RoundTripper
	status  int
	message string
}

func (r *statusRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req)
	if err != nil || resp.StatusCode < http.StatusBadRequest {
		return resp, err
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	r.status = resp.StatusCode
	if readErr == nil {
		r.message = errorMessage(body)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &llm.APIError{Service: serviceName, StatusCode: r.status, Message: r.message}
	}
	return resp, nil
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func errorMessage(body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	return errResp.Error.Message
}
