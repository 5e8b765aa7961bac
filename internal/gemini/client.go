package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"captioncraft/internal/llm"
)

const (
	serviceName    = "Gemini"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 60 * time.Second
)

var _ llm.Summarizer = (*Client)(nil)

// Client calls the Gemini API with a caller-supplied key per request.
// A fresh genai client is built for every call.
type Client struct {
	model       string
	temperature float32
	httpClient  *http.Client
	baseURL     string
}

type Option func(*Client)

func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = float32(t) }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		model:       defaultModel,
		temperature: 0.4,
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GenerateText(ctx context.Context, apiKey, prompt string) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	return c.call(ctx, apiKey, parts)
}

func (c *Client) GenerateFromImage(ctx context.Context, apiKey, prompt string, image []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	parts := []*genai.Part{
		genai.NewPartFromBytes(image, mimeType),
		genai.NewPartFromText(prompt),
	}
	return c.call(ctx, apiKey, parts)
}

func (c *Client) call(ctx context.Context, apiKey string, parts []*genai.Part) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", toAPIError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &llm.APIError{Service: serviceName, StatusCode: http.StatusOK, Message: "Gemini returned an empty response"}
	}
	return text, nil
}

func toAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.APIError{Service: serviceName, StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &llm.APIError{Service: serviceName, StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return fmt.Errorf("generate: %w", err)
}
