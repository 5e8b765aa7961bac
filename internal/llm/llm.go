package llm

import (
	"context"
	"fmt"
)

// Summarizer is the vision-capable summarization endpoint. Credentials are
// passed per call; implementations hold no session state.
type Summarizer interface {
	GenerateText(ctx context.Context, apiKey, prompt string) (string, error)
	GenerateFromImage(ctx context.Context, apiKey, prompt string, image []byte, mimeType string) (string, error)
}

// ChatCompleter is the chat-style text generation endpoint.
type ChatCompleter interface {
	Complete(ctx context.Context, apiKey string, req ChatRequest) (string, error)
}

type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	JSON        bool
}

// APIError is a failed remote call. Error returns the endpoint-supplied
// message when there is one.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s error: %d", e.Service, e.StatusCode)
}
