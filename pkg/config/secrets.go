package config

import (
	"context"
	"fmt"
	"log/slog"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

type SecretSource interface {
	Access(ctx context.Context, name string) (string, error)
	Close() error
}

var newSecretSource = func(ctx context.Context, project string) (SecretSource, error) {
	return NewSecretManager(ctx, project)
}

type SecretManager struct {
	client  *secretmanager.Client
	project string
}

func NewSecretManager(ctx context.Context, project string) (*SecretManager, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create secret manager client: %w", err)
	}
	return &SecretManager{client: client, project: project}, nil
}

// Access returns the latest version of the named secret.
func (s *SecretManager) Access(ctx context.Context, name string) (string, error) {
	resp, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.project, name),
	})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	return string(resp.GetPayload().GetData()), nil
}

func (s *SecretManager) Close() error {
	return s.client.Close()
}

func loadSecrets(ctx context.Context, cfg *Config) error {
	if cfg.GCPProject == "" || (cfg.GeminiAPIKey != "" && cfg.GroqAPIKey != "") {
		return nil
	}

	source, err := newSecretSource(ctx, cfg.GCPProject)
	if err != nil {
		return err
	}
	defer source.Close()

	if cfg.GeminiAPIKey == "" {
		key, err := source.Access(ctx, cfg.Secrets.GeminiSecret)
		if err != nil {
			slog.Warn("Gemini API key not available from Secret Manager", "error", err)
		}
		cfg.GeminiAPIKey = key
	}
	if cfg.GroqAPIKey == "" {
		key, err := source.Access(ctx, cfg.Secrets.GroqSecret)
		if err != nil {
			slog.Warn("Groq API key not available from Secret Manager", "error", err)
		}
		cfg.GroqAPIKey = key
	}
	return nil
}
