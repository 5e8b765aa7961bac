package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"captioncraft/internal/app/model"
)

// Credentials are the per-call API keys. They are never stored.
type Credentials struct {
	Gemini string
	Groq   string
}

type Pipeline struct {
	service *Service
}

type RunOptions struct {
	Platform model.Platform
	Tone     model.Tone
	Language model.Language
}

type RunResult struct {
	Summary  model.ContentSummary
	Request  model.CaptionRequest
	Captions []model.CaptionResult
}

// ParseRunOptions validates the platform, tone and language names.
func ParseRunOptions(platform, tone, language string) (RunOptions, error) {
	p, err := model.ParsePlatform(platform)
	if err != nil {
		return RunOptions{}, err
	}
	t, err := model.ParseTone(tone)
	if err != nil {
		return RunOptions{}, err
	}
	l, err := model.ParseLanguage(language)
	if err != nil {
		return RunOptions{}, err
	}
	return RunOptions{Platform: p, Tone: t, Language: l}, nil
}

func NewPipeline(service *Service) *Pipeline {
	return &Pipeline{service: service}
}

func (pipeline *Pipeline) Load(ctx context.Context, ref string) (model.Input, error) {
	return pipeline.service.Loader().Load(ctx, ref)
}

func (pipeline *Pipeline) Normalize(ctx context.Context, input model.Input, creds Credentials) (model.ContentSummary, error) {
	return pipeline.service.Normalizer().Normalize(ctx, input, creds.Gemini)
}

func (pipeline *Pipeline) Generate(ctx context.Context, req model.CaptionRequest, creds Credentials) ([]model.CaptionResult, error) {
	return pipeline.service.Generator().Generate(ctx, req, creds.Groq)
}

func (pipeline *Pipeline) Regenerate(ctx context.Context, req model.CaptionRequest, creds Credentials, exclude []string) (model.CaptionResult, error) {
	return pipeline.service.Generator().Regenerate(ctx, req, creds.Groq, exclude)
}

// Run normalizes the input and then generates captions from the summary.
func (pipeline *Pipeline) Run(ctx context.Context, input model.Input, opts RunOptions, creds Credentials) (*RunResult, error) {
	if strings.TrimSpace(creds.Groq) == "" {
		return nil, &model.ValidationError{Message: "A Groq API key is required to generate captions."}
	}

	summary, err := pipeline.Normalize(ctx, input, creds)
	if err != nil {
		return nil, err
	}
	slog.Info("Content normalized", "main_idea", summary.MainIdea, "bullets", len(summary.BulletPoints))

	req := model.CaptionRequest{
		Platform: opts.Platform,
		Tone:     opts.Tone,
		Language: opts.Language,
		Summary:  &summary,
	}
	if input.Kind == model.InputText {
		req.Content = strings.TrimSpace(input.Text)
	}

	captions, err := pipeline.Generate(ctx, req, creds)
	if err != nil {
		return nil, err
	}

	return &RunResult{Summary: summary, Request: req, Captions: captions}, nil
}

// RegenerateAt replaces the caption at index with a new variant that differs
// from every caption currently in the session.
func (pipeline *Pipeline) RegenerateAt(ctx context.Context, s *Session, index int, creds Credentials) (model.CaptionResult, error) {
	if index < 0 || index >= len(s.Captions) {
		return model.CaptionResult{}, &model.ValidationError{Message: fmt.Sprintf("no caption at position %d", index+1)}
	}

	result, err := pipeline.Regenerate(ctx, s.Request, creds, s.Texts())
	if err != nil {
		return model.CaptionResult{}, err
	}

	s.Captions[index] = result
	return result, nil
}
