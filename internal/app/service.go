package app

import (
	"context"

	"captioncraft/internal/app/model"
	"captioncraft/pkg/config"
)

type Normalizer interface {
	Normalize(ctx context.Context, input model.Input, apiKey string) (model.ContentSummary, error)
}

type Generator interface {
	Generate(ctx context.Context, req model.CaptionRequest, apiKey string) ([]model.CaptionResult, error)
	Regenerate(ctx context.Context, req model.CaptionRequest, apiKey string, exclude []string) (model.CaptionResult, error)
}

type InputLoader interface {
	Load(ctx context.Context, ref string) (model.Input, error)
}

type Service struct {
	cfg        *config.Config
	normalizer Normalizer
	generator  Generator
	loader     InputLoader
}

type ServiceOptions struct {
	Config     *config.Config
	Normalizer Normalizer
	Generator  Generator
	Loader     InputLoader
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		cfg:        opts.Config,
		normalizer: opts.Normalizer,
		generator:  opts.Generator,
		loader:     opts.Loader,
	}
}

func (s *Service) Config() *config.Config { return s.cfg }
func (s *Service) Normalizer() Normalizer { return s.normalizer }
func (s *Service) Generator() Generator { return s.generator }
func (s *Service) Loader() InputLoader { return s.loader }
