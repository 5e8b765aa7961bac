package app

import (
	"net/http"

	"captioncraft/internal/caption"
	"captioncraft/internal/gemini"
	"captioncraft/internal/groq"
	"captioncraft/internal/normalize"
	"captioncraft/internal/pdf"
	"captioncraft/internal/source"
	"captioncraft/pkg/config"
	"captioncraft/pkg/prompts"
)

// BuildService wires the endpoint clients and pipeline stages from config.
// No credentials are captured; they are passed on every call.
func BuildService(cfg *config.Config) (*Service, error) {
	p, err := prompts.Load()
	if err != nil {
		return nil, err
	}

	summarizer := gemini.NewClient(
		gemini.WithModel(cfg.Gemini.Model),
		gemini.WithTemperature(cfg.Gemini.Temperature),
		gemini.WithTimeout(cfg.Gemini.Timeout),
	)

	completer := groq.NewClient(
		groq.WithModel(cfg.Groq.Model),
		groq.WithTimeout(cfg.Groq.Timeout),
	)

	normalizer := normalize.New(summarizer, pdf.HeuristicExtractor{}, p)

	generator := caption.NewGenerator(completer, p, caption.Settings{
		Temperature:           cfg.Groq.Temperature,
		RegenerateTemperature: cfg.Groq.RegenerateTemperature,
		MaxTokens:             cfg.Groq.MaxTokens,
	})

	loader := source.NewLoader(
		source.WithMaxBytes(cfg.Source.MaxBytes),
		source.WithHTTPClient(&http.Client{Timeout: cfg.Source.Timeout}),
		source.WithStorageEndpoint(cfg.Source.StorageEndpoint),
	)

	return NewService(ServiceOptions{
		Config:     cfg,
		Normalizer: normalizer,
		Generator:  generator,
		Loader:     loader,
	}), nil
}
