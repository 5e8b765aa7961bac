package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"captioncraft/internal/app"
	"captioncraft/internal/app/model"
	"captioncraft/pkg/config"
)

// resolveInput reads the positional source reference, or --text when none is given.
func resolveInput(ctx context.Context, pipeline *app.Pipeline, args []string, text string) (model.Input, error) {
	switch {
	case len(args) > 0 && text != "":
		return model.Input{}, errors.New("pass either a source or --text, not both")
	case len(args) > 0:
		return pipeline.Load(ctx, args[0])
	case text != "":
		return model.Input{Kind: model.InputText, Text: text}, nil
	}
	return model.Input{}, errors.New("please provide a source (file, URL, gs:// object or -) or --text")
}

// credentials returns the configured keys, asking for missing ones when
// interactive. Prompted keys live only for this invocation.
func credentials(cfg *config.Config, interactive, needGemini, needGroq bool) (app.Credentials, error) {
	creds := app.Credentials{Gemini: cfg.GeminiAPIKey, Groq: cfg.GroqAPIKey}
	if !interactive {
		return creds, nil
	}

	var fields []huh.Field
	if needGemini && creds.Gemini == "" {
		fields = append(fields, huh.NewInput().
			Title("Gemini API Key").
			Description("https://aistudio.google.com/app/apikey").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Gemini).
			Validate(required("Gemini API Key")))
	}
	if needGroq && creds.Groq == "" {
		fields = append(fields, huh.NewInput().
			Title("Groq API Key").
			Description("https://console.groq.com/keys").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Groq).
			Validate(required("Groq API Key")))
	}
	if len(fields) == 0 {
		return creds, nil
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return app.Credentials{}, err
	}
	creds.Gemini = strings.TrimSpace(creds.Gemini)
	creds.Groq = strings.TrimSpace(creds.Groq)
	return creds, nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func selectOptions(opts *app.RunOptions) error {
	platforms := make([]huh.Option[model.Platform], 0, len(model.Platforms()))
	for _, p := range model.Platforms() {
		platforms = append(platforms, huh.NewOption(string(p), p))
	}
	tones := make([]huh.Option[model.Tone], 0, len(model.Tones()))
	for _, t := range model.Tones() {
		tones = append(tones, huh.NewOption(string(t), t))
	}
	languages := make([]huh.Option[model.Language], 0, len(model.Languages()))
	for _, l := range model.Languages() {
		languages = append(languages, huh.NewOption(string(l), l))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.Platform]().Title("Platform").Options(platforms...).Value(&opts.Platform),
			huh.NewSelect[model.Tone]().Title("Tone").Options(tones...).Value(&opts.Tone),
			huh.NewSelect[model.Language]().Title("Language").Options(languages...).Value(&opts.Language),
		),
	).Run()
}
