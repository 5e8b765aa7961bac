package caption

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"captioncraft/internal/app/model"
	"captioncraft/internal/llm"
	"captioncraft/pkg/prompts"
)

const (
	VariantCount       = 3
	hookLineCount      = 2
	maxExclusionLength = 100
)

type Settings struct {
	Temperature           float64
	RegenerateTemperature float64
	MaxTokens             int
}

func DefaultSettings() Settings {
	return Settings{
		Temperature:           0.8,
		RegenerateTemperature: 1.0,
		MaxTokens:             2048,
	}
}

type Generator struct {
	completer llm.ChatCompleter
	prompts   *prompts.Prompts
	settings  Settings
	now       func() time.Time
}

func NewGenerator(completer llm.ChatCompleter, p *prompts.Prompts, settings Settings) *Generator {
	return &Generator{
		completer: completer,
		prompts:   p,
		settings:  settings,
		now:       time.Now,
	}
}

type captionPayload struct {
	Text      string   `json:"text"`
	HookLines []string `json:"hookLines"`
	CTA       string   `json:"cta"`
	Hashtags  []string `json:"hashtags"`
}

type captionsPayload struct {
	Captions []captionPayload `json:"captions"`
}

// regeneratePayload accepts the requested single object and, leniently, a
// {"caption": {...}} wrapper or a captions array.
type regeneratePayload struct {
	captionPayload
	Caption  *captionPayload  `json:"caption"`
	Captions []captionPayload `json:"captions"`
}

// Generate returns VariantCount caption variants for the request.
func (g *Generator) Generate(ctx context.Context, req model.CaptionRequest, apiKey string) ([]model.CaptionResult, error) {
	if err := validate(req, apiKey); err != nil {
		return nil, err
	}

	prompt, err := g.basePrompt(req)
	if err != nil {
		return nil, err
	}

	slog.Info("Generating captions...", "platform", req.Platform, "tone", req.Tone, "language", req.Language)

	raw, err := g.completer.Complete(ctx, apiKey, llm.ChatRequest{
		System:      g.prompts.System.Captioner,
		User:        prompt,
		Temperature: g.settings.Temperature,
		MaxTokens:   g.settings.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, &model.GenerationError{Message: err.Error(), Err: err}
	}
	slog.Debug("Caption response", "raw", raw)

	parsed, ok := llm.Parse[captionsPayload](raw).Parsed()
	if !ok {
		return nil, &model.GenerationError{Message: "Could not read captions from the model response. Please try again."}
	}

	var usable []captionPayload
	for _, c := range parsed.Captions {
		if strings.TrimSpace(c.Text) != "" {
			usable = append(usable, c)
		}
	}
	if len(usable) < VariantCount {
		return nil, &model.GenerationError{
			Message: fmt.Sprintf("Expected %d captions but the model returned %d. Please try again.", VariantCount, len(usable)),
		}
	}

	stamp := g.now().UnixMilli()
	results := make([]model.CaptionResult, 0, VariantCount)
	for i, c := range usable[:VariantCount] {
		results = append(results, toResult(c, fmt.Sprintf("%d-%d-%s", stamp, i, idSuffix())))
	}
	return results, nil
}

// Regenerate returns one caption that differs from every excluded text.
func (g *Generator) Regenerate(ctx context.Context, req model.CaptionRequest, apiKey string, exclude []string) (model.CaptionResult, error) {
	if err := validate(req, apiKey); err != nil {
		return model.CaptionResult{}, err
	}

	base, err := g.basePrompt(req)
	if err != nil {
		return model.CaptionResult{}, err
	}

	exclusions := make([]string, 0, len(exclude))
	for _, text := range exclude {
		if text = strings.TrimSpace(text); text != "" {
			exclusions = append(exclusions, truncate(text, maxExclusionLength))
		}
	}

	prompt, err := g.prompts.RenderRegenerate(prompts.RegenerateParams{
		Base:       base,
		Exclusions: exclusions,
		Hashtags:   req.Platform.UsesHashtags(),
	})
	if err != nil {
		return model.CaptionResult{}, fmt.Errorf("render prompt: %w", err)
	}

	slog.Info("Regenerating caption...", "platform", req.Platform, "excluded", len(exclusions))

	raw, err := g.completer.Complete(ctx, apiKey, llm.ChatRequest{
		System:      g.prompts.System.Captioner,
		User:        prompt,
		Temperature: g.settings.RegenerateTemperature,
		MaxTokens:   g.settings.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		return model.CaptionResult{}, &model.GenerationError{Message: err.Error(), Err: err}
	}
	slog.Debug("Regenerate response", "raw", raw)

	parsed, ok := llm.Parse[regeneratePayload](raw).Parsed()
	if !ok {
		return model.CaptionResult{}, &model.GenerationError{Message: "Could not read the new caption from the model response. Please try again."}
	}

	payload := parsed.captionPayload
	if strings.TrimSpace(payload.Text) == "" && parsed.Caption != nil {
		payload = *parsed.Caption
	}
	if strings.TrimSpace(payload.Text) == "" && len(parsed.Captions) > 0 {
		payload = parsed.Captions[0]
	}
	if strings.TrimSpace(payload.Text) == "" {
		return model.CaptionResult{}, &model.GenerationError{Message: "The model returned an empty caption. Please try again."}
	}

	for _, text := range exclude {
		if strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(payload.Text)) {
			return model.CaptionResult{}, &model.GenerationError{Message: "The model repeated an existing caption. Please try again."}
		}
	}

	id := fmt.Sprintf("%d-regen-%s", g.now().UnixMilli(), idSuffix())
	return toResult(payload, id), nil
}

func (g *Generator) basePrompt(req model.CaptionRequest) (string, error) {
	params := prompts.CaptionParams{
		Platform:      string(req.Platform),
		PlatformGuide: platformGuide(req.Platform),
		Tone:          string(req.Tone),
		ToneGuide:     toneGuide(req.Tone),
		Language:      string(req.Language),
		LanguageGuide: languageGuide(req.Language),
		Count:         VariantCount,
		Hashtags:      req.Platform.UsesHashtags(),
	}

	if req.Summary != nil && strings.TrimSpace(req.Summary.MainIdea) != "" {
		params.MainIdea = req.Summary.MainIdea
		params.BulletPoints = req.Summary.BulletPoints
		params.Keywords = req.Summary.Keywords
	} else {
		params.Content = req.SourceText()
	}

	prompt, err := g.prompts.RenderCaption(params)
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return prompt, nil
}

func validate(req model.CaptionRequest, apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return &model.ValidationError{Message: "A Groq API key is required to generate captions."}
	}
	if !req.Platform.Valid() {
		return &model.ValidationError{Message: fmt.Sprintf("unsupported platform %q", req.Platform)}
	}
	if !req.Tone.Valid() {
		return &model.ValidationError{Message: fmt.Sprintf("unsupported tone %q", req.Tone)}
	}
	if !req.Language.Valid() {
		return &model.ValidationError{Message: fmt.Sprintf("unsupported language %q", req.Language)}
	}
	if req.SourceText() == "" {
		return &model.ValidationError{Message: "Add some content or a summary before generating captions."}
	}
	return nil
}

func toResult(c captionPayload, id string) model.CaptionResult {
	hooks := make([]string, 0, hookLineCount)
	for _, h := range c.HookLines {
		if h = strings.TrimSpace(h); h != "" && len(hooks) < hookLineCount {
			hooks = append(hooks, h)
		}
	}

	return model.CaptionResult{
		ID:        id,
		Caption:   strings.TrimSpace(c.Text),
		HookLines: hooks,
		CTA:       strings.TrimSpace(c.CTA),
		Hashtags:  NormalizeHashtags(c.Hashtags),
	}
}

// NormalizeHashtags strips exactly one leading '#' from each tag and drops
// blank entries.
func NormalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// CanvasText is the text inserted on the canvas for a caption. Hashtags are
// appended only on platforms that display them.
func CanvasText(result model.CaptionResult, platform model.Platform) string {
	if !platform.UsesHashtags() || len(result.Hashtags) == 0 {
		return result.Caption
	}

	tags := make([]string, len(result.Hashtags))
	for i, tag := range result.Hashtags {
		tags[i] = "#" + tag
	}
	return result.Caption + "\n\n" + strings.Join(tags, " ")
}

func idSuffix() string {
	return uuid.NewString()[:8]
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
