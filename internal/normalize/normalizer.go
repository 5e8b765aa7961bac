package normalize

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"captioncraft/internal/app/model"
	"captioncraft/internal/llm"
	"captioncraft/internal/pdf"
	"captioncraft/pkg/prompts"
)

const (
	MinTextLength     = 10
	syntheticIdeaLen  = 100
	syntheticPointLen = 200
)

type Normalizer struct {
	summarizer llm.Summarizer
	extractor  pdf.Extractor
	prompts    *prompts.Prompts
}

func New(summarizer llm.Summarizer, extractor pdf.Extractor, p *prompts.Prompts) *Normalizer {
	return &Normalizer{
		summarizer: summarizer,
		extractor:  extractor,
		prompts:    p,
	}
}

// Normalize turns raw text, PDF or image input into a ContentSummary.
func (n *Normalizer) Normalize(ctx context.Context, input model.Input, apiKey string) (model.ContentSummary, error) {
	switch input.Kind {
	case model.InputText:
		return n.normalizeText(ctx, input.Text, apiKey)
	case model.InputPDF:
		return n.normalizePDF(ctx, input.Data, apiKey)
	case model.InputImage:
		return n.normalizeImage(ctx, input, apiKey)
	}
	return model.ContentSummary{}, &model.ValidationError{Message: fmt.Sprintf("unsupported input type %q", input.Kind)}
}

func (n *Normalizer) normalizeText(ctx context.Context, text, apiKey string) (model.ContentSummary, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinTextLength {
		return model.ContentSummary{}, &model.ValidationError{
			Message: fmt.Sprintf("Please enter at least %d characters of content.", MinTextLength),
		}
	}
	if err := requireKey(apiKey); err != nil {
		return model.ContentSummary{}, err
	}

	summary, err := n.summarize(ctx, text, apiKey)
	if err != nil {
		slog.Warn("Summarization failed, using local summary", "error", err)
		return FallbackSummary(text), nil
	}
	return summary, nil
}

func (n *Normalizer) normalizePDF(ctx context.Context, data []byte, apiKey string) (model.ContentSummary, error) {
	if len(data) == 0 {
		return model.ContentSummary{}, &model.ValidationError{Message: "The PDF file is empty."}
	}
	if err := requireKey(apiKey); err != nil {
		return model.ContentSummary{}, err
	}

	text, err := n.extractor.Extract(ctx, data)
	if err != nil {
		return model.ContentSummary{}, err
	}
	slog.Debug("Extracted PDF text", "chars", len(text))

	summary, err := n.summarize(ctx, text, apiKey)
	if err != nil {
		return model.ContentSummary{}, &model.AnalysisError{Message: err.Error(), Err: err}
	}
	return summary, nil
}

func (n *Normalizer) normalizeImage(ctx context.Context, input model.Input, apiKey string) (model.ContentSummary, error) {
	if len(input.Data) == 0 {
		return model.ContentSummary{}, &model.ValidationError{Message: "The image file is empty."}
	}
	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(input.Data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return model.ContentSummary{}, &model.ValidationError{Message: fmt.Sprintf("unsupported image type %q", mimeType)}
	}
	if err := requireKey(apiKey); err != nil {
		return model.ContentSummary{}, err
	}

	prompt, err := n.prompts.RenderImage()
	if err != nil {
		return model.ContentSummary{}, fmt.Errorf("render prompt: %w", err)
	}

	slog.Info("Analyzing image...", "mime", mimeType, "bytes", len(input.Data))
	raw, err := n.summarizer.GenerateFromImage(ctx, apiKey, prompt, input.Data, mimeType)
	if err != nil {
		return model.ContentSummary{}, &model.AnalysisError{
			Message: fmt.Sprintf("Image analysis failed: %s. Try pasting the text content instead.", err),
			Err:     err,
		}
	}
	return summaryFromResponse(raw), nil
}

func (n *Normalizer) summarize(ctx context.Context, text, apiKey string) (model.ContentSummary, error) {
	prompt, err := n.prompts.RenderSummary(prompts.SummaryParams{Content: text})
	if err != nil {
		return model.ContentSummary{}, fmt.Errorf("render prompt: %w", err)
	}

	slog.Info("Normalizing content...", "chars", len(text))
	raw, err := n.summarizer.GenerateText(ctx, apiKey, n.prompts.System.Summarizer+"\n\n"+prompt)
	if err != nil {
		return model.ContentSummary{}, err
	}
	return summaryFromResponse(raw), nil
}

// summaryFromResponse never fails: malformed output becomes a summary built
// from the raw text.
func summaryFromResponse(raw string) model.ContentSummary {
	slog.Debug("Summary response", "raw", raw)

	result := llm.Parse[model.ContentSummary](raw)
	summary, ok := result.Parsed()
	if ok {
		summary = tidy(summary)
	}
	if !ok || (summary.MainIdea == "" && len(summary.BulletPoints) == 0) {
		if err := result.Err(); err != nil {
			slog.Debug("Unparseable summary response", "error", err)
		}
		raw = strings.TrimSpace(raw)
		summary = model.ContentSummary{
			MainIdea:     clip(raw, syntheticIdeaLen),
			BulletPoints: []string{clip(raw, syntheticPointLen)},
			Keywords:     []string{},
		}
	}

	if len(summary.BulletPoints) == 0 {
		summary.BulletPoints = []string{summary.MainIdea}
	}
	summary.Clamp()
	return summary
}

func tidy(s model.ContentSummary) model.ContentSummary {
	return model.ContentSummary{
		MainIdea:     strings.TrimSpace(s.MainIdea),
		BulletPoints: nonBlank(s.BulletPoints),
		Keywords:     nonBlank(s.Keywords),
	}
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func requireKey(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return &model.ValidationError{Message: "A Gemini API key is required to analyze content."}
	}
	return nil
}

func clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
