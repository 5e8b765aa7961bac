package pdf

import (
	"context"
	"regexp"
	"strings"

	"captioncraft/internal/app/model"
)

const (
	MaxTextLength = 3000
	MinTextLength = 50
	minRunLength  = 4
)

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\s.,;:!?'"()\-]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Extractor pulls readable text out of a PDF document.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

var _ Extractor = HeuristicExtractor{}

// HeuristicExtractor scans the raw byte stream for runs of printable ASCII.
// It is not a PDF parser: compressed or scanned documents yield little text
// and are rejected.
type HeuristicExtractor struct{}

func (HeuristicExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var words []string
	var run []byte
	flush := func() {
		if len(run) >= minRunLength {
			words = append(words, string(run))
		}
		run = run[:0]
	}

	for _, b := range data {
		if b >= 32 && b <= 126 {
			run = append(run, b)
			continue
		}
		flush()
	}
	flush()

	text := Clean(strings.Join(words, " "))
	if len(text) > MaxTextLength {
		text = strings.TrimSpace(text[:MaxTextLength])
	}

	if len(text) < MinTextLength {
		return "", &model.ExtractionError{
			Message: "Could not extract enough text from this PDF. It may be scanned or image-based; try pasting the text instead.",
		}
	}
	return text, nil
}

// Clean drops characters outside letters, digits, whitespace and basic
// punctuation, then collapses whitespace.
func Clean(s string) string {
	s = unsafeChars.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
