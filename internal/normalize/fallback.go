package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"captioncraft/internal/app/model"
)

const (
	fallbackBullets  = 3
	fallbackKeywords = 5
	minKeywordLength = 4
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// FallbackSummary builds a summary locally when the remote summarizer is
// unavailable.
func FallbackSummary(text string) model.ContentSummary {
	text = strings.TrimSpace(text)

	var sentences []string
	for _, s := range sentenceEnd.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	bullets := sentences
	if len(bullets) > fallbackBullets {
		bullets = bullets[:fallbackBullets]
	}
	if len(bullets) == 0 {
		bullets = []string{clip(text, syntheticPointLen)}
	}

	mainIdea := text
	if len(sentences) > 0 {
		mainIdea = sentences[0]
	}

	summary := model.ContentSummary{
		MainIdea:     clip(mainIdea, syntheticIdeaLen),
		BulletPoints: bullets,
		Keywords:     topKeywords(text, fallbackKeywords),
	}
	summary.Clamp()
	return summary
}

// topKeywords returns the n most frequent lowercase words of at least
// minKeywordLength runes. Ties keep first-seen order.
func topKeywords(text string, n int) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	counts := make(map[string]int)
	var order []string
	for _, w := range words {
		if utf8.RuneCountInString(w) < minKeywordLength {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	if order == nil {
		return []string{}
	}
	return order
}
