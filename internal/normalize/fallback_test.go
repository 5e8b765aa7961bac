package normalize

import (
	"reflect"
	"strings"
	"testing"
)

func TestFallbackSummary(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantIdea     string
		wantBullets  []string
		wantKeywords []string
	}{
		{
			name:         "threeSentences",
			text:         "We launched a bottle! The bottle is green. Green bottles sell?",
			wantIdea:     "We launched a bottle",
			wantBullets:  []string{"We launched a bottle", "The bottle is green", "Green bottles sell"},
			wantKeywords: []string{"bottle", "green", "launched", "bottles", "sell"},
		},
		{
			name:         "moreThanThree",
			text:         "One idea here. Two ideas here... Three ideas here! Four ideas here.",
			wantIdea:     "One idea here",
			wantBullets:  []string{"One idea here", "Two ideas here", "Three ideas here"},
			wantKeywords: []string{"here", "ideas", "idea", "three", "four"},
		},
		{
			name:         "noTerminator",
			text:         "just some words without punctuation",
			wantIdea:     "just some words without punctuation",
			wantBullets:  []string{"just some words without punctuation"},
			wantKeywords: []string{"just", "some", "words", "without", "punctuation"},
		},
		{
			name:         "shortWordsOnly",
			text:         "a an the is it.",
			wantIdea:     "a an the is it",
			wantBullets:  []string{"a an the is it"},
			wantKeywords: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FallbackSummary(tt.text)
			if got.MainIdea != tt.wantIdea {
				t.Errorf("MainIdea = %q, want %q", got.MainIdea, tt.wantIdea)
			}
			if !reflect.DeepEqual(got.BulletPoints, tt.wantBullets) {
				t.Errorf("BulletPoints = %q, want %q", got.BulletPoints, tt.wantBullets)
			}
			if !reflect.DeepEqual(got.Keywords, tt.wantKeywords) {
				t.Errorf("Keywords = %q, want %q", got.Keywords, tt.wantKeywords)
			}
		})
	}
}

func TestFallbackSummaryTerminatorsOnly(t *testing.T) {
	got := FallbackSummary("?!...")
	if len(got.BulletPoints) != 1 || got.BulletPoints[0] != "?!..." {
		t.Errorf("BulletPoints = %q", got.BulletPoints)
	}
}

func TestFallbackSummaryClipsMainIdea(t *testing.T) {
	long := strings.Repeat("word ", 60) + "end."
	got := FallbackSummary(long)
	if len([]rune(got.MainIdea)) != syntheticIdeaLen {
		t.Errorf("len(MainIdea) = %d, want %d", len([]rune(got.MainIdea)), syntheticIdeaLen)
	}
}
