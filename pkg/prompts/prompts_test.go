package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(originalWd) }()

	promptsContent := `
system:
  summarizer: "Summarizer system prompt"
  captioner: "Captioner system prompt"

summary:
  text: "Summarize: {{.Content}}"
  image: "Describe the image"

caption:
  generate: "Captions for {{.Platform}}"
  regenerate: "{{.Base}} again"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "prompts.yaml"), []byte(promptsContent), 0644); err != nil {
		t.Fatal(err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	p, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p.System.Summarizer != "Summarizer system prompt" {
		t.Errorf("System.Summarizer = %q, want %q", p.System.Summarizer, "Summarizer system prompt")
	}
	if p.System.Captioner != "Captioner system prompt" {
		t.Errorf("System.Captioner = %q, want %q", p.System.Captioner, "Captioner system prompt")
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(originalWd) }()

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	p, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p.System.Summarizer == "" || p.Summary.Text == "" || p.Summary.Image == "" {
		t.Error("embedded summary prompts should be populated")
	}
	if p.Caption.Generate == "" || p.Caption.Regenerate == "" {
		t.Error("embedded caption prompts should be populated")
	}
}

func TestLoadFromMissing(t *testing.T) {
	_, err := LoadFrom("/nonexistent/path.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	promptsPath := filepath.Join(tmpDir, "invalid.yaml")

	if err := os.WriteFile(promptsPath, []byte("not: valid: yaml: content:"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(promptsPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestRenderSummary(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	result, err := p.RenderSummary(SummaryParams{Content: "We launched a new eco-friendly water bottle."})
	if err != nil {
		t.Fatalf("RenderSummary() error = %v", err)
	}

	for _, want := range []string{"mainIdea", "bulletPoints", "keywords", "eco-friendly water bottle"} {
		if !strings.Contains(result, want) {
			t.Errorf("RenderSummary() missing %q", want)
		}
	}
}

func TestRenderCaption(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		params     CaptionParams
		contains   []string
		notContain []string
	}{
		{
			name: "summaryWithHashtags",
			params: CaptionParams{
				Platform:     "instagram",
				Tone:         "fun",
				Language:     "english",
				MainIdea:     "Eco bottle launch",
				BulletPoints: []string{"Reusable", "Keeps drinks cold"},
				Keywords:     []string{"eco", "bottle"},
				Count:        3,
				Hashtags:     true,
			},
			contains:   []string{"Main idea: Eco bottle launch", "- Reusable", "Keywords: eco, bottle", "exactly 3", "8 to 10 relevant hashtags"},
			notContain: []string{"CONTENT:\n", "Do not include hashtags"},
		},
		{
			name: "rawContentWithoutHashtags",
			params: CaptionParams{
				Platform: "linkedin",
				Tone:     "professional",
				Language: "hinglish",
				Content:  "Quarterly results are in",
				Count:    3,
			},
			contains:   []string{"CONTENT:", "Quarterly results are in", "Do not include hashtags"},
			notContain: []string{"Main idea:", "\"hashtags\""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.RenderCaption(tt.params)
			if err != nil {
				t.Fatalf("RenderCaption() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(result, want) {
					t.Errorf("RenderCaption() missing %q\n%s", want, result)
				}
			}
			for _, unwanted := range tt.notContain {
				if strings.Contains(result, unwanted) {
					t.Errorf("RenderCaption() should not contain %q\n%s", unwanted, result)
				}
			}
		})
	}
}

func TestRenderRegenerate(t *testing.T) {
	p := &Prompts{
		Caption: CaptionPrompts{
			Regenerate: "{{.Base}}|{{range $i, $t := .Exclusions}}{{inc $i}}={{$t}};{{end}}",
		},
	}

	result, err := p.RenderRegenerate(RegenerateParams{
		Base:       "base",
		Exclusions: []string{"first", "second"},
	})
	if err != nil {
		t.Fatalf("RenderRegenerate() error = %v", err)
	}

	expected := "base|1=first;2=second;"
	if result != expected {
		t.Errorf("RenderRegenerate() = %q, want %q", result, expected)
	}
}

func TestDefaultRegenerateAsksForWrappedCaption(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	result, err := p.RenderRegenerate(RegenerateParams{Base: "base", Exclusions: []string{"old"}, Hashtags: true})
	if err != nil {
		t.Fatalf("RenderRegenerate() error = %v", err)
	}
	if !strings.Contains(result, `{"caption": {"text": "caption body"`) {
		t.Errorf("regenerate prompt should request a caption wrapper:\n%s", result)
	}
	if !strings.Contains(result, `"hashtags": ["8 to 10 hashtags"]}}`) {
		t.Errorf("regenerate prompt should close the wrapper after hashtags:\n%s", result)
	}
}

func TestRenderInvalidTemplate(t *testing.T) {
	p := &Prompts{
		Summary: SummaryPrompts{
			Text: "{{.Invalid",
		},
	}

	_, err := p.RenderSummary(SummaryParams{Content: "test"})
	if err == nil {
		t.Error("expected error for invalid template")
	}
}
