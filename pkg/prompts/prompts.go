package prompts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

//go:embed prompts.yaml
var defaultPrompts []byte

var funcs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
}

type Prompts struct {
	System  SystemPrompts  `yaml:"system"`
	Summary SummaryPrompts `yaml:"summary"`
	Caption CaptionPrompts `yaml:"caption"`
}

type SystemPrompts struct {
	Summarizer string `yaml:"summarizer"`
	Captioner  string `yaml:"captioner"`
}

type SummaryPrompts struct {
	Text  string `yaml:"text"`
	Image string `yaml:"image"`
}

type CaptionPrompts struct {
	Generate   string `yaml:"generate"`
	Regenerate string `yaml:"regenerate"`
}

type SummaryParams struct {
	Content string
}

type CaptionParams struct {
	Platform      string
	PlatformGuide string
	Tone          string
	ToneGuide     string
	Language      string
	LanguageGuide string

	MainIdea     string
	BulletPoints []string
	Keywords     []string
	Content      string

	Count    int
	Hashtags bool
}

type RegenerateParams struct {
	Base       string
	Exclusions []string
	Hashtags   bool
}

// Load reads prompts.yaml from the working directory, falling back to the
// embedded defaults when it does not exist.
func Load() (*Prompts, error) {
	p, err := LoadFrom(defaultPromptsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	return p, err
}

func Default() (*Prompts, error) {
	return parse(defaultPrompts)
}

func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}
	return &p, nil
}

func (p *Prompts) RenderSummary(params SummaryParams) (string, error) {
	return render(p.Summary.Text, params)
}

func (p *Prompts) RenderImage() (string, error) {
	return render(p.Summary.Image, nil)
}

func (p *Prompts) RenderCaption(params CaptionParams) (string, error) {
	return render(p.Caption.Generate, params)
}

func (p *Prompts) RenderRegenerate(params RegenerateParams) (string, error) {
	return render(p.Caption.Regenerate, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Funcs(funcs).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
