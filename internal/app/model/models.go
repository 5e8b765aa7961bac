package model

import (
	"fmt"
	"strings"
)

const (
	MaxBulletPoints = 5
	MaxKeywords     = 10
)

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformLinkedIn  Platform = "linkedin"
)

const (
	ToneProfessional Tone = "professional"
	ToneFun          Tone = "fun"
	ToneGenZ         Tone = "genz"
	ToneMotivational Tone = "motivational"
)

const (
	LanguageEnglish  Language = "english"
	LanguageHinglish Language = "hinglish"
)

const (
	InputText  InputKind = "text"
	InputPDF   InputKind = "pdf"
	InputImage InputKind = "image"
)

type Platform string

type Tone string

type Language string

type InputKind string

type ContentSummary struct {
	MainIdea     string   `json:"mainIdea"`
	BulletPoints []string `json:"bulletPoints"`
	Keywords     []string `json:"keywords"`
}

type CaptionRequest struct {
	Content  string          `json:"content"`
	Platform Platform        `json:"platform"`
	Tone     Tone            `json:"tone"`
	Language Language        `json:"language"`
	Summary  *ContentSummary `json:"summary,omitempty"`
}

type CaptionResult struct {
	ID        string   `json:"id"`
	Caption   string   `json:"caption"`
	HookLines []string `json:"hookLines"`
	CTA       string   `json:"cta"`
	Hashtags  []string `json:"hashtags"`
}

// Input is raw user content before normalization. Text is used for InputText,
// Data and MimeType for the binary kinds.
type Input struct {
	Kind     InputKind
	Text     string
	Data     []byte
	MimeType string
	Name     string
}

func Platforms() []Platform {
	return []Platform{PlatformInstagram, PlatformYouTube, PlatformLinkedIn}
}

func Tones() []Tone {
	return []Tone{ToneProfessional, ToneFun, ToneGenZ, ToneMotivational}
}

func Languages() []Language {
	return []Language{LanguageEnglish, LanguageHinglish}
}

func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", &ValidationError{Message: fmt.Sprintf("unsupported platform %q", s)}
	}
	return p, nil
}

func ParseTone(s string) (Tone, error) {
	t := Tone(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", &ValidationError{Message: fmt.Sprintf("unsupported tone %q", s)}
	}
	return t, nil
}

func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", &ValidationError{Message: fmt.Sprintf("unsupported language %q", s)}
	}
	return l, nil
}

func (p Platform) Valid() bool {
	switch p {
	case PlatformInstagram, PlatformYouTube, PlatformLinkedIn:
		return true
	}
	return false
}

// UsesHashtags reports whether hashtags are requested and displayed for the platform.
func (p Platform) UsesHashtags() bool {
	return p == PlatformInstagram
}

func (t Tone) Valid() bool {
	switch t {
	case ToneProfessional, ToneFun, ToneGenZ, ToneMotivational:
		return true
	}
	return false
}

func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageHinglish:
		return true
	}
	return false
}

// Clamp trims bullet points and keywords to their maximum lengths.
func (s *ContentSummary) Clamp() {
	if len(s.BulletPoints) > MaxBulletPoints {
		s.BulletPoints = s.BulletPoints[:MaxBulletPoints]
	}
	if len(s.Keywords) > MaxKeywords {
		s.Keywords = s.Keywords[:MaxKeywords]
	}
}

// SourceText is the text a caption request is built from when no summary is present.
func (r CaptionRequest) SourceText() string {
	if content := strings.TrimSpace(r.Content); content != "" {
		return content
	}
	if r.Summary != nil {
		return r.Summary.MainIdea
	}
	return ""
}
