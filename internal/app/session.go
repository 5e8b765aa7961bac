package app

import "captioncraft/internal/app/model"

// Session is the caller-owned state of one captioning round: the request and
// the variants currently shown.
type Session struct {
	Request  model.CaptionRequest
	Captions []model.CaptionResult
}

func NewSession(result *RunResult) *Session {
	captions := make([]model.CaptionResult, len(result.Captions))
	copy(captions, result.Captions)
	return &Session{Request: result.Request, Captions: captions}
}

func (s *Session) Texts() []string {
	texts := make([]string, len(s.Captions))
	for i, c := range s.Captions {
		texts[i] = c.Caption
	}
	return texts
}
