package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"captioncraft/internal/app"
	"captioncraft/internal/app/model"
	"captioncraft/pkg/config"
)

type fakePipeline struct {
	creds   app.Credentials
	input   model.Input
	req     model.CaptionRequest
	exclude []string
	opts    app.RunOptions
	err     error
}

func (f *fakePipeline) Normalize(_ context.Context, input model.Input, creds app.Credentials) (model.ContentSummary, error) {
	f.input, f.creds = input, creds
	if f.err != nil {
		return model.ContentSummary{}, f.err
	}
	return model.ContentSummary{MainIdea: "Idea", BulletPoints: []string{"Idea"}, Keywords: []string{}}, nil
}

func (f *fakePipeline) Generate(_ context.Context, req model.CaptionRequest, creds app.Credentials) ([]model.CaptionResult, error) {
	f.req, f.creds = req, creds
	if f.err != nil {
		return nil, f.err
	}
	return []model.CaptionResult{
		{ID: "1", Caption: "one", Hashtags: []string{"a", "b"}},
		{ID: "2", Caption: "two"},
		{ID: "3", Caption: "three"},
	}, nil
}

func (f *fakePipeline) Regenerate(_ context.Context, req model.CaptionRequest, creds app.Credentials, exclude []string) (model.CaptionResult, error) {
	f.req, f.creds, f.exclude = req, creds, exclude
	if f.err != nil {
		return model.CaptionResult{}, f.err
	}
	return model.CaptionResult{ID: "r", Caption: "fresh"}, nil
}

func (f *fakePipeline) Run(_ context.Context, input model.Input, opts app.RunOptions, creds app.Credentials) (*app.RunResult, error) {
	f.input, f.opts, f.creds = input, opts, creds
	if f.err != nil {
		return nil, f.err
	}
	return &app.RunResult{
		Summary:  model.ContentSummary{MainIdea: "Idea"},
		Captions: []model.CaptionResult{{ID: "1", Caption: "one"}},
	}, nil
}

func testConfig() config.ServerConfig {
	return config.ServerConfig{
		Addr:           ":0",
		AllowedOrigins: []string{"https://new.express.adobe.com"},
		MaxUploadMB:    1,
	}
}

func newTestServer(t *testing.T, p Pipeline, cfg config.ServerConfig) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return New(p, cfg).Handler()
}

func postJSON(t *testing.T, h http.Handler, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, &fakePipeline{}, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSummarizeText(t *testing.T) {
	p := &fakePipeline{}
	h := newTestServer(t, p, testConfig())

	rec := postJSON(t, h, "/api/v1/summaries", map[string]string{"text": "A long enough text."}, map[string]string{
		geminiKeyHeader: "gem-key",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.InputText, p.input.Kind)
	assert.Equal(t, "A long enough text.", p.input.Text)
	assert.Equal(t, "gem-key", p.creds.Gemini)

	var summary model.ContentSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "Idea", summary.MainIdea)
}

func TestSummarizeUpload(t *testing.T) {
	p := &fakePipeline{}
	h := newTestServer(t, p, testConfig())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "deck.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4 body"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/summaries", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.InputPDF, p.input.Kind)
	assert.Equal(t, "deck.pdf", p.input.Name)
}

func TestSummarizeMissingFile(t *testing.T) {
	h := newTestServer(t, &fakePipeline{}, testConfig())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/summaries", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decodeError(t, rec).Kind)
}

func TestGenerateCaptions(t *testing.T) {
	p := &fakePipeline{}
	h := newTestServer(t, p, testConfig())

	rec := postJSON(t, h, "/api/v1/captions", map[string]string{
		"content":  "Launch day",
		"platform": "instagram",
		"tone":     "fun",
		"language": "english",
	}, map[string]string{groqKeyHeader: "groq-key"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "groq-key", p.creds.Groq)
	assert.Equal(t, model.PlatformInstagram, p.req.Platform)
	assert.Equal(t, model.ToneFun, p.req.Tone)

	var body struct {
		Captions []captionView `json:"captions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Captions, 3)
	assert.Equal(t, "one\n\n#a #b", body.Captions[0].CanvasText)
	assert.Equal(t, "two", body.Captions[1].CanvasText)
}

func TestRegenerateCaption(t *testing.T) {
	p := &fakePipeline{}
	h := newTestServer(t, p, testConfig())

	rec := postJSON(t, h, "/api/v1/captions/regenerate", map[string]any{
		"content":  "Launch day",
		"platform": "linkedin",
		"tone":     "professional",
		"language": "hinglish",
		"exclude":  []string{"one", "two"},
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"one", "two"}, p.exclude)
	assert.Equal(t, model.LanguageHinglish, p.req.Language)
	assert.Contains(t, rec.Body.String(), `"caption":{`)
	assert.Contains(t, rec.Body.String(), `"canvasText":"fresh"`)
}

func TestRunUsesQueryOptions(t *testing.T) {
	p := &fakePipeline{}
	h := newTestServer(t, p, testConfig())

	rec := postJSON(t, h, "/api/v1/runs?platform=youtube&tone=genz&language=english",
		map[string]string{"text": "Some text to caption."}, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.PlatformYouTube, p.opts.Platform)
	assert.Equal(t, model.ToneGenZ, p.opts.Tone)
	assert.Contains(t, rec.Body.String(), `"summary":{`)
}

func TestRejectsUnknownEnums(t *testing.T) {
	h := newTestServer(t, &fakePipeline{}, testConfig())

	rec := postJSON(t, h, "/api/v1/captions", map[string]string{
		"content":  "x",
		"platform": "tiktok",
		"tone":     "fun",
		"language": "english",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "tiktok")
}

func TestRejectsMalformedJSON(t *testing.T) {
	h := newTestServer(t, &fakePipeline{}, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/captions", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decodeError(t, rec).Kind)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		wantMsg    string
	}{
		{name: "validation", err: &model.ValidationError{Message: "too short"}, wantStatus: http.StatusBadRequest, wantKind: "validation", wantMsg: "too short"},
		{name: "extraction", err: &model.ExtractionError{Message: "no text"}, wantStatus: http.StatusUnprocessableEntity, wantKind: "extraction", wantMsg: "no text"},
		{name: "analysis", err: &model.AnalysisError{Message: "vision down"}, wantStatus: http.StatusBadGateway, wantKind: "analysis", wantMsg: "vision down"},
		{name: "generation", err: &model.GenerationError{Message: "Invalid API Key"}, wantStatus: http.StatusBadGateway, wantKind: "generation", wantMsg: "Invalid API Key"},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantKind: "internal", wantMsg: "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, &fakePipeline{err: tt.err}, testConfig())

			rec := postJSON(t, h, "/api/v1/summaries", map[string]string{"text": "whatever text"}, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantKind, body.Kind)
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RequestsPerMinute = 1
	h := newTestServer(t, &fakePipeline{}, cfg)

	first := postJSON(t, h, "/api/v1/summaries", map[string]string{"text": "whatever text"}, nil)
	second := postJSON(t, h, "/api/v1/summaries", map[string]string{"text": "whatever text"}, nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "rate_limit", decodeError(t, second).Kind)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, &fakePipeline{}, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/captions", nil)
	req.Header.Set("Origin", "https://new.express.adobe.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", groqKeyHeader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://new.express.adobe.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/captions", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestShutdownStopsListener(t *testing.T) {
	cfg := testConfig()
	cfg.Addr = "127.0.0.1:0"
	gin.SetMode(gin.TestMode)
	srv := New(&fakePipeline{}, cfg)

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe() }()

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, <-done)
}
