package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"captioncraft/internal/app"
	"captioncraft/internal/app/model"
	"captioncraft/internal/caption"
	"captioncraft/internal/source"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type captionBody struct {
	Content  string                `json:"content"`
	Platform string                `json:"platform"`
	Tone     string                `json:"tone"`
	Language string                `json:"language"`
	Summary  *model.ContentSummary `json:"summary,omitempty"`
	Exclude  []string              `json:"exclude,omitempty"`
}

// captionView adds the text to insert on the canvas.
type captionView struct {
	model.CaptionResult
	CanvasText string `json:"canvasText"`
}

type summaryBody struct {
	Text string `json:"text"`
}

func (s *Server) handleSummarize(c *gin.Context) {
	input, err := s.readInput(c)
	if err != nil {
		writeError(c, err)
		return
	}

	summary, err := s.pipeline.Normalize(c.Request.Context(), input, credentials(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleGenerate(c *gin.Context) {
	var body captionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, invalidBody(err))
		return
	}

	req, err := body.request()
	if err != nil {
		writeError(c, err)
		return
	}

	results, err := s.pipeline.Generate(c.Request.Context(), req, credentials(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"captions": views(results, req.Platform)})
}

func (s *Server) handleRegenerate(c *gin.Context) {
	var body captionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, invalidBody(err))
		return
	}

	req, err := body.request()
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := s.pipeline.Regenerate(c.Request.Context(), req, credentials(c), body.Exclude)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"caption": view(result, req.Platform)})
}

func (s *Server) handleRun(c *gin.Context) {
	input, err := s.readInput(c)
	if err != nil {
		writeError(c, err)
		return
	}

	opts, err := app.ParseRunOptions(c.Query("platform"), c.Query("tone"), c.Query("language"))
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := s.pipeline.Run(c.Request.Context(), input, opts, credentials(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary":  result.Summary,
		"captions": views(result.Captions, opts.Platform),
	})
}

// readInput accepts either a multipart upload in "file" or a JSON {"text"} body.
func (s *Server) readInput(c *gin.Context) (model.Input, error) {
	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+1<<20)
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.Input{}, err
		}
		if err != nil {
			return model.Input{}, &model.ValidationError{Message: "Attach a file in the \"file\" field."}
		}
		if maxBytes > 0 && header.Size > maxBytes {
			return model.Input{}, &model.ValidationError{Message: fmt.Sprintf("The file is larger than %d MB.", s.cfg.MaxUploadMB)}
		}

		f, err := header.Open()
		if err != nil {
			return model.Input{}, fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return model.Input{}, fmt.Errorf("read upload: %w", err)
		}
		return source.Detect(header.Filename, data, header.Header.Get("Content-Type"))
	}

	var body summaryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return model.Input{}, invalidBody(err)
	}
	return model.Input{Kind: model.InputText, Text: body.Text}, nil
}

func (b captionBody) request() (model.CaptionRequest, error) {
	opts, err := app.ParseRunOptions(b.Platform, b.Tone, b.Language)
	if err != nil {
		return model.CaptionRequest{}, err
	}
	return model.CaptionRequest{
		Content:  b.Content,
		Platform: opts.Platform,
		Tone:     opts.Tone,
		Language: opts.Language,
		Summary:  b.Summary,
	}, nil
}

func view(r model.CaptionResult, platform model.Platform) captionView {
	return captionView{CaptionResult: r, CanvasText: caption.CanvasText(r, platform)}
}

func views(results []model.CaptionResult, platform model.Platform) []captionView {
	out := make([]captionView, len(results))
	for i, r := range results {
		out[i] = view(r, platform)
	}
	return out
}

func invalidBody(err error) error {
	return &model.ValidationError{Message: fmt.Sprintf("invalid request body: %v", err)}
}

func writeError(c *gin.Context, err error) {
	status, kind, message := classify(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, errorBody{Error: message, Kind: kind})
}

func classify(err error) (int, string, string) {
	var (
		validation *model.ValidationError
		extraction *model.ExtractionError
		analysis   *model.AnalysisError
		generation *model.GenerationError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, "validation", validation.Message
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "validation", "The upload is too large."
	case errors.As(err, &extraction):
		return http.StatusUnprocessableEntity, "extraction", extraction.Message
	case errors.As(err, &analysis):
		return http.StatusBadGateway, "analysis", analysis.Message
	case errors.As(err, &generation):
		return http.StatusBadGateway, "generation", generation.Message
	}
	return http.StatusInternalServerError, "internal", "Something went wrong. Please try again."
}
