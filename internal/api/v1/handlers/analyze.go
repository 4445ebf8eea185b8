package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/ManojKumarRabidas/Vyakaranaa/internal/api/errors"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/api/middleware"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/api/v1/dto"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/pipeline"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/upload"
)

const (
	// FileField is the multipart field read by the analyze endpoints.
	FileField = "file"
	// AudioField is the multipart field read by POST /save-audio.
	AudioField = "audio"

	saveAudioMessage = "File processed successfully"

	// multipartOverhead is the room allowed for boundaries and part headers
	// on top of the audio size cap.
	multipartOverhead = 1 << 20
)

// Runner runs one upload through the pipeline.
type Runner interface {
	Run(ctx context.Context, req upload.Request) (pipeline.Result, error)
}

// AnalyzeHandler handles audio uploads
type AnalyzeHandler struct {
	runner            Runner
	maxBytes          int64
	includeTranscript bool
	logger            *zap.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(runner Runner, maxBytes int64, includeTranscript bool, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		runner:            runner,
		maxBytes:          maxBytes,
		includeTranscript: includeTranscript,
		logger:            logger.Named("analyze"),
	}
}

// Analyze handles POST /api/v1/analyze and POST /api/analyze
//
// @Summary Analyze spoken English
// @Description Transcribes an uploaded recording and returns English coaching feedback
// @Tags analysis
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Audio recording"
// @Success 200 {object} dto.AnalyzeResponse "Feedback generated"
// @Failure 400 {object} errors.APIError "No audio file provided"
// @Failure 413 {object} errors.APIError "Audio file too large"
// @Failure 415 {object} errors.APIError "Unsupported audio format"
// @Failure 429 {object} errors.APIError "Rate limited"
// @Failure 500 {object} errors.APIError "Transcription or feedback failed"
// @Router /api/v1/analyze [post]
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	result, ok := h.process(c, FileField)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.response(result))
}

// SaveAudio handles POST /save-audio
//
// @Summary Analyze spoken English (recorder form)
// @Description Same as analyze, reading the "audio" field and adding a status message
// @Tags analysis
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio recording"
// @Success 200 {object} dto.SaveAudioResponse "Feedback generated"
// @Failure 400 {object} errors.APIError "No audio file provided"
// @Failure 413 {object} errors.APIError "Audio file too large"
// @Failure 415 {object} errors.APIError "Unsupported audio format"
// @Failure 500 {object} errors.APIError "Transcription or feedback failed"
// @Router /save-audio [post]
func (h *AnalyzeHandler) SaveAudio(c *gin.Context) {
	result, ok := h.process(c, AudioField)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.SaveAudioResponse{
		Message:         saveAudioMessage,
		AnalyzeResponse: h.response(result),
	})
}

func (h *AnalyzeHandler) response(result pipeline.Result) dto.AnalyzeResponse {
	resp := dto.AnalyzeResponse{FeedbackText: result.FeedbackText}
	if h.includeTranscript {
		resp.Transcript = result.Transcript
	}
	return resp
}

// process streams the first part named field into the pipeline. The part is
// never buffered; the store reads it straight from the connection.
func (h *AnalyzeHandler) process(c *gin.Context, field string) (pipeline.Result, bool) {
	limit := h.maxBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		middleware.HandleError(c, apierrors.NewPayloadTooLargeError())
		return pipeline.Result{}, false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	reader, err := c.Request.MultipartReader()
	if err != nil {
		h.logger.Debug("request is not multipart",
			zap.Error(err),
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		)
		middleware.HandleError(c, apierrors.NewMissingPayloadError())
		return pipeline.Result{}, false
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			middleware.HandleError(c, partError(err))
			return pipeline.Result{}, false
		}
		if part.FormName() != field {
			part.Close()
			continue
		}

		result, err := h.runner.Run(c.Request.Context(), upload.Request{
			Filename:     part.FileName(),
			DeclaredMime: part.Header.Get("Content-Type"),
			DeclaredSize: -1,
			Body:         part,
		})
		part.Close()
		if err != nil {
			middleware.HandleError(c, err)
			return pipeline.Result{}, false
		}
		return result, true
	}
}

// partError maps a multipart read failure. Running out of parts and a
// malformed body both mean no audio arrived.
func partError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apierrors.NewPayloadTooLargeError()
	}
	return apierrors.NewMissingPayloadError()
}
