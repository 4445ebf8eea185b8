package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/api/middleware"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/api/v1/handlers"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/pipeline"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/testutil"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/upload"
)

type runnerFunc func(ctx context.Context, req upload.Request) (pipeline.Result, error)

func (f runnerFunc) Run(ctx context.Context, req upload.Request) (pipeline.Result, error) {
	return f(ctx, req)
}

type seenRequest struct {
	called   bool
	filename string
	mime     string
	body     []byte
}

func recordingRunner(seen *seenRequest, result pipeline.Result, err error) runnerFunc {
	return func(_ context.Context, req upload.Request) (pipeline.Result, error) {
		seen.called = true
		seen.filename = req.Filename
		seen.mime = req.DeclaredMime
		seen.body, _ = io.ReadAll(req.Body)
		return result, err
	}
}

func setupTestRouter(runner handlers.Runner, includeTranscript bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	h := handlers.NewAnalyzeHandler(runner, 1024, includeTranscript, zap.NewNop())
	router.POST("/api/v1/analyze", h.Analyze)
	router.POST("/save-audio", h.SaveAudio)
	router.GET("/health", handlers.Health)
	return router
}

func doRequest(router *gin.Engine, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAnalyzeHandler(t *testing.T) {
	success := pipeline.Result{FeedbackText: testutil.SampleFeedback, Transcript: testutil.SampleTranscript}
	wav := testutil.WAV(64)

	tests := []struct {
		name              string
		path              string
		field             string
		mime              string
		includeTranscript bool
		runResult         pipeline.Result
		runErr            error
		expectedStatus    int
		expectRun         bool
		validateBody      func(*testing.T, map[string]interface{})
	}{
		{
			name:              "analyze returns feedback and transcript",
			path:              "/api/v1/analyze",
			field:             handlers.FileField,
			mime:              "audio/wav",
			includeTranscript: true,
			runResult:         success,
			expectedStatus:    http.StatusOK,
			expectRun:         true,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, testutil.SampleFeedback, body["feedbackText"])
				assert.Equal(t, testutil.SampleTranscript, body["transcript"])
				assert.NotContains(t, body, "message")
			},
		},
		{
			name:           "transcript omitted when disabled",
			path:           "/api/v1/analyze",
			field:          handlers.FileField,
			mime:           "audio/wav",
			runResult:      success,
			expectedStatus: http.StatusOK,
			expectRun:      true,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, testutil.SampleFeedback, body["feedbackText"])
				assert.NotContains(t, body, "transcript")
			},
		},
		{
			name:              "save-audio adds message",
			path:              "/save-audio",
			field:             handlers.AudioField,
			mime:              "audio/webm",
			includeTranscript: true,
			runResult:         success,
			expectedStatus:    http.StatusOK,
			expectRun:         true,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "File processed successfully", body["message"])
				assert.Equal(t, testutil.SampleFeedback, body["feedbackText"])
			},
		},
		{
			name:           "wrong field is missing payload",
			path:           "/save-audio",
			field:          handlers.FileField,
			mime:           "audio/wav",
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "MissingPayload", body["kind"])
				assert.NotEmpty(t, body["request_id"])
			},
		},
		{
			name:           "pipeline rejection maps to status",
			path:           "/api/v1/analyze",
			field:          handlers.FileField,
			mime:           "text/plain",
			runErr:         &pipeline.Error{Stage: pipeline.StageValidated, Kind: pipeline.KindUnsupportedMediaType, Err: errors.New("text/plain")},
			expectedStatus: http.StatusUnsupportedMediaType,
			expectRun:      true,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "UnsupportedMediaType", body["kind"])
			},
		},
		{
			name:           "transcription failure is 500 without internals",
			path:           "/api/v1/analyze",
			field:          handlers.FileField,
			mime:           "audio/wav",
			runErr:         &pipeline.Error{Stage: pipeline.StageTranscribed, Kind: pipeline.KindTranscriptionFailed, Err: errors.New("exit status 1: /opt/models/small.pt")},
			expectedStatus: http.StatusInternalServerError,
			expectRun:      true,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "TranscriptionFailed", body["kind"])
				assert.NotContains(t, body["error"], "/opt/models")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen seenRequest
			router := setupTestRouter(recordingRunner(&seen, tt.runResult, tt.runErr), tt.includeTranscript)

			body, contentType := testutil.MultipartFile(t, tt.field, "clip.wav", tt.mime, wav)
			w := doRequest(router, tt.path, body, contentType)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectRun, seen.called)
			if tt.expectRun {
				assert.Equal(t, "clip.wav", seen.filename)
				assert.Equal(t, tt.mime, seen.mime)
				assert.Equal(t, wav, seen.body)
			}
			tt.validateBody(t, decodeBody(t, w))
		})
	}
}

func TestAnalyzeHandlerSkipsOtherParts(t *testing.T) {
	var seen seenRequest
	router := setupTestRouter(recordingRunner(&seen, pipeline.Result{FeedbackText: "ok"}, nil), false)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "hello"))
	part, err := mw.CreateFormFile(handlers.FileField, "voice.ogg")
	require.NoError(t, err)
	_, err = part.Write([]byte("OggS-audio"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := doRequest(router, "/api/v1/analyze", &buf, mw.FormDataContentType())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "voice.ogg", seen.filename)
	assert.Equal(t, []byte("OggS-audio"), seen.body)
}

func TestAnalyzeHandlerRejectsWithoutRunning(t *testing.T) {
	tests := []struct {
		name           string
		body           io.Reader
		contentType    string
		expectedStatus int
		kind           string
	}{
		{"not multipart", strings.NewReader(`{"file":"x"}`), "application/json", http.StatusBadRequest, "MissingPayload"},
		{"empty multipart", strings.NewReader("--b--\r\n"), "multipart/form-data; boundary=b", http.StatusBadRequest, "MissingPayload"},
		{"body over limit", bytes.NewReader(make([]byte, 1024+(1<<20)+1)), "multipart/form-data; boundary=b", http.StatusRequestEntityTooLarge, "PayloadTooLarge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen seenRequest
			router := setupTestRouter(recordingRunner(&seen, pipeline.Result{}, nil), true)

			w := doRequest(router, "/api/v1/analyze", tt.body, tt.contentType)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.False(t, seen.called)
			assert.Equal(t, tt.kind, decodeBody(t, w)["kind"])
		})
	}
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(nil, false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}
