package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/api/middleware"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/api/v1/handlers"
	v1routes "github.com/ManojKumarRabidas/Vyakaranaa/internal/api/v1/routes"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/pipeline"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/storage"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/testutil"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/upload"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/config"
)

const testMaxBytes = 1 << 20

type testServer struct {
	server      *Server
	transcriber *testutil.MockTranscriber
	generator   *testutil.MockGenerator
	uploadDir   string
}

func newTestServer(t *testing.T, limiter middleware.Limiter) *testServer {
	t.Helper()

	reg := prometheus.NewRegistry()
	dir := filepath.Join(t.TempDir(), "uploads")
	ts := &testServer{
		transcriber: testutil.NewMockTranscriber(t),
		generator:   testutil.NewMockGenerator(t),
		uploadDir:   dir,
	}

	p := pipeline.New(
		upload.NewValidator(config.Upload{MaxFileSizeBytes: testMaxBytes, AllowedMime: config.DefaultAllowedMime}),
		storage.NewDiskStore(config.Storage{Dir: dir}, testMaxBytes, zap.NewNop()),
		ts.transcriber,
		ts.generator,
		pipeline.Options{Language: "en"},
		zap.NewNop(),
		pipeline.NewMetrics(reg),
	)

	ts.server = NewServer(
		config.Server{
			Host:         "127.0.0.1",
			Port:         "0",
			Environment:  "test",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
		config.RateLimit{Enabled: limiter != nil, Requests: 2, Window: time.Minute},
		&v1routes.HandlerContainer{
			Analyze: handlers.NewAnalyzeHandler(p, testMaxBytes, true, zap.NewNop()),
		},
		limiter,
		reg,
		zap.NewNop(),
	)
	return ts
}

func (ts *testServer) post(t *testing.T, path, field, mime string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := testutil.MultipartFile(t, field, "clip.wav", mime, data)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	ts.server.Router().ServeHTTP(w, req)
	return w
}

func TestAnalyzeEndToEnd(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.transcriber.On("Transcribe", mock.Anything, mock.Anything, "en").Return("i goed  to school yesterday", nil).Once()
	ts.generator.On("GenerateFeedback", mock.Anything, testutil.SampleTranscript).Return(testutil.SampleFeedback, nil).Once()

	w := ts.post(t, "/api/v1/analyze", "file", "audio/wav", testutil.WAV(160))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t,
		`{"feedbackText":`+jsonString(t, testutil.SampleFeedback)+`,"transcript":"i goed to school yesterday"}`,
		w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, testutil.DirEntries(t, ts.uploadDir))
}

func TestAnalyzeEndToEndEmptyTranscript(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.transcriber.On("Transcribe", mock.Anything, mock.Anything, "en").Return("   ", nil).Once()

	w := ts.post(t, "/api/analyze", "file", "audio/wav", testutil.WAV(160))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "EmptyTranscript", decode(t, w)["kind"])
	ts.generator.AssertNotCalled(t, "GenerateFeedback", mock.Anything, mock.Anything)
	assert.Empty(t, testutil.DirEntries(t, ts.uploadDir))
}

func TestAnalyzeEndToEndUnsupportedType(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.post(t, "/api/v1/analyze", "file", "image/png", []byte("\x89PNG"))

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	ts.transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeEndToEndStreamedOversize(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.post(t, "/save-audio", "audio", "audio/webm", make([]byte, testMaxBytes+10))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "PayloadTooLarge", decode(t, w)["kind"])
	assert.Empty(t, testutil.DirEntries(t, ts.uploadDir))
}

func TestRateLimitAppliesToAPI(t *testing.T) {
	ts := newTestServer(t, middleware.NewMemoryLimiter(2, time.Minute))

	for i := 0; i < 2; i++ {
		w := ts.post(t, "/api/v1/analyze", "file", "image/png", []byte("x"))
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	}

	w := ts.post(t, "/api/v1/analyze", "file", "image/png", []byte("x"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "RateLimited", decode(t, w)["kind"])

	health := httptest.NewRecorder()
	ts.server.Router().ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, health.Code, "health is never limited")
}

func TestAuxiliaryRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/health", http.StatusOK, `"ok":true`},
		{"/metrics", http.StatusOK, "vyakaranaa_artifacts_in_flight"},
		{"/swagger/doc.json", http.StatusOK, "/api/v1/analyze"},
		{"/", http.StatusOK, "Vyakaranaa API"},
		{"/nope", http.StatusNotFound, "NotFound"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			ts.server.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestStartAndShutdown(t *testing.T) {
	ts := newTestServer(t, nil)

	errCh, err := ts.server.Start()
	require.NoError(t, err)

	resp, err := http.Get("http://" + ts.server.Addr() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ts.server.Shutdown(ctx))

	_, open := <-errCh
	assert.False(t, open, "error channel closes after a clean shutdown")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func jsonString(t *testing.T, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}
