package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/storage"
)

const inferencePath = "/inference"

// WhisperServer posts the artifact to a whisper.cpp server's inference endpoint.
type WhisperServer struct {
	baseURL string
	client  *http.Client
}

type whisperServerResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func NewWhisperServer(baseURL string, timeout time.Duration) *WhisperServer {
	return &WhisperServer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (w *WhisperServer) Name() string { return "whisper_server" }

func (w *WhisperServer) Transcribe(ctx context.Context, artifact *storage.Artifact, language string) (string, error) {
	if artifact == nil || artifact.Path == "" {
		return "", newError(w.Name(), CodeInput, fmt.Errorf("no artifact"))
	}

	body, contentType, err := w.createMultipartForm(artifact.Path, language)
	if err != nil {
		return "", newError(w.Name(), CodeInput, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+inferencePath, body)
	if err != nil {
		return "", newError(w.Name(), CodeRequest, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := w.client.Do(req)
	if err != nil {
		code := CodeRequest
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			code = CodeTimeout
		}
		return "", newError(w.Name(), code, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", newError(w.Name(), CodeBadResponse, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return "", newError(w.Name(), CodeAPI, fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}

	var parsed whisperServerResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", newError(w.Name(), CodeBadResponse, fmt.Errorf("parse response: %w", err))
	}
	if parsed.Error != "" {
		return "", newError(w.Name(), CodeAPI, errors.New(parsed.Error))
	}
	return strings.TrimSpace(parsed.Text), nil
}

func (w *WhisperServer) createMultipartForm(path, language string) (*bytes.Buffer, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open artifact: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("copy artifact: %w", err)
	}

	fields := map[string]string{
		"response_format": "json",
		"language":        language,
		"temperature":     "0.0",
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
