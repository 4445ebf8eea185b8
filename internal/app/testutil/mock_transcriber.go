package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/storage"
)

// MockTranscriber implements transcribe.Transcriber.
type MockTranscriber struct {
	mock.Mock

	mu   sync.Mutex
	seen []ObservedArtifact
}

// ObservedArtifact records what the transcriber saw on disk when it was called.
type ObservedArtifact struct {
	Path    string
	Existed bool
	Content []byte
}

// NewMockTranscriber creates a mock whose expectations are asserted on cleanup.
func NewMockTranscriber(t *testing.T) *MockTranscriber {
	m := &MockTranscriber{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTranscriber) Name() string { return "mock" }

func (m *MockTranscriber) Transcribe(ctx context.Context, artifact *storage.Artifact, language string) (string, error) {
	if artifact != nil {
		content, err := os.ReadFile(artifact.Path)
		m.mu.Lock()
		m.seen = append(m.seen, ObservedArtifact{Path: artifact.Path, Existed: err == nil, Content: content})
		m.mu.Unlock()
	}

	args := m.Called(ctx, artifact, language)
	return args.String(0), args.Error(1)
}

// Observed returns every artifact the mock was called with, in call order.
func (m *MockTranscriber) Observed() []ObservedArtifact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ObservedArtifact(nil), m.seen...)
}
