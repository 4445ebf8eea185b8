package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockGenerator implements feedback.Generator.
type MockGenerator struct {
	mock.Mock
}

// NewMockGenerator creates a mock whose expectations are asserted on cleanup.
func NewMockGenerator(t *testing.T) *MockGenerator {
	m := &MockGenerator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGenerator) Name() string { return "mock" }

func (m *MockGenerator) GenerateFeedback(ctx context.Context, transcript string) (string, error) {
	args := m.Called(ctx, transcript)
	return args.String(0), args.Error(1)
}
