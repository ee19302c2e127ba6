package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zots0127/registry/internal/domain/entities"
)

// MockAuditSink is a mock implementation of AuditSink
type MockAuditSink struct {
	mock.Mock
}

// Record mocks the Record method
func (m *MockAuditSink) Record(ctx context.Context, ev *entities.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
