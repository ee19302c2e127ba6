package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockBackupVerifier is a mock implementation of BackupVerifier
type MockBackupVerifier struct {
	mock.Mock
}

// Exists mocks the Exists method
func (m *MockBackupVerifier) Exists(ctx context.Context, location string) (bool, error) {
	args := m.Called(ctx, location)
	return args.Bool(0), args.Error(1)
}
