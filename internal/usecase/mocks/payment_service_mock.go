package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPaymentService is a mock implementation of PaymentService
type MockPaymentService struct {
	mock.Mock
}

// CollectRegistrationFee mocks the CollectRegistrationFee method
func (m *MockPaymentService) CollectRegistrationFee(ctx context.Context, payer string, amount int64) error {
	args := m.Called(ctx, payer, amount)
	return args.Error(0)
}
