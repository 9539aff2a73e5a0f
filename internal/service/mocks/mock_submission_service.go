package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ikigai-ua/formrelay/internal/service"
	"github.com/ikigai-ua/formrelay/internal/storage"
)

// MockSubmissionService is a mock implementation of service.SubmissionService.
type MockSubmissionService struct {
	mock.Mock
}

//nolint:revive
func (m *MockSubmissionService) Submit(ctx context.Context, in service.SubmissionInput) (*service.SubmitResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

//nolint:revive
func (m *MockSubmissionService) List(ctx context.Context, limit int) ([]storage.Submission, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Submission), args.Error(1)
}

//nolint:revive
func (m *MockSubmissionService) SendTest(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
