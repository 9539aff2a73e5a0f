package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ikigai-ua/formrelay/internal/storage"
)

// MockSubmissionStore is a mock implementation of storage.SubmissionStore.
type MockSubmissionStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockSubmissionStore) Add(ctx context.Context, sub storage.NewSubmission) (*storage.Submission, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Submission), args.Error(1)
}

//nolint:revive
func (m *MockSubmissionStore) List(ctx context.Context, limit int) ([]storage.Submission, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Submission), args.Error(1)
}

//nolint:revive
func (m *MockSubmissionStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

//nolint:revive
func (m *MockSubmissionStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
