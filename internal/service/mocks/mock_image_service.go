package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}
