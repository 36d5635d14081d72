package mocks

import (
	"context"

	"aetheria/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockVendorGateway struct {
	mock.Mock
}

func (m *MockVendorGateway) Report(ctx context.Context, id, sign string) (*model.ScanReport, error) {
	args := m.Called(ctx, id, sign)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScanReport), args.Error(1)
}

func (m *MockVendorGateway) FetchImage(ctx context.Context, url string) ([]byte, string, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}
