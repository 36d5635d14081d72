package mocks

import (
	"context"

	"aetheria/internal/model"
	"aetheria/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockScanService struct {
	mock.Mock
}

func (m *MockScanService) Save(ctx context.Context, report *model.ScanReport) (*service.SaveResult, error) {
	args := m.Called(ctx, report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SaveResult), args.Error(1)
}

func (m *MockScanService) ListCustomers(ctx context.Context, limit, offset int) (*service.CustomerListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CustomerListResult), args.Error(1)
}

func (m *MockScanService) LatestScan(ctx context.Context, customerID string) (*model.Scan, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scan), args.Error(1)
}

func (m *MockScanService) ArchiveURL(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}
