package mocks

import (
	"context"

	"aetheria/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockScanRepository struct {
	mock.Mock
}

func (m *MockScanRepository) CreateSession(ctx context.Context, customerID string) (*model.Session, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockScanRepository) Create(ctx context.Context, scan *model.Scan) (*model.Scan, error) {
	args := m.Called(ctx, scan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scan), args.Error(1)
}

func (m *MockScanRepository) FindByVendorRef(ctx context.Context, urlID int64, urlSign string) (*model.Scan, error) {
	args := m.Called(ctx, urlID, urlSign)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scan), args.Error(1)
}

func (m *MockScanRepository) LatestForCustomer(ctx context.Context, customerID string) (*model.Scan, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scan), args.Error(1)
}
