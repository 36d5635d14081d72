package mocks

import (
	"context"

	"aetheria/internal/model"
	"aetheria/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) Ingest(ctx context.Context, ref service.ReportRef) (*model.ScanReport, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScanReport), args.Error(1)
}
