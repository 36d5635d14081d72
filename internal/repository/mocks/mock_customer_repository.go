package mocks

import (
	"context"

	"aetheria/internal/model"
	"aetheria/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, phoneE164 string) (*model.Customer, error) {
	args := m.Called(ctx, phoneE164)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) UpdateName(ctx context.Context, phoneE164, fullName string) error {
	args := m.Called(ctx, phoneE164, fullName)
	return args.Error(0)
}

func (m *MockCustomerRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Customer], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Customer]), args.Error(1)
}
