package repository

import (
	"context"

	"aetheria/internal/model"
)

// CustomerRepository defines data access for customers using SQL queries only.
// No business logic here — strictly persistence operations.
type CustomerRepository interface {
	// Create inserts a new customer record and returns the stored row
	// (including DB-generated id and created_at).
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)

	// FindByPhone returns the customer with the given E.164 phone number.
	// Returns sql.ErrNoRows when no such customer exists.
	FindByPhone(ctx context.Context, phoneE164 string) (*model.Customer, error)

	// UpdateName sets full_name for the customer identified by phone.
	UpdateName(ctx context.Context, phoneE164, fullName string) error

	// List returns a paginated list of customers, newest first, and the total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Customer], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
