package postgres

import (
	"context"
	"database/sql"

	"aetheria/internal/model"
	"aetheria/internal/repository"
)

// CustomerPostgres is a PostgreSQL implementation of repository.CustomerRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type CustomerPostgres struct {
	db *sql.DB
}

// NewCustomerPostgres creates a new CustomerPostgres repository.
func NewCustomerPostgres(db *sql.DB) *CustomerPostgres {
	return &CustomerPostgres{db: db}
}

var _ repository.CustomerRepository = (*CustomerPostgres)(nil)

// Create inserts a new customer row and returns the stored record.
func (r *CustomerPostgres) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	const q = `
		INSERT INTO customer (phone_e164, full_name)
		VALUES ($1, NULLIF($2, ''))
		RETURNING id, phone_e164, COALESCE(full_name, ''), created_at
	`
	row := r.db.QueryRowContext(ctx, q, c.PhoneE164, c.FullName)
	var out model.Customer
	if err := row.Scan(&out.ID, &out.PhoneE164, &out.FullName, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByPhone fetches a single customer by E.164 phone number.
func (r *CustomerPostgres) FindByPhone(ctx context.Context, phoneE164 string) (*model.Customer, error) {
	const q = `
		SELECT id, phone_e164, COALESCE(full_name, ''), created_at
		FROM customer
		WHERE phone_e164 = $1
	`
	row := r.db.QueryRowContext(ctx, q, phoneE164)
	var c model.Customer
	if err := row.Scan(&c.ID, &c.PhoneE164, &c.FullName, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateName backfills full_name for the customer with the given phone.
func (r *CustomerPostgres) UpdateName(ctx context.Context, phoneE164, fullName string) error {
	const q = `UPDATE customer SET full_name = $2 WHERE phone_e164 = $1`
	_, err := r.db.ExecContext(ctx, q, phoneE164, fullName)
	return err
}

// List returns customers using LIMIT/OFFSET pagination and a total count.
func (r *CustomerPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Customer], error) {
	const qCount = `SELECT COUNT(*) FROM customer`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, phone_e164, COALESCE(full_name, ''), created_at
		FROM customer
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.PhoneE164, &c.FullName, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Customer]{
		Items: items,
		Total: total,
	}, nil
}
