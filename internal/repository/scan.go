package repository

import (
	"context"

	"aetheria/internal/model"
)

// ScanRepository defines data access for assessment sessions and machine scans.
type ScanRepository interface {
	// CreateSession inserts a new assessment session for the customer.
	CreateSession(ctx context.Context, customerID string) (*model.Session, error)

	// Create inserts a new machine scan row and returns the stored record.
	Create(ctx context.Context, scan *model.Scan) (*model.Scan, error)

	// FindByVendorRef returns the scan with the given vendor report identity.
	// Returns sql.ErrNoRows when no such scan exists.
	FindByVendorRef(ctx context.Context, urlID int64, urlSign string) (*model.Scan, error)

	// LatestForCustomer returns the most recent scan across all of the
	// customer's sessions. Returns sql.ErrNoRows when the customer has none.
	LatestForCustomer(ctx context.Context, customerID string) (*model.Scan, error)
}
