package postgres

import (
	"context"
	"database/sql"

	"aetheria/internal/model"
	"aetheria/internal/repository"
)

// ScanPostgres is a PostgreSQL implementation of repository.ScanRepository.
type ScanPostgres struct {
	db *sql.DB
}

// NewScanPostgres creates a new ScanPostgres repository.
func NewScanPostgres(db *sql.DB) *ScanPostgres {
	return &ScanPostgres{db: db}
}

var _ repository.ScanRepository = (*ScanPostgres)(nil)

// CreateSession inserts a new assessment session row for the customer.
func (r *ScanPostgres) CreateSession(ctx context.Context, customerID string) (*model.Session, error) {
	const q = `
		INSERT INTO assessment_session (customer_id)
		VALUES ($1)
		RETURNING id, customer_id, created_at
	`
	row := r.db.QueryRowContext(ctx, q, customerID)
	var s model.Session
	if err := row.Scan(&s.ID, &s.CustomerID, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new machine scan row and returns the stored record.
// The UNIQUE (url_id, url_sign) constraint makes concurrent saves of the
// same vendor report fail rather than duplicate.
func (r *ScanPostgres) Create(ctx context.Context, scan *model.Scan) (*model.Scan, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO machine_scan
			(session_id, checkid, url_id, url_sign, customer_name, customer_phone,
			 skin_age, sampling_images, metrics, raw_report, archive_path)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, NULLIF($11, ''))
		RETURNING id, session_id, checkid, url_id, url_sign,
			COALESCE(customer_name, ''), customer_phone, skin_age,
			sampling_images, metrics, raw_report, COALESCE(archive_path, ''), created_at
	`,
		scan.SessionID,
		scan.CheckID,
		scan.URLID,
		scan.URLSign,
		scan.CustomerName,
		scan.CustomerPhone,
		scan.SkinAge,
		[]byte(scan.SamplingImages),
		[]byte(scan.Metrics),
		[]byte(scan.RawReport),
		scan.ArchivePath,
	)
	return scanRow(row)
}

// FindByVendorRef fetches a scan by its vendor report identity.
func (r *ScanPostgres) FindByVendorRef(ctx context.Context, urlID int64, urlSign string) (*model.Scan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, checkid, url_id, url_sign,
			COALESCE(customer_name, ''), customer_phone, skin_age,
			sampling_images, metrics, raw_report, COALESCE(archive_path, ''), created_at
		FROM machine_scan
		WHERE url_id = $1 AND url_sign = $2
	`, urlID, urlSign)
	return scanRow(row)
}

// LatestForCustomer fetches the customer's most recent scan across sessions.
func (r *ScanPostgres) LatestForCustomer(ctx context.Context, customerID string) (*model.Scan, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT ms.id, ms.session_id, ms.checkid, ms.url_id, ms.url_sign,
			COALESCE(ms.customer_name, ''), ms.customer_phone, ms.skin_age,
			ms.sampling_images, ms.metrics, ms.raw_report, COALESCE(ms.archive_path, ''), ms.created_at
		FROM machine_scan ms
		JOIN assessment_session s ON s.id = ms.session_id
		WHERE s.customer_id = $1
		ORDER BY ms.created_at DESC, ms.id DESC
		LIMIT 1
	`, customerID)
	return scanRow(row)
}

func scanRow(row *sql.Row) (*model.Scan, error) {
	var s model.Scan
	if err := row.Scan(
		&s.ID,
		&s.SessionID,
		&s.CheckID,
		&s.URLID,
		&s.URLSign,
		&s.CustomerName,
		&s.CustomerPhone,
		&s.SkinAge,
		&s.SamplingImages,
		&s.Metrics,
		&s.RawReport,
		&s.ArchivePath,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
