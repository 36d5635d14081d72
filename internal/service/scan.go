package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"aetheria/internal/model"
	"aetheria/internal/repository"
	"aetheria/internal/storage"
)

// SaveResult reports the outcome of persisting a scan. When Duplicate is
// true the ids refer to the previously saved scan and no new rows exist.
type SaveResult struct {
	OK         bool   `json:"ok"`
	Duplicate  bool   `json:"duplicate,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	SessionID  string `json:"session_id"`
	ScanID     string `json:"scan_id"`
}

// CustomerListResult is the service-level DTO for paginated customers.
type CustomerListResult struct {
	Items []model.Customer `json:"data"`
	Total int              `json:"total"`
}

// ScanService defines the use cases around persisted scans.
type ScanService interface {
	// Save persists a normalized report: get-or-create customer by phone,
	// dedupe on the vendor report identity, create an assessment session,
	// archive the raw payload, and insert the scan row.
	Save(ctx context.Context, report *model.ScanReport) (*SaveResult, error)

	// ListCustomers returns customers using limit/offset and a total count.
	ListCustomers(ctx context.Context, limit, offset int) (*CustomerListResult, error)

	// LatestScan returns the customer's most recent scan.
	LatestScan(ctx context.Context, customerID string) (*model.Scan, error)

	// ArchiveURL returns a time-limited download URL for the archived raw
	// payload of the customer's most recent scan.
	ArchiveURL(ctx context.Context, customerID string) (string, error)
}

type scanService struct {
	customers          repository.CustomerRepository
	scans              repository.ScanRepository
	store              storage.Storage
	defaultCountryCode string
}

// NewScanService constructs a new ScanService. store may be nil, in which
// case raw payloads are not archived.
func NewScanService(customers repository.CustomerRepository, scans repository.ScanRepository, store storage.Storage, defaultCountryCode string) ScanService {
	return &scanService{
		customers:          customers,
		scans:              scans,
		store:              store,
		defaultCountryCode: defaultCountryCode,
	}
}

func (s *scanService) Save(ctx context.Context, report *model.ScanReport) (*SaveResult, error) {
	if report == nil || report.URLID == nil || report.URLSign == "" {
		return nil, ErrMissingVendorRef
	}
	urlID, urlSign := *report.URLID, report.URLSign

	phone := model.NormalizeE164(report.Phone, s.defaultCountryCode)
	if phone == "" {
		return nil, ErrInvalidPhone
	}
	fullName := strings.TrimSpace(report.Name)

	customer, err := s.getOrCreateCustomer(ctx, phone, fullName)
	if err != nil {
		return nil, err
	}

	// Dedupe before creating a session so replays leave no orphan session rows.
	existing, err := s.scans.FindByVendorRef(ctx, urlID, urlSign)
	if err == nil {
		return &SaveResult{
			OK:        true,
			Duplicate: true,
			SessionID: existing.SessionID,
			ScanID:    existing.ID,
		}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scan lookup: %w", err)
	}

	session, err := s.scans.CreateSession(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	images, err := json.Marshal(report.SamplingImages)
	if err != nil {
		return nil, fmt.Errorf("encode sampling images: %w", err)
	}
	metrics, err := json.Marshal(report.Metrics)
	if err != nil {
		return nil, fmt.Errorf("encode metrics: %w", err)
	}

	archivePath := s.archiveRaw(ctx, urlID, urlSign, report.Raw)

	scan := &model.Scan{
		SessionID:      session.ID,
		CheckID:        report.CheckID,
		URLID:          urlID,
		URLSign:        urlSign,
		CustomerName:   fullName,
		CustomerPhone:  phone,
		SkinAge:        report.SkinAge,
		SamplingImages: images,
		Metrics:        metrics,
		RawReport:      report.Raw,
		ArchivePath:    archivePath,
	}
	stored, err := s.scans.Create(ctx, scan)
	if err != nil {
		// Roll back the archived object so storage does not accumulate
		// payloads that no row references.
		if archivePath != "" {
			if delErr := s.store.Delete(ctx, archivePath); delErr != nil {
				return nil, fmt.Errorf("scan insert failed: %v; archive rollback failed: %v", err, delErr)
			}
		}
		return nil, fmt.Errorf("scan insert failed: %w", err)
	}

	return &SaveResult{
		OK:         true,
		CustomerID: customer.ID,
		SessionID:  stored.SessionID,
		ScanID:     stored.ID,
	}, nil
}

func (s *scanService) getOrCreateCustomer(ctx context.Context, phone, fullName string) (*model.Customer, error) {
	customer, err := s.customers.FindByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer lookup: %w", err)
		}
		created, err := s.customers.Create(ctx, &model.Customer{PhoneE164: phone, FullName: fullName})
		if err != nil {
			return nil, fmt.Errorf("customer insert: %w", err)
		}
		return created, nil
	}

	if fullName != "" && customer.FullName != fullName {
		if err := s.customers.UpdateName(ctx, phone, fullName); err != nil {
			return nil, fmt.Errorf("customer name update: %w", err)
		}
		customer.FullName = fullName
	}
	return customer, nil
}

// archiveRaw writes the raw vendor payload to object storage. The JSONB
// column is authoritative, so a failed archive only logs.
func (s *scanService) archiveRaw(ctx context.Context, urlID int64, urlSign string, raw []byte) string {
	if s.store == nil || len(raw) == 0 {
		return ""
	}
	key := fmt.Sprintf("reports/%d-%s.json", urlID, urlSign)
	_, err := s.store.Put(ctx, key, bytes.NewReader(raw), storage.PutObjectOptions{
		Size:        int64(len(raw)),
		ContentType: "application/json",
	})
	if err != nil {
		log.WithFields(log.Fields{"key": key, "error": err}).
			Warn("failed to archive raw report")
		return ""
	}
	return key
}

func (s *scanService) ListCustomers(ctx context.Context, limit, offset int) (*CustomerListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.customers.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *scanService) LatestScan(ctx context.Context, customerID string) (*model.Scan, error) {
	if customerID == "" {
		return nil, ErrNotFound
	}
	scan, err := s.scans.LatestForCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return scan, nil
}

// archiveURLExpiry bounds how long archive download links stay valid.
const archiveURLExpiry = 15 * time.Minute

func (s *scanService) ArchiveURL(ctx context.Context, customerID string) (string, error) {
	scan, err := s.LatestScan(ctx, customerID)
	if err != nil {
		return "", err
	}
	if s.store == nil || scan.ArchivePath == "" {
		return "", ErrNotFound
	}
	u, err := s.store.PresignGet(ctx, scan.ArchivePath, archiveURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign archive: %w", err)
	}
	return u, nil
}
