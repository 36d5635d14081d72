package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"aetheria/internal/banding"
	"aetheria/internal/integrations/waxapple"
	"aetheria/internal/model"
)

var (
	ErrReportRefRequired = errors.New("report url or id+sign is required")
	ErrInvalidReportURL  = errors.New("report url carries no id/sign")
	ErrMissingVendorRef  = errors.New("scan is missing url_id/url_sign")
	ErrInvalidPhone      = errors.New("scan phone missing or invalid")
	ErrNotFound          = errors.New("not found")
)

// ReportRef identifies a vendor report either by its full viewer URL or
// by the id+sign pair directly. When both are given, id+sign wins.
type ReportRef struct {
	URL  string `json:"url"`
	ID   string `json:"id"`
	Sign string `json:"sign"`
}

// VendorGateway is the vendor API surface the services depend on.
// *waxapple.Client satisfies it.
type VendorGateway interface {
	Report(ctx context.Context, id, sign string) (*model.ScanReport, error)
	FetchImage(ctx context.Context, url string) ([]byte, string, error)
}

// BandSource supplies the current banding table; *banding.Watcher satisfies it.
type BandSource interface {
	Snapshot() *banding.Table
}

// IngestService fetches vendor reports and prepares them for display and saving.
type IngestService interface {
	// Ingest resolves the report reference, fetches the report, applies
	// score banding to every metric, and masks the customer phone.
	Ingest(ctx context.Context, ref ReportRef) (*model.ScanReport, error)
}

type ingestService struct {
	gateway VendorGateway
	bands   BandSource
}

// NewIngestService constructs a new IngestService.
func NewIngestService(gateway VendorGateway, bands BandSource) IngestService {
	return &ingestService{gateway: gateway, bands: bands}
}

func (s *ingestService) Ingest(ctx context.Context, ref ReportRef) (*model.ScanReport, error) {
	id, sign := ref.ID, ref.Sign
	if ref.URL != "" && (id == "" || sign == "") {
		var err error
		id, sign, err = waxapple.ParseReportRef(ref.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReportURL, err)
		}
	}
	if id == "" || sign == "" {
		return nil, ErrReportRefRequired
	}

	report, err := s.gateway.Report(ctx, id, sign)
	if err != nil {
		return nil, fmt.Errorf("fetch report: %w", err)
	}

	table := s.bands.Snapshot()
	for key, m := range report.Metrics {
		m.Band, m.Color = table.BandFor(key, m.Value)
		report.Metrics[key] = m
	}

	// Keep the vendor report identity so the payload can be saved later.
	if urlID, ok := parseInt64(id); ok {
		report.URLID = &urlID
	}
	report.URLSign = sign
	report.PhoneMasked = model.MaskPhone(report.Phone)

	return report, nil
}

func parseInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil && n >= 0
}
