package model

import (
	"encoding/json"
	"time"
)

// Metric is one normalized skin measurement from a machine report.
// Value and CloudValue are on a 0-100 scale; CloudValue is the vendor's
// population average for the measurement. Pointers distinguish a missing
// reading from a genuine zero.
type Metric struct {
	Key            string   `json:"key"`
	Label          string   `json:"label,omitempty"`
	Value          *float64 `json:"value"`
	CloudValue     *float64 `json:"cloudvalue"`
	DeltaFromCloud *float64 `json:"delta_from_cloud"`
	VendorLevel    string   `json:"vendor_level,omitempty"`
	Band           string   `json:"band,omitempty"`
	Color          string   `json:"color,omitempty"`
}

// ScanReport is a normalized machine report as returned by the ingest
// endpoint. It carries the vendor report identity (URLID/URLSign) so the
// same payload can later be handed back to the save endpoint.
type ScanReport struct {
	CheckID        *int64            `json:"checkid"`
	Name           string            `json:"name,omitempty"`
	Phone          string            `json:"phone,omitempty"`
	PhoneMasked    string            `json:"phone_masked,omitempty"`
	SkinAge        *int64            `json:"skin_age"`
	SamplingImages map[string]string `json:"sampling_images"`
	Metrics        map[string]Metric `json:"metrics"`
	URLID          *int64            `json:"url_id"`
	URLSign        string            `json:"url_sign,omitempty"`
	Raw            json.RawMessage   `json:"raw,omitempty"`
}

// Customer is a person identified by an E.164 phone number.
type Customer struct {
	ID        string    `json:"id"`
	PhoneE164 string    `json:"phone_e164"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is one assessment visit; scans hang off a session.
type Session struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Scan is a persisted machine report. SamplingImages, Metrics and
// RawReport are stored as JSONB; ArchivePath points at the object-store
// copy of the raw vendor payload when one was written.
type Scan struct {
	ID             string          `json:"id"`
	SessionID      string          `json:"session_id"`
	CheckID        *int64          `json:"checkid"`
	URLID          int64           `json:"url_id"`
	URLSign        string          `json:"url_sign"`
	CustomerName   string          `json:"customer_name,omitempty"`
	CustomerPhone  string          `json:"customer_phone"`
	SkinAge        *int64          `json:"skin_age"`
	SamplingImages json.RawMessage `json:"sampling_images"`
	Metrics        json.RawMessage `json:"metrics"`
	RawReport      json.RawMessage `json:"raw_report,omitempty"`
	ArchivePath    string          `json:"archive_path,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
