package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"aetheria/internal/model"
	"aetheria/internal/service"
)

// HealthCheck verifies DB connectivity.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain liveness check with no dependencies.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// IngestReport fetches and normalizes a vendor report.
// Body: {"url": "..."} or {"id": "...", "sign": "..."}.
func IngestReport(svc service.IngestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ref service.ReportRef
		// An unparseable body degrades to an empty ref, which the service rejects.
		_ = json.Unmarshal(c.Body(), &ref)

		report, err := svc.Ingest(c.UserContext(), ref)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrReportRefRequired):
				return writeError(c, fiber.StatusBadRequest, "REPORT_REF_REQUIRED", "need url or id+sign")
			case errors.Is(err, service.ErrInvalidReportURL):
				return writeError(c, fiber.StatusBadRequest, "INVALID_REPORT_URL", "report url carries no id/sign")
			default:
				return writeError(c, fiber.StatusBadGateway, "VENDOR_UNAVAILABLE", "vendor report fetch failed")
			}
		}
		return c.JSON(report)
	}
}

// ProxyImage streams a vendor report image through the service.
func ProxyImage(svc service.ImageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, ct, err := svc.Fetch(c.UserContext(), c.Query("u"))
		if err != nil {
			if errors.Is(err, service.ErrBadImageURL) {
				return writeError(c, fiber.StatusBadRequest, "BAD_IMAGE_URL", "image url missing or not http(s)")
			}
			return writeError(c, fiber.StatusBadGateway, "IMAGE_FETCH_FAILED", "image fetch failed")
		}
		c.Set(fiber.HeaderContentType, ct)
		return c.Send(data)
	}
}

// SaveScan persists a previously ingested report.
// Accepts the report either bare or wrapped as {"scan": {...}}.
func SaveScan(svc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := decodeSaveBody(c.Body())
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload")
		}

		res, err := svc.Save(c.UserContext(), report)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMissingVendorRef):
				return writeError(c, fiber.StatusBadRequest, "MISSING_VENDOR_REF", "missing url_id/url_sign")
			case errors.Is(err, service.ErrInvalidPhone):
				return writeError(c, fiber.StatusBadRequest, "INVALID_PHONE", "scan phone missing or invalid")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(res)
	}
}

func decodeSaveBody(body []byte) (*model.ScanReport, error) {
	var wrapper struct {
		Scan *model.ScanReport `json:"scan"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Scan != nil {
		return wrapper.Scan, nil
	}
	var report model.ScanReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListCustomers returns customers with limit & offset pagination.
func ListCustomers(svc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListCustomers(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// LatestScanArchive returns a presigned download URL for the archived raw
// payload of a customer's most recent scan.
func LatestScanArchive(svc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := svc.ArchiveURL(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "no archived report for customer")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"url": u})
	}
}

// LatestCustomerScan returns a customer's most recent scan.
func LatestCustomerScan(svc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		scan, err := svc.LatestScan(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "no scan for customer")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(scan)
	}
}
