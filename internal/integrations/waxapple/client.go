// Package waxapple talks to the wax-apple skin-analysis machine vendor.
// Reports are fetched from the vendor's data endpoint with the id+sign
// pair embedded in every report URL, and normalized into domain types.
package waxapple

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"aetheria/internal/config"
	"aetheria/internal/model"
)

// Client is an HTTP client for the vendor report endpoint.
// Safe for concurrent use.
type Client struct {
	Config config.VendorConfig
	http   *http.Client
}

// NewClient creates a vendor client from configuration.
func NewClient(cfg config.VendorConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &Client{
		Config: cfg,
		http:   &http.Client{Timeout: timeout},
	}
}

// Report fetches and normalizes a machine report.
func (c *Client) Report(ctx context.Context, id, sign string) (*model.ScanReport, error) {
	q := url.Values{}
	q.Set("id", id)
	q.Set("sign", sign)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Config.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build vendor request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", c.Config.UserAgent)
	req.Header.Set("Referer", c.Config.Referer)
	req.Header.Set("Origin", c.Config.Origin)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vendor request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read vendor response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		log.WithFields(log.Fields{
			"status": res.StatusCode,
			"id":     id,
		}).Warn("vendor report request failed")
		return nil, fmt.Errorf("vendor responded with status %d", res.StatusCode)
	}

	payload, raw, err := extractJSON(body)
	if err != nil {
		return nil, err
	}

	report := Normalize(payload, raw)
	log.WithFields(log.Fields{
		"id":      id,
		"metrics": len(report.Metrics),
		"images":  len(report.SamplingImages),
	}).Info("vendor report fetched")
	return report, nil
}

// FetchImage downloads a report image through the vendor's CDN, which
// also checks Referer/Origin. Returns the bytes and the content type.
func (c *Client) FetchImage(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, "", fmt.Errorf("bad image url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build image request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", c.Config.Referer)
	req.Header.Set("Origin", c.Config.Origin)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("image request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image responded with status %d", res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read image response: %w", err)
	}

	ct := res.Header.Get("Content-Type")
	if ct == "" {
		ct = "image/jpeg"
	}
	if i := bytes.IndexByte([]byte(ct), ';'); i >= 0 {
		ct = ct[:i]
	}
	return data, ct, nil
}

// extractJSON parses the response body as JSON. The vendor sometimes
// wraps the payload in stray characters, so on invalid input the slice
// from the first '{' to the last '}' is retried.
func extractJSON(body []byte) (gjson.Result, []byte, error) {
	if gjson.ValidBytes(body) {
		return gjson.ParseBytes(body), body, nil
	}
	s := bytes.IndexByte(body, '{')
	e := bytes.LastIndexByte(body, '}')
	if s != -1 && e > s {
		trimmed := body[s : e+1]
		if gjson.ValidBytes(trimmed) {
			return gjson.ParseBytes(trimmed), trimmed, nil
		}
	}
	return gjson.Result{}, nil, fmt.Errorf("vendor response is not valid JSON")
}
