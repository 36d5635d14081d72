package waxapple

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"aetheria/internal/model"
)

// vendorToInternal maps the vendor's metric labels to stable internal keys.
// Labels not listed here are dropped during normalization.
var vendorToInternal = map[string]string{
	"RGB Moisture":    "moisture",
	"RGB Grease":      "sebum",
	"PL Texture":      "texture",
	"UV Pigmentation": "pigmentation_uv",
	"PL Hyperemia":    "redness",
	"UV Pore":         "pores",
	"UV Acne":         "acne",
	"UV spot":         "uv_spots",
	"Brown area":      "brown_areas",
	"Sensitive Area":  "sensitivity",
}

// Normalize converts a raw vendor payload into a ScanReport.
// The raw bytes are retained on the report for archival.
func Normalize(payload gjson.Result, raw []byte) *model.ScanReport {
	out := &model.ScanReport{
		Name:           payload.Get("name").String(),
		Phone:          payload.Get("phone").String(),
		SamplingImages: map[string]string{},
		Metrics:        map[string]model.Metric{},
		Raw:            raw,
	}

	// checkid and age only when they are actual integers
	if v := payload.Get("checkid"); v.Type == gjson.Number {
		id := v.Int()
		out.CheckID = &id
	}
	if v := payload.Get("age"); v.Type == gjson.Number {
		age := v.Int()
		out.SkinAge = &age
	}

	payload.Get("sampling").ForEach(func(_, s gjson.Result) bool {
		name, u := s.Get("name").String(), s.Get("url").String()
		if name != "" && u != "" {
			out.SamplingImages[name] = u
		}
		return true
	})

	payload.Get("datalist").ForEach(func(_, m gjson.Result) bool {
		label := m.Get("items").String()
		key, ok := vendorToInternal[label]
		if !ok {
			return true
		}
		val := toFloat(m.Get("value"))
		cloud := toFloat(m.Get("cloudvalue"))
		var delta *float64
		if val != nil && cloud != nil {
			d := *val - *cloud
			delta = &d
		}
		out.Metrics[key] = model.Metric{
			Key:            key,
			Label:          label,
			Value:          val,
			CloudValue:     cloud,
			DeltaFromCloud: delta,
			VendorLevel:    strings.TrimSpace(m.Get("level").String()),
		}
		return true
	})

	return out
}

// toFloat reads a vendor number leniently: numbers pass through, strings
// are parsed after stripping whitespace and a trailing '%'.
func toFloat(v gjson.Result) *float64 {
	switch v.Type {
	case gjson.Number:
		f := v.Float()
		return &f
	case gjson.String:
		s := strings.TrimSpace(strings.ReplaceAll(v.String(), "%", ""))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
