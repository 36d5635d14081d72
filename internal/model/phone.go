package model

import "strings"

// NormalizeE164 converts a raw phone string into E.164 form.
//
// Rules, matching what the scan machines emit:
// - a leading "+" means the country code is already present; keep digits;
// - exactly 10 digits is a national number; prefix the default country code;
// - any other digit string is assumed to already carry a country code.
// Returns "" when no digits remain.
func NormalizeE164(raw, defaultCountryCode string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	digits := keepDigits(raw)
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(raw, "+") {
		return "+" + digits
	}
	if len(digits) == 10 {
		return "+" + defaultCountryCode + digits
	}
	return "+" + digits
}

// MaskPhone hides the middle of a phone number for display: "ab****yz".
// Strings shorter than 6 characters are returned unchanged.
func MaskPhone(phone string) string {
	if len(phone) < 6 {
		return phone
	}
	return phone[:2] + "****" + phone[len(phone)-2:]
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}
