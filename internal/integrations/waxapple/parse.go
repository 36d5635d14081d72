package waxapple

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseReportRef extracts the id and sign from a vendor report URL.
// The report viewer is a hash-routed SPA, so the pair may live either in
// the real query string or in the query of the fragment:
//
//	https://report.wax-apple.cn/?id=123&sign=abc
//	https://report.wax-apple.cn/#/Report/newPifu_play?id=123&sign=abc
func ParseReportRef(reportURL string) (id, sign string, err error) {
	u, err := url.Parse(strings.TrimSpace(reportURL))
	if err != nil {
		return "", "", fmt.Errorf("parse report url: %w", err)
	}

	qs := u.Query()
	if qs.Get("id") != "" && qs.Get("sign") != "" {
		return qs.Get("id"), qs.Get("sign"), nil
	}

	if frag := u.Fragment; strings.Contains(frag, "?") {
		fqs, err := url.ParseQuery(frag[strings.Index(frag, "?")+1:])
		if err == nil && fqs.Get("id") != "" && fqs.Get("sign") != "" {
			return fqs.Get("id"), fqs.Get("sign"), nil
		}
	}

	return "", "", fmt.Errorf("missing id/sign in report url")
}
