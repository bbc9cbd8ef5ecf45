package domain

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// PageTargeting holds glob pattern sets restricting which pages a campaign
// may serve on. Exclude patterns are checked first and reject on any match;
// when include patterns exist, at least one must match.
type PageTargeting struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// ParsePageTargeting decodes the stored page-targeting JSON. An error marks
// a data-quality problem; callers treat it as "no constraint".
func ParsePageTargeting(raw []byte) (PageTargeting, error) {
	var pt PageTargeting
	if len(raw) == 0 || string(raw) == "null" {
		return pt, nil
	}
	err := json.Unmarshal(raw, &pt)
	return pt, err
}

// Matches reports whether pageURL passes the targeting. An empty page URL
// or an empty pattern set passes.
func (pt PageTargeting) Matches(pageURL string) bool {
	if pageURL == "" {
		return true
	}
	for _, pattern := range pt.Exclude {
		if globMatch(pattern, pageURL) {
			return false
		}
	}
	if len(pt.Include) == 0 {
		return true
	}
	for _, pattern := range pt.Include {
		if globMatch(pattern, pageURL) {
			return true
		}
	}
	return false
}

// globMatch matches a URL against a shell-style wildcard pattern where `*`
// crosses path separators. Invalid patterns never match.
func globMatch(pattern, s string) bool {
	g, err := glob.Compile(pattern)
	if err != nil {
		return false
	}
	return g.Match(s)
}

// ParseTargetDomains decodes the stored domain-targeting JSON list.
func ParseTargetDomains(raw []byte) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var domains []string
	err := json.Unmarshal(raw, &domains)
	return domains, err
}

// RegistrableDomain extracts the base domain from a URL: the host without a
// leading "www.", reduced to its last two label components. Returns "" when
// the URL has no usable host.
func RegistrableDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return host
}

// MatchDomains reports whether the page URL's registrable domain matches one
// of the allowed domains, exactly or as a subdomain. Absence of either side
// passes (fail-open).
func MatchDomains(targets []string, pageURL string) bool {
	if len(targets) == 0 || pageURL == "" {
		return true
	}
	pageDomain := RegistrableDomain(pageURL)
	if pageDomain == "" {
		return true
	}
	for _, target := range targets {
		t := strings.ToLower(strings.TrimSpace(target))
		t = strings.TrimPrefix(t, "www.")
		if pageDomain == t || strings.HasSuffix(pageDomain, "."+t) {
			return true
		}
	}
	return false
}
