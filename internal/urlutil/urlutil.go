// Package urlutil turns untrusted provider-supplied strings into canonical,
// schemed URLs and rejects placeholder and internal hosts before any network
// probe is attempted.
package urlutil

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

var bareDomain = regexp.MustCompile(`^[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Hosts that only ever show up in fabricated or test data.
var denylist = []string{
	"localhost",
	"example.com",
	"test.com",
	"domain.com",
	"yourdomain.com",
	"loremipsum.com",
}

// Normalize trims the input and ensures it is an absolute URL. A bare domain
// gets an https scheme prepended; anything else unparseable returns "".
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		if u.Scheme == "" {
			u.Scheme = "https"
		}
		return u.String()
	}

	if bareDomain.MatchString(raw) {
		return "https://" + raw
	}

	return ""
}

// Canonicalize reduces a URL to its deduplication key: lower-cased host plus
// path with the trailing slash stripped (an empty path becomes "/"). Scheme,
// port, query and fragment are discarded. Returns "" when no host is present.
func Canonicalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		path = "/"
	}

	return host + path
}

// Acceptable performs the offline part of validation: http(s) scheme, a host
// that is not a known placeholder, and no private or loopback IP literal.
func Acceptable(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, bad := range denylist {
		if strings.Contains(host, bad) {
			return false
		}
	}

	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
			return false
		}
	}

	return true
}

// Host extracts the lower-cased hostname, or "" when absent.
func Host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
