// Package clientip extracts the real client IP address from HTTP requests,
// handling common proxy headers in priority order: CF-Connecting-IP,
// X-Forwarded-For (leftmost entry), X-Real-IP, then RemoteAddr. Extracted
// values are validated with net.ParseIP; malformed headers are skipped.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// headerPriority lists proxy headers from most to least trustworthy.
var headerPriority = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the client IP for the request. It never fails: when no header
// yields a valid address, the RemoteAddr host (or the raw RemoteAddr) is
// returned.
func GetIP(r *http.Request) string {
	for _, header := range headerPriority {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		// X-Forwarded-For may hold "client, proxy1, proxy2"; the leftmost
		// entry is the original client.
		candidate, _, _ := strings.Cut(value, ",")
		if ip := normalize(candidate); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	if ip := normalize(host); ip != "" {
		return ip
	}
	return host
}

// normalize validates and canonicalizes an IP candidate, rejecting the
// unspecified address.
func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
