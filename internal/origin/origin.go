// Package origin decides whether a browser origin may talk to a project's
// public endpoints.
//
// Allow-list entries support four shapes:
//
//	*                   any origin
//	https://app.io      prefix match on the full origin (scheme required)
//	*.example.com       example.com and any of its subdomains
//	example.com         exact hostname match, any scheme or port
//
// Entries are compared lowercased with trailing slashes removed.
package origin

import (
	"net/url"
	"strings"
)

// Wildcard allows every origin.
const Wildcard = "*"

// Normalize lowercases, trims and strips trailing slashes from every entry,
// dropping the empty ones.
func Normalize(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimRight(strings.ToLower(strings.TrimSpace(e)), "/")
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// Allowed reports whether origin matches the allow-list.
func Allowed(origin string, allowed []string) bool {
	allowed = Normalize(allowed)
	for _, a := range allowed {
		if a == Wildcard {
			return true
		}
	}
	if origin == "" {
		return false
	}
	o := strings.TrimRight(strings.ToLower(origin), "/")
	for _, a := range allowed {
		if a == o {
			return true
		}
	}
	// Sandboxed frames and file:// pages send the literal "null".
	if o == "null" {
		return false
	}

	u, err := url.Parse(o)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := u.Hostname()

	for _, a := range allowed {
		switch {
		case strings.Contains(a, "://"):
			if strings.HasPrefix(o, a) {
				return true
			}
		case strings.HasPrefix(a, "*."):
			if strings.HasSuffix(host, a[1:]) || host == a[2:] {
				return true
			}
		case host == a:
			return true
		}
	}
	return false
}
