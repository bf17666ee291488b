// Package server decides which pages may open a game connection. The
// bundled landing page is always served from the game's own host; any other
// page must be listed in ALLOWED_ORIGINS, or the list must contain "*".
package server

import (
	"log"
	"net/http"
	"net/url"
	"strings"
)

// normalizeOrigins canonicalizes the configured allowlist and reports
// whether it contains the "*" wildcard. Entries that are not scheme://host
// are dropped with a log line.
func normalizeOrigins(origins []string) ([]string, bool) {
	var list []string
	wildcard := false

	for _, entry := range origins {
		entry = strings.TrimSpace(entry)
		switch {
		case entry == "":
		case entry == "*":
			wildcard = true
		default:
			origin, ok := normalizeOrigin(entry)
			if !ok {
				log.Printf("Skipping malformed entry in ALLOWED_ORIGINS: %q", entry)
				continue
			}
			list = append(list, origin)
		}
	}

	return list, wildcard
}

// normalizeOrigin reduces an origin to lower-case scheme://host[:port].
func normalizeOrigin(origin string) (string, bool) {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), true
}

// isSameHost reports whether the page opening the socket was served by this
// server, which is the case for the landing page at "/".
func isSameHost(r *http.Request, origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && strings.EqualFold(u.Host, r.Host)
}

// isOriginAllowed applies the landing-page rule first, then the allowlist.
// Requests without an Origin header are not browsers playing the game and
// are refused.
func isOriginAllowed(r *http.Request) bool {
	origin, ok := normalizeOrigin(r.Header.Get("Origin"))
	if !ok {
		return false
	}
	if isSameHost(r, origin) {
		return true
	}

	configMu.RLock()
	defer configMu.RUnlock()
	if allowAllOrigins {
		return true
	}
	_, listed := allowedOrigins[origin]
	return listed
}

// checkOrigin is the upgrader's CheckOrigin hook.
func checkOrigin(r *http.Request) bool {
	if isOriginAllowed(r) {
		return true
	}
	log.Printf("Refusing game connection from page %q: origin not allowed", r.Header.Get("Origin"))
	return false
}
