package handlers

import (
	"net"
	"net/http"
	"strings"
)

// RateLimiter guards the abuse-prone auth endpoints. Keys are scoped per
// endpoint so a burst of signups does not lock a member out of logging in.
type RateLimiter interface {
	Allow(key string) bool
}

// allowRequest checks the limiter for the calling client. A nil limiter
// admits everything, which is how most handler tests run.
func allowRequest(limiter RateLimiter, r *http.Request, scope string) bool {
	if limiter == nil {
		return true
	}
	return limiter.Allow(rateLimitKey(r, scope))
}

func rateLimitKey(r *http.Request, scope string) string {
	ip := clientIP(r)
	if scope == "" {
		return ip
	}
	return scope + ":" + ip
}

// clientIP prefers the first X-Forwarded-For hop so limits follow the caller
// through a reverse proxy, falling back to the socket address.
func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
