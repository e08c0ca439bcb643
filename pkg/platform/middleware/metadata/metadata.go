// Package metadata extracts client metadata from incoming requests and
// carries it through the context for the audit trail.
package metadata

import (
	"context"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// Metadata describes the client behind a request.
type Metadata struct {
	IP    string
	Agent string
}

type contextKey struct{}

// ClientMetadata resolves the client IP and a normalized user-agent string
// and attaches them to the request context. Apply early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		md := Metadata{
			IP:    ClientIPFromRequest(r),
			Agent: normalizeAgent(r.Header.Get("User-Agent")),
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), md)))
	})
}

// NewContext attaches client metadata to a context. Useful for service tests
// that skip the HTTP middleware chain.
func NewContext(ctx context.Context, md Metadata) context.Context {
	return context.WithValue(ctx, contextKey{}, md)
}

// FromContext retrieves client metadata when the middleware has run.
func FromContext(ctx context.Context) (Metadata, bool) {
	md, ok := ctx.Value(contextKey{}).(Metadata)
	return md, ok
}

// normalizeAgent collapses a raw User-Agent header to "Browser/Version (OS)"
// for browsers and leaves tool agents like curl untouched.
func normalizeAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name == "" {
		return raw
	}
	if os := ua.OS(); os != "" {
		return name + "/" + version + " (" + os + ")"
	}
	return name + "/" + version
}

// ClientIPFromRequest extracts the original client IP, looking through the
// common proxy headers before falling back to the socket address.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// The first entry is the original client; the rest are proxies.
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if addr := r.RemoteAddr; addr != "" {
		// RemoteAddr carries a port, "ip:port" or "[::1]:port".
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}
	return "unknown"
}
