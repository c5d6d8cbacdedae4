package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Cache-Control values applied by SecurityHeaders.
const (
	CacheNoStore = "no-store"
	CachePrivate = "private, no-cache"
)

// SecurityOptions configures SecurityHeaders.
//
// Responses whose path starts with one of NoStorePrefixes (login and
// registration, which carry bearer tokens) get Cache-Control: no-store.
// Responses under PrivatePrefixes hold an owner's contacts and profile; they
// get "private, no-cache" so shared caches never keep them while the owner's
// client can still revalidate a contact list through its ETag. The first
// matching rule wins and NoStorePrefixes are checked first.
type SecurityOptions struct {
	EnableHSTS      bool          // only when traffic is HTTPS end-to-end
	HSTSMaxAge      time.Duration // defaults to 180 days
	BrowserPolicy   bool          // Permissions-Policy and cross-domain policy
	NoStorePrefixes []string
	PrivatePrefixes []string
}

// SecurityHeaders sets hardening headers for the JSON API:
//
//	X-Content-Type-Options: nosniff
//	X-Frame-Options: DENY
//	Referrer-Policy: no-referrer
//
// plus the cache policy for the request path, HSTS for HTTPS requests when
// enabled, and the browser feature policy when requested. X-Request-ID is
// added to Access-Control-Expose-Headers when RequestID set it.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = 180 * 24 * time.Hour
	}
	hsts := "max-age=" + strconv.Itoa(int(maxAge.Seconds())) + "; includeSubDomains"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.BrowserPolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		switch cachePolicy(c.Request.URL.Path, opt) {
		case CacheNoStore:
			h.Set("Cache-Control", CacheNoStore)
			h.Set("Pragma", "no-cache")
		case CachePrivate:
			h.Set("Cache-Control", CachePrivate)
			h.Add("Vary", "Authorization")
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		if h.Get(requestIDHeader) != "" {
			exposeHeader(h, requestIDHeader)
		}

		c.Next()
	}
}

// cachePolicy returns the Cache-Control value for path, or "" for none.
func cachePolicy(path string, opt SecurityOptions) string {
	if hasAnyPrefix(path, opt.NoStorePrefixes) {
		return CacheNoStore
	}
	if hasAnyPrefix(path, opt.PrivatePrefixes) {
		return CachePrivate
	}
	return ""
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			continue
		}
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// exposeHeader appends name to Access-Control-Expose-Headers once.
func exposeHeader(h http.Header, name string) {
	const key = "Access-Control-Expose-Headers"
	cur := h.Get(key)
	if cur == "" {
		h.Set(key, name)
		return
	}
	for _, part := range strings.Split(cur, ",") {
		if strings.EqualFold(strings.TrimSpace(part), name) {
			return
		}
	}
	h.Set(key, cur+", "+name)
}

// isHTTPS reports whether the request arrived over TLS, directly or through
// a proxy that set X-Forwarded-Proto.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
