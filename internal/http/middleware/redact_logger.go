package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RedactOptions configures RedactingLogger. MaskHeaders adds header names
// (case-insensitive) whose values are replaced entirely, on top of
// Authorization, Cookie and Set-Cookie.
type RedactOptions struct {
	MaskHeaders []string
}

const redactedValue = "[REDACTED]"

// UUIDs go first so the phone pattern cannot eat their digit groups. The phone
// pattern is digits only for the same reason.
var (
	uuidPattern  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`)
	emailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// Redactor scrubs contact details out of strings that end up in logs.
type Redactor struct {
	masked map[string]struct{}
}

// NewRedactor builds a Redactor that fully masks the default credential
// headers plus extra.
func NewRedactor(extra ...string) *Redactor {
	r := &Redactor{masked: map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}}
	for _, h := range extra {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			r.masked[h] = struct{}{}
		}
	}
	return r
}

// Scrub replaces ids, email addresses and phone numbers in s.
func (r *Redactor) Scrub(s string) string {
	if s == "" {
		return s
	}
	s = uuidPattern.ReplaceAllString(s, "[REDACTED:id]")
	s = emailPattern.ReplaceAllString(s, "[REDACTED:email]")
	return phonePattern.ReplaceAllString(s, "[REDACTED:phone]")
}

// Headers flattens h for logging with masked headers replaced and the rest
// scrubbed.
func (r *Redactor) Headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := r.masked[strings.ToLower(k)]; ok {
			out[k] = redactedValue
			continue
		}
		out[k] = r.Scrub(strings.Join(vv, ", "))
	}
	return out
}

// RedactingLogger is the default access logger. Bodies are never logged. The
// query string, header values and the raw path of unmatched routes go
// through a Redactor so contact emails and phone numbers stay out of logs.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	red := NewRedactor(opts.MaskHeaders...)

	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = red.Scrub(c.Request.URL.Path)
		}
		headers := red.Headers(c.Request.Header)
		query := red.Scrub(truncate(c.Request.URL.RawQuery, maxQueryLogLength))

		l := log.With().
			Str("request_id", requestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		attachRequestLogger(c, l)

		c.Next()

		logAccess(c, l, start, func(e *zerolog.Event) {
			e.Str("query", query).Interface("headers", headers)
		})
	}
}
