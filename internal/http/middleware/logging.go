// Package middleware holds the Gin middleware of the outreach API: request
// correlation and access logging, bearer-token auth, idempotent replays,
// rate limiting, Prometheus metrics and security headers.
//
// Every access logger attaches a request-scoped zerolog.Logger carrying the
// request id. Handlers read it with LoggerFrom; services read it from the
// request context with zerolog.Ctx.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	maxRequestIDLength = 128
	maxQueryLogLength  = 2048 // bytes of raw query kept in the access line
)

// RequestID reuses a well-formed inbound X-Request-ID or mints a UUID, echoes
// it on the response and stores it in the Gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// validRequestID accepts up to maxRequestIDLength visible ASCII characters,
// so a caller cannot inject line breaks or huge values into the logs.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

// requestID resolves the correlation id: the value stored by RequestID, then
// the response header, then the inbound header.
func requestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s := asString(v); s != "" {
			return s
		}
	}
	if rid := c.Writer.Header().Get(requestIDHeader); rid != "" {
		return rid
	}
	return c.GetHeader(requestIDHeader)
}

// routePath is the matched route pattern, or the raw path for unmatched
// requests.
func routePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// attachRequestLogger stores l for LoggerFrom and for zerolog.Ctx on the
// request context.
func attachRequestLogger(c *gin.Context, l zerolog.Logger) {
	c.Set(loggerKey, &l)
	c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
}

// logAccess writes the single access line for a finished request. The level
// is error for 5xx or recorded gin errors, warn for 4xx and info otherwise.
// The owner's account id is included once Auth has run.
func logAccess(c *gin.Context, l zerolog.Logger, start time.Time, extra func(*zerolog.Event)) {
	status := c.Writer.Status()

	var ev *zerolog.Event
	switch {
	case len(c.Errors) > 0:
		ev = l.Error().Str("errors", c.Errors.String())
	case status >= 500:
		ev = l.Error()
	case status >= 400:
		ev = l.Warn()
	default:
		ev = l.Info()
	}

	uid, _ := UserID(c)
	ev = ev.
		Str("user_id", uid).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Int("bytes_out", c.Writer.Size())
	if extra != nil {
		extra(ev)
	}
	ev.Msg("request")
}

// Logger is the plain access logger. It logs the raw query string and client
// details, so the router only installs it when LOG_REDACT is off.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		l := log.With().
			Str("request_id", requestID(c)).
			Str("method", c.Request.Method).
			Str("path", routePath(c)).
			Logger()
		attachRequestLogger(c, l)

		c.Next()

		logAccess(c, l, start, func(e *zerolog.Event) {
			e.Str("remote_ip", c.ClientIP()).
				Str("user_agent", c.Request.UserAgent()).
				Str("referer", c.Request.Referer()).
				Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
				Int64("bytes_in", c.Request.ContentLength)
		})
	}
}

// Recovery turns a panic into the standard JSON 500 error body. When the
// handler already started writing, only the status is set.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				recovered(c, rec)
			}
		}()
		c.Next()
	}
}

func recovered(c *gin.Context, rec any) {
	id := requestID(c)
	log.Error().
		Str("request_id", id).
		Str("method", c.Request.Method).
		Str("path", routePath(c)).
		Interface("panic", rec).
		Bytes("stack", debug.Stack()).
		Msg("handler panicked")

	if c.Writer.Written() {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Header(requestIDHeader, id)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"code":       "internal_error",
		"message":    "internal server error",
		"request_id": id,
	})
}

// LoggerFrom returns the request-scoped logger, or a copy of the global
// logger when no access logger ran.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// truncate cuts s to max bytes and marks the cut. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
