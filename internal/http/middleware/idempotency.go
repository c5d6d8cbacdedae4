package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// Clients tag unsafe sends with an Idempotency-Key. The first completed
// response is stored under (owner, scope, key) with a digest of the request
// body; a retry with the same body is answered from the store, a retry that
// reuses the key for a different body is refused.
const (
	HeaderIdempotencyKey      = "Idempotency-Key"
	HeaderIdempotencyReplayed = "Idempotency-Replayed"
)

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemDigest = "idem.digest"
	ctxKeyIdemStored = "idem.stored"
	ctxKeyRateBypass = "rate.bypass"
)

const defaultMaxKeyLen = 200

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// StoredResponse is a completed response kept for replay.
type StoredResponse struct {
	Digest string
	Status int
	Body   []byte
}

// IdempotencyLookup returns the response stored for (userID, scope, key) that
// is still live at now, or nil when there is none.
type IdempotencyLookup func(ctx context.Context, userID, scope, key string, now time.Time) (*StoredResponse, error)

type IdempotencyOptions struct {
	MaxLen  int            // default 200
	Pattern *regexp.Regexp // default token charset [A-Za-z0-9._~-:]
}

// GetIdempotencyKey returns the validated key of this request.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s := c.GetString(ctxKeyIdemKey)
	return s, s != ""
}

// RequestDigest returns the body digest computed for a keyed request.
func RequestDigest(c *gin.Context) string {
	return c.GetString(ctxKeyIdemDigest)
}

// StoredReplay returns the stored response this request should be answered
// with, if any.
func StoredReplay(c *gin.Context) (*StoredResponse, bool) {
	v, ok := c.Get(ctxKeyIdemStored)
	if !ok {
		return nil, false
	}
	st, ok := v.(*StoredResponse)
	return st, ok && st != nil
}

// IsReplay reports whether the request will be answered from the store.
func IsReplay(c *gin.Context) bool {
	_, ok := StoredReplay(c)
	return ok
}

// IdempotencyScope is the method plus the concrete path, e.g.
// "POST /api/v1/contacts/bulk-email", so one key sent to two endpoints never
// collides.
func IdempotencyScope(c *gin.Context) string {
	return c.Request.Method + " " + c.Request.URL.Path
}

// BodyDigest is the hex SHA-256 of a request body.
func BodyDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// IdempotencyValidator checks the Idempotency-Key header and, for an
// authenticated caller, looks up a stored response. Install it after Auth.
// Requests without the header pass untouched. On a hit the stored response is
// attached for the handler to write and the rate limiter is skipped. Lookup
// failures are logged and the request proceeds as a first attempt.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = defaultMaxKeyLen
	}
	pattern := opts.Pattern
	if pattern == nil {
		pattern = defaultKeyPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pattern.MatchString(key) {
			abortIdempotency(c, http.StatusBadRequest, "bad_idempotency_key", "invalid Idempotency-Key")
			return
		}

		digest, err := digestBody(c.Request)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				abortIdempotency(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
				return
			}
			abortIdempotency(c, http.StatusBadRequest, "bad_request", "could not read request body")
			return
		}
		c.Set(ctxKeyIdemKey, key)
		c.Set(ctxKeyIdemDigest, digest)

		uid, authed := UserID(c)
		if !authed || lookup == nil {
			c.Next()
			return
		}
		stored, err := lookup(c.Request.Context(), uid, IdempotencyScope(c), key, time.Now().UTC())
		if err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			c.Next()
			return
		}
		if stored != nil {
			if stored.Digest != digest {
				abortIdempotency(c, http.StatusUnprocessableEntity, "idempotency_key_reused",
					"Idempotency-Key was already used for a different request")
				return
			}
			c.Set(ctxKeyIdemStored, stored)
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	}
}

// digestBody hashes the request body and puts it back for the handler.
func digestBody(r *http.Request) (string, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return BodyDigest(nil), nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return BodyDigest(raw), nil
}

func abortIdempotency(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       code,
		"message":    msg,
	})
}
