package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/review-outreach/internal/domain"
	"github.com/tbourn/review-outreach/internal/http/middleware"
	"github.com/tbourn/review-outreach/internal/repo"
)

// IdempotencyLookup serves middleware.IdempotencyValidator from the
// idempotency_keys table. A miss is nil, nil.
func IdempotencyLookup(db *gorm.DB) middleware.IdempotencyLookup {
	return func(ctx context.Context, userID, scope, key string, now time.Time) (*middleware.StoredResponse, error) {
		rec, err := repo.FindIdempotency(ctx, db, userID, scope, key, now)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &middleware.StoredResponse{
			Digest: rec.RequestDigest,
			Status: rec.Status,
			Body:   rec.Response,
		}, nil
	}
}

// replay answers the request from the stored response the validator found,
// if any.
func (h *Handlers) replay(c *gin.Context) bool {
	st, found := middleware.StoredReplay(c)
	if !found {
		return false
	}
	c.Header(middleware.HeaderIdempotencyReplayed, "true")
	rawJSON(c, st.Status, st.Body)
	return true
}

// respondStored writes body as a 200 and, for keyed requests, keeps it for
// replay. A failed store is logged; the send already happened.
func (h *Handlers) respondStored(c *gin.Context, userID string, body any) {
	key, keyed := middleware.GetIdempotencyKey(c)
	if !keyed || h.db == nil {
		ok(c, http.StatusOK, body)
		return
	}
	raw, err := json.Marshal(body)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	rec := &domain.Idempotency{
		UserID:        userID,
		Scope:         middleware.IdempotencyScope(c),
		Key:           key,
		RequestDigest: middleware.RequestDigest(c),
		Status:        http.StatusOK,
		Response:      raw,
	}
	err = repo.SaveIdempotency(c.Request.Context(), h.db, rec, h.idemTTL)
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		middleware.LoggerFrom(c).Warn().Err(err).Str("scope", rec.Scope).Msg("idempotency store failed")
	}
	rawJSON(c, http.StatusOK, raw)
}
