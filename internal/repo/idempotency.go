package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/review-outreach/internal/domain"
)

// FindIdempotency returns the record stored under (userID, scope, key) that is
// still live at now. Blank scopes or keys never match.
func FindIdempotency(ctx context.Context, db *gorm.DB, userID, scope, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(scope) == "" || strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("user_id = ? AND scope = ? AND idem_key = ?", userID, scope, key).
		Where("expires_at > ?", now).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SaveIdempotency stores rec for ttl, filling in its id and timestamps. An
// expired row under the same key that the purge job has not removed yet is
// overwritten; a live one is kept and ErrDuplicate returned.
func SaveIdempotency(ctx context.Context, db *gorm.DB, rec *domain.Idempotency, ttl time.Duration) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.ExpiresAt = now.Add(ttl)

	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "scope"}, {Name: "idem_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"request_digest", "status", "response", "created_at", "expires_at"}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "idempotency_keys.expires_at <= ?", Vars: []any{now}},
			}},
		}).
		Create(rec)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

// PurgeExpiredIdempotency deletes records whose TTL has elapsed at now and
// reports how many went.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}
