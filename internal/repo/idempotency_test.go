package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/review-outreach/internal/domain"
)

const bulkScope = "POST /api/v1/contacts/bulk-email"

func idemRecord(userID, key, body string) *domain.Idempotency {
	return &domain.Idempotency{
		UserID:        userID,
		Scope:         bulkScope,
		Key:           key,
		RequestDigest: "digest-" + key,
		Status:        200,
		Response:      []byte(body),
	}
}

func TestFindIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if err := SaveIdempotency(ctx, db, idemRecord("owner-a", "retry-1", `{"total_sent":3}`), time.Hour); err != nil {
		t.Fatalf("SaveIdempotency: %v", err)
	}
	now := time.Now().UTC()

	rec, err := FindIdempotency(ctx, db, "owner-a", bulkScope, "retry-1", now)
	if err != nil {
		t.Fatalf("FindIdempotency: %v", err)
	}
	if rec.Status != 200 || string(rec.Response) != `{"total_sent":3}` || rec.RequestDigest != "digest-retry-1" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	misses := map[string][3]string{
		"other owner": {"owner-b", bulkScope, "retry-1"},
		"other scope": {"owner-a", "POST /api/v1/contacts/c1/send", "retry-1"},
		"unknown key": {"owner-a", bulkScope, "retry-2"},
		"blank scope": {"owner-a", "  ", "retry-1"},
		"blank key":   {"owner-a", bulkScope, ""},
	}
	for name, args := range misses {
		if _, err := FindIdempotency(ctx, db, args[0], args[1], args[2], now); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: err = %v; want ErrNotFound", name, err)
		}
	}

	if _, err := FindIdempotency(ctx, db, "owner-a", bulkScope, "retry-1", now.Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired record must not be found, got %v", err)
	}
}

func TestSaveIdempotency_FillsIDAndExpiry(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	before := time.Now().UTC()

	rec := idemRecord("owner-a", "retry-1", "{}")
	if err := SaveIdempotency(context.Background(), db, rec, 90*time.Minute); err != nil {
		t.Fatalf("SaveIdempotency: %v", err)
	}
	if rec.ID == "" {
		t.Fatalf("id not assigned")
	}
	if rec.CreatedAt.Before(before) || rec.ExpiresAt.Sub(rec.CreatedAt) != 90*time.Minute {
		t.Fatalf("created=%v expires=%v", rec.CreatedAt, rec.ExpiresAt)
	}
}

func TestSaveIdempotency_LiveKeyIsKept(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if err := SaveIdempotency(ctx, db, idemRecord("owner-a", "retry-1", `{"total_sent":1}`), time.Hour); err != nil {
		t.Fatalf("first save: %v", err)
	}
	err := SaveIdempotency(ctx, db, idemRecord("owner-a", "retry-1", `{"total_sent":9}`), time.Hour)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second save: err = %v; want ErrDuplicate", err)
	}

	rec, err := FindIdempotency(ctx, db, "owner-a", bulkScope, "retry-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("FindIdempotency: %v", err)
	}
	if string(rec.Response) != `{"total_sent":1}` {
		t.Fatalf("live record overwritten: %s", rec.Response)
	}
}

func TestSaveIdempotency_ReplacesExpiredKey(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()

	stale := idemRecord("owner-a", "retry-1", `{"total_sent":1}`)
	if err := SaveIdempotency(ctx, db, stale, -time.Minute); err != nil {
		t.Fatalf("seed stale: %v", err)
	}
	fresh := idemRecord("owner-a", "retry-1", `{"total_sent":4}`)
	fresh.RequestDigest = "digest-new"
	if err := SaveIdempotency(ctx, db, fresh, time.Hour); err != nil {
		t.Fatalf("save over expired key: %v", err)
	}

	rec, err := FindIdempotency(ctx, db, "owner-a", bulkScope, "retry-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("FindIdempotency: %v", err)
	}
	if string(rec.Response) != `{"total_sent":4}` || rec.RequestDigest != "digest-new" {
		t.Fatalf("expired record not replaced: %+v", rec)
	}
	var n int64
	db.Model(&domain.Idempotency{}).Count(&n)
	if n != 1 {
		t.Fatalf("rows = %d; want 1", n)
	}
}

func TestSaveIdempotency_MissingTable(t *testing.T) {
	db := newTestDB(t)
	err := SaveIdempotency(context.Background(), db, idemRecord("owner-a", "retry-1", "{}"), time.Minute)
	if err == nil || errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v; want a plain DB error", err)
	}
}

func TestPurgeExpiredIdempotency(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	ctx := context.Background()
	for i, ttl := range []time.Duration{-time.Minute, -time.Hour, time.Hour} {
		if err := SaveIdempotency(ctx, db, idemRecord("owner-a", fmt.Sprintf("retry-%d", i), "{}"), ttl); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	n, err := PurgeExpiredIdempotency(ctx, db, time.Now().UTC())
	if err != nil {
		t.Fatalf("PurgeExpiredIdempotency: %v", err)
	}
	if n != 2 {
		t.Fatalf("purged %d; want 2", n)
	}
	var left []domain.Idempotency
	db.Find(&left)
	if len(left) != 1 || left[0].Key != "retry-2" {
		t.Fatalf("survivors = %+v", left)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := map[string]bool{
		"UNIQUE constraint failed: contacts.user_id, contacts.email": true,
		"constraint failed: UNIQUE constraint failed (2067)":         true,
		`ERROR: duplicate key value violates unique constraint "x"`:  true,
		"no such table: contacts":                                    false,
	}
	for msg, want := range cases {
		if got := isUniqueViolation(errors.New(msg)); got != want {
			t.Errorf("isUniqueViolation(%q) = %v; want %v", msg, got, want)
		}
	}
	if isUniqueViolation(nil) {
		t.Fatalf("nil is not a violation")
	}
	if !isUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)) {
		t.Fatalf("wrapped gorm.ErrDuplicatedKey is a violation")
	}
}
