package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestIdempotency_Expired(t *testing.T) {
	exp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := Idempotency{ExpiresAt: exp}

	cases := []struct {
		at   time.Time
		want bool
	}{
		{exp.Add(-time.Nanosecond), false},
		{exp, true},
		{exp.Add(time.Hour), true},
	}
	for _, tc := range cases {
		if got := rec.Expired(tc.at); got != tc.want {
			t.Errorf("Expired(%v) = %v; want %v", tc.at, got, tc.want)
		}
	}
}

func TestIdempotency_Schema(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:domain_idem?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	m := db.Migrator()
	if (Idempotency{}).TableName() != "idempotency_keys" || !m.HasTable("idempotency_keys") {
		t.Fatalf("idempotency_keys table missing")
	}
	if !m.HasColumn(&Idempotency{}, "idem_key") {
		t.Fatalf("key column should be named idem_key")
	}
	for _, idx := range []string{"ux_idem_owner_scope_key", "ix_idem_expires_at"} {
		if !m.HasIndex(&Idempotency{}, idx) {
			t.Fatalf("index %s missing", idx)
		}
	}

	exp := time.Now().UTC().Add(time.Hour)
	row := func(id, scope string) *Idempotency {
		return &Idempotency{
			ID: id, UserID: "owner-1", Scope: scope, Key: "retry-7",
			RequestDigest: "d", Status: 200, Response: []byte(`{"total_sent":1}`), ExpiresAt: exp,
		}
	}
	if err := db.Create(row("a", "POST /contacts/bulk-email")).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.Create(row("b", "POST /contacts/bulk-email")).Error; err == nil {
		t.Fatalf("same owner, scope and key must be rejected")
	}
	if err := db.Create(row("c", "POST /contacts/c1/send")).Error; err != nil {
		t.Fatalf("same key under another scope: %v", err)
	}

	var got Idempotency
	if err := db.Take(&got, "id = ?", "a").Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got.Response) != `{"total_sent":1}` || got.Key != "retry-7" {
		t.Fatalf("unexpected row: %+v", got)
	}
}
