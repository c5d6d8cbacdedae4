package domain

import "time"

// Idempotency is a completed response kept under a client supplied
// Idempotency-Key, so a retried send is answered from here instead of
// emailing the same customers again. A key is unique per owner and scope
// (method plus path). RequestDigest is the SHA-256 of the request body the
// response was produced for.
type Idempotency struct {
	ID            string    `gorm:"type:TEXT;primaryKey"`
	UserID        string    `gorm:"type:TEXT;not null;uniqueIndex:ux_idem_owner_scope_key,priority:1"`
	Scope         string    `gorm:"type:TEXT;not null;uniqueIndex:ux_idem_owner_scope_key,priority:2"`
	Key           string    `gorm:"column:idem_key;type:TEXT;not null;uniqueIndex:ux_idem_owner_scope_key,priority:3"`
	RequestDigest string    `gorm:"type:TEXT;not null"`
	Status        int       `gorm:"not null"`
	Response      []byte    `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	ExpiresAt     time.Time `gorm:"not null;index:ix_idem_expires_at"`
}

func (Idempotency) TableName() string { return "idempotency_keys" }

// Expired reports whether the record can no longer be replayed at now.
func (r Idempotency) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
