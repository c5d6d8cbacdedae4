package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means no row matched, including rows owned by someone else.
	ErrNotFound = gorm.ErrRecordNotFound

	// ErrDuplicate means a unique key is taken: an account email, a contact
	// email within one owner's list, or a live idempotency key.
	ErrDuplicate = errors.New("duplicate")
)

// isUniqueViolation recognises unique index failures from both drivers.
// TranslateError covers Postgres; glebarez/sqlite may still surface the
// plain SQLite message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, frag := range []string{"unique constraint failed", "constraint failed: unique", "duplicate key value"} {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}
