package repo

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/review-outreach/internal/domain"
)

// ContactStats summarizes one owner's contact list.
type ContactStats struct {
	Total       int64
	ByStatus    map[domain.ReviewStatus]int64
	LastUpdated *time.Time // nil when the owner has no contacts
}

// Version fingerprints the list contents for conditional GETs. Any insert,
// delete or update of the owner's contacts changes it.
func (s ContactStats) Version() string {
	var ts int64
	if s.LastUpdated != nil {
		ts = s.LastUpdated.UnixNano()
	}
	return strconv.FormatInt(s.Total, 10) + "-" + strconv.FormatInt(ts, 36)
}

// ContactsStats counts userID's contacts per review status and finds the most
// recent update.
func ContactsStats(ctx context.Context, db *gorm.DB, userID string) (ContactStats, error) {
	var rows []struct {
		ReviewStatus domain.ReviewStatus
		N            int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Contact{}).
		Select("review_status, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("review_status").
		Scan(&rows).Error
	if err != nil {
		return ContactStats{}, err
	}

	st := ContactStats{ByStatus: make(map[domain.ReviewStatus]int64, len(rows))}
	for _, r := range rows {
		st.ByStatus[r.ReviewStatus] = r.N
		st.Total += r.N
	}
	if st.Total == 0 {
		return st, nil
	}

	// ORDER BY instead of MAX(): SQLite hands MAX(updated_at) back as TEXT.
	var latest struct{ UpdatedAt time.Time }
	err = db.WithContext(ctx).
		Model(&domain.Contact{}).
		Select("updated_at").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(1).
		Scan(&latest).Error
	if err != nil {
		return ContactStats{}, err
	}
	st.LastUpdated = &latest.UpdatedAt
	return st, nil
}
