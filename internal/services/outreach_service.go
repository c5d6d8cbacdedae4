// Package services – OutreachService
//
// This file implements OutreachService, which renders and delivers review
// request emails to contacts and marks them as sent. Delivery failures never
// escape as errors: SendOne reports false and SendMany counts the failure.
//
// Observability: SendOne and SendMany are OpenTelemetry-instrumented and every
// attempt increments review_emails_total{result,variant}.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/tbourn/review-outreach/internal/domain"
	"github.com/tbourn/review-outreach/internal/mailer"
	"github.com/tbourn/review-outreach/internal/repo"
)

const (
	variantDirectory = "directory"
	variantGeneric   = "generic"

	resultSent          = "sent"
	resultFailed        = "failed"
	resultPersistFailed = "persist_failed"
)

// reviewEmails counts send attempts by outcome and template variant.
var reviewEmails = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "review_emails_total",
		Help: "Review request emails by result and template variant.",
	},
	[]string{"result", "variant"},
)

func init() {
	prometheus.MustRegister(reviewEmails)
}

// OutreachRepo defines the repository contract required by OutreachService.
type OutreachRepo interface {
	GetContact(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Contact, error)
	ListContactsByIDs(ctx context.Context, db *gorm.DB, userID string, ids []string) ([]domain.Contact, error)
	UpdateContactStatus(ctx context.Context, db *gorm.DB, id, userID string, status domain.ReviewStatus, at time.Time) error
}

// BulkResult is the aggregate outcome of SendMany. TotalSent always equals
// SuccessCount.
type BulkResult struct {
	SuccessCount int `json:"success_count"`
	FailedCount  int `json:"failed_count"`
	TotalSent    int `json:"total_sent"`
}

// OutreachService sends review request emails.
type OutreachService struct {
	DB     *gorm.DB
	Repo   OutreachRepo
	Sender mailer.Sender
	// From is the envelope and header sender address.
	From string
	// Concurrency bounds parallel sends in SendMany; values below 2 send
	// sequentially in the order given.
	Concurrency int
	// MaxIDs caps the number of ids accepted by SendMany (0 = unlimited).
	MaxIDs int
	// Now is the clock used for last_contacted_at; defaults to time.Now.
	Now func() time.Time
}

// NewOutreachService wires an OutreachService with a sequential default.
func NewOutreachService(db *gorm.DB, r OutreachRepo, sender mailer.Sender, from string) *OutreachService {
	return &OutreachService{
		DB:          db,
		Repo:        r,
		Sender:      sender,
		From:        from,
		Concurrency: 1,
		Now:         time.Now,
	}
}

// SendOne renders and delivers a review request for c on behalf of u. On
// success the contact is marked sent and true is returned. Delivery errors and
// failures to persist the new status are logged and reported as false.
func (s *OutreachService) SendOne(ctx context.Context, c *domain.Contact, u *domain.User) bool {
	link, directory := c.EffectiveReviewURL()
	variant := variantGeneric
	if directory {
		variant = variantDirectory
	}

	ctx, span := otel.Tracer("services/OutreachService").Start(ctx, "SendOne",
		trace.WithAttributes(
			attribute.String("contact.id", c.ID),
			attribute.String("outreach.variant", variant),
		),
	)
	defer span.End()

	l := logger(ctx).With().
		Str("contact_id", c.ID).
		Str("variant", variant).
		Logger()

	subject, body, err := mailer.RenderReviewRequest(mailer.ReviewRequest{
		BusinessName: u.BusinessName,
		ContactName:  c.Name,
		ReviewURL:    link,
	}, directory)
	if err != nil {
		l.Error().Err(err).Msg("render review request")
		reviewEmails.WithLabelValues(resultFailed, variant).Inc()
		return false
	}

	err = s.Sender.Send(ctx, mailer.Message{
		From:    s.From,
		To:      c.Email,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		span.RecordError(err)
		l.Warn().Err(err).Msg("review email delivery failed")
		reviewEmails.WithLabelValues(resultFailed, variant).Inc()
		return false
	}

	now := s.now()
	if err := s.Repo.UpdateContactStatus(ctx, s.DB, c.ID, c.UserID, domain.ReviewSent, now); err != nil {
		span.RecordError(err)
		l.Error().Err(err).Msg("review email sent but status not persisted")
		reviewEmails.WithLabelValues(resultPersistFailed, variant).Inc()
		return false
	}
	c.ReviewStatus = domain.ReviewSent
	c.LastContactedAt = &now
	c.UpdatedAt = now

	reviewEmails.WithLabelValues(resultSent, variant).Inc()
	return true
}

// SendContact looks up contactID for u and delivers a single review request.
// The boolean reports delivery success; the error is non-nil only when the
// contact cannot be resolved.
func (s *OutreachService) SendContact(ctx context.Context, u *domain.User, contactID string) (*domain.Contact, bool, error) {
	c, err := s.Repo.GetContact(ctx, s.DB, contactID, u.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, ErrContactNotFound
	}
	if err != nil {
		return nil, false, err
	}
	return c, s.SendOne(ctx, c, u), nil
}

// SendMany delivers review requests to every id owned by u, in the order
// given. Ids that do not resolve to one of u's contacts are skipped and
// counted nowhere; repeated ids are sent repeatedly. An empty list is a
// validation error and nothing is sent.
func (s *OutreachService) SendMany(ctx context.Context, u *domain.User, ids []string) (BulkResult, error) {
	if len(ids) == 0 {
		return BulkResult{}, fieldError("contact_ids", "This list may not be empty.", ErrEmptyContactIDs)
	}
	if s.MaxIDs > 0 && len(ids) > s.MaxIDs {
		return BulkResult{}, fieldError("contact_ids", "Too many contacts in one request.", ErrTooManyContactIDs)
	}

	ctx, span := otel.Tracer("services/OutreachService").Start(ctx, "SendMany",
		trace.WithAttributes(
			attribute.String("user.id", u.ID),
			attribute.Int("outreach.requested", len(ids)),
		),
	)
	defer span.End()

	owned, err := s.Repo.ListContactsByIDs(ctx, s.DB, u.ID, uniqueIDs(ids))
	if err != nil {
		return BulkResult{}, err
	}
	byID := make(map[string]domain.Contact, len(owned))
	for _, c := range owned {
		byID[c.ID] = c
	}

	// resolve in request order, keeping duplicates
	queue := make([]domain.Contact, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			queue = append(queue, c)
		}
	}

	var res BulkResult
	if s.Concurrency < 2 {
		for i := range queue {
			if s.SendOne(ctx, &queue[i], u) {
				res.SuccessCount++
			} else {
				res.FailedCount++
			}
		}
	} else {
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.Concurrency)
		for i := range queue {
			c := queue[i]
			g.Go(func() error {
				ok := s.SendOne(gctx, &c, u)
				mu.Lock()
				if ok {
					res.SuccessCount++
				} else {
					res.FailedCount++
				}
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}
	res.TotalSent = res.SuccessCount

	span.SetAttributes(
		attribute.Int("outreach.success", res.SuccessCount),
		attribute.Int("outreach.failed", res.FailedCount),
	)
	logger(ctx).Info().
		Int("requested", len(ids)).
		Int("resolved", len(queue)).
		Int("success_count", res.SuccessCount).
		Int("failed_count", res.FailedCount).
		Msg("bulk review send")
	return res, nil
}

func (s *OutreachService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// uniqueIDs drops repeated ids for the lookup query only.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// logger returns the request-scoped logger carried in ctx, or the global one.
func logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
