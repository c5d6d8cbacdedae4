// Package repo is the GORM persistence layer: connection bootstrap and
// migrations for SQLite and Postgres, plus the queries over accounts,
// contacts and idempotency records. Functions take the *gorm.DB explicitly
// and scope every contact query by its owner.
package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/review-outreach/internal/config"
	"github.com/tbourn/review-outreach/internal/domain"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	connectAttempts    = 5
)

// connectBackoff is the wait before the second connect attempt; it doubles
// on every further attempt.
var connectBackoff = time.Second

// sqlitePragmas go into the DSN so the driver applies them to every pooled
// connection, not just the first one.
const sqlitePragmas = "_pragma=journal_mode(WAL)" +
	"&_pragma=synchronous(NORMAL)" +
	"&_pragma=foreign_keys(1)" +
	"&_pragma=busy_timeout(5000)"

// gormWriter routes GORM's printf-style logger into zerolog.
type gormWriter struct{ l zerolog.Logger }

func (w gormWriter) Printf(format string, args ...any) {
	w.l.Warn().Msgf(format, args...)
}

// newGormLogger reports slow queries and errors only. Bind values are never
// printed since they carry contact emails and password hashes.
func newGormLogger(l zerolog.Logger) logger.Interface {
	return logger.New(gormWriter{l: l.With().Str("component", "gorm").Logger()}, logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
		Colorful:                  false,
	})
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         newGormLogger(log.Logger),
		TranslateError: true,
	}
}

// Open connects to the database selected by cfg.DBDriver and installs the
// OpenTelemetry plugin when tracing is on, so queries show up as child spans
// of the request.
func Open(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "postgres":
		db, err = OpenPostgres(ctx, cfg.DatabaseURL)
	case "sqlite", "":
		db, err = OpenSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.OTEL.Enabled {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return nil, fmt.Errorf("gorm tracing plugin: %w", err)
		}
	}
	return db, nil
}

// OpenSQLite opens or creates the database file at path. The parent
// directory must exist.
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("sqlite dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?"+sqlitePragmas), gormConfig())
	if err != nil {
		return nil, err
	}
	configurePool(db, 10)
	return db, nil
}

// OpenPostgres connects with a libpq DSN or postgres:// URL, retrying with
// exponential backoff while the server comes up. The connection is pinged
// before it is returned.
func OpenPostgres(ctx context.Context, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("postgres: empty DATABASE_URL")
	}

	var (
		db  *gorm.DB
		err error
	)
	wait := connectBackoff
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig())
		if err == nil {
			break
		}
		if attempt == connectAttempts {
			return nil, fmt.Errorf("postgres: giving up after %d attempts: %w", connectAttempts, err)
		}
		log.Warn().Err(err).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("postgres not reachable")
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("postgres: %w (last error: %v)", ctx.Err(), err)
		case <-time.After(wait):
		}
		wait *= 2
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	configurePool(db, 25)
	return db, nil
}

func configurePool(db *gorm.DB, maxOpen int) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen / 2)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
}

// AutoMigrate creates or updates the tables for accounts, contacts and
// idempotency records.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Contact{},
		&domain.Idempotency{},
	)
}
