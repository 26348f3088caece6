// Package storage provides bun-backed implementations of the module's
// persistence ports on SQLite or Postgres. The cache store's upsert relies on
// a unique composite index over the entry identity plus ON CONFLICT DO
// UPDATE, so the create-or-replace decision happens inside the database.
package storage

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/epivista/case-analytics/reports"
	"github.com/epivista/case-analytics/resultcache"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds the database connection settings.
type Config struct {
	// Driver selects the backing engine: DriverSQLite or DriverPostgres.
	Driver string

	// DSN is the driver-specific connection string.
	DSN string
}

// DefaultConfig returns a shared in-memory SQLite database, enough for local
// runs and tests.
func DefaultConfig() Config {
	return Config{
		Driver: DriverSQLite,
		DSN:    "file::memory:?cache=shared",
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return &ConfigError{Field: "Driver", Message: "must be sqlite3 or postgres"}
	}
	if c.DSN == "" {
		return &ConfigError{Field: "DSN", Message: "must not be empty"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// Open connects to the configured database and wraps it in bun with the
// matching dialect.
func Open(cfg Config) (*bun.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case DriverPostgres:
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}
}

// CreateSchema creates the tables and indexes the stores depend on. Safe to
// call repeatedly.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*recordRow)(nil),
		(*resultcache.Entry)(nil),
		(*reports.Report)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	// The uniqueness constraint behind the cache's at-most-one-entry-per-
	// identity guarantee.
	if _, err := db.NewCreateIndex().
		Model((*resultcache.Entry)(nil)).
		Unique().
		IfNotExists().
		Index("idx_analysis_cache_identity").
		Column("analysis_type", "analysis_key").
		Exec(ctx); err != nil {
		return err
	}

	if _, err := db.NewCreateIndex().
		Model((*reports.Report)(nil)).
		IfNotExists().
		Index("idx_custom_reports_created_at").
		Column("created_at").
		Exec(ctx); err != nil {
		return err
	}

	return nil
}
