package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/epivista/case-analytics/resultcache"
)

// CacheStore implements resultcache.Store on bun. Upsert is a single
// conflict-resolving INSERT against the unique (analysis_type, analysis_key)
// index, never a read-then-write, so concurrent writers on one identity
// cannot race a second live entry into existence.
type CacheStore struct {
	db *bun.DB
}

var _ resultcache.Store = (*CacheStore)(nil)

// NewCacheStore returns a cache store over the given database.
func NewCacheStore(db *bun.DB) *CacheStore {
	return &CacheStore{db: db}
}

// Upsert implements resultcache.Store.
func (s *CacheStore) Upsert(ctx context.Context, entry *resultcache.Entry) error {
	_, err := s.db.NewInsert().
		Model(entry).
		On("CONFLICT (analysis_type, analysis_key) DO UPDATE").
		Set("payload = EXCLUDED.payload").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// Find implements resultcache.Store.
func (s *CacheStore) Find(ctx context.Context, analysisType, analysisKey string) (resultcache.Entry, bool, error) {
	var entry resultcache.Entry
	err := s.db.NewSelect().
		Model(&entry).
		Where("analysis_type = ?", analysisType).
		Where("analysis_key = ?", analysisKey).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return resultcache.Entry{}, false, nil
	}
	if err != nil {
		return resultcache.Entry{}, false, err
	}
	return entry, true, nil
}

// Delete implements resultcache.Store.
func (s *CacheStore) Delete(ctx context.Context, analysisType, analysisKey string) error {
	_, err := s.db.NewDelete().
		Model((*resultcache.Entry)(nil)).
		Where("analysis_type = ?", analysisType).
		Where("analysis_key = ?", analysisKey).
		Exec(ctx)
	return err
}
