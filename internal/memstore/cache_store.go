// Package memstore provides in-memory implementations of the module's
// persistence ports. Tests run against it, and it is the zero-setup default
// wired by the DI container. Semantics match the bun-backed stores, including
// the cache store's atomic per-identity upsert.
package memstore

import (
	"context"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/epivista/case-analytics/resultcache"
)

// identitySeparator joins the identity pair into one map key. The unit
// separator cannot occur in analysis type or key names.
const identitySeparator = "\x1f"

// CacheStore keeps cache entries in an xsync map. Upsert goes through
// MapOf.Compute, which runs the create-or-replace decision atomically per
// key, so concurrent writers on one identity always collapse to a single
// live entry.
type CacheStore struct {
	entries *xsync.MapOf[string, resultcache.Entry]
	lastID  atomic.Int64
}

var _ resultcache.Store = (*CacheStore)(nil)

// NewCacheStore returns an empty in-memory cache store.
func NewCacheStore() *CacheStore {
	return &CacheStore{entries: xsync.NewMapOf[string, resultcache.Entry]()}
}

// Upsert implements resultcache.Store. On replace the stored entry keeps its
// original ID and CreatedAt and takes the incoming payload and UpdatedAt.
func (s *CacheStore) Upsert(ctx context.Context, entry *resultcache.Entry) error {
	key := identity(entry.AnalysisType, entry.AnalysisKey)
	stored, _ := s.entries.Compute(key, func(old resultcache.Entry, loaded bool) (resultcache.Entry, bool) {
		next := *entry
		if loaded {
			next.ID = old.ID
			next.CreatedAt = old.CreatedAt
		} else {
			next.ID = s.lastID.Add(1)
		}
		return next, false
	})
	*entry = stored
	return nil
}

// Find implements resultcache.Store.
func (s *CacheStore) Find(ctx context.Context, analysisType, analysisKey string) (resultcache.Entry, bool, error) {
	entry, ok := s.entries.Load(identity(analysisType, analysisKey))
	return entry, ok, nil
}

// Delete implements resultcache.Store. Deleting an absent identity is a
// no-op.
func (s *CacheStore) Delete(ctx context.Context, analysisType, analysisKey string) error {
	s.entries.Delete(identity(analysisType, analysisKey))
	return nil
}

// Len reports how many live entries the store holds.
func (s *CacheStore) Len() int {
	return s.entries.Size()
}

func identity(analysisType, analysisKey string) string {
	return analysisType + identitySeparator + analysisKey
}
