package resultcache

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Entry is one cached artifact. Identity is the (AnalysisType, AnalysisKey)
// pair: at most one live entry exists per identity, enforced by a unique
// composite index in durable stores and by atomic compute in the in-memory
// one. Payload is an opaque JSON blob; the cache never inspects it.
type Entry struct {
	bun.BaseModel `bun:"table:analysis_cache"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	AnalysisType string    `bun:"analysis_type,notnull" json:"analysisType"`
	AnalysisKey  string    `bun:"analysis_key,notnull" json:"analysisKey"`
	Payload      []byte    `bun:"payload" json:"payload"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

// Store is the backing persistence contract for cache entries.
type Store interface {
	// Upsert atomically creates the entry or, when its identity already
	// exists, replaces the live entry's payload and update timestamp in
	// place. The original CreatedAt survives a replace. Two concurrent
	// upserts on one identity must never yield two live entries.
	Upsert(ctx context.Context, entry *Entry) error

	// Find returns the live entry for the identity, or ok=false when none
	// exists. Absence is not an error.
	Find(ctx context.Context, analysisType, analysisKey string) (Entry, bool, error)

	// Delete removes the live entry for the identity. Deleting an absent
	// identity is a no-op.
	Delete(ctx context.Context, analysisType, analysisKey string) error
}
