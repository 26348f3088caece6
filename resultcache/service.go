// Package resultcache persists serialized analysis artifacts under a
// (type, key) identity so repeated requests for the same computation skip
// recomputation. The cache is shape-agnostic: callers know whether a given
// identity holds an AnalysisResult or a ChartSeries.
package resultcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/epivista/case-analytics/covid"
)

// Service wraps a backing Store with the JSON payload codec and the module's
// error taxonomy. It carries no state beyond its collaborators and is safe
// for concurrent use.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService returns a cache service over the given backing store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// PutResult caches an analysis result under (analysisType, key), replacing
// any live entry for that identity.
func (s *Service) PutResult(ctx context.Context, analysisType, key string, result covid.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("serialize analysis result for (%s, %s): %w", analysisType, key, err)
	}
	return s.put(ctx, analysisType, key, payload)
}

// PutChart caches a chart series under (analysisType, key), replacing any
// live entry for that identity.
func (s *Service) PutChart(ctx context.Context, analysisType, key string, chart covid.ChartSeries) error {
	payload, err := json.Marshal(chart)
	if err != nil {
		return fmt.Errorf("serialize chart series for (%s, %s): %w", analysisType, key, err)
	}
	return s.put(ctx, analysisType, key, payload)
}

// GetResult loads and decodes a cached analysis result. ok=false means the
// identity has no live entry. A live entry that fails to decode is an
// IntegrityError: the payload was written by this system and must be
// well-formed.
func (s *Service) GetResult(ctx context.Context, analysisType, key string) (covid.AnalysisResult, bool, error) {
	entry, ok, err := s.store.Find(ctx, analysisType, key)
	if err != nil || !ok {
		return covid.AnalysisResult{}, false, err
	}
	var result covid.AnalysisResult
	if err := json.Unmarshal(entry.Payload, &result); err != nil {
		return covid.AnalysisResult{}, false, &covid.IntegrityError{
			Kind:         covid.IntegrityCache,
			AnalysisType: analysisType,
			Key:          key,
			Err:          err,
		}
	}
	return result, true, nil
}

// GetChart loads and decodes a cached chart series; semantics mirror
// GetResult.
func (s *Service) GetChart(ctx context.Context, analysisType, key string) (covid.ChartSeries, bool, error) {
	entry, ok, err := s.store.Find(ctx, analysisType, key)
	if err != nil || !ok {
		return covid.ChartSeries{}, false, err
	}
	var chart covid.ChartSeries
	if err := json.Unmarshal(entry.Payload, &chart); err != nil {
		return covid.ChartSeries{}, false, &covid.IntegrityError{
			Kind:         covid.IntegrityCache,
			AnalysisType: analysisType,
			Key:          key,
			Err:          err,
		}
	}
	return chart, true, nil
}

// Invalidate drops the live entry for the identity, if any.
func (s *Service) Invalidate(ctx context.Context, analysisType, key string) error {
	return s.store.Delete(ctx, analysisType, key)
}

func (s *Service) put(ctx context.Context, analysisType, key string, payload []byte) error {
	now := s.now()
	return s.store.Upsert(ctx, &Entry{
		AnalysisType: analysisType,
		AnalysisKey:  key,
		Payload:      payload,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
