package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/epivista/case-analytics/analytics"
	"github.com/epivista/case-analytics/covid"
)

// RecordStore holds raw records in memory behind a read-write mutex. The
// aggregate queries delegate to the analytics reductions, so the ordering
// contracts of covid.RecordStore hold by construction.
type RecordStore struct {
	mu      sync.RWMutex
	records []covid.Record
}

var _ covid.RecordStore = (*RecordStore)(nil)

// NewRecordStore returns a store seeded with the given records.
func NewRecordStore(records ...covid.Record) *RecordStore {
	s := &RecordStore{}
	s.Add(records...)
	return s
}

// Add appends records to the store.
func (s *RecordStore) Add(records ...covid.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

// FindAll implements covid.RecordStore.
func (s *RecordStore) FindAll(ctx context.Context) ([]covid.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]covid.Record(nil), s.records...), nil
}

// FindByRegion implements covid.RecordStore.
func (s *RecordStore) FindByRegion(ctx context.Context, region string) ([]covid.Record, error) {
	return s.filter(func(rec covid.Record) bool {
		return rec.Region == region
	}), nil
}

// FindByDateRange implements covid.RecordStore. Both bounds are inclusive.
func (s *RecordStore) FindByDateRange(ctx context.Context, start, end time.Time) ([]covid.Record, error) {
	return s.filter(func(rec covid.Record) bool {
		return inRange(rec.Date, start, end)
	}), nil
}

// FindByRegionAndDateRange implements covid.RecordStore.
func (s *RecordStore) FindByRegionAndDateRange(ctx context.Context, region string, start, end time.Time) ([]covid.Record, error) {
	return s.filter(func(rec covid.Record) bool {
		return rec.Region == region && inRange(rec.Date, start, end)
	}), nil
}

// FindByRegionChronological implements covid.RecordStore.
func (s *RecordStore) FindByRegionChronological(ctx context.Context, region string) ([]covid.Record, error) {
	records, _ := s.FindByRegion(ctx, region)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

// DistinctRegions implements covid.RecordStore; regions come back sorted.
func (s *RecordStore) DistinctRegions(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	regions := make([]string, 0)
	for _, rec := range s.records {
		if _, ok := seen[rec.Region]; ok {
			continue
		}
		seen[rec.Region] = struct{}{}
		regions = append(regions, rec.Region)
	}
	sort.Strings(regions)
	return regions, nil
}

// AggregatedByRegion implements covid.RecordStore.
func (s *RecordStore) AggregatedByRegion(ctx context.Context) ([]covid.AggregatedRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.AggregateByRegion(s.records), nil
}

// AggregatedByDate implements covid.RecordStore.
func (s *RecordStore) AggregatedByDate(ctx context.Context) ([]covid.AggregatedRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.AggregateByDate(s.records), nil
}

func (s *RecordStore) filter(keep func(covid.Record) bool) []covid.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]covid.Record, 0)
	for _, rec := range s.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
