package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/epivista/case-analytics/reports"
)

// ReportStore keeps custom reports in a mutex-guarded map.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]reports.Report
}

var _ reports.Store = (*ReportStore)(nil)

// NewReportStore returns an empty in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[string]reports.Report)}
}

// Insert implements reports.Store.
func (s *ReportStore) Insert(ctx context.Context, report *reports.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[report.ID]; exists {
		return fmt.Errorf("report %q already exists", report.ID)
	}
	s.reports[report.ID] = *report
	return nil
}

// FindByID implements reports.Store.
func (s *ReportStore) FindByID(ctx context.Context, id string) (reports.Report, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	return report, ok, nil
}

// ListByCreatedDesc implements reports.Store.
func (s *ReportStore) ListByCreatedDesc(ctx context.Context) ([]reports.Report, error) {
	return s.list(func(reports.Report) bool { return true }), nil
}

// ListByRegionCreatedDesc implements reports.Store.
func (s *ReportStore) ListByRegionCreatedDesc(ctx context.Context, region string) ([]reports.Report, error) {
	return s.list(func(r reports.Report) bool { return r.Region == region }), nil
}

func (s *ReportStore) list(keep func(reports.Report) bool) []reports.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]reports.Report, 0, len(s.reports))
	for _, report := range s.reports {
		if keep(report) {
			out = append(out, report)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
