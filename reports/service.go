// Package reports persists user-submitted custom analyses: each report
// records the submitted filter plus the serialized analysis and chart it
// produced, retrievable by identifier and listable newest first.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/epivista/case-analytics/analytics"
	"github.com/epivista/case-analytics/covid"
)

// Service is the single write path for custom reports. Create runs the custom
// strategy, serializes both artifacts, and persists one immutable record;
// there is no update or delete.
type Service struct {
	records covid.RecordStore
	store   Store
	custom  analytics.Custom
	logger  *slog.Logger

	now     func() time.Time
	newID   func() string
	marshal func(any) ([]byte, error)
}

// NewService wires a report service over the given record source and backing
// store. A nil logger falls back to slog's default.
func NewService(records covid.RecordStore, store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		records: records,
		store:   store,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
		marshal: json.Marshal,
	}
}

// Create runs the custom analysis for the filter, serializes both artifacts,
// and persists a new report with a freshly assigned identifier. Creation is
// all-or-nothing: any failure before the single insert leaves nothing
// persisted. An empty title defaults to the generated analysis title.
func (s *Service) Create(ctx context.Context, filter analytics.Filter, title, description string) (Report, error) {
	if err := filter.Validate(); err != nil {
		return Report{}, err
	}

	result, err := s.custom.AnalyzeFilter(ctx, s.records, filter)
	if err != nil {
		return Report{}, err
	}
	chart, err := s.custom.ChartFilter(ctx, s.records, filter)
	if err != nil {
		return Report{}, err
	}

	// Serialize both artifacts before touching the store so a codec failure
	// aborts with nothing partially persisted.
	analysisPayload, err := s.marshal(result)
	if err != nil {
		return Report{}, fmt.Errorf("serialize custom analysis: %w", err)
	}
	chartPayload, err := s.marshal(chart)
	if err != nil {
		return Report{}, fmt.Errorf("serialize custom chart: %w", err)
	}

	if title == "" {
		title = result.AnalysisType
	}

	report := Report{
		ID:              s.newID(),
		Region:          filter.Region,
		StartDate:       filter.StartDate,
		EndDate:         filter.EndDate,
		Metrics:         joinMetrics(filter.Metrics),
		Title:           title,
		Description:     description,
		AnalysisPayload: analysisPayload,
		ChartPayload:    chartPayload,
		CreatedAt:       s.now(),
	}
	if err := s.store.Insert(ctx, &report); err != nil {
		return Report{}, err
	}

	s.logger.InfoContext(ctx, "custom report created",
		slog.String("id", report.ID),
		slog.String("title", report.Title),
	)
	return report, nil
}

// GetByID returns the report with the given identifier; ok=false when none
// exists.
func (s *Service) GetByID(ctx context.Context, id string) (Report, bool, error) {
	return s.store.FindByID(ctx, id)
}

// ListAll returns every report, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Report, error) {
	return s.store.ListByCreatedDesc(ctx)
}

// ListByRegion returns the reports whose filter named the region, newest
// first.
func (s *Service) ListByRegion(ctx context.Context, region string) ([]Report, error) {
	return s.store.ListByRegionCreatedDesc(ctx, region)
}

// DecodeAnalysis unpacks a report's analysis payload. A payload that fails to
// decode is an IntegrityError: this system wrote it.
func (s *Service) DecodeAnalysis(report Report) (covid.AnalysisResult, error) {
	var result covid.AnalysisResult
	if err := json.Unmarshal(report.AnalysisPayload, &result); err != nil {
		return covid.AnalysisResult{}, &covid.IntegrityError{
			Kind: covid.IntegrityReport,
			Key:  report.ID,
			Err:  err,
		}
	}
	return result, nil
}

// DecodeChart unpacks a report's chart payload; semantics mirror
// DecodeAnalysis.
func (s *Service) DecodeChart(report Report) (covid.ChartSeries, error) {
	var chart covid.ChartSeries
	if err := json.Unmarshal(report.ChartPayload, &chart); err != nil {
		return covid.ChartSeries{}, &covid.IntegrityError{
			Kind: covid.IntegrityReport,
			Key:  report.ID,
			Err:  err,
		}
	}
	return chart, nil
}
