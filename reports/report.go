package reports

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// metricsSeparator joins the requested metric names for storage.
const metricsSeparator = ","

// Report is one persisted custom analysis: the filter a user submitted plus
// the two serialized artifacts it produced. Reports are immutable after
// creation and are never deleted in normal operation.
type Report struct {
	bun.BaseModel `bun:"table:custom_reports"`

	ID          string     `bun:"id,pk" json:"id"`
	Region      string     `bun:"region" json:"region,omitempty"`
	StartDate   *time.Time `bun:"start_date" json:"startDate,omitempty"`
	EndDate     *time.Time `bun:"end_date" json:"endDate,omitempty"`
	Metrics     string     `bun:"metrics,notnull" json:"metrics"`
	Title       string     `bun:"title,notnull" json:"title"`
	Description string     `bun:"description" json:"description,omitempty"`

	AnalysisPayload []byte `bun:"analysis_payload,notnull" json:"analysisPayload"`
	ChartPayload    []byte `bun:"chart_payload,notnull" json:"chartPayload"`

	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// MetricsList splits the stored metric names back into a slice.
func (r Report) MetricsList() []string {
	if r.Metrics == "" {
		return nil
	}
	return strings.Split(r.Metrics, metricsSeparator)
}

func joinMetrics(metrics []string) string {
	return strings.Join(metrics, metricsSeparator)
}

// Store is the backing persistence contract for reports: append-mostly,
// keyed by assigned identifier, listable in recency order.
type Store interface {
	// Insert persists a new report. IDs are assigned by the caller and never
	// collide in practice (UUIDs); a collision is an error.
	Insert(ctx context.Context, report *Report) error

	// FindByID returns the report with the given identifier, or ok=false
	// when none exists. Absence is not an error.
	FindByID(ctx context.Context, id string) (Report, bool, error)

	// ListByCreatedDesc returns all reports in non-increasing creation-time
	// order.
	ListByCreatedDesc(ctx context.Context) ([]Report, error)

	// ListByRegionCreatedDesc returns the reports whose filter named the
	// given region, newest first.
	ListByRegionCreatedDesc(ctx context.Context, region string) ([]Report, error)
}
