// Package covid holds the domain model shared by every layer: raw records,
// derived rows, analysis results, chart series, the record store port, and
// the module's error taxonomy.
package covid

import "time"

// DateLayout is the canonical date rendering used for result keys and chart
// labels. Records carry full time.Time values but every analysis operates at
// day granularity.
const DateLayout = "2006-01-02"

// FormatDate renders t at day granularity for use as a result key or label.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Record is a single dated observation for one region. Records are created by
// the ingestion layer and never mutated afterwards; everything in this module
// treats them as read-only input.
type Record struct {
	SNo        string    `json:"sno,omitempty"`
	Region     string    `json:"region"`
	Date       time.Time `json:"date"`
	ReportTime string    `json:"reportTime,omitempty"`

	// National-origin breakdown from the source feed. Kept as opaque strings:
	// the feed mixes numbers with markers like "-" and we never compute on them.
	ConfirmedDomestic string `json:"confirmedDomestic,omitempty"`
	ConfirmedForeign  string `json:"confirmedForeign,omitempty"`

	Confirmed int64 `json:"confirmed"`
	Cured     int64 `json:"cured"`
	Deaths    int64 `json:"deaths"`
}

// AggregatedRow is a derived per-group total. Exactly one of Region or Date is
// populated depending on which grouping produced the row. Rows are recomputed
// on each request and never stored.
type AggregatedRow struct {
	Region    string    `json:"region,omitempty"`
	Date      time.Time `json:"date,omitempty"`
	Confirmed int64     `json:"confirmed"`
	Deaths    int64     `json:"deaths"`
	Cured     int64     `json:"cured"`
}

// AnalysisResult is the output of a single strategy invocation. Data holds
// analysis-specific keys mapping to scalars or formatted dates; consumers look
// values up by key, so map iteration order carries no meaning.
type AnalysisResult struct {
	AnalysisType  string         `json:"analysisType"`
	GeneratedDate time.Time      `json:"generatedDate"`
	Data          map[string]any `json:"resultData"`
}

// NewAnalysisResult stamps a result with the current date.
func NewAnalysisResult(analysisType string, data map[string]any) AnalysisResult {
	return AnalysisResult{
		AnalysisType:  analysisType,
		GeneratedDate: time.Now().Truncate(24 * time.Hour),
		Data:          data,
	}
}
