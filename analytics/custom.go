package analytics

import (
	"context"
	"errors"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/epivista/case-analytics/covid"
)

// Metric names a filter may request for the custom chart.
const (
	MetricConfirmed = "confirmed"
	MetricDeaths    = "deaths"
	MetricRecovered = "recovered"
)

// Filter selects the record subset a custom analysis is computed over. All
// scoping fields are optional; an empty filter covers the entire record set.
// The date range is inclusive and must be given as a pair.
type Filter struct {
	Region    string     `json:"region,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Metrics   []string   `json:"metrics"`
}

// Validate checks the filter shape. Failures come back as
// *covid.ValidationError.
func (f Filter) Validate() error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Metrics,
			validation.Required,
			validation.Each(validation.In(MetricConfirmed, MetricDeaths, MetricRecovered)),
		),
	)
	if err != nil {
		return &covid.ValidationError{Param: "metrics", Reason: err.Error()}
	}

	if (f.StartDate == nil) != (f.EndDate == nil) {
		return &covid.ValidationError{Param: "dateRange", Reason: "startDate and endDate must be given together"}
	}
	if f.StartDate != nil && f.StartDate.After(*f.EndDate) {
		return &covid.ValidationError{Param: "dateRange", Reason: "startDate is after endDate"}
	}
	return nil
}

func (f Filter) wantsMetric(name string) bool {
	for _, m := range f.Metrics {
		if m == name {
			return true
		}
	}
	return false
}

func (f Filter) title() string {
	title := "Custom Analysis"
	if f.Region != "" {
		title += " for " + f.Region
	}
	if f.StartDate != nil && f.EndDate != nil {
		title += " from " + covid.FormatDate(*f.StartDate) + " to " + covid.FormatDate(*f.EndDate)
	}
	return title
}

// Custom is the parameterized analysis variant behind user-submitted reports.
// Unlike the registry strategies it takes a full Filter, so it is exposed as
// its own entry point rather than through the Strategy interface.
type Custom struct{}

func (Custom) fetch(ctx context.Context, src covid.RecordStore, f Filter) ([]covid.Record, error) {
	switch {
	case f.Region != "" && f.StartDate != nil:
		return src.FindByRegionAndDateRange(ctx, f.Region, *f.StartDate, *f.EndDate)
	case f.Region != "":
		return src.FindByRegion(ctx, f.Region)
	case f.StartDate != nil:
		return src.FindByDateRange(ctx, *f.StartDate, *f.EndDate)
	default:
		return src.FindAll(ctx)
	}
}

// AnalyzeFilter computes totals, rates, the peak-confirmed day, and the date
// span actually present in the filtered set, then echoes the requested filter
// parameters back into the result so a reader can reconstruct the request.
func (c Custom) AnalyzeFilter(ctx context.Context, src covid.RecordStore, f Filter) (covid.AnalysisResult, error) {
	if err := f.Validate(); err != nil {
		return covid.AnalysisResult{}, err
	}

	records, err := c.fetch(ctx, src, f)
	if err != nil {
		return covid.AnalysisResult{}, err
	}

	data := make(map[string]any, 12)

	var totalConfirmed, totalDeaths, totalCured int64
	for _, rec := range records {
		totalConfirmed += rec.Confirmed
		totalDeaths += rec.Deaths
		totalCured += rec.Cured
	}
	data["totalConfirmed"] = totalConfirmed
	data["totalDeaths"] = totalDeaths
	data["totalCured"] = totalCured

	if totalConfirmed > 0 {
		data["mortalityRate"] = float64(totalDeaths) / float64(totalConfirmed) * 100
		data["recoveryRate"] = float64(totalCured) / float64(totalConfirmed) * 100
	}

	if len(records) > 0 {
		peak := records[0]
		first, last := records[0].Date, records[0].Date
		for _, rec := range records {
			if rec.Confirmed >= peak.Confirmed {
				peak = rec
			}
			if rec.Date.Before(first) {
				first = rec.Date
			}
			if rec.Date.After(last) {
				last = rec.Date
			}
		}
		data["dateWithHighestCases"] = covid.FormatDate(peak.Date)
		data["highestCasesCount"] = peak.Confirmed
		// The span actually present in the filtered set, not the requested bounds.
		data["startDate"] = covid.FormatDate(first)
		data["endDate"] = covid.FormatDate(last)
	}

	data["regionFilter"] = f.Region
	if f.StartDate != nil {
		data["startDateFilter"] = covid.FormatDate(*f.StartDate)
	}
	if f.EndDate != nil {
		data["endDateFilter"] = covid.FormatDate(*f.EndDate)
	}
	data["metricsFilter"] = append([]string(nil), f.Metrics...)

	return covid.NewAnalysisResult(f.title(), data), nil
}

// ChartFilter renders the filtered set ascending by date with one labeled
// series per requested metric. A metric the filter does not ask for produces
// no series at all.
func (c Custom) ChartFilter(ctx context.Context, src covid.RecordStore, f Filter) (covid.ChartSeries, error) {
	if err := f.Validate(); err != nil {
		return covid.ChartSeries{}, err
	}

	records, err := c.fetch(ctx, src, f)
	if err != nil {
		return covid.ChartSeries{}, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	labels := make([]string, len(records))
	for i, rec := range records {
		labels[i] = covid.FormatDate(rec.Date)
	}

	datasets := make(map[string][]float64, len(f.Metrics))
	if f.wantsMetric(MetricConfirmed) {
		series := make([]float64, len(records))
		for i, rec := range records {
			series[i] = float64(rec.Confirmed)
		}
		datasets["Confirmed Cases"] = series
	}
	if f.wantsMetric(MetricDeaths) {
		series := make([]float64, len(records))
		for i, rec := range records {
			series[i] = float64(rec.Deaths)
		}
		datasets["Deaths"] = series
	}
	if f.wantsMetric(MetricRecovered) {
		series := make([]float64, len(records))
		for i, rec := range records {
			series[i] = float64(rec.Cured)
		}
		datasets["Cured"] = series
	}

	return covid.NewChartSeries(covid.ChartLine, f.title(), "Date", "Number of Cases", labels, datasets)
}

// IsValidation reports whether err originates from parameter validation.
func IsValidation(err error) bool {
	var ve *covid.ValidationError
	return errors.As(err, &ve)
}
