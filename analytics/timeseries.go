package analytics

import (
	"context"
	"time"

	"github.com/epivista/case-analytics/covid"
)

// TimeSeriesName is the registry key for the time-series strategy.
const TimeSeriesName = "timeseries"

// TimeSeries walks date-aggregate rows and derives day-over-day deltas:
// new cases, new deaths, new recoveries, plus the date each metric peaked
// and an overall growth rate across the whole window.
type TimeSeries struct{}

func (TimeSeries) Name() string { return TimeSeriesName }

// Analyze consumes date-aggregate rows, already ascending by date. Cumulative
// values pass through untouched; deltas start at index 1 because the first day
// has no predecessor. Peak tracking uses strict greater-than, so a tie keeps
// the earlier date.
func (TimeSeries) Analyze(ctx context.Context, src covid.RecordStore, _ Params) (covid.AnalysisResult, error) {
	rows, err := src.AggregatedByDate(ctx)
	if err != nil {
		return covid.AnalysisResult{}, err
	}

	data := make(map[string]any, len(rows)*6+8)

	var peakCases, peakDeaths, peakRecoveries struct {
		date  time.Time
		value int64
		seen  bool
	}

	for i, row := range rows {
		day := covid.FormatDate(row.Date)

		if i > 0 {
			prev := rows[i-1]
			newCases := row.Confirmed - prev.Confirmed
			newDeaths := row.Deaths - prev.Deaths
			newRecoveries := row.Cured - prev.Cured

			if newCases > peakCases.value {
				peakCases.date, peakCases.value, peakCases.seen = row.Date, newCases, true
			}
			if newDeaths > peakDeaths.value {
				peakDeaths.date, peakDeaths.value, peakDeaths.seen = row.Date, newDeaths, true
			}
			if newRecoveries > peakRecoveries.value {
				peakRecoveries.date, peakRecoveries.value, peakRecoveries.seen = row.Date, newRecoveries, true
			}

			data[day+"_newCases"] = newCases
			data[day+"_newDeaths"] = newDeaths
			data[day+"_newRecoveries"] = newRecoveries
		}

		data[day+"_confirmed"] = row.Confirmed
		data[day+"_deaths"] = row.Deaths
		data[day+"_cured"] = row.Cured
	}

	if peakCases.seen {
		data["dateWithHighestNewCases"] = covid.FormatDate(peakCases.date)
		data["highestNewCases"] = peakCases.value
	}
	if peakDeaths.seen {
		data["dateWithHighestNewDeaths"] = covid.FormatDate(peakDeaths.date)
		data["highestNewDeaths"] = peakDeaths.value
	}
	if peakRecoveries.seen {
		data["dateWithHighestNewRecoveries"] = covid.FormatDate(peakRecoveries.date)
		data["highestNewRecoveries"] = peakRecoveries.value
	}

	if len(rows) > 1 {
		first, last := rows[0].Confirmed, rows[len(rows)-1].Confirmed
		if first > 0 {
			data["overallGrowthRate"] = float64(last-first) / float64(first) * 100
		}
	}

	return covid.NewAnalysisResult("Time Series Analysis", data), nil
}

// BuildChart renders daily deltas as a line chart. The first day is dropped
// for the same reason Analyze skips it: no predecessor to diff against.
func (TimeSeries) BuildChart(ctx context.Context, src covid.RecordStore, _ Params) (covid.ChartSeries, error) {
	rows, err := src.AggregatedByDate(ctx)
	if err != nil {
		return covid.ChartSeries{}, err
	}

	var labels []string
	var newCases, newDeaths, newRecoveries []float64
	for i := 1; i < len(rows); i++ {
		labels = append(labels, covid.FormatDate(rows[i].Date))
		newCases = append(newCases, float64(rows[i].Confirmed-rows[i-1].Confirmed))
		newDeaths = append(newDeaths, float64(rows[i].Deaths-rows[i-1].Deaths))
		newRecoveries = append(newRecoveries, float64(rows[i].Cured-rows[i-1].Cured))
	}

	return covid.NewChartSeries(covid.ChartLine, "Daily New COVID-19 Cases", "Date", "Count", labels, map[string][]float64{
		"New Cases":      newCases,
		"New Deaths":     newDeaths,
		"New Recoveries": newRecoveries,
	})
}
