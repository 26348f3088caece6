package analytics

import (
	"context"

	"github.com/epivista/case-analytics/covid"
)

// StatewiseName is the registry key for the statewise strategy.
const StatewiseName = "statewise"

// topChartRegions caps how many regions the statewise bar chart renders.
const topChartRegions = 10

// Statewise summarizes lifetime totals per region: one confirmed/deaths/cured
// triple per region, the winning region for each metric, and overall mortality
// and recovery rates.
type Statewise struct{}

func (Statewise) Name() string { return StatewiseName }

// Analyze consumes region-aggregate rows, which arrive sorted descending by
// confirmed. Maxima use strict greater-than, so the first row to reach a value
// wins ties; with the sort order that makes the highest-confirmed region
// always the first row.
func (Statewise) Analyze(ctx context.Context, src covid.RecordStore, _ Params) (covid.AnalysisResult, error) {
	rows, err := src.AggregatedByRegion(ctx)
	if err != nil {
		return covid.AnalysisResult{}, err
	}

	data := make(map[string]any, len(rows)*3+12)

	var totalConfirmed, totalDeaths, totalCured int64
	var topCases, topDeaths, topRecovery struct {
		region string
		value  int64
	}

	for _, row := range rows {
		totalConfirmed += row.Confirmed
		totalDeaths += row.Deaths
		totalCured += row.Cured

		if row.Confirmed > topCases.value {
			topCases.region, topCases.value = row.Region, row.Confirmed
		}
		if row.Deaths > topDeaths.value {
			topDeaths.region, topDeaths.value = row.Region, row.Deaths
		}
		if row.Cured > topRecovery.value {
			topRecovery.region, topRecovery.value = row.Region, row.Cured
		}

		data[row.Region+"_confirmed"] = row.Confirmed
		data[row.Region+"_deaths"] = row.Deaths
		data[row.Region+"_cured"] = row.Cured
	}

	data["totalConfirmed"] = totalConfirmed
	data["totalDeaths"] = totalDeaths
	data["totalCured"] = totalCured
	data["regionWithHighestCases"] = topCases.region
	data["highestCases"] = topCases.value
	data["regionWithHighestDeaths"] = topDeaths.region
	data["highestDeaths"] = topDeaths.value
	data["regionWithHighestRecovery"] = topRecovery.region
	data["highestRecovery"] = topRecovery.value

	// Undefined when nothing is confirmed; the rates are omitted rather than
	// emitted as NaN.
	if totalConfirmed > 0 {
		data["mortalityRate"] = float64(totalDeaths) / float64(totalConfirmed) * 100
		data["recoveryRate"] = float64(totalCured) / float64(totalConfirmed) * 100
	}

	return covid.NewAnalysisResult("Statewise Analysis", data), nil
}

// BuildChart renders the top regions by confirmed count as a bar chart with
// one dataset per metric.
func (Statewise) BuildChart(ctx context.Context, src covid.RecordStore, _ Params) (covid.ChartSeries, error) {
	rows, err := src.AggregatedByRegion(ctx)
	if err != nil {
		return covid.ChartSeries{}, err
	}
	if len(rows) > topChartRegions {
		rows = rows[:topChartRegions]
	}

	labels := make([]string, len(rows))
	confirmed := make([]float64, len(rows))
	deaths := make([]float64, len(rows))
	cured := make([]float64, len(rows))
	for i, row := range rows {
		labels[i] = row.Region
		confirmed[i] = float64(row.Confirmed)
		deaths[i] = float64(row.Deaths)
		cured[i] = float64(row.Cured)
	}

	return covid.NewChartSeries(covid.ChartBar, "Statewise COVID-19 Cases", "Region", "Count", labels, map[string][]float64{
		"Confirmed": confirmed,
		"Deaths":    deaths,
		"Cured":     cured,
	})
}
