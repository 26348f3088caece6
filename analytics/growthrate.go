package analytics

import (
	"context"
	"strconv"

	"github.com/epivista/case-analytics/covid"
)

// GrowthRateName is the registry key for the growth-rate strategy.
const GrowthRateName = "growthrate"

// GrowthRate derives daily and weekly percentage growth of confirmed cases
// from date-aggregate rows, their averages, and a Rule-of-70 doubling-time
// estimate when growth is positive.
type GrowthRate struct{}

func (GrowthRate) Name() string { return GrowthRateName }

// Analyze computes the daily rate at index i (i >= 1) against the previous
// day and the weekly rate at index i (i >= 7) against seven rows back. Days
// whose denominator is zero contribute nothing to either series or average.
func (GrowthRate) Analyze(ctx context.Context, src covid.RecordStore, _ Params) (covid.AnalysisResult, error) {
	rows, err := src.AggregatedByDate(ctx)
	if err != nil {
		return covid.AnalysisResult{}, err
	}

	data := make(map[string]any, len(rows)+4)

	var dailyRates, weeklyRates []float64
	for i := range rows {
		if i >= 1 && rows[i-1].Confirmed > 0 {
			rate := float64(rows[i].Confirmed-rows[i-1].Confirmed) / float64(rows[i-1].Confirmed) * 100
			dailyRates = append(dailyRates, rate)
			data["day_"+strconv.Itoa(i)+"_growthRate"] = rate
		}
		if i >= 7 && rows[i-7].Confirmed > 0 {
			rate := float64(rows[i].Confirmed-rows[i-7].Confirmed) / float64(rows[i-7].Confirmed) * 100
			weeklyRates = append(weeklyRates, rate)
			data["week_"+strconv.Itoa(i/7)+"_growthRate"] = rate
		}
	}

	avgDaily := mean(dailyRates)
	data["averageDailyGrowthRate"] = avgDaily
	data["averageWeeklyGrowthRate"] = mean(weeklyRates)

	// A non-positive average growth rate has no finite doubling time under the
	// Rule-of-70 approximation, so the key is absent rather than zero.
	if avgDaily > 0 {
		data["estimatedDoublingTimeDays"] = ruleOf70Days(avgDaily)
	}

	return covid.NewAnalysisResult("Growth Rate Analysis", data), nil
}

// BuildChart renders the daily growth-rate series as a line chart. Labels and
// values are collected together, so zero-denominator days drop out of both.
func (GrowthRate) BuildChart(ctx context.Context, src covid.RecordStore, _ Params) (covid.ChartSeries, error) {
	rows, err := src.AggregatedByDate(ctx)
	if err != nil {
		return covid.ChartSeries{}, err
	}

	var labels []string
	var rates []float64
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Confirmed <= 0 {
			continue
		}
		labels = append(labels, covid.FormatDate(rows[i].Date))
		rates = append(rates, float64(rows[i].Confirmed-rows[i-1].Confirmed)/float64(rows[i-1].Confirmed)*100)
	}

	return covid.NewChartSeries(covid.ChartLine, "Daily Growth Rate", "Date", "Growth Rate (%)", labels, map[string][]float64{
		"Daily Growth Rate (%)": rates,
	})
}
