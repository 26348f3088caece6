package analytics

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/epivista/case-analytics/covid"
)

// RegionalName is the registry key for the region-specific strategy.
const RegionalName = "regional"

// Regional summarizes a single region's raw records: totals, rates, the peak
// day, per-day growth, and the covered date span. It is the one built-in
// strategy that requires a parameter.
type Regional struct{}

func (Regional) Name() string { return RegionalName }

// Analyze fails fast with a ValidationError when no region is given. A region
// with no records is not an error: the result then carries a single
// explanatory message key.
//
// Growth-rate policy differs from the date-aggregate strategies on purpose: a
// day whose previous-day confirmed count is zero is recorded as a 0% growth
// day and still counts toward the average, matching results already persisted
// by earlier deployments.
func (Regional) Analyze(ctx context.Context, src covid.RecordStore, params Params) (covid.AnalysisResult, error) {
	if err := validation.Validate(params.Region, validation.Required); err != nil {
		return covid.AnalysisResult{}, &covid.ValidationError{Param: "region", Reason: err.Error()}
	}

	records, err := src.FindByRegionChronological(ctx, params.Region)
	if err != nil {
		return covid.AnalysisResult{}, err
	}

	analysisType := "Region Analysis: " + params.Region

	if len(records) == 0 {
		return covid.NewAnalysisResult(analysisType, map[string]any{
			"message": fmt.Sprintf("no data found for region: %s", params.Region),
		}), nil
	}

	data := make(map[string]any, len(records)+12)

	var totalConfirmed, totalDeaths, totalCured int64
	peak := records[0]
	for _, rec := range records {
		totalConfirmed += rec.Confirmed
		totalDeaths += rec.Deaths
		totalCured += rec.Cured
		// >= so the latest date wins ties in stream order.
		if rec.Confirmed >= peak.Confirmed {
			peak = rec
		}
	}

	data["region"] = params.Region
	data["totalConfirmed"] = totalConfirmed
	data["totalDeaths"] = totalDeaths
	data["totalCured"] = totalCured

	if totalConfirmed > 0 {
		data["mortalityRate"] = float64(totalDeaths) / float64(totalConfirmed) * 100
		data["recoveryRate"] = float64(totalCured) / float64(totalConfirmed) * 100
	}

	data["dateWithHighestCases"] = covid.FormatDate(peak.Date)
	data["highestCasesCount"] = peak.Confirmed

	if len(records) > 1 {
		rates := make([]float64, 0, len(records)-1)
		for i := 1; i < len(records); i++ {
			var rate float64
			if prev := records[i-1].Confirmed; prev > 0 {
				rate = float64(records[i].Confirmed-prev) / float64(prev) * 100
			}
			rates = append(rates, rate)
			data["growthRate_"+covid.FormatDate(records[i].Date)] = rate
		}

		avg := mean(rates)
		data["averageGrowthRate"] = avg
		if avg > 0 {
			data["estimatedDoublingTimeDays"] = ruleOf70Days(avg)
		}
	}

	data["firstDate"] = covid.FormatDate(records[0].Date)
	data["lastDate"] = covid.FormatDate(records[len(records)-1].Date)

	return covid.NewAnalysisResult(analysisType, data), nil
}

// BuildChart renders the region's per-day confirmed/cured/deaths counts as a
// line chart over its chronological records.
func (Regional) BuildChart(ctx context.Context, src covid.RecordStore, params Params) (covid.ChartSeries, error) {
	if err := validation.Validate(params.Region, validation.Required); err != nil {
		return covid.ChartSeries{}, &covid.ValidationError{Param: "region", Reason: err.Error()}
	}

	records, err := src.FindByRegionChronological(ctx, params.Region)
	if err != nil {
		return covid.ChartSeries{}, err
	}

	labels := make([]string, len(records))
	confirmed := make([]float64, len(records))
	deaths := make([]float64, len(records))
	cured := make([]float64, len(records))
	for i, rec := range records {
		labels[i] = covid.FormatDate(rec.Date)
		confirmed[i] = float64(rec.Confirmed)
		deaths[i] = float64(rec.Deaths)
		cured[i] = float64(rec.Cured)
	}

	return covid.NewChartSeries(covid.ChartLine, "COVID-19 Trend: "+params.Region, "Date", "Count", labels, map[string][]float64{
		"Confirmed": confirmed,
		"Deaths":    deaths,
		"Cured":     cured,
	})
}
