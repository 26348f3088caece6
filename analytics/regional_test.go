package analytics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/epivista/case-analytics/covid"
	"github.com/epivista/case-analytics/pkg/testsupport"
)

func TestRegional_MissingRegionFailsValidation(t *testing.T) {
	_, err := Regional{}.Analyze(context.Background(), newFakeStore(), Params{})
	var verr *covid.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if verr.Param != "region" {
		t.Errorf("Param = %q, want region", verr.Param)
	}

	if _, err := (Regional{}).BuildChart(context.Background(), newFakeStore(), Params{}); !errors.As(err, &verr) {
		t.Errorf("BuildChart: got %v, want ValidationError", err)
	}
}

func TestRegional_UnknownRegionCarriesMessageOnly(t *testing.T) {
	result, err := Regional{}.Analyze(context.Background(), newFakeStore(), Params{Region: "Atlantis"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.AnalysisType != "Region Analysis: Atlantis" {
		t.Errorf("AnalysisType = %q", result.AnalysisType)
	}
	if len(result.Data) != 1 {
		t.Errorf("Data = %v, want only a message key", result.Data)
	}
	if got := result.Data["message"]; got != "no data found for region: Atlantis" {
		t.Errorf("message = %v", got)
	}
}

func TestRegional_TotalsRatesAndSpan(t *testing.T) {
	store := newFakeStore(
		record("Kerala", "2020-03-01", 100, 2, 10),
		record("Kerala", "2020-03-02", 150, 3, 20),
		record("Delhi", "2020-03-01", 900, 50, 100),
	)

	result, err := Regional{}.Analyze(context.Background(), store, Params{Region: "Kerala"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got := result.Data["totalConfirmed"]; got != int64(250) {
		t.Errorf("totalConfirmed = %v, want 250", got)
	}
	wantMortality := float64(5) / 250 * 100
	if got := result.Data["mortalityRate"].(float64); math.Abs(got-wantMortality) > 1e-9 {
		t.Errorf("mortalityRate = %v, want %v", got, wantMortality)
	}
	if got := result.Data["firstDate"]; got != "2020-03-01" {
		t.Errorf("firstDate = %v", got)
	}
	if got := result.Data["lastDate"]; got != "2020-03-02" {
		t.Errorf("lastDate = %v", got)
	}
	if got := result.Data["growthRate_2020-03-02"].(float64); math.Abs(got-50) > 1e-9 {
		t.Errorf("growthRate_2020-03-02 = %v, want 50", got)
	}
	if got := result.Data["averageGrowthRate"].(float64); math.Abs(got-50) > 1e-9 {
		t.Errorf("averageGrowthRate = %v, want 50", got)
	}
	if got := result.Data["estimatedDoublingTimeDays"].(float64); math.Abs(got-1.4) > 1e-9 {
		t.Errorf("estimatedDoublingTimeDays = %v, want 1.4", got)
	}
}

func TestRegional_PeakTieKeepsLatestDate(t *testing.T) {
	store := newFakeStore(
		record("Kerala", "2020-03-01", 50, 0, 0),
		record("Kerala", "2020-03-02", 50, 0, 0),
	)

	result, err := Regional{}.Analyze(context.Background(), store, Params{Region: "Kerala"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got := result.Data["dateWithHighestCases"]; got != "2020-03-02" {
		t.Errorf("dateWithHighestCases = %v, want 2020-03-02 (latest tie)", got)
	}
}

func TestRegional_ZeroPreviousDayCountsAsZeroGrowth(t *testing.T) {
	store := newFakeStore(testsupport.DailySeries(t, "Kerala", "2020-03-01", 0, 100, 150)...)

	result, err := Regional{}.Analyze(context.Background(), store, Params{Region: "Kerala"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got := result.Data["growthRate_2020-03-02"]; got != float64(0) {
		t.Errorf("growthRate_2020-03-02 = %v, want 0", got)
	}
	// Average over [0, 50], not just the well-defined day.
	if got := result.Data["averageGrowthRate"].(float64); math.Abs(got-25) > 1e-9 {
		t.Errorf("averageGrowthRate = %v, want 25", got)
	}
	assertNoBadFloats(t, result.Data)
}

func TestRegional_SingleRecordOmitsGrowth(t *testing.T) {
	store := newFakeStore(record("Kerala", "2020-03-01", 100, 1, 2))

	result, err := Regional{}.Analyze(context.Background(), store, Params{Region: "Kerala"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if _, ok := result.Data["averageGrowthRate"]; ok {
		t.Error("averageGrowthRate must be omitted for a single record")
	}
	if got := result.Data["firstDate"]; got != result.Data["lastDate"] {
		t.Errorf("firstDate %v != lastDate %v", got, result.Data["lastDate"])
	}
}

func TestRegional_Chart(t *testing.T) {
	store := newFakeStore(
		record("Kerala", "2020-03-02", 150, 3, 20),
		record("Kerala", "2020-03-01", 100, 2, 10),
	)

	chart, err := Regional{}.BuildChart(context.Background(), store, Params{Region: "Kerala"})
	if err != nil {
		t.Fatalf("BuildChart: %v", err)
	}

	if chart.Type != covid.ChartLine {
		t.Errorf("Type = %v, want line", chart.Type)
	}
	if len(chart.Labels) != 2 || chart.Labels[0] != "2020-03-01" {
		t.Errorf("labels = %v, want chronological order", chart.Labels)
	}
	if got := chart.Datasets["Confirmed"]; got[0] != 100 || got[1] != 150 {
		t.Errorf("Confirmed = %v, want [100 150]", got)
	}
}
