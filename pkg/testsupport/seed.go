// Package testsupport provides fixture loading and record seeding helpers
// shared by the package test suites.
package testsupport

import (
	"testing"
	"time"

	"github.com/epivista/case-analytics/covid"
)

// MustDate parses a day-granular date or fails the test.
func MustDate(t *testing.T, value string) time.Time {
	t.Helper()

	d, err := time.Parse(covid.DateLayout, value)
	if err != nil {
		t.Fatalf("failed to parse date %q: %v", value, err)
	}
	return d
}

// NewRecord builds a record for the given region and day.
func NewRecord(t *testing.T, region, date string, confirmed, deaths, cured int64) covid.Record {
	t.Helper()

	return covid.Record{
		Region:    region,
		Date:      MustDate(t, date),
		Confirmed: confirmed,
		Deaths:    deaths,
		Cured:     cured,
	}
}

// DailySeries builds one record per day for a region, starting at start,
// with the given cumulative confirmed counts and zero deaths/cured. Handy
// for growth-rate and time-series scenarios where only confirmed matters.
func DailySeries(t *testing.T, region, start string, confirmed ...int64) []covid.Record {
	t.Helper()

	day := MustDate(t, start)
	records := make([]covid.Record, len(confirmed))
	for i, c := range confirmed {
		records[i] = covid.Record{
			Region:    region,
			Date:      day.AddDate(0, 0, i),
			Confirmed: c,
		}
	}
	return records
}
