package analytics

import (
	"sort"

	"github.com/epivista/case-analytics/covid"
)

// AggregateByRegion reduces raw records into one lifetime-total row per
// region, ordered descending by total confirmed. Ties keep the order in which
// a region first appeared in the input, so the sort is stable by construction.
// An empty input yields an empty, non-nil slice.
func AggregateByRegion(records []covid.Record) []covid.AggregatedRow {
	totals := make(map[string]int)
	rows := make([]covid.AggregatedRow, 0, len(totals))

	for _, rec := range records {
		idx, ok := totals[rec.Region]
		if !ok {
			idx = len(rows)
			totals[rec.Region] = idx
			rows = append(rows, covid.AggregatedRow{Region: rec.Region})
		}
		rows[idx].Confirmed += rec.Confirmed
		rows[idx].Deaths += rec.Deaths
		rows[idx].Cured += rec.Cured
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Confirmed > rows[j].Confirmed
	})
	return rows
}

// AggregateByDate reduces raw records into one total row per calendar day,
// ordered ascending by date. An empty input yields an empty, non-nil slice.
func AggregateByDate(records []covid.Record) []covid.AggregatedRow {
	totals := make(map[string]int)
	rows := make([]covid.AggregatedRow, 0)

	for _, rec := range records {
		day := covid.FormatDate(rec.Date)
		idx, ok := totals[day]
		if !ok {
			idx = len(rows)
			totals[day] = idx
			rows = append(rows, covid.AggregatedRow{Date: dayOf(rec.Date)})
		}
		rows[idx].Confirmed += rec.Confirmed
		rows[idx].Deaths += rec.Deaths
		rows[idx].Cured += rec.Cured
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}
