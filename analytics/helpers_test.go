package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/epivista/case-analytics/covid"
)

// fakeStore is an in-memory covid.RecordStore that tracks method calls so
// tests can verify memoization behavior.
type fakeStore struct {
	mu        sync.Mutex
	records   []covid.Record
	callCount map[string]int
}

func newFakeStore(records ...covid.Record) *fakeStore {
	return &fakeStore{
		records:   records,
		callCount: make(map[string]int),
	}
}

func (f *fakeStore) trackCall(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callCount[method]++
}

func (f *fakeStore) calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCount[method]
}

func (f *fakeStore) FindAll(ctx context.Context) ([]covid.Record, error) {
	f.trackCall("FindAll")
	return append([]covid.Record(nil), f.records...), nil
}

func (f *fakeStore) FindByRegion(ctx context.Context, region string) ([]covid.Record, error) {
	f.trackCall("FindByRegion")
	var out []covid.Record
	for _, rec := range f.records {
		if rec.Region == region {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByDateRange(ctx context.Context, start, end time.Time) ([]covid.Record, error) {
	f.trackCall("FindByDateRange")
	var out []covid.Record
	for _, rec := range f.records {
		if !rec.Date.Before(start) && !rec.Date.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByRegionAndDateRange(ctx context.Context, region string, start, end time.Time) ([]covid.Record, error) {
	f.trackCall("FindByRegionAndDateRange")
	var out []covid.Record
	for _, rec := range f.records {
		if rec.Region == region && !rec.Date.Before(start) && !rec.Date.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByRegionChronological(ctx context.Context, region string) ([]covid.Record, error) {
	f.trackCall("FindByRegionChronological")
	out, _ := f.FindByRegion(ctx, region)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (f *fakeStore) DistinctRegions(ctx context.Context) ([]string, error) {
	f.trackCall("DistinctRegions")
	seen := make(map[string]struct{})
	var regions []string
	for _, rec := range f.records {
		if _, ok := seen[rec.Region]; !ok {
			seen[rec.Region] = struct{}{}
			regions = append(regions, rec.Region)
		}
	}
	sort.Strings(regions)
	return regions, nil
}

func (f *fakeStore) AggregatedByRegion(ctx context.Context) ([]covid.AggregatedRow, error) {
	f.trackCall("AggregatedByRegion")
	return AggregateByRegion(f.records), nil
}

func (f *fakeStore) AggregatedByDate(ctx context.Context) ([]covid.AggregatedRow, error) {
	f.trackCall("AggregatedByDate")
	return AggregateByDate(f.records), nil
}

func date(value string) time.Time {
	t, err := time.Parse(covid.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func record(region, day string, confirmed, deaths, cured int64) covid.Record {
	return covid.Record{
		Region:    region,
		Date:      date(day),
		Confirmed: confirmed,
		Deaths:    deaths,
		Cured:     cured,
	}
}
