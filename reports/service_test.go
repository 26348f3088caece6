package reports

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/epivista/case-analytics/analytics"
	"github.com/epivista/case-analytics/covid"
)

// fakeRecords is a slice-backed covid.RecordStore.
type fakeRecords struct {
	records []covid.Record
}

func (f *fakeRecords) FindAll(context.Context) ([]covid.Record, error) {
	return append([]covid.Record(nil), f.records...), nil
}

func (f *fakeRecords) FindByRegion(_ context.Context, region string) ([]covid.Record, error) {
	var out []covid.Record
	for _, rec := range f.records {
		if rec.Region == region {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRecords) FindByDateRange(_ context.Context, start, end time.Time) ([]covid.Record, error) {
	var out []covid.Record
	for _, rec := range f.records {
		if !rec.Date.Before(start) && !rec.Date.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRecords) FindByRegionAndDateRange(ctx context.Context, region string, start, end time.Time) ([]covid.Record, error) {
	inRange, err := f.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	var out []covid.Record
	for _, rec := range inRange {
		if rec.Region == region {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRecords) FindByRegionChronological(ctx context.Context, region string) ([]covid.Record, error) {
	out, _ := f.FindByRegion(ctx, region)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeRecords) DistinctRegions(context.Context) ([]string, error) {
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

func (f *fakeRecords) AggregatedByRegion(context.Context) ([]covid.AggregatedRow, error) {
	return analytics.AggregateByRegion(f.records), nil
}

func (f *fakeRecords) AggregatedByDate(context.Context) ([]covid.AggregatedRow, error) {
	return analytics.AggregateByDate(f.records), nil
}

// fakeReportStore is a map-backed Store preserving insertion order.
type fakeReportStore struct {
	reports []Report
}

func (f *fakeReportStore) Insert(_ context.Context, report *Report) error {
	for _, existing := range f.reports {
		if existing.ID == report.ID {
			return fmt.Errorf("duplicate report id %q", report.ID)
		}
	}
	f.reports = append(f.reports, *report)
	return nil
}

func (f *fakeReportStore) FindByID(_ context.Context, id string) (Report, bool, error) {
	for _, report := range f.reports {
		if report.ID == id {
			return report, true, nil
		}
	}
	return Report{}, false, nil
}

func (f *fakeReportStore) ListByCreatedDesc(context.Context) ([]Report, error) {
	out := append([]Report(nil), f.reports...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeReportStore) ListByRegionCreatedDesc(ctx context.Context, region string) ([]Report, error) {
	all, err := f.ListByCreatedDesc(ctx)
	if err != nil {
		return nil, err
	}
	var out []Report
	for _, report := range all {
		if report.Region == region {
			out = append(out, report)
		}
	}
	return out, nil
}

var _ Store = (*fakeReportStore)(nil)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(covid.DateLayout, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return d
}

func testRecords(t *testing.T) *fakeRecords {
	t.Helper()
	return &fakeRecords{records: []covid.Record{
		{Region: "Kerala", Date: day(t, "2020-03-01"), Confirmed: 100, Deaths: 2, Cured: 10},
		{Region: "Kerala", Date: day(t, "2020-03-02"), Confirmed: 150, Deaths: 3, Cured: 20},
		{Region: "Delhi", Date: day(t, "2020-03-01"), Confirmed: 500, Deaths: 30, Cured: 50},
	}}
}

func TestService_CreateAndGet(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewService(testRecords(t), store, nil)
	ctx := context.Background()

	filter := analytics.Filter{
		Region:  "Kerala",
		Metrics: []string{analytics.MetricConfirmed, analytics.MetricDeaths},
	}
	created, err := svc.Create(ctx, filter, "Kerala outbreak", "first wave")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create assigned no identifier")
	}
	if created.Metrics != "confirmed,deaths" {
		t.Errorf("Metrics = %q, want comma-joined storage form", created.Metrics)
	}

	got, ok, err := svc.GetByID(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("GetByID: ok=%v err=%v", ok, err)
	}
	if got.Title != "Kerala outbreak" || got.Description != "first wave" {
		t.Errorf("round trip changed report: %+v", got)
	}
	if list := got.MetricsList(); len(list) != 2 || list[0] != analytics.MetricConfirmed {
		t.Errorf("MetricsList = %v", list)
	}

	result, err := svc.DecodeAnalysis(got)
	if err != nil {
		t.Fatalf("DecodeAnalysis: %v", err)
	}
	if result.Data["totalConfirmed"] != float64(250) {
		t.Errorf("totalConfirmed = %v, want 250", result.Data["totalConfirmed"])
	}
	chart, err := svc.DecodeChart(got)
	if err != nil {
		t.Fatalf("DecodeChart: %v", err)
	}
	if _, ok := chart.Datasets["Confirmed Cases"]; !ok {
		t.Errorf("chart datasets = %v, want requested metrics", chart.Datasets)
	}
}

func TestService_CreateEmptyTitleDefaults(t *testing.T) {
	svc := NewService(testRecords(t), &fakeReportStore{}, nil)

	created, err := svc.Create(context.Background(), analytics.Filter{
		Region:  "Kerala",
		Metrics: []string{analytics.MetricConfirmed},
	}, "", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Title != "Custom Analysis for Kerala" {
		t.Errorf("Title = %q, want the generated analysis title", created.Title)
	}
}

func TestService_CreateInvalidFilter(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewService(testRecords(t), store, nil)

	_, err := svc.Create(context.Background(), analytics.Filter{}, "t", "")
	var verr *covid.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if len(store.reports) != 0 {
		t.Error("invalid filter must persist nothing")
	}
}

func TestService_CreateIsAllOrNothing(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewService(testRecords(t), store, nil)
	svc.marshal = func(any) ([]byte, error) {
		return nil, errors.New("codec broken")
	}

	_, err := svc.Create(context.Background(), analytics.Filter{
		Metrics: []string{analytics.MetricConfirmed},
	}, "t", "")
	if err == nil {
		t.Fatal("Create must fail when serialization fails")
	}
	if len(store.reports) != 0 {
		t.Error("a failed creation must leave nothing persisted")
	}
}

func TestService_ListNewestFirst(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewService(testRecords(t), store, nil)
	ctx := context.Background()

	stamps := []time.Time{
		day(t, "2020-03-01"),
		day(t, "2020-03-03"),
		day(t, "2020-03-02"),
	}
	regions := []string{"Kerala", "Delhi", "Kerala"}
	for i := range stamps {
		stamp := stamps[i]
		svc.now = func() time.Time { return stamp }
		if _, err := svc.Create(ctx, analytics.Filter{
			Region:  regions[i],
			Metrics: []string{analytics.MetricConfirmed},
		}, fmt.Sprintf("report %d", i), ""); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListAll = %d reports, want 3", len(all))
	}
	if all[0].Title != "report 1" || all[2].Title != "report 0" {
		t.Errorf("order = [%s %s %s], want newest first", all[0].Title, all[1].Title, all[2].Title)
	}

	kerala, err := svc.ListByRegion(ctx, "Kerala")
	if err != nil {
		t.Fatalf("ListByRegion: %v", err)
	}
	if len(kerala) != 2 || kerala[0].Title != "report 2" {
		t.Errorf("ListByRegion = %+v, want the two Kerala reports newest first", kerala)
	}
}

func TestService_GetByIDAbsent(t *testing.T) {
	svc := NewService(testRecords(t), &fakeReportStore{}, nil)

	_, ok, err := svc.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if ok {
		t.Error("ok = true for an unknown identifier")
	}
}

func TestService_DecodeCorruptPayload(t *testing.T) {
	svc := NewService(testRecords(t), &fakeReportStore{}, nil)
	report := Report{ID: "r1", AnalysisPayload: []byte("{broken"), ChartPayload: []byte("{broken")}

	var ierr *covid.IntegrityError
	if _, err := svc.DecodeAnalysis(report); !errors.As(err, &ierr) {
		t.Fatalf("DecodeAnalysis: got %v, want IntegrityError", err)
	}
	if ierr.Kind != covid.IntegrityReport || ierr.Key != "r1" {
		t.Errorf("IntegrityError = %+v", ierr)
	}
	if _, err := svc.DecodeChart(report); !errors.As(err, &ierr) {
		t.Errorf("DecodeChart: got %v, want IntegrityError", err)
	}
}
