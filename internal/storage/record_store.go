package storage

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/epivista/case-analytics/covid"
)

// recordRow is the storage shape of a covid.Record.
type recordRow struct {
	bun.BaseModel `bun:"table:covid_records"`

	ID                int64     `bun:"id,pk,autoincrement"`
	SNo               string    `bun:"sno"`
	Region            string    `bun:"region,notnull"`
	Date              time.Time `bun:"date,notnull"`
	ReportTime        string    `bun:"report_time"`
	ConfirmedDomestic string    `bun:"confirmed_domestic"`
	ConfirmedForeign  string    `bun:"confirmed_foreign"`
	Confirmed         int64     `bun:"confirmed,notnull"`
	Cured             int64     `bun:"cured,notnull"`
	Deaths            int64     `bun:"deaths,notnull"`
}

func (r recordRow) domain() covid.Record {
	return covid.Record{
		SNo:               r.SNo,
		Region:            r.Region,
		Date:              r.Date,
		ReportTime:        r.ReportTime,
		ConfirmedDomestic: r.ConfirmedDomestic,
		ConfirmedForeign:  r.ConfirmedForeign,
		Confirmed:         r.Confirmed,
		Cured:             r.Cured,
		Deaths:            r.Deaths,
	}
}

func rowFromRecord(rec covid.Record) recordRow {
	return recordRow{
		SNo:               rec.SNo,
		Region:            rec.Region,
		Date:              rec.Date,
		ReportTime:        rec.ReportTime,
		ConfirmedDomestic: rec.ConfirmedDomestic,
		ConfirmedForeign:  rec.ConfirmedForeign,
		Confirmed:         rec.Confirmed,
		Cured:             rec.Cured,
		Deaths:            rec.Deaths,
	}
}

// RecordStore implements covid.RecordStore on bun. Grouping, summation, and
// ordering are pushed into SQL; the contracts mirror the in-memory store.
type RecordStore struct {
	db *bun.DB
}

var _ covid.RecordStore = (*RecordStore)(nil)

// NewRecordStore returns a record store over the given database.
func NewRecordStore(db *bun.DB) *RecordStore {
	return &RecordStore{db: db}
}

// InsertMany bulk-loads records, for seeding from the ingestion layer.
func (s *RecordStore) InsertMany(ctx context.Context, records []covid.Record) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]recordRow, len(records))
	for i, rec := range records {
		rows[i] = rowFromRecord(rec)
	}
	_, err := s.db.NewInsert().Model(&rows).Exec(ctx)
	return err
}

// FindAll implements covid.RecordStore.
func (s *RecordStore) FindAll(ctx context.Context) ([]covid.Record, error) {
	return s.selectRecords(ctx, s.db.NewSelect().Model((*recordRow)(nil)))
}

// FindByRegion implements covid.RecordStore.
func (s *RecordStore) FindByRegion(ctx context.Context, region string) ([]covid.Record, error) {
	return s.selectRecords(ctx, s.db.NewSelect().Model((*recordRow)(nil)).
		Where("region = ?", region))
}

// FindByDateRange implements covid.RecordStore. Both bounds are inclusive.
func (s *RecordStore) FindByDateRange(ctx context.Context, start, end time.Time) ([]covid.Record, error) {
	return s.selectRecords(ctx, s.db.NewSelect().Model((*recordRow)(nil)).
		Where("date >= ?", start).
		Where("date <= ?", end))
}

// FindByRegionAndDateRange implements covid.RecordStore.
func (s *RecordStore) FindByRegionAndDateRange(ctx context.Context, region string, start, end time.Time) ([]covid.Record, error) {
	return s.selectRecords(ctx, s.db.NewSelect().Model((*recordRow)(nil)).
		Where("region = ?", region).
		Where("date >= ?", start).
		Where("date <= ?", end))
}

// FindByRegionChronological implements covid.RecordStore.
func (s *RecordStore) FindByRegionChronological(ctx context.Context, region string) ([]covid.Record, error) {
	return s.selectRecords(ctx, s.db.NewSelect().Model((*recordRow)(nil)).
		Where("region = ?", region).
		Order("date ASC"))
}

// DistinctRegions implements covid.RecordStore.
func (s *RecordStore) DistinctRegions(ctx context.Context) ([]string, error) {
	var regions []string
	err := s.db.NewSelect().Model((*recordRow)(nil)).
		ColumnExpr("DISTINCT region").
		OrderExpr("region ASC").
		Scan(ctx, &regions)
	if err != nil {
		return nil, err
	}
	return regions, nil
}

// AggregatedByRegion implements covid.RecordStore.
func (s *RecordStore) AggregatedByRegion(ctx context.Context) ([]covid.AggregatedRow, error) {
	var rows []covid.AggregatedRow
	err := s.db.NewSelect().Model((*recordRow)(nil)).
		ColumnExpr("region").
		ColumnExpr("SUM(confirmed) AS confirmed").
		ColumnExpr("SUM(deaths) AS deaths").
		ColumnExpr("SUM(cured) AS cured").
		GroupExpr("region").
		OrderExpr("SUM(confirmed) DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AggregatedByDate implements covid.RecordStore.
func (s *RecordStore) AggregatedByDate(ctx context.Context) ([]covid.AggregatedRow, error) {
	var rows []covid.AggregatedRow
	err := s.db.NewSelect().Model((*recordRow)(nil)).
		ColumnExpr("date").
		ColumnExpr("SUM(confirmed) AS confirmed").
		ColumnExpr("SUM(deaths) AS deaths").
		ColumnExpr("SUM(cured) AS cured").
		GroupExpr("date").
		OrderExpr("date ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *RecordStore) selectRecords(ctx context.Context, q *bun.SelectQuery) ([]covid.Record, error) {
	var rows []recordRow
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, err
	}
	records := make([]covid.Record, len(rows))
	for i, row := range rows {
		records[i] = row.domain()
	}
	return records, nil
}
