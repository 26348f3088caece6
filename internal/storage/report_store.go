package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/epivista/case-analytics/reports"
)

// ReportStore implements reports.Store on bun.
type ReportStore struct {
	db *bun.DB
}

var _ reports.Store = (*ReportStore)(nil)

// NewReportStore returns a report store over the given database.
func NewReportStore(db *bun.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Insert implements reports.Store.
func (s *ReportStore) Insert(ctx context.Context, report *reports.Report) error {
	_, err := s.db.NewInsert().Model(report).Exec(ctx)
	return err
}

// FindByID implements reports.Store.
func (s *ReportStore) FindByID(ctx context.Context, id string) (reports.Report, bool, error) {
	var report reports.Report
	err := s.db.NewSelect().
		Model(&report).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return reports.Report{}, false, nil
	}
	if err != nil {
		return reports.Report{}, false, err
	}
	return report, true, nil
}

// ListByCreatedDesc implements reports.Store.
func (s *ReportStore) ListByCreatedDesc(ctx context.Context) ([]reports.Report, error) {
	var out []reports.Report
	err := s.db.NewSelect().
		Model(&out).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByRegionCreatedDesc implements reports.Store.
func (s *ReportStore) ListByRegionCreatedDesc(ctx context.Context, region string) ([]reports.Report, error) {
	var out []reports.Report
	err := s.db.NewSelect().
		Model(&out).
		Where("region = ?", region).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}
