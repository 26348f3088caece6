package covid

import (
	"context"
	"time"
)

// RecordStore is the read side of the raw record collection. Implementations
// own their isolation; every method is safe for concurrent callers.
//
// Ordering contracts matter to the strategies built on top:
//
//   - AggregatedByRegion returns rows descending by total confirmed, ties kept
//     in first-appearance order.
//   - AggregatedByDate returns rows ascending by date.
//   - FindByRegionChronological returns records ascending by date.
//
// Date ranges are inclusive on both ends.
type RecordStore interface {
	FindAll(ctx context.Context) ([]Record, error)
	FindByRegion(ctx context.Context, region string) ([]Record, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]Record, error)
	FindByRegionAndDateRange(ctx context.Context, region string, start, end time.Time) ([]Record, error)
	FindByRegionChronological(ctx context.Context, region string) ([]Record, error)
	DistinctRegions(ctx context.Context) ([]string, error)
	AggregatedByRegion(ctx context.Context) ([]AggregatedRow, error)
	AggregatedByDate(ctx context.Context) ([]AggregatedRow, error)
}
