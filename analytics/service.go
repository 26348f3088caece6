package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/epivista/case-analytics/covid"
)

// memoKeySeparator delimits the segments of a memoization key.
const memoKeySeparator = "::"

// Config holds the in-process memoization settings for the analysis service.
type Config struct {
	// Capacity is the maximum number of memoized computations per artifact
	// kind. Must be greater than 0.
	Capacity int

	// NumShards determines how many shards back the memo cache. Higher values
	// improve concurrency at some memory cost. Must be greater than 0.
	NumShards int

	// TTL is how long a memoized computation stays fresh. Must be greater
	// than 0.
	TTL time.Duration

	// EvictionPercentage is what share of entries to evict when the memo
	// cache fills up. Must be between 1 and 100.
	EvictionPercentage int
}

// DefaultConfig returns memoization settings suitable for most deployments.
func DefaultConfig() Config {
	return Config{
		Capacity:           1000,
		NumShards:          64,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// Service is the read entry point for the built-in analyses. It resolves
// strategies through an immutable registry and reads computations through a
// sturdyc memo layer, so identical requests within the TTL are computed once.
// The memo layer is process-local convenience only; durable caching is the
// resultcache package's job.
type Service struct {
	registry *Registry
	records  covid.RecordStore
	results  *sturdyc.Client[covid.AnalysisResult]
	charts   *sturdyc.Client[covid.ChartSeries]
}

// NewService wires a registry and record store into an analysis service.
func NewService(registry *Registry, records covid.RecordStore, cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		registry: registry,
		records:  records,
		results:  sturdyc.New[covid.AnalysisResult](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
		charts:   sturdyc.New[covid.ChartSeries](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
	}, nil
}

// Analyze runs the named strategy with the given parameters, memoized per
// (name, params). Unknown names wrap covid.ErrUnknownAnalysis; parameter
// errors surface from the strategy before any computation and are not
// memoized.
func (s *Service) Analyze(ctx context.Context, name string, params Params) (covid.AnalysisResult, error) {
	strat, err := s.registry.Lookup(name)
	if err != nil {
		return covid.AnalysisResult{}, err
	}
	return s.results.GetOrFetch(ctx, memoKey("analyze", name, params), func(ctx context.Context) (covid.AnalysisResult, error) {
		return strat.Analyze(ctx, s.records, params)
	})
}

// Chart builds the named strategy's chart, memoized per (name, params).
func (s *Service) Chart(ctx context.Context, name string, params Params) (covid.ChartSeries, error) {
	strat, err := s.registry.Lookup(name)
	if err != nil {
		return covid.ChartSeries{}, err
	}
	return s.charts.GetOrFetch(ctx, memoKey("chart", name, params), func(ctx context.Context) (covid.ChartSeries, error) {
		return strat.BuildChart(ctx, s.records, params)
	})
}

// Regions lists the distinct regions present in the record store.
func (s *Service) Regions(ctx context.Context) ([]string, error) {
	return s.records.DistinctRegions(ctx)
}

// Analyses lists the available strategy names.
func (s *Service) Analyses() []string {
	return s.registry.Names()
}

func memoKey(op, name string, params Params) string {
	return strings.Join([]string{op, name, params.Region}, memoKeySeparator)
}
