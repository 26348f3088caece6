// Package di wires the module's components together: record source, strategy
// registry, analysis service, result cache, and report service. Construction
// happens once at process start; the container hands out singleton instances.
package di

import (
	"log/slog"

	"github.com/epivista/case-analytics/analytics"
	"github.com/epivista/case-analytics/covid"
	"github.com/epivista/case-analytics/internal/memstore"
	"github.com/epivista/case-analytics/reports"
	"github.com/epivista/case-analytics/resultcache"
)

// Container provides dependency injection for the analytics core. It manages
// singleton instances of the services and the immutable strategy registry.
type Container struct {
	records     covid.RecordStore
	registry    *analytics.Registry
	analysis    *analytics.Service
	resultCache *resultcache.Service
	reports     *reports.Service
	config      analytics.Config
}

// Stores bundles the persistence ports the container builds its services on.
// Callers pick the backing: internal/storage for bun-backed durability,
// internal/memstore for in-memory.
type Stores struct {
	Records covid.RecordStore
	Cache   resultcache.Store
	Reports reports.Store
}

// NewContainer builds a container over the given stores. The registry holds
// the four built-in strategies; the analysis service memoizes per cfg.
func NewContainer(stores Stores, cfg analytics.Config, logger *slog.Logger) (*Container, error) {
	registry := analytics.DefaultRegistry()

	analysis, err := analytics.NewService(registry, stores.Records, cfg)
	if err != nil {
		return nil, err
	}

	return &Container{
		records:     stores.Records,
		registry:    registry,
		analysis:    analysis,
		resultCache: resultcache.NewService(stores.Cache),
		reports:     reports.NewService(stores.Records, stores.Reports, logger),
		config:      cfg,
	}, nil
}

// NewContainerWithDefaults builds a container on in-memory stores with
// default memoization settings. Convenient for tests and local runs.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(Stores{
		Records: memstore.NewRecordStore(),
		Cache:   memstore.NewCacheStore(),
		Reports: memstore.NewReportStore(),
	}, analytics.DefaultConfig(), nil)
}

// Records returns the record store the container was built on.
func (c *Container) Records() covid.RecordStore {
	return c.records
}

// Registry returns the immutable strategy registry.
func (c *Container) Registry() *analytics.Registry {
	return c.registry
}

// Analysis returns the singleton analysis service.
func (c *Container) Analysis() *analytics.Service {
	return c.analysis
}

// ResultCache returns the singleton result cache service.
func (c *Container) ResultCache() *resultcache.Service {
	return c.resultCache
}

// Reports returns the singleton custom report service.
func (c *Container) Reports() *reports.Service {
	return c.reports
}

// Config returns a copy of the memoization configuration in use.
func (c *Container) Config() analytics.Config {
	return c.config
}
