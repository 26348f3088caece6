package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/epivista/case-analytics/covid"
)

// Params carries per-invocation strategy parameters. Strategies hold no
// request state of their own: a single strategy value is safe to share across
// any number of concurrent callers.
type Params struct {
	// Region scopes region-parameterized strategies. Ignored by strategies
	// that operate on the whole record set.
	Region string
}

// Strategy computes a summary analysis and a companion chart over data
// supplied by a record store. Implementations are pure with respect to the
// store: they read, reduce, and return, with no side effects.
type Strategy interface {
	// Name is the stable registry key for this strategy.
	Name() string
	Analyze(ctx context.Context, src covid.RecordStore, params Params) (covid.AnalysisResult, error)
	BuildChart(ctx context.Context, src covid.RecordStore, params Params) (covid.ChartSeries, error)
}

// Registry is an immutable name-to-strategy mapping, constructed once at
// process start and passed to whatever needs strategy lookup. There is no
// registration after construction.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds a registry from the given strategies, keyed by Name.
// A duplicate name panics: registries are assembled from literals at startup
// and a collision is a programming error.
func NewRegistry(strategies ...Strategy) *Registry {
	m := make(map[string]Strategy, len(strategies))
	for _, s := range strategies {
		if _, dup := m[s.Name()]; dup {
			panic(fmt.Sprintf("analytics: duplicate strategy %q", s.Name()))
		}
		m[s.Name()] = s
	}
	return &Registry{strategies: m}
}

// DefaultRegistry returns a registry holding the four built-in strategies.
func DefaultRegistry() *Registry {
	return NewRegistry(Statewise{}, TimeSeries{}, GrowthRate{}, Regional{})
}

// Lookup resolves a strategy by name. Unknown names wrap
// covid.ErrUnknownAnalysis so callers can branch with errors.Is.
func (r *Registry) Lookup(name string) (Strategy, error) {
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", covid.ErrUnknownAnalysis, name)
	}
	return s, nil
}

// Names lists the registered strategy names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ruleOf70Days estimates exponential doubling time in days from a percentage
// growth rate. Only meaningful for strictly positive rates; callers guard.
func ruleOf70Days(growthRatePercent float64) float64 {
	return 70 / growthRatePercent
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
