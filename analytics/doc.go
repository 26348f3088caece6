// Package analytics turns raw case records into summary statistics.
//
// # Overview
//
// The package has three layers:
//
//   - Aggregation: AggregateByRegion and AggregateByDate reduce raw records
//     into ordered per-group totals. Pure functions, no side effects.
//   - Strategies: Statewise, TimeSeries, GrowthRate, and Regional implement
//     the Strategy interface; Custom is the parameterized variant behind
//     user-submitted reports. Every strategy takes its parameters explicitly
//     per call and holds no state, so values are freely shareable across
//     goroutines.
//   - Service: resolves strategies through an immutable Registry and memoizes
//     computations with sturdyc so repeated identical requests are computed
//     once per TTL window.
//
// # Numeric policies
//
// Arithmetic edge cases never raise. Rates with a zero denominator are
// omitted from results (never NaN or Inf), empty series average to zero, and
// the Rule-of-70 doubling time is only emitted for strictly positive average
// growth. The Regional strategy intentionally records a zero-denominator day
// as a 0% growth day instead of skipping it; see its Analyze doc.
package analytics
