package covid

import (
	"errors"
	"fmt"
)

// ErrUnknownAnalysis is returned when a strategy lookup names an analysis the
// registry was not built with.
var ErrUnknownAnalysis = errors.New("unknown analysis")

// ValidationError reports a missing or malformed caller-supplied parameter.
// It is surfaced before any computation runs and is never worth retrying
// unchanged.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

// IntegrityKind names the artifact class an IntegrityError refers to.
type IntegrityKind string

const (
	IntegrityCache  IntegrityKind = "cache"
	IntegrityReport IntegrityKind = "report"
	IntegrityChart  IntegrityKind = "chart"
)

// IntegrityError reports an artifact this system wrote itself and can no
// longer decode, or a chart whose datasets do not line up with its labels.
// It indicates a prior bug rather than a transient condition.
type IntegrityError struct {
	Kind         IntegrityKind
	AnalysisType string
	Key          string
	Err          error
}

func (e *IntegrityError) Error() string {
	if e.AnalysisType != "" {
		return fmt.Sprintf("%s integrity failure for (%s, %s): %v", e.Kind, e.AnalysisType, e.Key, e.Err)
	}
	return fmt.Sprintf("%s integrity failure for %q: %v", e.Kind, e.Key, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

func errDatasetLength(name string, got, want int) error {
	return fmt.Errorf("dataset %q has %d points, labels have %d", name, got, want)
}
