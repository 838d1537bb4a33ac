package analysis

import "errors"

// Sentinel errors. Callers match them with errors.Is.
var (
	// ErrInvalidMetric: the metric is neither a known skill nor a category.
	ErrInvalidMetric = errors.New("invalid metric")
	// ErrInvalidGroupField: a group-by field is unknown or unset on a record.
	ErrInvalidGroupField = errors.New("invalid group field")
	// ErrEmptyInput marks an empty input set. Operations return an empty
	// result for it; it is exported for callers that want to report it.
	ErrEmptyInput = errors.New("empty input")
	// ErrMissingScore: a record has no score for the requested metric.
	ErrMissingScore = errors.New("record has no score for metric")
	// ErrInvalidBenchmark: the benchmark key is empty or names a field the
	// aggregates are not grouped by.
	ErrInvalidBenchmark = errors.New("invalid benchmark key")
	// ErrInvalidQuantiles: tier quantiles must satisfy 0 <= medium <= high <= 1.
	ErrInvalidQuantiles = errors.New("invalid tier quantiles")
	// ErrInvalidPreset: unknown scoring preset.
	ErrInvalidPreset = errors.New("invalid scoring preset")
)
