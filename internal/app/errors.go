package service

import (
	"errors"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/export"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/repository"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/kpi"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/scoring"
)

// Sentinel errors of the service layer.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrInvalidQuery = errors.New("invalid query")
)

// Error kinds reported to callers and recorded in metrics.
const (
	KindInvalidArgument = "invalid_argument"
	KindNotFound        = "not_found"
	KindNotLoaded       = "not_loaded"
	KindInternal        = "internal"
)

var invalidArgument = []error{
	ErrInvalidQuery,
	analysis.ErrInvalidMetric,
	analysis.ErrInvalidGroupField,
	analysis.ErrMissingScore,
	analysis.ErrInvalidBenchmark,
	analysis.ErrInvalidQuantiles,
	analysis.ErrInvalidPreset,
	scoring.ErrUnknownPreset,
	catalog.ErrUnknownMetric,
	model.ErrUnknownField,
	model.ErrMalformedKey,
	model.ErrScoreOutOfRange,
	kpi.ErrUnknownKPI,
	kpi.ErrUnknownVariable,
	export.ErrUnknownFormat,
}

// ErrorKind classifies err by the sentinel it wraps.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotStarted), errors.Is(err, repository.ErrNotLoaded):
		return KindNotLoaded
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, kpi.ErrUnknownLocation):
		return KindNotFound
	}
	for _, target := range invalidArgument {
		if errors.Is(err, target) {
			return KindInvalidArgument
		}
	}
	return KindInternal
}
