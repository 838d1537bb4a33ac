package cli

import (
	"github.com/spf13/cobra"

	service "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/model"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/scoring"
)

// queryFlags are the ranking options shared by priorities, bottlenecks and export.
type queryFlags struct {
	groupBy   []string
	metrics   []string
	benchmark string
	preset    string
	locations []string
	processes []string
	limit     int
}

func (f *queryFlags) register(cmd *cobra.Command, app *App) {
	fs := cmd.Flags()
	fs.StringSliceVar(&f.groupBy, "group-by", nil, "grouping fields: location, team, shift, process")
	fs.StringSliceVar(&f.metrics, "metric", nil, "skills or categories; every category when empty")
	fs.StringVar(&f.benchmark, "benchmark", "", "benchmark group as field:value pairs, e.g. location:JP")
	fs.StringVar(&f.preset, "preset", "", "scoring preset: weighted_gap, bottleneck or gap_risk")
	fs.StringSliceVar(&f.locations, "location", nil, "only these locations")
	fs.StringSliceVar(&f.processes, "process", nil, "only these processes")
	fs.IntVar(&f.limit, "limit", 0, "show at most this many rows")
	fs.Float64Var(&app.Config.TierQuantileMedium, "q-medium", app.Config.TierQuantileMedium, "medium tier quantile")
	fs.Float64Var(&app.Config.TierQuantileHigh, "q-high", app.Config.TierQuantileHigh, "high tier quantile")
}

func (f *queryFlags) query() (service.Query, error) {
	var (
		q   service.Query
		err error
	)
	if q.GroupBy, err = model.ParseFields(f.groupBy); err != nil {
		return q, err
	}
	if f.benchmark != "" {
		if q.Benchmark, err = model.ParseGroupKey(f.benchmark); err != nil {
			return q, err
		}
	}
	if f.preset != "" {
		if q.Preset, err = scoring.ParsePreset(f.preset); err != nil {
			return q, err
		}
	}
	q.Metrics = f.metrics
	q.Limit = f.limit
	q.Filter = model.Filter{Locations: f.locations, Processes: f.processes}
	return q, nil
}
