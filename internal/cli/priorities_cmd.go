package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	service "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
)

func newPrioritiesCmd(app *App) *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "priorities",
		Short: "Rank groups by their gap to the benchmark",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRanking(cmd, app, &flags, func(ctx context.Context, svc *service.Service, q service.Query) (service.PriorityReport, error) {
				return svc.Priorities(ctx, q)
			})
		},
	}
	flags.register(cmd, app)
	return cmd
}

func newBottlenecksCmd(app *App) *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "bottlenecks",
		Short: "Rank process cells by low skill, dispersion and defects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRanking(cmd, app, &flags, func(ctx context.Context, svc *service.Service, q service.Query) (service.PriorityReport, error) {
				return svc.Bottlenecks(ctx, q)
			})
		},
	}
	flags.register(cmd, app)
	return cmd
}

type rankFunc func(ctx context.Context, svc *service.Service, q service.Query) (service.PriorityReport, error)

func runRanking(cmd *cobra.Command, app *App, flags *queryFlags, rank rankFunc) error {
	q, err := flags.query()
	if err != nil {
		return err
	}
	svc, err := app.start(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Stop()

	report, err := rank(cmd.Context(), svc, q)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report, app.Color)
	return nil
}

func f2(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}

func printReport(w io.Writer, report service.PriorityReport, colored bool) {
	headers := []string{"Rank", "Group", "Metric", "Mean", "Std", "Benchmark", "Weighted Gap", "Score", "Tier"}
	rows := make([][]string, 0, len(report.Rows))
	for _, r := range report.Rows {
		bench := ""
		if !r.BenchmarkKey.IsZero() {
			bench = f2(r.BenchmarkMean)
			if r.BenchmarkFallback {
				bench += "*"
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Rank),
			r.Key.String(),
			r.Metric,
			f2(r.Mean),
			f2(r.Std),
			bench,
			f2(r.WeightedGap),
			f2(r.Score),
			tierLabel(r.Tier, colored),
		})
	}
	fmt.Fprint(w, RenderTable(headers, rows))
	fmt.Fprintf(w, "\n%d rows (%s): %d high, %d medium, %d low\n",
		report.Total, report.Preset,
		report.Tiers[analysis.TierHigh], report.Tiers[analysis.TierMedium], report.Tiers[analysis.TierLow])
}
