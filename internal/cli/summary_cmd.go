package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	service "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
)

func newSummaryCmd(app *App) *cobra.Command {
	var benchmark string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show loss, training cost and ROI of every site against the benchmark",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			sum, err := svc.ExecutiveSummary(cmd.Context(), service.SummaryQuery{Benchmark: benchmark})
			if err != nil {
				return err
			}

			headers := []string{"Location", "Employees", "Skill Gap", "Efficiency Gap", "Defect Gap", "Annual Loss", "Training Cost", "ROI", "Payback (months)", "Priority"}
			rows := make([][]string, 0, len(sum.Sites))
			for _, s := range sum.Sites {
				rows = append(rows, []string{
					s.Location,
					strconv.Itoa(s.Employees),
					f2(s.SkillGap),
					f2(s.EfficiencyGap),
					f2(s.DefectGap),
					f2(s.AnnualLoss),
					f2(s.TrainingCost),
					f2(s.ROI),
					strconv.FormatFloat(s.PaybackMonths, 'f', 1, 64),
					tierLabel(s.Tier, app.Color),
				})
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Benchmark: %s\n\n", sum.Benchmark)
			fmt.Fprint(w, RenderTable(headers, rows))
			fmt.Fprintf(w, "\nAnnual loss %s, training cost %s, average ROI %s, payback %s months\n",
				f2(sum.TotalAnnualLoss), f2(sum.TotalTrainingCost), f2(sum.AverageROI),
				strconv.FormatFloat(sum.PaybackMonths, 'f', 1, 64))
			return nil
		},
	}
	cmd.Flags().StringVar(&benchmark, "benchmark", "", "benchmark site; the configured one when empty")
	return cmd
}
