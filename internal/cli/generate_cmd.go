package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/source"
	service "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/catalog"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/synth"
)

// Generated file names.
const (
	SkillsFile     = "employee_skills.csv"
	ProductionFile = "daily_production.csv"
)

func newGenerateCmd(app *App) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic skills and production dataset as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Config.Validate(); err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			svc := service.New(service.OptionsFromConfig(app.Config)...)
			h := catalog.Default()
			gen, err := synth.New(svc.GeneratorConfig(), h)
			if err != nil {
				return err
			}
			res, err := gen.Generate(cmd.Context())
			if err != nil {
				return err
			}

			skills := filepath.Join(dir, SkillsFile)
			production := filepath.Join(dir, ProductionFile)
			if err := source.WriteFiles(res.Dataset, skills, production, h.Skills(), h.CategoryNames()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "batch %s: %d employees -> %s, %d daily records -> %s\n",
				res.BatchID, len(res.Dataset.Skills), skills, len(res.Dataset.Production), production)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "data", "output directory")
	return cmd
}
