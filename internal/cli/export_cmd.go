package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/export"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		flags  queryFlags
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the priority table as XLSX or CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			q, err := flags.query()
			if err != nil {
				return err
			}
			if output == "" {
				output = f.FileName("priorities", time.Now())
			}

			svc, err := app.start(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			file, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := svc.ExportPriorities(cmd.Context(), file, f, q); err != nil {
				_ = file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	flags.register(cmd, app)
	cmd.Flags().StringVar(&format, "format", "xlsx", "xlsx or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; priorities_<timestamp>.<ext> when empty")
	return cmd
}
