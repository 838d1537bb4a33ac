// Package cli implements the sdpctl command line.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	service "github.com/ykato27/SDP-Analysis-Dashboard/internal/app"
	"github.com/ykato27/SDP-Analysis-Dashboard/internal/config"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/logger"
)

// App holds the configuration shared by every command.
type App struct {
	Config *config.Config
	// Color enables coloured tiers; set it when stdout is a terminal.
	Color bool

	logLevel string
}

// NewRootCmd creates the top-level "sdpctl" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Config == nil {
		app.Config = config.New()
	}
	cfg := app.Config

	root := &cobra.Command{
		Use:           "sdpctl",
		Short:         "Skill gap and priority analysis for plant workforces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr())); err != nil {
				return err
			}
			return logger.SetLevelString(app.logLevel)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.SkillsCSV, "skills", cfg.SkillsCSV, "employee skills CSV; generated data is used when empty")
	flags.StringVar(&cfg.ProductionCSV, "production", cfg.ProductionCSV, "daily production CSV")
	flags.StringVar(&cfg.BenchmarkLocation, "benchmark-location", cfg.BenchmarkLocation, "benchmark site")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "generator seed")
	flags.IntVar(&cfg.EmployeeCount, "employees", cfg.EmployeeCount, "generated employees")
	flags.IntVar(&cfg.ProductionDays, "days", cfg.ProductionDays, "generated production days")
	flags.StringVar(&app.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		newGenerateCmd(app),
		newPrioritiesCmd(app),
		newBottlenecksCmd(app),
		newSummaryCmd(app),
		newExportCmd(app),
	)

	return root
}

// start validates the configuration and loads the dataset.
func (a *App) start(ctx context.Context) (*service.Service, error) {
	if err := a.Config.Validate(); err != nil {
		return nil, err
	}
	svc := service.New(append(service.OptionsFromConfig(a.Config), service.WithLogger(logger.Get()))...)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// Execute runs the root command against os.Args.
func Execute(ctx context.Context, app *App, out io.Writer) error {
	root := NewRootCmd(app)
	root.SetOut(out)
	root.SetErr(os.Stderr)
	return root.ExecuteContext(ctx)
}
