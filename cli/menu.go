package cli

import (
	"github.com/spf13/cobra"

	"hygiene-analyzer/services"
	"hygiene-analyzer/storage"
)

// NewMenuCmd starts the interactive menu over a fresh report.
func NewMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Browse the report through an interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			run, runErr := rt.analyse(cmd)
			if run == nil {
				return runErr
			}
			if runErr != nil {
				rt.logger.Error("[cli] %v", runErr)
			}

			exporter := storage.NewCSVWriter(rt.cfg.CSVOutputPath())
			return services.NewMenu(run.Report, exporter, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
		},
	}
}
