package cli

import (
	"github.com/spf13/cobra"

	"hygiene-analyzer/services"
	"hygiene-analyzer/storage"
)

// NewReportCmd fetches, analyses and prints the report.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch the dataset and print the hygiene report",
		Example: `  hygiene-analyzer report
  hygiene-analyzer report --input FHRS529en-GB.json --seed 42 --export csv,md`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}
	cmd.Flags().String("export", "", "Also export the report: comma list of csv, xlsx, md, json, yaml or all")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	exportList, _ := cmd.Flags().GetString("export")
	formats, err := storage.ParseFormats(exportList)
	if err != nil {
		return err
	}

	run, runErr := rt.analyse(cmd)
	if run == nil {
		return runErr
	}
	services.NewPrinter(cmd.OutOrStdout()).Print(run.Report)

	if len(formats) > 0 {
		paths, err := storage.ExportAll(cmd.Context(), rt.cfg.OutputDir, run, formats)
		if err != nil {
			return err
		}
		for _, p := range paths {
			rt.logger.Info("[cli] Exported %s", p)
		}
	}
	return runErr
}
