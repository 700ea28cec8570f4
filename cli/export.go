package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hygiene-analyzer/storage"
)

// NewExportCmd writes the report to files without printing it.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write the report to CSV, XLSX, Markdown, JSON or YAML files",
		Example: `  hygiene-analyzer export --format xlsx,md --out ./reports`,
		Args:    cobra.NoArgs,
		RunE:    runExport,
	}
	cmd.Flags().String("format", "all", "Comma list of csv, xlsx, md, json, yaml or all")
	cmd.Flags().String("out", "", "Output directory (default OUTPUT_DIR)")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}

	formatList, _ := cmd.Flags().GetString("format")
	formats, err := storage.ParseFormats(formatList)
	if err != nil {
		return err
	}
	if len(formats) == 0 {
		return fmt.Errorf("%w: no formats selected", storage.ErrUnknownFormat)
	}
	dir, _ := cmd.Flags().GetString("out")
	if dir == "" {
		dir = rt.cfg.OutputDir
	}

	run, runErr := rt.analyse(cmd)
	if run == nil {
		return runErr
	}
	paths, err := storage.ExportAll(cmd.Context(), dir, run, formats)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return runErr
}
