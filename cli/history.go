package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"hygiene-analyzer/config"
)

// NewHistoryCmd lists runs saved in the run store.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored runs, or one run's authority insights",
		Example: `  hygiene-analyzer history --limit 5
  hygiene-analyzer history --run 0b6f4c1e-1d1a-4e4b-9a55-3f1c2d7e8a90`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
	cmd.Flags().Int("limit", 10, "Number of runs to list, newest first")
	cmd.Flags().String("run", "", "Show the authority insights stored for this run ID")
	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("%w: --limit must be positive", config.ErrInvalid)
	}

	store, err := rt.openStore(cmd.Context())
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("%w: history needs STORE_DRIVER=postgres or sqlite", config.ErrInvalid)
	}
	defer store.Close()

	md := markdown.NewMarkdown(cmd.OutOrStdout())

	if runID, _ := cmd.Flags().GetString("run"); runID != "" {
		insights, err := store.LoadInsights(cmd.Context(), runID)
		if err != nil {
			return err
		}
		if len(insights) == 0 {
			return fmt.Errorf("no stored run %q", runID)
		}
		rows := make([][]string, 0, len(insights))
		for _, in := range insights {
			rows = append(rows, []string{
				in.Authority,
				in.AverageRating.String(),
				strconv.Itoa(in.TotalBusinesses),
				strconv.FormatFloat(in.FiveStarPercentage, 'f', -1, 64) + "%",
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Authority", "Avg Rating", "Total Businesses", "5-Star %"},
			Rows:   rows,
		})
		return md.Build()
	}

	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored runs.")
		return nil
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		improved := "-"
		if r.MostImproved != "" {
			improved = fmt.Sprintf("%s (%+d)", r.MostImproved, r.MostImprovedIncrease)
		}
		rows = append(rows, []string{
			r.ID,
			r.GeneratedAt.Local().Format("2006-01-02 15:04:05"),
			strings.Join(r.Sources, ", "),
			strconv.Itoa(r.TotalBusinesses),
			r.AverageRating.String(),
			improved,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Run", "Generated", "Sources", "Businesses", "Avg Rating", "Most Improved"},
		Rows:   rows,
	})
	return md.Build()
}
