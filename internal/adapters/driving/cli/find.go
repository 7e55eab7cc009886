package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/input"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/view"
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
	"github.com/custodia-labs/combimatch-cli/internal/logger"
)

var (
	findInput    inputFlags
	findSearch   searchFlags
	findFinalize []int
	findExport   string
	findJSON     bool
	findWatch    bool
)

var findCmd = &cobra.Command{
	Use:   "find [numbers...]",
	Short: "Find combinations that sum to a target",
	Long: `Loads numbers and searches for subsets whose sum is within --tolerance
of --target. Exact matches are listed before approximate ones; within each
list smaller subsets come first.

--finalize N commits result N of the current list as a group. Repeat it to
finalize several in order; numbering is recomputed after each commit, since
results sharing a number with the committed group are dropped.

Examples:
  combimatch find --target 50 10 20 30 40
  combimatch find --target 1250.00 --tolerance 0.05 --file invoices.csv --mode csv --column C
  pbpaste | combimatch find --target 99.95 --finalize 1 --export session.db`,
	RunE: runFind,
}

func init() {
	findInput.register(findCmd)
	findSearch.register(findCmd, "target sum (required)")
	findCmd.Flags().IntSliceVar(&findFinalize, "finalize", nil, "finalize result N of the current list (repeatable)")
	findCmd.Flags().StringVar(&findExport, "export", "", "write the session report to this SQLite file")
	findCmd.Flags().BoolVar(&findJSON, "json", false, "output results as JSON")
	findCmd.Flags().BoolVarP(&findWatch, "watch", "w", false, "re-run whenever --file changes")
	_ = findCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}
	if findWatch && findInput.file == "" {
		return errors.New("--watch requires --file")
	}

	settings, err := currentSettings()
	if err != nil {
		return err
	}
	params, err := findSearch.params(cmd, settings)
	if err != nil {
		return err
	}
	opts, precision, err := findInput.options(settings)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := findOnce(ctx, cmd, args, params, opts, precision); err != nil {
		return err
	}
	if !findWatch {
		return nil
	}
	return watchAndFind(ctx, cmd, args, params, opts, precision)
}

func findOnce(
	ctx context.Context,
	cmd *cobra.Command,
	args []string,
	params domain.SearchParams,
	opts input.Options,
	precision int,
) error {
	values, err := readValues(cmd, args, opts, findInput.file)
	if err != nil {
		return err
	}

	entries, err := sessionService.LoadNumbers(ctx, values, domain.LoadOptions{NewSession: true, Precision: precision})
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	logger.Debug("Loaded %d numbers", len(entries))

	results, err := sessionService.FindCombinations(ctx, params, func(p domain.SearchProgress) {
		logger.Debug("Progress: %d nodes, %d found, depth %d", p.NodesVisited, p.Emitted, p.Depth)
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for _, n := range findFinalize {
		live := sessionService.LiveResults()
		all := live.All()
		if n < 1 || n > len(all) {
			return fmt.Errorf("--finalize %d: only %d results remain", n, len(all))
		}
		if _, err := sessionService.FinalizeCombination(ctx, all[n-1].MemberIDs); err != nil {
			return fmt.Errorf("finalize %d failed: %w", n, err)
		}
	}
	if len(findFinalize) > 0 {
		results = sessionService.LiveResults()
	}

	if findExport != "" {
		if reportService == nil {
			return errors.New("report service not configured")
		}
		if err := reportService.Export(ctx, findExport); err != nil {
			return err
		}
		logger.Info("Report written to %s", findExport)
	}

	groups, err := sessionService.FinalizedGroups(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}
	summary, err := sessionService.Summary(ctx)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}

	if findJSON {
		return outputFindJSON(cmd, results, groups, summary)
	}
	outputFindTable(cmd, results, groups, summary, precision)
	return nil
}

func watchAndFind(
	ctx context.Context,
	cmd *cobra.Command,
	args []string,
	params domain.SearchParams,
	opts input.Options,
	precision int,
) error {
	w, err := input.NewWatcher(findInput.file)
	if err != nil {
		return err
	}
	defer w.Close()

	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	cmd.PrintErrf("Watching %s for changes (Ctrl+C to stop)\n", w.Path())

	for change := range changes {
		cmd.Printf("\n--- %s changed at %s ---\n", change.Path, change.At.Format("15:04:05"))
		if err := findOnce(ctx, cmd, args, params, opts, precision); err != nil {
			// Keep watching; the next save may fix the file.
			cmd.PrintErrf("Error: %v\n", err)
		}
	}
	return nil
}

type findJSONOutput struct {
	Target       string             `json:"target"`
	Tolerance    string             `json:"tolerance"`
	Cancelled    bool               `json:"cancelled"`
	NodesVisited int64              `json:"nodes_visited"`
	Results      []view.Combination `json:"results"`
	Groups       []view.Group       `json:"groups"`
	Summary      view.Summary       `json:"summary"`
}

func outputFindJSON(
	cmd *cobra.Command,
	results *domain.ResultSet,
	groups []domain.FinalizedGroup,
	summary domain.SessionSummary,
) error {
	out := findJSONOutput{
		Target:       results.Params.Target.String(),
		Tolerance:    results.Params.Tolerance.String(),
		Cancelled:    results.Cancelled,
		NodesVisited: results.NodesVisited,
		Results:      view.NewCombinations(results),
		Groups:       view.NewGroups(groups),
		Summary:      view.NewSummary(summary),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputFindTable(
	cmd *cobra.Command,
	results *domain.ResultSet,
	groups []domain.FinalizedGroup,
	summary domain.SessionSummary,
	precision int,
) {
	if results.Cancelled {
		cmd.Println("Search cancelled, showing partial results.")
		cmd.Println()
	}

	if results.IsEmpty() {
		cmd.Println("No combinations found.")
	} else {
		index := 1
		printSection := func(title string, combos []domain.Combination) {
			if len(combos) == 0 {
				return
			}
			cmd.Printf("%s (%d):\n", title, len(combos))
			for _, c := range combos {
				line := fmt.Sprintf("  [%d] %s", index, c)
				if !c.Exact() {
					line += "  (" + c.DifferenceDisplay(precision) + ")"
				}
				cmd.Printf("%s  ids %s\n", line, formatIDs(c.MemberIDs))
				index++
			}
			cmd.Println()
		}
		printSection("Exact matches", results.Exact)
		printSection("Approximate matches", results.Approximate)
	}

	if len(groups) > 0 {
		cmd.Println("Finalized groups:")
		for _, g := range groups {
			cmd.Printf("  Group %d  %-16s %s  %s = %s  ids %s\n",
				g.Seq+1, g.Color.Name, g.Color.Hex(), joinAmounts(g.Values), g.Sum, formatIDs(g.MemberIDs))
		}
		cmd.Println()
	}

	cmd.Printf("Summary: %d groups, %d finalized (%s), %d available (%s)\n",
		summary.Groups,
		summary.FinalizedEntries, summary.FinalizedTotal.StringFixed(precision),
		summary.AvailableEntries, summary.AvailableTotal.StringFixed(precision))
}

func formatIDs(ids []domain.EntryID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(int64(id), 10)
	}
	return strings.Join(parts, ",")
}

func joinAmounts(values []domain.Amount) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, " + ")
}
