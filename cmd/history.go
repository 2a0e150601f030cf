package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/daybrief/internal/output"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [briefing-id]",
	Short: "List archived briefings",
	Long: `List archived briefings, newest first.

With a briefing ID, shows that briefing's ranked actions instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return historyShowRun(args[0])
		}
		return historyListRun()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum number of briefings to list (default 20)")
	rootCmd.AddCommand(historyCmd)
}

func historyListRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}

	recs, err := s.ListBriefings(rootCmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		ui.Info("No briefings archived yet. Run 'daybrief' to generate one.")
		return nil
	}

	table := ui.Table([]string{"ID", "Generated", "Sessions", "Questions", "Blockers", "Actions"})
	for _, rec := range recs {
		table.Append([]string{
			output.Cyan(shortID(rec.ID)),
			rec.GeneratedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", rec.SessionCount),
			fmt.Sprintf("%d", rec.QuestionCount),
			fmt.Sprintf("%d", rec.BlockerCount),
			fmt.Sprintf("%d", rec.ActionCount),
		})
	}
	table.Render()
	return nil
}

func historyShowRun(id string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := rootCmd.Context()

	rec, err := s.GetBriefing(ctx, id)
	if err != nil {
		return fmt.Errorf("briefing not found: %s", id)
	}

	actions, err := s.ListActions(ctx, rec.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "%s — %s (last %dd)\n", output.Cyan("Briefing "+shortID(rec.ID)),
		rec.GeneratedAt.Format("Mon Jan 2 15:04"), rec.WindowDays)
	fmt.Fprintln(ui.Out)

	renderActions(actions)
	return nil
}

// shortID truncates a ULID for display.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
