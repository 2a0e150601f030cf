package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportType   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data as JSON, CSV, or Markdown",
	Long:  "Export archived briefings, actions, or feedback in various formats.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun()
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, csv, markdown")
	exportCmd.Flags().StringVar(&exportType, "type", "briefings", "Data type: briefings, actions, feedback")
	rootCmd.AddCommand(exportCmd)
}

func exportRun() error {
	ctx := context.Background()

	switch exportType {
	case "briefings":
		return exportBriefings(ctx)
	case "actions":
		return exportActions(ctx)
	case "feedback":
		return exportFeedback()
	default:
		return fmt.Errorf("unknown export type: %s (use: briefings, actions, feedback)", exportType)
	}
}

func exportBriefings(ctx context.Context) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	recs, err := s.ListBriefings(ctx, 0)
	if err != nil {
		return err
	}

	switch exportFormat {
	case "json":
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case "csv":
		w := csv.NewWriter(ui.Out)
		w.Write([]string{"ID", "Generated", "WindowDays", "Sessions", "Questions", "Blockers", "Actions", "QuickWins"})
		for _, r := range recs {
			w.Write([]string{r.ID, r.GeneratedAt.Format(time.RFC3339),
				fmt.Sprintf("%d", r.WindowDays), fmt.Sprintf("%d", r.SessionCount),
				fmt.Sprintf("%d", r.QuestionCount), fmt.Sprintf("%d", r.BlockerCount),
				fmt.Sprintf("%d", r.ActionCount), fmt.Sprintf("%d", r.QuickWinCount)})
		}
		w.Flush()
		return w.Error()
	case "markdown":
		fmt.Fprintln(ui.Out, "# Briefings")
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "| Generated | Sessions | Questions | Blockers | Actions |")
		fmt.Fprintln(ui.Out, "|-----------|----------|-----------|----------|---------|")
		for _, r := range recs {
			fmt.Fprintf(ui.Out, "| %s | %d | %d | %d | %d |\n",
				r.GeneratedAt.Format("2006-01-02"), r.SessionCount, r.QuestionCount,
				r.BlockerCount, r.ActionCount)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", exportFormat)
	}
}

func exportActions(ctx context.Context) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	rec, err := s.LatestBriefing(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("no briefings archived yet")
	}

	actions, err := s.ListActions(ctx, rec.ID)
	if err != nil {
		return err
	}

	switch exportFormat {
	case "json":
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(actions)
	case "csv":
		w := csv.NewWriter(ui.Out)
		w.Write([]string{"ID", "Category", "Priority", "Content", "Source", "StartHere"})
		for _, a := range actions {
			w.Write([]string{a.ID, string(a.Category), fmt.Sprintf("%d", a.Priority),
				a.Content, a.Source, fmt.Sprintf("%t", a.StartHere)})
		}
		w.Flush()
		return w.Error()
	case "markdown":
		fmt.Fprintln(ui.Out, "# Actions")
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "| P | Category | Action |")
		fmt.Fprintln(ui.Out, "|---|----------|--------|")
		for _, a := range actions {
			fmt.Fprintf(ui.Out, "| %d | %s | %s |\n", a.Priority, a.Category, a.Content)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", exportFormat)
	}
}

func exportFeedback() error {
	entries, err := getFeedback().Load()
	if err != nil {
		return err
	}

	switch exportFormat {
	case "json":
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "csv":
		w := csv.NewWriter(ui.Out)
		w.Write([]string{"BriefingID", "CardType", "CardTitle", "Rating", "Timestamp"})
		for _, e := range entries {
			w.Write([]string{e.BriefingID, e.CardType, e.CardTitle, string(e.Rating),
				e.Timestamp.Format(time.RFC3339)})
		}
		w.Flush()
		return w.Error()
	case "markdown":
		fmt.Fprintln(ui.Out, "# Feedback")
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, "| Card Type | Card | Rating |")
		fmt.Fprintln(ui.Out, "|-----------|------|--------|")
		for _, e := range entries {
			fmt.Fprintf(ui.Out, "| %s | %s | %s |\n", e.CardType, e.CardTitle, e.Rating)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", exportFormat)
	}
}
