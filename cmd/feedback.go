package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/joescharf/daybrief/internal/feedback"
	"github.com/joescharf/daybrief/internal/models"
	"github.com/joescharf/daybrief/internal/output"
)

var feedbackBriefingID string

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Rate briefing cards and inspect rating history",
	Long: `Record ratings for briefing cards and inspect the accumulated history.

Ratings adapt future briefings: card types rated unhelpful often enough
stop appearing, and topic priorities shift with sustained feedback.`,
}

var feedbackAddCmd = &cobra.Command{
	Use:   "add <card-type> <card-title> <rating>",
	Short: "Record a rating for a briefing card",
	Long: `Record a rating for a briefing card.

Card types: question, blocker, todo, quick_win, habit
Ratings: helpful, not_helpful, snoozed`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return feedbackAddRun(args[0], args[1], args[2])
	},
}

var feedbackStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated feedback statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return feedbackStatsRun()
	},
}

func init() {
	feedbackAddCmd.Flags().StringVar(&feedbackBriefingID, "briefing", "", "Briefing ID the card appeared in (defaults to the latest archived briefing)")
	feedbackCmd.AddCommand(feedbackAddCmd)
	feedbackCmd.AddCommand(feedbackStatsCmd)
	rootCmd.AddCommand(feedbackCmd)
}

func feedbackAddRun(cardType, cardTitle, ratingStr string) error {
	rating := models.Rating(ratingStr)
	switch rating {
	case models.RatingHelpful, models.RatingNotHelpful, models.RatingSnoozed:
	default:
		return fmt.Errorf("invalid rating: %s (use: helpful, not_helpful, snoozed)", ratingStr)
	}

	briefingID := feedbackBriefingID
	if briefingID == "" {
		s, err := getStore()
		if err == nil {
			if rec, err := s.LatestBriefing(rootCmd.Context()); err == nil && rec != nil {
				briefingID = rec.ID
			}
		}
	}

	if dryRun {
		ui.DryRunMsg("Would record %s for %s %q", rating, cardType, cardTitle)
		return nil
	}

	entry := models.FeedbackEntry{
		BriefingID: briefingID,
		CardType:   cardType,
		CardTitle:  cardTitle,
		Rating:     rating,
	}
	fs := getFeedback()
	if err := fs.Append(entry); err != nil {
		return err
	}

	if err := derivePriorities(fs); err != nil {
		ui.Warning("priority derivation failed: %v", err)
	}

	ui.Success("Recorded %s for %s %q", output.RatingColor(string(rating)), cardType, cardTitle)
	return nil
}

// derivePriorities refreshes feedback-derived topic priorities after a new
// rating. User-set entries are left alone.
func derivePriorities(fs *feedback.Store) error {
	entries, err := fs.Load()
	if err != nil {
		return err
	}
	existing, err := fs.LoadPriorities()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	derived := feedback.DerivePriorities(existing, feedback.ComputeStats(entries, now), now)
	return fs.SavePriorities(derived)
}

func feedbackStatsRun() error {
	fs := getFeedback()
	entries, err := fs.Load()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ui.Info("No feedback recorded yet. Use 'daybrief feedback add' after a briefing.")
		return nil
	}

	stats := feedback.ComputeStats(entries, time.Now().UTC())

	fmt.Fprintf(ui.Out, "%s (%d ratings, trend: %s)\n", output.Cyan("Feedback"), len(entries), stats.Trend)
	fmt.Fprintln(ui.Out)

	types := make([]string, 0, len(stats.ByCardType))
	for ct := range stats.ByCardType {
		types = append(types, ct)
	}
	sort.Strings(types)

	table := ui.Table([]string{"Card Type", "Helpful", "Not Helpful", "Snoozed", "Rate", "Shown"})
	for _, ct := range types {
		cs := stats.ByCardType[ct]
		shown := "yes"
		if !stats.IncludeCard(ct) {
			shown = output.Red("no")
		}
		table.Append([]string{
			ct,
			fmt.Sprintf("%d", cs.Helpful),
			fmt.Sprintf("%d", cs.NotHelpful),
			fmt.Sprintf("%d", cs.Snoozed),
			fmt.Sprintf("%.0f%%", cs.HelpfulRate()*100),
			shown,
		})
	}
	table.Render()
	return nil
}
