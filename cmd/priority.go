package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/daybrief/internal/models"
	"github.com/joescharf/daybrief/internal/output"
)

var priorityCmd = &cobra.Command{
	Use:   "priority",
	Short: "Manage topic priorities",
	Long: `Manage topic priorities used to rank and filter briefing cards.

User-set priorities override feedback-derived ones and are never
overwritten automatically. Level 'ignored' removes a topic from future
briefings entirely.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return priorityListRun()
	},
}

var prioritySetCmd = &cobra.Command{
	Use:   "set <topic> <level>",
	Short: "Set an explicit priority for a topic",
	Long: `Set an explicit priority for a topic.

Levels: high, normal, low, ignored`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return prioritySetRun(args[0], args[1])
	},
}

var priorityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all topic priorities",
	RunE: func(cmd *cobra.Command, args []string) error {
		return priorityListRun()
	},
}

func init() {
	priorityCmd.AddCommand(prioritySetCmd)
	priorityCmd.AddCommand(priorityListCmd)
	rootCmd.AddCommand(priorityCmd)
}

func prioritySetRun(topic, levelStr string) error {
	level := models.PriorityLevel(levelStr)
	switch level {
	case models.PriorityHigh, models.PriorityNormal, models.PriorityLow, models.PriorityIgnored:
	default:
		return fmt.Errorf("invalid level: %s (use: high, normal, low, ignored)", levelStr)
	}

	if dryRun {
		ui.DryRunMsg("Would set %q to %s", topic, level)
		return nil
	}

	if err := getFeedback().SetUserPriority(topic, level); err != nil {
		return err
	}

	ui.Success("Set %q to %s", topic, output.PriorityLevelColor(string(level)))
	return nil
}

func priorityListRun() error {
	priorities, err := getFeedback().LoadPriorities()
	if err != nil {
		return err
	}
	if len(priorities) == 0 {
		ui.Info("No topic priorities set. Use 'daybrief priority set <topic> <level>'.")
		return nil
	}

	table := ui.Table([]string{"Topic", "Level", "Source", "Updated"})
	for _, p := range priorities {
		table.Append([]string{
			p.Topic,
			output.PriorityLevelColor(string(p.Level)),
			string(p.Reason),
			timeAgo(p.UpdatedAt),
		})
	}
	table.Render()
	return nil
}
