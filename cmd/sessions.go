package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/daybrief/internal/output"
	"github.com/joescharf/daybrief/internal/parser"
	"github.com/joescharf/daybrief/internal/worktree"
)

var sessionsWindow int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent coding sessions grouped by project",
	Long: `List recent coding sessions parsed from the session logs.

Worktree session directories are folded into their parent project, so
parallel branches of one repo show up as a single line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sessionsRun()
	},
}

func init() {
	sessionsCmd.Flags().IntVarP(&sessionsWindow, "window", "w", 0, "Look-back window in days (overrides window_days)")
	rootCmd.AddCommand(sessionsCmd)
}

func sessionsRun() error {
	windowDays := viper.GetInt("window_days")
	if sessionsWindow > 0 {
		windowDays = sessionsWindow
	}

	logsDir := viper.GetString("logs_dir")
	since := time.Now().UTC().Add(-time.Duration(windowDays) * 24 * time.Hour)
	ui.VerboseLog("scanning %s since %s", logsDir, since.Format(time.RFC3339))

	sessions, err := parser.ScanDir(logsDir, since)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		ui.Info("No sessions in the last %dd.", windowDays)
		return nil
	}

	projects := worktree.GroupSessions(sessions)
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ActiveTime > projects[j].ActiveTime
	})

	table := ui.Table([]string{"Project", "Sessions", "Active", "Last Active", "Worktrees"})
	for _, p := range projects {
		worktrees := ""
		if len(p.Worktrees) > 1 {
			worktrees = fmt.Sprintf("%d", len(p.Worktrees))
		}
		table.Append([]string{
			output.Cyan(p.Project),
			fmt.Sprintf("%d", p.SessionCount),
			formatDuration(p.ActiveTime),
			timeAgo(p.LastActive),
			worktrees,
		})
	}
	table.Render()
	return nil
}

// timeAgo renders a timestamp as a short relative age.
func timeAgo(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	d := time.Since(t)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
