package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/joescharf/daybrief/internal/models"
	"github.com/joescharf/daybrief/internal/output"
)

// renderBriefing prints the full briefing to the terminal.
func renderBriefing(b *models.Briefing) {
	fmt.Fprintf(ui.Out, "%s — %s (last %dd)\n", output.Cyan("Daily Briefing"),
		b.GeneratedAt.Format("Mon Jan 2"), b.WindowDays)
	fmt.Fprintln(ui.Out)

	bundle := b.Bundle
	if len(bundle.Sessions) == 0 {
		ui.Info("No sessions in the window. Nothing to report.")
		return
	}

	renderActions(bundle.Actions)
	renderQuickWins(bundle.QuickWins)
	renderQuestions(bundle.Questions)
	renderBlockers(bundle.Blockers)
	renderHabits(bundle.Habits)
}

func renderActions(actions []models.ActionItem) {
	if len(actions) == 0 {
		return
	}
	fmt.Fprintln(ui.Out, output.Green("Start here"))
	table := ui.Table([]string{"", "P", "Category", "Action"})
	for _, a := range actions {
		marker := ""
		if a.StartHere {
			marker = output.Green("→")
		}
		table.Append([]string{
			marker,
			output.PriorityColor(a.Priority),
			string(a.Category),
			a.Content,
		})
	}
	table.Render()
	fmt.Fprintln(ui.Out)
}

func renderQuickWins(wins []models.ActionItem) {
	if len(wins) == 0 {
		return
	}
	fmt.Fprintln(ui.Out, output.Green("Quick wins"))
	for _, w := range wins {
		fmt.Fprintf(ui.Out, "  • %s (%s)\n", w.Content, w.Effort)
	}
	fmt.Fprintln(ui.Out)
}

func renderQuestions(questions []models.OpenQuestion) {
	if len(questions) == 0 {
		return
	}
	fmt.Fprintln(ui.Out, output.Yellow("Open questions"))
	for _, q := range questions {
		fmt.Fprintf(ui.Out, "  ? %s", q.Question)
		if q.Project != "" {
			fmt.Fprintf(ui.Out, "  %s", output.Cyan("["+q.Project+"]"))
		}
		fmt.Fprintln(ui.Out)
	}
	fmt.Fprintln(ui.Out)
}

func renderBlockers(blockers []models.BlockerInfo) {
	if len(blockers) == 0 {
		return
	}
	fmt.Fprintln(ui.Out, output.Red("Blockers"))
	for _, b := range blockers {
		fmt.Fprintf(ui.Out, "  ✗ %s", b.Description)
		if b.Project != "" {
			fmt.Fprintf(ui.Out, "  %s", output.Cyan("["+b.Project+"]"))
		}
		fmt.Fprintln(ui.Out)
	}
	fmt.Fprintln(ui.Out)
}

func renderHabits(h *models.HabitSummary) {
	if h == nil || h.SessionCount == 0 {
		return
	}
	fmt.Fprintln(ui.Out, output.Cyan("Activity"))
	fmt.Fprintf(ui.Out, "  %d sessions, %s active\n", h.SessionCount, formatDuration(h.TotalTime))

	projects := make([]models.ProjectActivity, 0, len(h.Projects))
	for _, p := range h.Projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].ActiveTime > projects[j].ActiveTime
	})
	for _, p := range projects {
		fmt.Fprintf(ui.Out, "  %s: %d sessions, %s\n",
			p.Project, p.SessionCount, formatDuration(p.ActiveTime))
	}
	fmt.Fprintln(ui.Out)
}

// formatDuration renders a duration as "2h15m" with minute precision.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%dm", h, m)
}
