package detect

import (
	"strings"

	"github.com/joescharf/daybrief/internal/models"
	"github.com/joescharf/daybrief/internal/worktree"
)

// ExtractHabits aggregates recurring behavior over the session window:
// per-file edit counts, per-project activity (worktree sets merged),
// per-topic recurrence, per-tool usage, and an hour-of-day histogram over
// session starts.
func ExtractHabits(sessions []*models.Session) *models.HabitSummary {
	h := &models.HabitSummary{
		FileEdits: make(map[string]models.FileEditStats),
		Projects:  make(map[string]models.ProjectActivity),
		Topics:    make(map[string]int),
		Tools:     make(map[string]models.ToolStats),
	}

	for _, g := range worktree.GroupSessions(sessions) {
		h.Projects[g.Project] = g
	}

	for _, s := range sessions {
		h.SessionCount++
		h.TotalTime += s.Duration()
		if !s.StartTime.IsZero() {
			h.HourOfDay[s.StartTime.Hour()]++
		}

		for _, f := range s.ModifiedFiles {
			stats := h.FileEdits[f]
			stats.Count++
			if s.EndTime.After(stats.LastEdited) {
				stats.LastEdited = s.EndTime
			}
			h.FileEdits[f] = stats
		}

		// Topic recurrence keys on non-completed todo content, case-folded.
		for _, todo := range s.Todos {
			if todo.Status == models.TodoStatusCompleted {
				continue
			}
			h.Topics[strings.ToLower(todo.Content)]++
		}

		clean := len(s.Errors) == 0
		toolsUsed := make(map[string]bool)
		for _, m := range s.Messages {
			for _, tc := range m.ToolCalls {
				stats := h.Tools[tc.Name]
				stats.Invocations++
				if clean && !toolsUsed[tc.Name] {
					stats.CleanSessions++
					toolsUsed[tc.Name] = true
				}
				h.Tools[tc.Name] = stats
			}
		}
	}

	return h
}
