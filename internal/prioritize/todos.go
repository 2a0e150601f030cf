package prioritize

import (
	"sort"

	"github.com/joescharf/daybrief/internal/models"
)

// AggregateTodos merges non-completed todos across sessions by exact
// content match. Each occurrence contributes its session's modified files
// to the union; first/last seen span the occurrences. Results sort by
// descending occurrence count — recurrence is the signal, not recency.
func AggregateTodos(sessions []*models.Session) []models.TodoItem {
	byContent := make(map[string]*models.TodoItem)
	files := make(map[string]map[string]bool)
	var order []string

	for _, s := range sessions {
		for _, todo := range s.Todos {
			if todo.Status == models.TodoStatusCompleted {
				continue
			}
			agg, ok := byContent[todo.Content]
			if !ok {
				agg = &models.TodoItem{
					Content:   todo.Content,
					Status:    todo.Status,
					SessionID: s.ID,
					Project:   s.Project,
					FirstSeen: s.StartTime,
					LastSeen:  s.EndTime,
				}
				byContent[todo.Content] = agg
				files[todo.Content] = make(map[string]bool)
				order = append(order, todo.Content)
			}
			agg.OccurrenceCount++
			agg.Status = todo.Status // latest occurrence wins
			agg.SessionID = s.ID
			if s.StartTime.Before(agg.FirstSeen) {
				agg.FirstSeen = s.StartTime
			}
			if s.EndTime.After(agg.LastSeen) {
				agg.LastSeen = s.EndTime
			}
			for _, f := range s.ModifiedFiles {
				files[todo.Content][f] = true
			}
		}
	}

	out := make([]models.TodoItem, 0, len(order))
	for _, content := range order {
		agg := byContent[content]
		for f := range files[content] {
			agg.RelatedFiles = append(agg.RelatedFiles, f)
		}
		sort.Strings(agg.RelatedFiles)
		out = append(out, *agg)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurrenceCount > out[j].OccurrenceCount
	})
	return out
}

// Recurring filters aggregated todos down to those seen in more than one
// session.
func Recurring(todos []models.TodoItem) []models.TodoItem {
	var out []models.TodoItem
	for _, t := range todos {
		if t.OccurrenceCount > 1 {
			out = append(out, t)
		}
	}
	return out
}
