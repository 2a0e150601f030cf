package prioritize

import (
	"fmt"
	"strings"

	"github.com/joescharf/daybrief/internal/models"
)

// quickWinMaxLen is the content length below which a todo can qualify as a
// quick win.
const quickWinMaxLen = 60

// ownPRMaxComments caps how many comments an own PR can carry and still be
// a quick follow-up.
const ownPRMaxComments = 5

// complexityKeywords disqualify a todo from being a quick win.
var complexityKeywords = []string{"refactor", "rewrite", "implement", "create"}

// trivialKeywords mark explicitly low-effort work.
var trivialKeywords = []string{
	"typo", "rename", "update comment", "remove unused", "fix lint", "add import",
}

// QuickWins computes the independent quick-wins list: short, simple todos,
// suggestion-level post-merge comments, and the user's own PRs with a
// small amount of feedback to fold in.
func QuickWins(todos []models.TodoItem, activity *models.Activity) []models.ActionItem {
	var items []models.ActionItem

	for _, todo := range todos {
		effort, ok := classifyTodo(todo.Content)
		if !ok {
			continue
		}
		items = append(items, models.ActionItem{
			ID:       newID(),
			Content:  todo.Content,
			Category: models.ActionCategoryQuickWin,
			Priority: priorityRecurringTodo,
			Source:   todo.SessionID,
			Effort:   effort,
		})
	}

	if activity == nil {
		return items
	}

	for _, c := range activity.PostMergeComments {
		if c.Severity != models.SeveritySuggestion || c.Resolved {
			continue
		}
		items = append(items, models.ActionItem{
			ID:       newID(),
			Content:  fmt.Sprintf("Apply suggestion on %s#%d: %s", c.Repo, c.PRNumber, truncate(c.Body, 100)),
			Category: models.ActionCategoryQuickWin,
			Priority: priorityRecurringTodo,
			Source:   fmt.Sprintf("%s#%d", c.Repo, c.PRNumber),
			Link:     c.URL,
			Effort:   models.QuickWinEffortSmall,
		})
	}

	for _, pr := range activity.PullRequests {
		if !pr.IsOwn || pr.CommentCount == 0 || pr.CommentCount > ownPRMaxComments {
			continue
		}
		items = append(items, models.ActionItem{
			ID:       newID(),
			Content:  fmt.Sprintf("Address %d comments on your PR %s#%d", pr.CommentCount, pr.Repo, pr.Number),
			Category: models.ActionCategoryQuickWin,
			Priority: priorityRecurringTodo,
			Source:   fmt.Sprintf("%s#%d", pr.Repo, pr.Number),
			Link:     pr.URL,
			Effort:   models.QuickWinEffortSmall,
		})
	}

	return items
}

// classifyTodo decides whether a todo is a quick win and at what effort.
func classifyTodo(content string) (models.QuickWinEffort, bool) {
	if len([]rune(content)) >= quickWinMaxLen {
		return "", false
	}
	lower := strings.ToLower(content)
	for _, kw := range complexityKeywords {
		if strings.Contains(lower, kw) {
			return "", false
		}
	}
	for _, kw := range trivialKeywords {
		if strings.Contains(lower, kw) {
			return models.QuickWinEffortTrivial, true
		}
	}
	return models.QuickWinEffortSmall, true
}
