package prioritize

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joescharf/daybrief/internal/models"
)

// Fixed category priorities. Lower ranks first.
const (
	priorityCritical      = 1
	priorityBlocker       = 2
	priorityReview        = 3
	priorityRecurringTodo = 4
	priorityPostMergeQ    = 5
)

// reviewBoostAfter is how long a review request waits before it jumps a
// tier.
const reviewBoostAfter = 3 * 24 * time.Hour

// Input carries all signals merged into the ranked action list.
type Input struct {
	Blockers       []models.BlockerInfo
	RecurringTodos []models.TodoItem // pre-filtered to occurrence > 1
	Activity       *models.Activity
	Now            time.Time
}

// BuildActions merges the signals into one ranked list. Ordering is by
// fixed category priority; review requests within their tier order by
// descending wait time. Exactly the first item of a non-empty list is
// flagged Start Here.
func BuildActions(in Input) []models.ActionItem {
	var items []models.ActionItem

	activity := in.Activity
	if activity == nil {
		activity = &models.Activity{}
	}

	for _, c := range activity.PostMergeComments {
		if c.Severity != models.SeverityCritical || c.Resolved {
			continue
		}
		items = append(items, models.ActionItem{
			ID:       newID(),
			Content:  fmt.Sprintf("Critical post-merge comment on %s#%d: %s", c.Repo, c.PRNumber, truncate(c.Body, 120)),
			Category: models.ActionCategoryPostMerge,
			Priority: priorityCritical,
			Source:   fmt.Sprintf("%s#%d", c.Repo, c.PRNumber),
			Link:     c.URL,
		})
	}

	for _, b := range in.Blockers {
		subject := b.BlockedBy
		if subject == "" {
			subject = b.WaitingOn
		}
		items = append(items, models.ActionItem{
			ID:       newID(),
			Content:  fmt.Sprintf("Unblock: %s", subject),
			Category: models.ActionCategoryBlocker,
			Priority: priorityBlocker,
			Source:   b.SessionID,
			Context:  b.Description,
		})
	}

	items = append(items, reviewRequests(activity.PullRequests, in.Now)...)

	for _, todo := range in.RecurringTodos {
		items = append(items, models.ActionItem{
			ID:       newID(),
			Content:  todo.Content,
			Category: models.ActionCategoryTodo,
			Priority: priorityRecurringTodo,
			Source:   todo.SessionID,
			Context:  fmt.Sprintf("seen in %d sessions", todo.OccurrenceCount),
		})
	}

	for _, c := range activity.PostMergeComments {
		if c.Severity != models.SeverityQuestion || c.Resolved {
			continue
		}
		items = append(items, models.ActionItem{
			ID:       newID(),
			Content:  fmt.Sprintf("Answer %s on %s#%d: %s", c.Author, c.Repo, c.PRNumber, truncate(c.Body, 120)),
			Category: models.ActionCategoryQuestion,
			Priority: priorityPostMergeQ,
			Source:   fmt.Sprintf("%s#%d", c.Repo, c.PRNumber),
			Link:     c.URL,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority < items[j].Priority
	})

	if len(items) > 0 {
		items[0].StartHere = true
	}
	return items
}

// reviewRequests builds PR review actions, boosted a tier after waiting
// more than three days and ordered by descending wait within the tier.
func reviewRequests(prs []models.PullRequest, now time.Time) []models.ActionItem {
	var waiting []models.PullRequest
	for _, pr := range prs {
		if pr.ReviewRequested && !pr.IsOwn {
			waiting = append(waiting, pr)
		}
	}
	sort.SliceStable(waiting, func(i, j int) bool {
		return waiting[i].UpdatedAt.Before(waiting[j].UpdatedAt)
	})

	var items []models.ActionItem
	for _, pr := range waiting {
		priority := priorityReview
		wait := now.Sub(pr.UpdatedAt)
		if wait > reviewBoostAfter {
			priority = priorityBlocker
		}
		items = append(items, models.ActionItem{
			ID:       newID(),
			Content:  fmt.Sprintf("Review %s#%d: %s", pr.Repo, pr.Number, pr.Title),
			Category: models.ActionCategoryPRReview,
			Priority: priority,
			Source:   fmt.Sprintf("%s#%d", pr.Repo, pr.Number),
			Link:     pr.URL,
			Context:  fmt.Sprintf("waiting %dd", int(wait.Hours()/24)),
		})
	}
	return items
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-2]) + ".."
}

func newID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}
