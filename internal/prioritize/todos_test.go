package prioritize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/daybrief/internal/models"
)

func TestAggregateTodos_OccurrenceAndFileUnion(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	s1 := &models.Session{
		ID: "s1", Project: "widgets",
		StartTime: base, EndTime: base.Add(time.Hour),
		ModifiedFiles: []string{"a.go", "b.go"},
		Todos: []models.TodoItem{
			{Content: "Fix flaky test", Status: models.TodoStatusPending},
		},
	}
	s2 := &models.Session{
		ID: "s2", Project: "widgets",
		StartTime: base.Add(24 * time.Hour), EndTime: base.Add(25 * time.Hour),
		ModifiedFiles: []string{"b.go", "c.go"},
		Todos: []models.TodoItem{
			{Content: "Fix flaky test", Status: models.TodoStatusInProgress},
			{Content: "Ship release notes", Status: models.TodoStatusPending},
		},
	}
	s3 := &models.Session{
		ID: "s3", Project: "widgets",
		StartTime: base.Add(48 * time.Hour), EndTime: base.Add(49 * time.Hour),
		Todos: []models.TodoItem{
			{Content: "Fix flaky test", Status: models.TodoStatusCompleted},
		},
	}

	todos := AggregateTodos([]*models.Session{s1, s2, s3})
	require.Len(t, todos, 2)

	flaky := todos[0]
	assert.Equal(t, "Fix flaky test", flaky.Content)
	assert.Equal(t, 2, flaky.OccurrenceCount, "completed occurrence does not count")
	assert.Equal(t, []string{"a.go", "b.go", "c.go"}, flaky.RelatedFiles)
	assert.Equal(t, base, flaky.FirstSeen)
	assert.Equal(t, base.Add(25*time.Hour), flaky.LastSeen)
	assert.Equal(t, models.TodoStatusInProgress, flaky.Status)

	assert.Equal(t, 1, todos[1].OccurrenceCount)
}

func TestAggregateTodos_SortsByOccurrence(t *testing.T) {
	mk := func(id string, contents ...string) *models.Session {
		s := &models.Session{ID: id}
		for _, c := range contents {
			s.Todos = append(s.Todos, models.TodoItem{Content: c, Status: models.TodoStatusPending})
		}
		return s
	}

	todos := AggregateTodos([]*models.Session{
		mk("s1", "rare", "common"),
		mk("s2", "common"),
		mk("s3", "common"),
	})

	require.Len(t, todos, 2)
	assert.Equal(t, "common", todos[0].Content)
	assert.Equal(t, 3, todos[0].OccurrenceCount)
}

func TestRecurring(t *testing.T) {
	todos := []models.TodoItem{
		{Content: "a", OccurrenceCount: 3},
		{Content: "b", OccurrenceCount: 1},
	}

	rec := Recurring(todos)
	require.Len(t, rec, 1)
	assert.Equal(t, "a", rec[0].Content)
}

func TestQuickWins_Todos(t *testing.T) {
	todos := []models.TodoItem{
		{Content: "Fix typo in README", SessionID: "s1"},
		{Content: "Refactor the entire auth system", SessionID: "s1"},
		{Content: "Bump CI timeout", SessionID: "s2"},
	}

	wins := QuickWins(todos, nil)
	require.Len(t, wins, 2)

	byContent := map[string]models.ActionItem{}
	for _, w := range wins {
		byContent[w.Content] = w
	}

	typo, ok := byContent["Fix typo in README"]
	require.True(t, ok)
	assert.Equal(t, models.QuickWinEffortTrivial, typo.Effort)

	bump, ok := byContent["Bump CI timeout"]
	require.True(t, ok)
	assert.Equal(t, models.QuickWinEffortSmall, bump.Effort)

	_, ok = byContent["Refactor the entire auth system"]
	assert.False(t, ok, "complexity keyword disqualifies")
}

func TestQuickWins_Activity(t *testing.T) {
	activity := &models.Activity{
		PostMergeComments: []models.PostMergeComment{
			{Repo: "w", PRNumber: 1, Body: "nit: drop the extra alloc", Severity: models.SeveritySuggestion},
			{Repo: "w", PRNumber: 2, Body: "resolved nit", Severity: models.SeveritySuggestion, Resolved: true},
			{Repo: "w", PRNumber: 3, Body: "this broke prod", Severity: models.SeverityCritical},
		},
		PullRequests: []models.PullRequest{
			{Repo: "w", Number: 4, IsOwn: true, CommentCount: 2},
			{Repo: "w", Number: 5, IsOwn: true, CommentCount: 0},
			{Repo: "w", Number: 6, IsOwn: true, CommentCount: 9},
			{Repo: "w", Number: 7, IsOwn: false, CommentCount: 2},
		},
	}

	wins := QuickWins(nil, activity)
	require.Len(t, wins, 2)
	assert.Contains(t, wins[0].Content, "suggestion")
	assert.Contains(t, wins[1].Content, "your PR w#4")
}

func TestClassifyTodo_LongContent(t *testing.T) {
	long := "This todo is long enough that it cannot possibly be finished inside fifteen minutes of work"
	_, ok := classifyTodo(long)
	assert.False(t, ok)
}
