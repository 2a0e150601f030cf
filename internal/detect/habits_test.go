package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/daybrief/internal/models"
)

func TestExtractHabits(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)

	s1 := &models.Session{
		ID:            "s1",
		Project:       "widgets",
		StartTime:     base,
		EndTime:       base.Add(time.Hour),
		ModifiedFiles: []string{"auth.go", "main.go"},
		Todos: []models.TodoItem{
			{Content: "Fix auth flow", Status: models.TodoStatusPending},
			{Content: "Done thing", Status: models.TodoStatusCompleted},
		},
		Messages: []models.Message{
			{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{
				{Name: "Edit", Target: "auth.go"},
				{Name: "Bash", Target: "go test"},
			}},
		},
	}
	s2 := &models.Session{
		ID:            "s2",
		Project:       "widgets-fix-auth",
		StartTime:     base.Add(24 * time.Hour),
		EndTime:       base.Add(25 * time.Hour),
		ModifiedFiles: []string{"auth.go"},
		Errors:        []string{"Error: boom"},
		Todos: []models.TodoItem{
			{Content: "fix auth flow", Status: models.TodoStatusInProgress},
		},
		Messages: []models.Message{
			{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{
				{Name: "Edit", Target: "auth.go"},
			}},
		},
	}

	h := ExtractHabits([]*models.Session{s1, s2})

	assert.Equal(t, 2, h.SessionCount)
	assert.Equal(t, 2*time.Hour, h.TotalTime)
	assert.Equal(t, 2, h.HourOfDay[9])

	require.Contains(t, h.FileEdits, "auth.go")
	assert.Equal(t, 2, h.FileEdits["auth.go"].Count)
	assert.Equal(t, s2.EndTime, h.FileEdits["auth.go"].LastEdited)

	// worktree sessions merge into the parent project
	require.Contains(t, h.Projects, "widgets")
	assert.Equal(t, 2, h.Projects["widgets"].SessionCount)
	assert.Equal(t, []string{"widgets", "widgets-fix-auth"}, h.Projects["widgets"].Worktrees)

	// topic recurrence is case-folded and skips completed todos
	assert.Equal(t, 2, h.Topics["fix auth flow"])
	assert.NotContains(t, h.Topics, "done thing")

	// s2 had errors, so only s1 counts as a clean Edit session
	assert.Equal(t, 2, h.Tools["Edit"].Invocations)
	assert.Equal(t, 1, h.Tools["Edit"].CleanSessions)
	assert.Equal(t, 1, h.Tools["Bash"].Invocations)
}

func TestExtractHabits_Empty(t *testing.T) {
	h := ExtractHabits(nil)
	assert.Equal(t, 0, h.SessionCount)
	assert.Empty(t, h.FileEdits)
	assert.Empty(t, h.Projects)
}
