package models

import "time"

// ProjectActivity summarizes sessions grouped under one parent project.
type ProjectActivity struct {
	Project      string
	Worktrees    []string // distinct original project names resolved here
	SessionCount int
	ActiveTime   time.Duration
	LastActive   time.Time
}

// HabitSummary aggregates recurring behavior across the session window.
type HabitSummary struct {
	FileEdits    map[string]FileEditStats
	Projects     map[string]ProjectActivity
	Topics       map[string]int
	Tools        map[string]ToolStats
	HourOfDay    [24]int // histogram over session start hours
	TotalTime    time.Duration
	SessionCount int
}

// FileEditStats tracks edits to a single file.
type FileEditStats struct {
	Count      int
	LastEdited time.Time
}

// ToolStats tracks invocations of a single tool. CleanSessions counts
// sessions that used the tool and surfaced no error lines, a rough
// success proxy.
type ToolStats struct {
	Invocations   int
	CleanSessions int
}

// SignalBundle is the structured output of one pipeline run, consumed by
// prose, rendering, and dashboard collaborators.
type SignalBundle struct {
	Sessions  []*Session
	Todos     []TodoItem
	Questions []OpenQuestion
	Blockers  []BlockerInfo
	Habits    *HabitSummary
	Actions   []ActionItem
	QuickWins []ActionItem
}

// Briefing is one archived pipeline run.
type Briefing struct {
	ID          string
	GeneratedAt time.Time
	WindowDays  int
	Bundle      *SignalBundle
}
