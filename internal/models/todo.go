package models

import "time"

// TodoStatus represents the state of a todo item within a session snapshot.
type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "pending"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusCompleted  TodoStatus = "completed"
)

// TodoItem is a single todo from a session snapshot. The cross-session
// fields (SessionID through OccurrenceCount) are filled in by aggregation;
// Content is the dedup key and matches exactly, not fuzzily.
type TodoItem struct {
	Content string
	Status  TodoStatus

	SessionID       string
	Project         string
	RelatedFiles    []string // union of modified files across occurrences
	FirstSeen       time.Time
	LastSeen        time.Time
	OccurrenceCount int
}
