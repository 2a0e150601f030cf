package models

import "time"

// QuestionStatus represents the lifecycle state of an open question.
type QuestionStatus string

const (
	QuestionStatusOpen     QuestionStatus = "open"
	QuestionStatusResolved QuestionStatus = "resolved"
	QuestionStatusDeferred QuestionStatus = "deferred"
)

// OpenQuestion is a question the user raised in a session that was never
// answered within the session itself.
type OpenQuestion struct {
	ID        string
	Question  string
	Context   string // snippet of surrounding conversation
	Project   string
	SessionID string
	Timestamp time.Time
	Status    QuestionStatus
}
