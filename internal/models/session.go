package models

import "time"

// Role identifies who produced a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation message from a session log.
type Message struct {
	Role      Role
	Text      string
	Timestamp time.Time
	ToolCalls []ToolCall
}

// ToolCall records one tool invocation made by the assistant.
type ToolCall struct {
	Name   string
	Target string // file path, command, or pattern depending on the tool
}

// Session is one fully parsed activity log, normalized into messages,
// todos, modified files, commands, and errors. Sessions are immutable
// after parsing and are never persisted directly.
type Session struct {
	ID            string
	Project       string
	ProjectPath   string
	StartTime     time.Time
	EndTime       time.Time
	Messages      []Message
	Todos         []TodoItem // point-in-time snapshot, last snapshot wins
	ModifiedFiles []string
	Commands      []string
	Errors        []string // deduplicated, capped
}

// Duration returns the active time covered by the session.
func (s *Session) Duration() time.Duration {
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// UserMessages returns only the user-authored messages, in order.
func (s *Session) UserMessages() []Message {
	var out []Message
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			out = append(out, m)
		}
	}
	return out
}
