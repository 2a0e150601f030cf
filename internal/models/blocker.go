package models

import "time"

// BlockerInfo describes something the user reported being blocked on.
// Exactly one of BlockedBy or WaitingOn is set, depending on phrasing.
type BlockerInfo struct {
	Description string
	Project     string
	SessionID   string
	BlockedBy   string
	WaitingOn   string
	DetectedAt  time.Time
}
