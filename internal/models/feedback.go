package models

import "time"

// Rating is the user's verdict on a briefing card.
type Rating string

const (
	RatingHelpful    Rating = "helpful"
	RatingNotHelpful Rating = "not_helpful"
	RatingSnoozed    Rating = "snoozed"
)

// FeedbackEntry records one rating event. Entries are append-only and
// never mutated.
type FeedbackEntry struct {
	BriefingID string    `json:"briefing_id"`
	CardType   string    `json:"card_type"`
	CardTitle  string    `json:"card_title"`
	Rating     Rating    `json:"rating"`
	Timestamp  time.Time `json:"timestamp"`
}

// PriorityLevel is the derived or user-set priority for a topic.
type PriorityLevel string

const (
	PriorityHigh    PriorityLevel = "high"
	PriorityNormal  PriorityLevel = "normal"
	PriorityLow     PriorityLevel = "low"
	PriorityIgnored PriorityLevel = "ignored"
)

// PriorityReason says where a topic priority came from. A user_set
// priority is never overwritten by feedback derivation.
type PriorityReason string

const (
	PriorityReasonUserSet         PriorityReason = "user_set"
	PriorityReasonFeedbackDerived PriorityReason = "feedback_derived"
)

// TopicPriority assigns a priority level to a briefing topic.
type TopicPriority struct {
	Topic     string         `yaml:"topic"`
	Level     PriorityLevel  `yaml:"level"`
	Reason    PriorityReason `yaml:"reason"`
	UpdatedAt time.Time      `yaml:"updated_at"`
}
