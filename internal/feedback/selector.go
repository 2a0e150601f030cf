package feedback

import (
	"strings"
	"time"

	"github.com/joescharf/daybrief/internal/models"
)

// Inclusion gate and priority derivation thresholds.
const (
	minRatingsForExclusion = 5
	excludeHelpfulRate     = 0.20

	minRatingsForDerivation = 3
	demoteHelpfulRate       = 0.30
	promoteHelpfulRate      = 0.80

	trendWindow   = 7 * 24 * time.Hour
	trendDeadband = 0.10
)

// Trend classifies the recent helpful-rate direction.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// CardStats counts ratings for one card type or topic.
type CardStats struct {
	Helpful    int
	NotHelpful int
	Snoozed    int
}

// Total is the number of rated instances.
func (c CardStats) Total() int {
	return c.Helpful + c.NotHelpful + c.Snoozed
}

// HelpfulRate is the fraction of rated instances marked helpful.
func (c CardStats) HelpfulRate() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.Helpful) / float64(c.Total())
}

// Stats is the derived view over the feedback history.
type Stats struct {
	ByCardType map[string]CardStats
	ByTopic    map[string]CardStats // keyed by case-folded card title
	Trend      Trend
}

// ComputeStats derives per-card-type and per-topic counts plus the
// trailing-week versus preceding-week trend.
func ComputeStats(entries []models.FeedbackEntry, now time.Time) *Stats {
	stats := &Stats{
		ByCardType: make(map[string]CardStats),
		ByTopic:    make(map[string]CardStats),
		Trend:      TrendStable,
	}

	var recent, previous CardStats
	for _, e := range entries {
		ct := stats.ByCardType[e.CardType]
		count(&ct, e.Rating)
		stats.ByCardType[e.CardType] = ct

		topic := strings.ToLower(strings.TrimSpace(e.CardTitle))
		if topic != "" {
			ts := stats.ByTopic[topic]
			count(&ts, e.Rating)
			stats.ByTopic[topic] = ts
		}

		age := now.Sub(e.Timestamp)
		switch {
		case age <= trendWindow:
			count(&recent, e.Rating)
		case age <= 2*trendWindow:
			count(&previous, e.Rating)
		}
	}

	if recent.Total() > 0 && previous.Total() > 0 {
		delta := recent.HelpfulRate() - previous.HelpfulRate()
		switch {
		case delta > trendDeadband:
			stats.Trend = TrendImproving
		case delta < -trendDeadband:
			stats.Trend = TrendDeclining
		}
	}
	return stats
}

func count(c *CardStats, r models.Rating) {
	switch r {
	case models.RatingHelpful:
		c.Helpful++
	case models.RatingNotHelpful:
		c.NotHelpful++
	case models.RatingSnoozed:
		c.Snoozed++
	}
}

// IncludeCard reports whether a card type should appear in the next
// briefing. Insufficient data defaults to inclusion; only a card type with
// enough ratings and a consistently poor helpful rate is excluded.
func (s *Stats) IncludeCard(cardType string) bool {
	cs, ok := s.ByCardType[cardType]
	if !ok || cs.Total() < minRatingsForExclusion {
		return true
	}
	return cs.HelpfulRate() > excludeHelpfulRate
}

// TopicLevel returns the effective priority level for a topic, defaulting
// to normal.
func TopicLevel(priorities []models.TopicPriority, topic string) models.PriorityLevel {
	topic = strings.ToLower(strings.TrimSpace(topic))
	for _, p := range priorities {
		if strings.ToLower(p.Topic) == topic {
			return p.Level
		}
	}
	return models.PriorityNormal
}

// DerivePriorities updates feedback-derived topic priorities from stats:
// poorly rated topics demote to low, consistently helpful ones promote to
// high. User-set entries are never touched.
func DerivePriorities(existing []models.TopicPriority, stats *Stats, now time.Time) []models.TopicPriority {
	byTopic := make(map[string]int, len(existing))
	out := make([]models.TopicPriority, len(existing))
	copy(out, existing)
	for i, p := range out {
		byTopic[strings.ToLower(p.Topic)] = i
	}

	for topic, cs := range stats.ByTopic {
		if cs.Total() < minRatingsForDerivation {
			continue
		}

		var level models.PriorityLevel
		rate := cs.HelpfulRate()
		switch {
		case rate < demoteHelpfulRate:
			level = models.PriorityLow
		case rate > promoteHelpfulRate:
			level = models.PriorityHigh
		default:
			continue
		}

		if idx, ok := byTopic[topic]; ok {
			if out[idx].Reason == models.PriorityReasonUserSet {
				continue
			}
			if out[idx].Level != level {
				out[idx].Level = level
				out[idx].UpdatedAt = now
			}
			continue
		}

		out = append(out, models.TopicPriority{
			Topic:     topic,
			Level:     level,
			Reason:    models.PriorityReasonFeedbackDerived,
			UpdatedAt: now,
		})
	}
	return out
}
