package store

import (
	"context"
	"time"

	"github.com/joescharf/daybrief/internal/models"
)

// BriefingRecord is the archived summary row for one generated briefing.
type BriefingRecord struct {
	ID            string
	GeneratedAt   time.Time
	WindowDays    int
	SessionCount  int
	QuestionCount int
	BlockerCount  int
	ActionCount   int
	QuickWinCount int
}

// Store defines the persistence interface for the briefing archive.
type Store interface {
	SaveBriefing(ctx context.Context, b *models.Briefing) error
	GetBriefing(ctx context.Context, id string) (*BriefingRecord, error)
	LatestBriefing(ctx context.Context) (*BriefingRecord, error)
	ListBriefings(ctx context.Context, limit int) ([]*BriefingRecord, error)
	ListActions(ctx context.Context, briefingID string) ([]models.ActionItem, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
