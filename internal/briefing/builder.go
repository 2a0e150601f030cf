package briefing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joescharf/daybrief/internal/detect"
	"github.com/joescharf/daybrief/internal/feedback"
	"github.com/joescharf/daybrief/internal/github"
	"github.com/joescharf/daybrief/internal/models"
	"github.com/joescharf/daybrief/internal/parser"
	"github.com/joescharf/daybrief/internal/prioritize"
)

// Card types used for the feedback inclusion gate.
const (
	CardQuestion = "question"
	CardBlocker  = "blocker"
	CardTodo     = "todo"
	CardQuickWin = "quick_win"
	CardHabit    = "habit"
)

// Builder assembles one briefing from the session logs, pre-fetched
// GitHub activity, and the feedback history. All paths are injected; the
// builder holds no global state.
type Builder struct {
	LogsDir      string
	ActivityPath string
	WindowDays   int

	// Feedback gates which cards run and carries topic priorities. Nil
	// means no history: everything is included.
	Feedback *feedback.Store

	// Now is replaceable in tests; zero means time.Now.
	Now time.Time
}

// Build runs the full pipeline: parse, resolve, detect, prioritize, gate.
func (b *Builder) Build() (*models.Briefing, error) {
	now := b.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	windowDays := b.WindowDays
	if windowDays <= 0 {
		windowDays = 1
	}

	sessions, err := parser.ScanDir(b.LogsDir, now.Add(-time.Duration(windowDays)*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("scan session logs: %w", err)
	}

	activity, err := github.LoadActivity(b.ActivityPath)
	if err != nil {
		return nil, fmt.Errorf("load github activity: %w", err)
	}

	stats, priorities := b.loadFeedback(now)

	bundle := &models.SignalBundle{Sessions: sessions}

	todos := prioritize.AggregateTodos(sessions)
	if stats.IncludeCard(CardTodo) {
		bundle.Todos = dropIgnoredTodos(todos, priorities)
	}
	if stats.IncludeCard(CardQuestion) {
		bundle.Questions = dropIgnoredQuestions(detect.ExtractQuestions(sessions), priorities)
	}
	if stats.IncludeCard(CardBlocker) {
		bundle.Blockers = detect.ExtractBlockers(sessions)
	}
	if stats.IncludeCard(CardHabit) {
		bundle.Habits = detect.ExtractHabits(sessions)
	}

	bundle.Actions = prioritize.BuildActions(prioritize.Input{
		Blockers:       bundle.Blockers,
		RecurringTodos: prioritize.Recurring(bundle.Todos),
		Activity:       activity,
		Now:            now,
	})
	if stats.IncludeCard(CardQuickWin) {
		bundle.QuickWins = prioritize.QuickWins(bundle.Todos, activity)
	}

	return &models.Briefing{
		ID:          newBriefingID(),
		GeneratedAt: now,
		WindowDays:  windowDays,
		Bundle:      bundle,
	}, nil
}

// loadFeedback reads the rating history and priority snapshot. Failures
// degrade to "include everything" — a corrupt feedback log never blocks
// the briefing.
func (b *Builder) loadFeedback(now time.Time) (*feedback.Stats, []models.TopicPriority) {
	if b.Feedback == nil {
		return feedback.ComputeStats(nil, now), nil
	}
	entries, err := b.Feedback.Load()
	if err != nil {
		entries = nil
	}
	priorities, err := b.Feedback.LoadPriorities()
	if err != nil {
		priorities = nil
	}
	return feedback.ComputeStats(entries, now), priorities
}

func dropIgnoredTodos(todos []models.TodoItem, priorities []models.TopicPriority) []models.TodoItem {
	if len(priorities) == 0 {
		return todos
	}
	var out []models.TodoItem
	for _, t := range todos {
		if feedback.TopicLevel(priorities, t.Content) == models.PriorityIgnored {
			continue
		}
		out = append(out, t)
	}
	return out
}

func dropIgnoredQuestions(questions []models.OpenQuestion, priorities []models.TopicPriority) []models.OpenQuestion {
	if len(priorities) == 0 {
		return questions
	}
	var out []models.OpenQuestion
	for _, q := range questions {
		if feedback.TopicLevel(priorities, q.Question) == models.PriorityIgnored {
			continue
		}
		out = append(out, q)
	}
	return out
}

func newBriefingID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}
