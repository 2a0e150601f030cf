package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/daybrief/internal/models"
)

func sessionWithUserMessages(id, project string, texts ...string) *models.Session {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	s := &models.Session{ID: id, Project: project, StartTime: base}
	for i, text := range texts {
		s.Messages = append(s.Messages, models.Message{
			Role:      models.RoleUser,
			Text:      text,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	s.EndTime = base.Add(time.Duration(len(texts)) * time.Minute)
	return s
}

func TestExtractQuestions_OpenQuestion(t *testing.T) {
	s := sessionWithUserMessages("s1", "widgets",
		"Should we migrate the session store to SQLite?",
		"Let me look at something else first",
	)

	questions := ExtractQuestions([]*models.Session{s})
	require.Len(t, questions, 1)
	assert.Equal(t, models.QuestionStatusOpen, questions[0].Status)
	assert.Equal(t, "widgets", questions[0].Project)
	assert.NotEmpty(t, questions[0].ID)
}

func TestExtractQuestions_ResolvedInWindow(t *testing.T) {
	s := sessionWithUserMessages("s1", "widgets",
		"Should we migrate the session store to SQLite?",
		"ok, figured it out, SQLite it is",
	)

	questions := ExtractQuestions([]*models.Session{s})
	assert.Empty(t, questions)
}

func TestExtractQuestions_ResolutionOutsideWindowKept(t *testing.T) {
	s := sessionWithUserMessages("s1", "widgets",
		"Should we migrate the session store to SQLite?",
		"unrelated message one here",
		"unrelated message two here",
		"unrelated message three here",
		"figured it out finally",
	)

	questions := ExtractQuestions([]*models.Session{s})
	require.Len(t, questions, 1)
	assert.Equal(t, models.QuestionStatusOpen, questions[0].Status)
}

func TestExtractQuestions_DeferralMarker(t *testing.T) {
	s := sessionWithUserMessages("s1", "widgets",
		"How should we handle cache invalidation? TODO: decide later",
		"got it, moving on",
	)

	questions := ExtractQuestions([]*models.Session{s})
	require.Len(t, questions, 1)
	assert.Equal(t, models.QuestionStatusDeferred, questions[0].Status)
}

func TestExtractQuestions_ShortAndAffirmativeDiscarded(t *testing.T) {
	s := sessionWithUserMessages("s1", "widgets",
		"why?",
		"ok?",
		"Does it work?",
	)

	questions := ExtractQuestions([]*models.Session{s})
	assert.Empty(t, questions)
}

func TestExtractQuestions_DedupIdempotent(t *testing.T) {
	sessions := []*models.Session{
		sessionWithUserMessages("s1", "widgets", "What is the right retry policy here?"),
		sessionWithUserMessages("s2", "widgets", "what is the right retry policy here?"),
	}

	first := ExtractQuestions(sessions)
	second := ExtractQuestions(sessions)

	require.Len(t, first, 1)
	assert.Len(t, second, 1)
	assert.Equal(t, first[0].Question, second[0].Question)
}

func TestExtractQuestions_MostRecentFirst(t *testing.T) {
	s1 := sessionWithUserMessages("s1", "widgets", "What is the right retry policy here?")
	s2 := &models.Session{ID: "s2", Project: "widgets"}
	s2.Messages = append(s2.Messages, models.Message{
		Role:      models.RoleUser,
		Text:      "Should the parser cap error lines at ten?",
		Timestamp: time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC),
	})

	questions := ExtractQuestions([]*models.Session{s1, s2})
	require.Len(t, questions, 2)
	assert.Equal(t, "Should the parser cap error lines at ten?", questions[0].Question)
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("this is blocked for now", "blocked"))
	assert.False(t, containsWord("finally unblocked today", "blocked"))
	assert.True(t, containsWord("tbd", "tbd"))
}
