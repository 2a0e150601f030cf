package detect

import (
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joescharf/daybrief/internal/models"
)

const (
	// resolutionWindow is how many subsequent user messages are checked
	// for a resolution phrase before a question counts as open.
	resolutionWindow = 3

	minQuestionLen = 15
	dedupPrefixLen = 50
)

// questionPatterns is an ordered battery; the first match wins.
var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\?\s*$`),
	regexp.MustCompile(`(?i)^(what|why|how|when|where|which|who|should|could|would|can|do|does|is|are)\b`),
	regexp.MustCompile(`(?i)\b(not sure|wondering|any ideas|no idea)\b`),
}

var resolutionPhrases = []string{
	"that works", "that worked", "got it", "figured it out", "figured out",
	"solved", "fixed it", "makes sense", "perfect", "never mind",
	"nevermind", "resolved", "thanks, that", "ok that works",
}

var deferralMarkers = []string{"todo", "later", "blocked", "tbd"}

var pureAffirmationRe = regexp.MustCompile(`(?i)^(yes|no|ok|okay|sure|yep|nope|thanks|thank you|got it)[.!?]*$`)

// ExtractQuestions scans user messages across sessions for questions that
// were never answered. Resolved questions are dropped; explicitly deferred
// ones are kept with status deferred. Results are deduplicated by
// normalized prefix, most recent first.
func ExtractQuestions(sessions []*models.Session) []models.OpenQuestion {
	var found []models.OpenQuestion

	for _, s := range sessions {
		userMsgs := s.UserMessages()
		for i, m := range userMsgs {
			text := strings.TrimSpace(m.Text)
			if !isQuestion(text) {
				continue
			}

			status := models.QuestionStatusOpen
			if hasDeferralMarker(text) {
				status = models.QuestionStatusDeferred
			} else if resolvedInWindow(userMsgs, i) {
				continue
			}

			q := models.OpenQuestion{
				ID:        newID(),
				Question:  text,
				Project:   s.Project,
				SessionID: s.ID,
				Timestamp: m.Timestamp,
				Status:    status,
			}
			if i > 0 {
				q.Context = truncate(userMsgs[i-1].Text, 160)
			}
			found = append(found, q)
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Timestamp.After(found[j].Timestamp)
	})

	seen := make(map[string]bool)
	var out []models.OpenQuestion
	for _, q := range found {
		key := normalizePrefix(q.Question, dedupPrefixLen)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out
}

// isQuestion applies the interrogative battery plus the short/affirmative
// filters.
func isQuestion(text string) bool {
	if len([]rune(text)) < minQuestionLen {
		return false
	}
	if pureAffirmationRe.MatchString(text) {
		return false
	}
	for _, re := range questionPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// resolvedInWindow reports whether a closure or affirmation phrase appears
// in the next few user messages.
func resolvedInWindow(userMsgs []models.Message, idx int) bool {
	end := idx + 1 + resolutionWindow
	if end > len(userMsgs) {
		end = len(userMsgs)
	}
	for _, m := range userMsgs[idx+1 : end] {
		lower := strings.ToLower(m.Text)
		for _, phrase := range resolutionPhrases {
			if strings.Contains(lower, phrase) {
				return true
			}
		}
	}
	return false
}

func hasDeferralMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range deferralMarkers {
		if containsWord(lower, marker) {
			return true
		}
	}
	return false
}

// containsWord matches marker as a whole word, so "blocked" does not fire
// on "unblocked".
func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordByte(lower[start-1])
		afterOK := end == len(lower) || !isWordByte(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// normalizePrefix lowercases, collapses whitespace, and truncates to n
// runes for dedup keying.
func normalizePrefix(text string, n int) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	lower = strings.Join(strings.Fields(lower), " ")
	runes := []rune(lower)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-2]) + ".."
}

// newID generates a ULID for detected signals.
func newID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}
