package detect

import (
	"regexp"
	"sort"
	"strings"

	"github.com/joescharf/daybrief/internal/models"
)

const (
	minBlockerLen         = 20
	blockerDedupPrefixLen = 40
)

// blockerPattern pairs a phrasing regex with the field its capture fills.
type blockerPattern struct {
	re        *regexp.Regexp
	isWaiting bool
}

// blockerPatterns is an ordered battery; the first match per message wins,
// so one message never produces two blockers.
var blockerPatterns = []blockerPattern{
	{re: regexp.MustCompile(`(?i)\bblocked (?:by|on) (.+)`)},
	{re: regexp.MustCompile(`(?i)\bwaiting (?:for|on) (.+)`), isWaiting: true},
	{re: regexp.MustCompile(`(?i)\bcan'?t (?:proceed|continue|move forward) (?:until|without) (.+)`), isWaiting: true},
	{re: regexp.MustCompile(`(?i)\bstuck on (.+)`)},
	{re: regexp.MustCompile(`(?i)\b(?:depends|dependent) on (.+)`)},
	{re: regexp.MustCompile(`(?i)\bneed (.+?) before (?:I|we) can\b`), isWaiting: true},
}

// ExtractBlockers scans sufficiently long user messages for blocking and
// waiting phrasings. Results are deduplicated by description prefix, most
// recent first.
func ExtractBlockers(sessions []*models.Session) []models.BlockerInfo {
	var found []models.BlockerInfo

	for _, s := range sessions {
		for _, m := range s.UserMessages() {
			text := strings.TrimSpace(m.Text)
			if len([]rune(text)) < minBlockerLen {
				continue
			}
			for _, p := range blockerPatterns {
				match := p.re.FindStringSubmatch(text)
				if match == nil {
					continue
				}
				subject := cleanSubject(match[1])
				if subject == "" {
					break
				}
				b := models.BlockerInfo{
					Description: truncate(text, 200),
					Project:     s.Project,
					SessionID:   s.ID,
					DetectedAt:  m.Timestamp,
				}
				if p.isWaiting {
					b.WaitingOn = subject
				} else {
					b.BlockedBy = subject
				}
				found = append(found, b)
				break
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].DetectedAt.After(found[j].DetectedAt)
	})

	seen := make(map[string]bool)
	var out []models.BlockerInfo
	for _, b := range found {
		key := normalizePrefix(b.Description, blockerDedupPrefixLen)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, b)
	}
	return out
}

// cleanSubject trims the captured blocking subject down to its first
// sentence and strips trailing punctuation.
func cleanSubject(s string) string {
	if idx := strings.IndexAny(s, ".!?\n"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
