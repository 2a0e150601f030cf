package worktree

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/joescharf/daybrief/internal/models"
)

// Worktree checkouts land in directories named after the parent project
// plus a generated suffix. Resolve recovers the parent project name so
// sessions from all checkouts of one repository group together.

var (
	claudeSuffixRe = regexp.MustCompile(`^(.+)-claude-.+$`)
	gitdirRe       = regexp.MustCompile(`^gitdir:\s*(.+)$`)
	randomTokenRe  = regexp.MustCompile(`^[A-Za-z0-9]{5,}$`)
)

// intentSuffixes mark branch-purpose checkouts; the name is cut at the
// first one found.
var intentSuffixes = []string{
	"-feature-", "-fix-", "-bugfix-", "-hotfix-", "-release-",
	"-refactor-", "-test-", "-wip-", "-temp-", "-branch-",
}

// Resolve maps a session's project path and name to its canonical parent
// project name. A valid git worktree redirect always wins over the naming
// heuristics; filesystem failures degrade to the heuristics.
func Resolve(projectPath, name string) string {
	if parent := resolveFromGitMarker(projectPath); parent != "" {
		return parent
	}
	if inferred := inferParentName(name); inferred != "" {
		return inferred
	}
	return name
}

// resolveFromGitMarker inspects the .git marker at the project path. A
// directory means this is the main checkout; a file contains a redirect of
// the form "gitdir: /repo/.git/worktrees/<branch>" pointing back at the
// true repository.
func resolveFromGitMarker(projectPath string) string {
	if projectPath == "" {
		return ""
	}
	marker := filepath.Join(projectPath, ".git")
	info, err := os.Stat(marker)
	if err != nil || info.IsDir() {
		return ""
	}

	data, err := os.ReadFile(marker)
	if err != nil {
		return ""
	}
	m := gitdirRe.FindStringSubmatch(strings.TrimSpace(string(data)))
	if m == nil {
		return ""
	}

	gitdir := filepath.ToSlash(strings.TrimSpace(m[1]))
	idx := strings.Index(gitdir, "/.git/worktrees/")
	if idx < 0 {
		return ""
	}
	return filepath.Base(gitdir[:idx])
}

// inferParentName applies the ordered naming heuristics. The inferred name
// is accepted only if it is different from and shorter than the input.
func inferParentName(name string) string {
	candidate := ""

	if m := claudeSuffixRe.FindStringSubmatch(name); m != nil {
		candidate = m[1]
	} else if base := stripIntentSuffix(name); base != "" {
		candidate = base
	} else if base := stripRandomToken(name, true); base != "" {
		candidate = base
	}

	if candidate == "" || candidate == name || len(candidate) >= len(name) {
		return ""
	}
	return candidate
}

func stripIntentSuffix(name string) string {
	for _, suffix := range intentSuffixes {
		if idx := strings.Index(name, suffix); idx > 0 {
			return name[:idx]
		}
	}
	return ""
}

// stripRandomToken removes a trailing random-looking alphanumeric token
// (5+ chars carrying a digit or mixed case). If the remainder still
// contains a separator it recurses once more.
func stripRandomToken(name string, recurse bool) string {
	idx := strings.LastIndex(name, "-")
	if idx <= 0 {
		return ""
	}
	token := name[idx+1:]
	if !looksRandom(token) {
		return ""
	}
	base := name[:idx]
	if recurse && strings.Contains(base, "-") {
		if again := stripRandomToken(base, false); again != "" {
			return again
		}
	}
	return base
}

func looksRandom(token string) bool {
	if !randomTokenRe.MatchString(token) {
		return false
	}
	hasDigit, hasUpper, hasLower := false, false, false
	for _, r := range token {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		}
	}
	return hasDigit || (hasUpper && hasLower)
}

// GroupSessions groups sessions under their resolved parent project,
// retaining the distinct original names as worktrees. Results are sorted
// by parent name for stable output.
func GroupSessions(sessions []*models.Session) []models.ProjectActivity {
	groups := make(map[string]*models.ProjectActivity)
	worktrees := make(map[string]map[string]bool)

	for _, s := range sessions {
		parent := Resolve(s.ProjectPath, s.Project)
		g, ok := groups[parent]
		if !ok {
			g = &models.ProjectActivity{Project: parent}
			groups[parent] = g
			worktrees[parent] = make(map[string]bool)
		}
		g.SessionCount++
		g.ActiveTime += s.Duration()
		if s.EndTime.After(g.LastActive) {
			g.LastActive = s.EndTime
		}
		if s.Project != "" {
			worktrees[parent][s.Project] = true
		}
	}

	var out []models.ProjectActivity
	for parent, g := range groups {
		for name := range worktrees[parent] {
			g.Worktrees = append(g.Worktrees, name)
		}
		sort.Strings(g.Worktrees)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Project < out[j].Project })
	return out
}
