package models

import "time"

// CommentSeverity classifies a post-merge comment.
type CommentSeverity string

const (
	SeverityCritical   CommentSeverity = "critical"
	SeverityQuestion   CommentSeverity = "question"
	SeveritySuggestion CommentSeverity = "suggestion"
)

// Commit is a pre-fetched commit summary.
type Commit struct {
	SHA       string    `json:"sha"`
	Repo      string    `json:"repo"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// PullRequest is a pre-fetched open pull request.
type PullRequest struct {
	Number          int       `json:"number"`
	Repo            string    `json:"repo"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	IsOwn           bool      `json:"is_own"`
	ReviewRequested bool      `json:"review_requested"`
	CommentCount    int       `json:"comment_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StaleBranch is a branch with no recent activity.
type StaleBranch struct {
	Repo       string    `json:"repo"`
	Name       string    `json:"name"`
	LastCommit time.Time `json:"last_commit"`
}

// PostMergeComment is feedback attached to a change after it was already
// merged, pre-classified by severity upstream.
type PostMergeComment struct {
	Repo      string          `json:"repo"`
	PRNumber  int             `json:"pr_number"`
	Author    string          `json:"author"`
	Body      string          `json:"body"`
	URL       string          `json:"url"`
	Severity  CommentSeverity `json:"severity"`
	Resolved  bool            `json:"resolved"`
	CreatedAt time.Time       `json:"created_at"`
}

// Activity bundles all pre-fetched GitHub state consumed by the
// prioritizer. It is supplied as an already-structured local file; this
// program performs no network calls.
type Activity struct {
	Commits           []Commit           `json:"commits"`
	PullRequests      []PullRequest      `json:"pull_requests"`
	StaleBranches     []StaleBranch      `json:"stale_branches"`
	PostMergeComments []PostMergeComment `json:"post_merge_comments"`
}
