package models

// ActionCategory classifies an action item by its source signal.
type ActionCategory string

const (
	ActionCategoryPRReview  ActionCategory = "pr_review"
	ActionCategoryTodo      ActionCategory = "todo"
	ActionCategoryPostMerge ActionCategory = "post_merge"
	ActionCategoryQuestion  ActionCategory = "question"
	ActionCategoryQuickWin  ActionCategory = "quick_win"
	ActionCategoryBlocker   ActionCategory = "blocker"
)

// QuickWinEffort sub-classifies a quick win.
type QuickWinEffort string

const (
	QuickWinEffortTrivial QuickWinEffort = "trivial"
	QuickWinEffortSmall   QuickWinEffort = "small"
)

// ActionItem is one entry in the ranked action list. Lower Priority means
// more urgent. At most one item per ranked list carries StartHere.
type ActionItem struct {
	ID        string
	Content   string
	Category  ActionCategory
	Priority  int
	Source    string // reference back to the originating signal
	Link      string // optional deep link (PR, comment)
	Context   string
	Effort    QuickWinEffort // set only for quick wins
	StartHere bool
}
