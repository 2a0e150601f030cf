package github

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/daybrief/internal/models"
)

func TestLoadActivity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.json")
	doc := `{
		"pull_requests": [
			{"number": 7, "repo": "widgets", "title": "Add cache", "review_requested": true, "comment_count": 2}
		],
		"post_merge_comments": [
			{"repo": "widgets", "pr_number": 3, "body": "this broke prod", "severity": "critical"}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	activity, err := LoadActivity(path)
	require.NoError(t, err)

	require.Len(t, activity.PullRequests, 1)
	assert.Equal(t, 7, activity.PullRequests[0].Number)
	assert.True(t, activity.PullRequests[0].ReviewRequested)

	require.Len(t, activity.PostMergeComments, 1)
	assert.Equal(t, models.SeverityCritical, activity.PostMergeComments[0].Severity)
}

func TestLoadActivity_MissingFile(t *testing.T) {
	activity, err := LoadActivity(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, activity.PullRequests)
}

func TestLoadActivity_EmptyPath(t *testing.T) {
	activity, err := LoadActivity("")
	require.NoError(t, err)
	assert.NotNil(t, activity)
}

func TestLoadActivity_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	_, err := LoadActivity(path)
	assert.Error(t, err)
}
