package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/daybrief/internal/briefing"
	"github.com/joescharf/daybrief/internal/feedback"
	"github.com/joescharf/daybrief/internal/models"
	"github.com/joescharf/daybrief/internal/store"
)

// ---------------------------------------------------------------------------
// Mock implementations
// ---------------------------------------------------------------------------

// mockStore implements store.Store for testing.
type mockStore struct {
	briefings []*store.BriefingRecord
	actions   map[string][]models.ActionItem

	saved []*models.Briefing

	// Optional error injection.
	saveErr error
	listErr error
}

func newMockStore() *mockStore {
	return &mockStore{actions: make(map[string][]models.ActionItem)}
}

func (m *mockStore) SaveBriefing(_ context.Context, b *models.Briefing) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, b)
	rec := &store.BriefingRecord{
		ID:          b.ID,
		GeneratedAt: b.GeneratedAt,
		WindowDays:  b.WindowDays,
	}
	if b.Bundle != nil {
		rec.SessionCount = len(b.Bundle.Sessions)
		rec.ActionCount = len(b.Bundle.Actions)
	}
	m.briefings = append(m.briefings, rec)
	if b.Bundle != nil {
		m.actions[b.ID] = b.Bundle.Actions
	}
	return nil
}

func (m *mockStore) GetBriefing(_ context.Context, id string) (*store.BriefingRecord, error) {
	for _, rec := range m.briefings {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("briefing not found: %s", id)
}

func (m *mockStore) LatestBriefing(_ context.Context) (*store.BriefingRecord, error) {
	if len(m.briefings) == 0 {
		return nil, nil
	}
	return m.briefings[len(m.briefings)-1], nil
}

func (m *mockStore) ListBriefings(_ context.Context, limit int) ([]*store.BriefingRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit > 0 && len(m.briefings) > limit {
		return m.briefings[:limit], nil
	}
	return m.briefings, nil
}

func (m *mockStore) ListActions(_ context.Context, briefingID string) ([]models.ActionItem, error) {
	return m.actions[briefingID], nil
}

func (m *mockStore) Migrate(_ context.Context) error { return nil }
func (m *mockStore) Close() error                    { return nil }

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// newTestServer creates a Server with a mock store and a real feedback store
// rooted in a temp dir.
func newTestServer(t *testing.T) (*Server, *mockStore, *feedback.Store) {
	t.Helper()

	ms := newMockStore()
	fs := feedback.NewStore(t.TempDir())

	b := &briefing.Builder{
		LogsDir:    filepath.Join(t.TempDir(), "logs"),
		WindowDays: 1,
		Feedback:   fs,
		Now:        time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC),
	}

	srv := NewServer(ms, fs, b)
	require.NotNil(t, srv)

	return srv, ms, fs
}

// callToolReq builds a mcpgo.CallToolRequest with the given name and arguments.
func callToolReq(name string, args map[string]any) mcpgo.CallToolRequest {
	return mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText extracts the concatenated text from a CallToolResult.
func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	var b strings.Builder
	for _, c := range result.Content {
		tc, ok := c.(mcpgo.TextContent)
		if ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

// seedBriefing adds an archived briefing with one action to the mock store.
func seedBriefing(t *testing.T, ms *mockStore, id string) *store.BriefingRecord {
	t.Helper()
	rec := &store.BriefingRecord{
		ID:          id,
		GeneratedAt: time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC),
		WindowDays:  1,
		ActionCount: 1,
	}
	ms.briefings = append(ms.briefings, rec)
	ms.actions[id] = []models.ActionItem{
		{
			ID:        "action-1",
			Content:   "Respond to review on widgets#7",
			Category:  models.ActionCategoryPRReview,
			Priority:  3,
			StartHere: true,
		},
	}
	return rec
}

// writeSessionLog creates a minimal project log for the builder to scan.
func writeSessionLog(t *testing.T, logsDir string) {
	t.Helper()
	dir := filepath.Join(logsDir, "widgets")
	require.NoError(t, os.MkdirAll(dir, 0755))
	line := `{"type":"user","sessionId":"s1","cwd":"/home/dev/widgets","timestamp":"2026-08-24T07:00:00Z","message":{"role":"user","content":"I am blocked by the API team not responding."}}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s1.jsonl"), []byte(line), 0644))
}

// ---------------------------------------------------------------------------
// Tests: daybrief_generate
// ---------------------------------------------------------------------------

func TestHandleGenerate(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	ctx := context.Background()

	writeSessionLog(t, srv.builder.LogsDir)

	result, err := srv.handleGenerate(ctx, callToolReq("daybrief_generate", nil))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "the API team not responding")

	// The briefing should have been archived.
	require.Len(t, ms.saved, 1)
}

func TestHandleGenerate_ArchiveFails(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	ctx := context.Background()

	ms.saveErr = fmt.Errorf("disk full")

	result, err := srv.handleGenerate(ctx, callToolReq("daybrief_generate", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "disk full")
}

// ---------------------------------------------------------------------------
// Tests: daybrief_latest
// ---------------------------------------------------------------------------

func TestHandleLatestBriefing_Empty(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleLatestBriefing(ctx, callToolReq("daybrief_latest", nil))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
	assert.Equal(t, "{}", resultText(t, result))
}

func TestHandleLatestBriefing_WithData(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	ctx := context.Background()

	rec := seedBriefing(t, ms, "01TESTBRIEF")

	result, err := srv.handleLatestBriefing(ctx, callToolReq("daybrief_latest", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, rec.ID)
	assert.Contains(t, text, "Respond to review on widgets#7")
}

// ---------------------------------------------------------------------------
// Tests: daybrief_history
// ---------------------------------------------------------------------------

func TestHandleListBriefings(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	ctx := context.Background()

	seedBriefing(t, ms, "01BRIEFA")
	seedBriefing(t, ms, "01BRIEFB")

	result, err := srv.handleListBriefings(ctx, callToolReq("daybrief_history", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "01BRIEFA")
	assert.Contains(t, text, "01BRIEFB")
}

func TestHandleListBriefings_StoreError(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	ctx := context.Background()

	ms.listErr = fmt.Errorf("database locked")

	result, err := srv.handleListBriefings(ctx, callToolReq("daybrief_history", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "database locked")
}

// ---------------------------------------------------------------------------
// Tests: daybrief_actions
// ---------------------------------------------------------------------------

func TestHandleListActions(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	ctx := context.Background()

	rec := seedBriefing(t, ms, "01BRIEFA")

	req := callToolReq("daybrief_actions", map[string]any{"briefing_id": rec.ID})
	result, err := srv.handleListActions(ctx, req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "pr_review")
	assert.Contains(t, text, "start_here")
}

func TestHandleListActions_UnknownBriefing(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()

	req := callToolReq("daybrief_actions", map[string]any{"briefing_id": "nope"})
	result, err := srv.handleListActions(ctx, req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleListActions_MissingID(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleListActions(ctx, callToolReq("daybrief_actions", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError, "should error when briefing_id is missing")
}

// ---------------------------------------------------------------------------
// Tests: daybrief_record_feedback
// ---------------------------------------------------------------------------

func TestHandleRecordFeedback(t *testing.T) {
	srv, _, fs := newTestServer(t)
	ctx := context.Background()

	req := callToolReq("daybrief_record_feedback", map[string]any{
		"briefing_id": "01BRIEFA",
		"card_type":   "question",
		"card_title":  "Should we cache the session index?",
		"rating":      "helpful",
	})
	result, err := srv.handleRecordFeedback(ctx, req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	entries, err := fs.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.RatingHelpful, entries[0].Rating)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestHandleRecordFeedback_InvalidRating(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()

	req := callToolReq("daybrief_record_feedback", map[string]any{
		"briefing_id": "01BRIEFA",
		"card_type":   "question",
		"card_title":  "some card",
		"rating":      "meh",
	})
	result, err := srv.handleRecordFeedback(ctx, req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "invalid rating")
}

func TestHandleRecordFeedback_MissingArgs(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleRecordFeedback(ctx, callToolReq("daybrief_record_feedback", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

// ---------------------------------------------------------------------------
// Tests: daybrief_set_priority / daybrief_priorities
// ---------------------------------------------------------------------------

func TestHandleSetPriority(t *testing.T) {
	srv, _, fs := newTestServer(t)
	ctx := context.Background()

	req := callToolReq("daybrief_set_priority", map[string]any{
		"topic": "docs cleanup",
		"level": "ignored",
	})
	result, err := srv.handleSetPriority(ctx, req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	priorities, err := fs.LoadPriorities()
	require.NoError(t, err)
	require.Len(t, priorities, 1)
	assert.Equal(t, models.PriorityIgnored, priorities[0].Level)
	assert.Equal(t, models.PriorityReasonUserSet, priorities[0].Reason)
}

func TestHandleSetPriority_InvalidLevel(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()

	req := callToolReq("daybrief_set_priority", map[string]any{
		"topic": "docs cleanup",
		"level": "urgent",
	})
	result, err := srv.handleSetPriority(ctx, req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "invalid level")
}

func TestHandleListPriorities(t *testing.T) {
	srv, _, fs := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, fs.SetUserPriority("auth refactor", models.PriorityHigh))

	result, err := srv.handleListPriorities(ctx, callToolReq("daybrief_priorities", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "auth refactor")
	assert.Contains(t, text, "high")
}

// ---------------------------------------------------------------------------
// Tests: Integration -- verify all tools are registered via HandleMessage
// ---------------------------------------------------------------------------

func TestMCPIntegration_ListTools(t *testing.T) {
	srv, _, _ := newTestServer(t)

	mcpSrv := srv.MCPServer()
	require.NotNil(t, mcpSrv)

	// Call tools/list via HandleMessage to verify registration.
	ctx := context.Background()
	reqJSON := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	respMsg := mcpSrv.HandleMessage(ctx, reqJSON)
	require.NotNil(t, respMsg)

	respBytes, err := json.Marshal(respMsg)
	require.NoError(t, err)

	var rpcResp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	err = json.Unmarshal(respBytes, &rpcResp)
	require.NoError(t, err)

	toolNames := make(map[string]bool)
	for _, tool := range rpcResp.Result.Tools {
		toolNames[tool.Name] = true
	}

	expectedTools := []string{
		"daybrief_generate",
		"daybrief_latest",
		"daybrief_history",
		"daybrief_actions",
		"daybrief_record_feedback",
		"daybrief_set_priority",
		"daybrief_priorities",
	}
	for _, name := range expectedTools {
		assert.True(t, toolNames[name], "expected tool %q to be registered", name)
	}
}

// Compile-time interface check for the mock.
var _ store.Store = (*mockStore)(nil)
