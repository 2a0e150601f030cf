package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/daybrief/internal/briefing"
	"github.com/joescharf/daybrief/internal/feedback"
	"github.com/joescharf/daybrief/internal/models"
	"github.com/joescharf/daybrief/internal/store"
)

// Server wraps the daybrief data layer and exposes it as MCP tools.
type Server struct {
	store    store.Store
	feedback *feedback.Store
	builder  *briefing.Builder
}

// NewServer creates the MCP server wrapper with all required dependencies.
func NewServer(s store.Store, fs *feedback.Store, b *briefing.Builder) *Server {
	return &Server{
		store:    s,
		feedback: fs,
		builder:  b,
	}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("daybrief", "1.0.0", server.WithToolCapabilities(true))

	// Register all tools
	srv.AddTool(s.generateBriefingTool())
	srv.AddTool(s.latestBriefingTool())
	srv.AddTool(s.listBriefingsTool())
	srv.AddTool(s.listActionsTool())
	srv.AddTool(s.recordFeedbackTool())
	srv.AddTool(s.setPriorityTool())
	srv.AddTool(s.listPrioritiesTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// daybrief_generate
func (s *Server) generateBriefingTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("daybrief_generate",
		mcp.WithDescription("Run the briefing pipeline over recent session logs and return the full signal bundle as JSON: ranked actions, open questions, blockers, recurring todos, quick wins, and habit summary. Also archives the briefing."),
	)
	return tool, s.handleGenerate
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.builder == nil {
		return mcp.NewToolResultError("briefing builder not available"), nil
	}

	b, err := s.builder.Build()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build briefing: %v", err)), nil
	}

	if s.store != nil {
		if err := s.store.SaveBriefing(ctx, b); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("briefing built but archiving failed: %v", err)), nil
		}
	}

	result := map[string]any{
		"id":           b.ID,
		"generated_at": b.GeneratedAt.Format(time.RFC3339),
		"window_days":  b.WindowDays,
		"actions":      actionsOut(b.Bundle.Actions),
		"quick_wins":   actionsOut(b.Bundle.QuickWins),
		"questions":    questionsOut(b.Bundle.Questions),
		"blockers":     blockersOut(b.Bundle.Blockers),
		"todos":        todosOut(b.Bundle.Todos),
		"habits":       habitsOut(b.Bundle.Habits),
	}

	data, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal briefing: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// daybrief_latest
func (s *Server) latestBriefingTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("daybrief_latest",
		mcp.WithDescription("Get the most recently archived briefing summary and its ranked actions as JSON. Returns an empty object when nothing has been archived yet."),
	)
	return tool, s.handleLatestBriefing
}

func (s *Server) handleLatestBriefing(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := s.store.LatestBriefing(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load latest briefing: %v", err)), nil
	}
	if rec == nil {
		return mcp.NewToolResultText("{}"), nil
	}

	actions, err := s.store.ListActions(ctx, rec.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load actions: %v", err)), nil
	}

	result := map[string]any{
		"briefing": recordOut(rec),
		"actions":  actionsOut(actions),
	}

	data, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal briefing: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// daybrief_history
func (s *Server) listBriefingsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("daybrief_history",
		mcp.WithDescription("List archived briefing summaries, newest first. Returns a JSON array with id, generated_at, and per-signal counts."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of briefings to return (default 20)")),
	)
	return tool, s.handleListBriefings
}

func (s *Server) handleListBriefings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 0)

	recs, err := s.store.ListBriefings(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list briefings: %v", err)), nil
	}

	out := make([]map[string]any, len(recs))
	for i, rec := range recs {
		out[i] = recordOut(rec)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal briefings: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// daybrief_actions
func (s *Server) listActionsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("daybrief_actions",
		mcp.WithDescription("List the ranked actions of an archived briefing, most urgent first. Each action has content, category, priority (lower is more urgent), source, and start_here."),
		mcp.WithString("briefing_id", mcp.Required(), mcp.Description("Briefing ID")),
	)
	return tool, s.handleListActions
}

func (s *Server) handleListActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	briefingID, err := request.RequireString("briefing_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: briefing_id"), nil
	}

	if _, err := s.store.GetBriefing(ctx, briefingID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("briefing not found: %s", briefingID)), nil
	}

	actions, err := s.store.ListActions(ctx, briefingID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list actions: %v", err)), nil
	}

	data, err := json.Marshal(actionsOut(actions))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal actions: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// daybrief_record_feedback
func (s *Server) recordFeedbackTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("daybrief_record_feedback",
		mcp.WithDescription("Record a rating for a briefing card. Ratings accumulate and adapt future briefings: card types rated unhelpful often enough are dropped, and topic priorities shift with sustained feedback."),
		mcp.WithString("briefing_id", mcp.Required(), mcp.Description("Briefing the card appeared in")),
		mcp.WithString("card_type", mcp.Required(), mcp.Description("Card type: question, blocker, todo, quick_win, habit")),
		mcp.WithString("card_title", mcp.Required(), mcp.Description("Card title or topic text")),
		mcp.WithString("rating", mcp.Required(), mcp.Description("Rating: helpful, not_helpful, snoozed")),
	)
	return tool, s.handleRecordFeedback
}

func (s *Server) handleRecordFeedback(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	briefingID, err := request.RequireString("briefing_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: briefing_id"), nil
	}
	cardType, err := request.RequireString("card_type")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: card_type"), nil
	}
	cardTitle, err := request.RequireString("card_title")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: card_title"), nil
	}
	ratingStr, err := request.RequireString("rating")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: rating"), nil
	}

	rating := models.Rating(ratingStr)
	switch rating {
	case models.RatingHelpful, models.RatingNotHelpful, models.RatingSnoozed:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid rating: %s (must be helpful, not_helpful, or snoozed)", ratingStr)), nil
	}

	entry := models.FeedbackEntry{
		BriefingID: briefingID,
		CardType:   cardType,
		CardTitle:  cardTitle,
		Rating:     rating,
	}
	if err := s.feedback.Append(entry); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to record feedback: %v", err)), nil
	}

	result := map[string]any{
		"briefing_id": briefingID,
		"card_type":   cardType,
		"card_title":  cardTitle,
		"rating":      string(rating),
		"recorded":    true,
	}

	data, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(data)), nil
}

// daybrief_set_priority
func (s *Server) setPriorityTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("daybrief_set_priority",
		mcp.WithDescription("Set an explicit priority for a topic. User-set priorities override feedback-derived ones and are never overwritten automatically. Level 'ignored' removes the topic from future briefings."),
		mcp.WithString("topic", mcp.Required(), mcp.Description("Topic text, matched case-insensitively against card titles")),
		mcp.WithString("level", mcp.Required(), mcp.Description("Priority level: high, normal, low, ignored")),
	)
	return tool, s.handleSetPriority
}

func (s *Server) handleSetPriority(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: topic"), nil
	}
	levelStr, err := request.RequireString("level")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: level"), nil
	}

	level := models.PriorityLevel(levelStr)
	switch level {
	case models.PriorityHigh, models.PriorityNormal, models.PriorityLow, models.PriorityIgnored:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid level: %s (must be high, normal, low, or ignored)", levelStr)), nil
	}

	if err := s.feedback.SetUserPriority(topic, level); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set priority: %v", err)), nil
	}

	result := map[string]any{
		"topic":  topic,
		"level":  string(level),
		"reason": string(models.PriorityReasonUserSet),
	}

	data, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(data)), nil
}

// daybrief_priorities
func (s *Server) listPrioritiesTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("daybrief_priorities",
		mcp.WithDescription("List all topic priorities as JSON, both user-set and feedback-derived."),
	)
	return tool, s.handleListPriorities
}

func (s *Server) handleListPriorities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	priorities, err := s.feedback.LoadPriorities()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load priorities: %v", err)), nil
	}

	type priorityOut struct {
		Topic     string `json:"topic"`
		Level     string `json:"level"`
		Reason    string `json:"reason"`
		UpdatedAt string `json:"updated_at"`
	}

	out := make([]priorityOut, len(priorities))
	for i, p := range priorities {
		out[i] = priorityOut{
			Topic:     p.Topic,
			Level:     string(p.Level),
			Reason:    string(p.Reason),
			UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal priorities: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ---------------------------------------------------------------------------
// Output shaping helpers
// ---------------------------------------------------------------------------

func recordOut(rec *store.BriefingRecord) map[string]any {
	return map[string]any{
		"id":             rec.ID,
		"generated_at":   rec.GeneratedAt.Format(time.RFC3339),
		"window_days":    rec.WindowDays,
		"session_count":  rec.SessionCount,
		"question_count": rec.QuestionCount,
		"blocker_count":  rec.BlockerCount,
		"action_count":   rec.ActionCount,
		"quick_win_count": rec.QuickWinCount,
	}
}

func actionsOut(actions []models.ActionItem) []map[string]any {
	out := make([]map[string]any, len(actions))
	for i, a := range actions {
		m := map[string]any{
			"id":         a.ID,
			"content":    a.Content,
			"category":   string(a.Category),
			"priority":   a.Priority,
			"source":     a.Source,
			"start_here": a.StartHere,
		}
		if a.Link != "" {
			m["link"] = a.Link
		}
		if a.Context != "" {
			m["context"] = a.Context
		}
		if a.Effort != "" {
			m["effort"] = string(a.Effort)
		}
		out[i] = m
	}
	return out
}

func questionsOut(questions []models.OpenQuestion) []map[string]any {
	out := make([]map[string]any, len(questions))
	for i, q := range questions {
		out[i] = map[string]any{
			"id":       q.ID,
			"question": q.Question,
			"project":  q.Project,
			"status":   string(q.Status),
			"asked_at": q.Timestamp.Format(time.RFC3339),
		}
	}
	return out
}

func blockersOut(blockers []models.BlockerInfo) []map[string]any {
	out := make([]map[string]any, len(blockers))
	for i, b := range blockers {
		m := map[string]any{
			"description": b.Description,
			"project":     b.Project,
			"detected_at": b.DetectedAt.Format(time.RFC3339),
		}
		if b.BlockedBy != "" {
			m["blocked_by"] = b.BlockedBy
		}
		if b.WaitingOn != "" {
			m["waiting_on"] = b.WaitingOn
		}
		out[i] = m
	}
	return out
}

func todosOut(todos []models.TodoItem) []map[string]any {
	out := make([]map[string]any, len(todos))
	for i, t := range todos {
		out[i] = map[string]any{
			"content":     t.Content,
			"status":      string(t.Status),
			"occurrences": t.OccurrenceCount,
			"files":       t.RelatedFiles,
			"first_seen":  t.FirstSeen.Format(time.RFC3339),
			"last_seen":   t.LastSeen.Format(time.RFC3339),
		}
	}
	return out
}

func habitsOut(h *models.HabitSummary) map[string]any {
	if h == nil {
		return nil
	}
	projects := make([]map[string]any, 0, len(h.Projects))
	for _, p := range h.Projects {
		projects = append(projects, map[string]any{
			"project":       p.Project,
			"worktrees":     p.Worktrees,
			"session_count": p.SessionCount,
			"active_time":   p.ActiveTime.String(),
			"last_active":   p.LastActive.Format(time.RFC3339),
		})
	}
	return map[string]any{
		"session_count": h.SessionCount,
		"total_time":    h.TotalTime.String(),
		"projects":      projects,
		"topics":        h.Topics,
	}
}
