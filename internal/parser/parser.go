package parser

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joescharf/daybrief/internal/models"
)

// maxErrorLines caps the number of distinct error lines retained per session.
const maxErrorLines = 10

// logRecord is one line of a session log file. Records are independently
// parseable; unknown or malformed lines are skipped.
type logRecord struct {
	Type      string    `json:"type"`
	SessionID string    `json:"sessionId"`
	CWD       string    `json:"cwd"`
	Timestamp time.Time `json:"timestamp"`
	Message   struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
	Todos []struct {
		Content string `json:"content"`
		Status  string `json:"status"`
	} `json:"todos"`
}

// contentBlock is one element of a structured message content array.
type contentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ParseSessionFile parses one session log into a Session. Malformed lines
// are skipped individually; a file with no timestamp-bearing record yields
// (nil, nil). The only error returned is failure to open the file.
func ParseSessionFile(path string) (*models.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := &models.Session{}
	seenFiles := make(map[string]bool)
	seenErrors := make(map[string]bool)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 256*1024), 10*1024*1024) // tool outputs can be huge

	for sc.Scan() {
		var rec logRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			continue
		}

		if rec.SessionID != "" && s.ID == "" {
			s.ID = rec.SessionID
		}
		if rec.CWD != "" && s.ProjectPath == "" {
			s.ProjectPath = rec.CWD
		}
		if !rec.Timestamp.IsZero() {
			if s.StartTime.IsZero() || rec.Timestamp.Before(s.StartTime) {
				s.StartTime = rec.Timestamp
			}
			if rec.Timestamp.After(s.EndTime) {
				s.EndTime = rec.Timestamp
			}
		}

		switch rec.Type {
		case "user":
			text := extractUserText(rec.Message.Content)
			if text == "" {
				continue
			}
			s.Messages = append(s.Messages, models.Message{
				Role:      models.RoleUser,
				Text:      text,
				Timestamp: rec.Timestamp,
			})

		case "assistant":
			text, tools := extractAssistantContent(rec.Message.Content)
			if text == "" && len(tools) == 0 {
				continue
			}
			for _, tc := range tools {
				classifyTool(s, tc, seenFiles)
			}
			collectErrorLines(s, text, seenErrors)
			s.Messages = append(s.Messages, models.Message{
				Role:      models.RoleAssistant,
				Text:      text,
				Timestamp: rec.Timestamp,
				ToolCalls: tools,
			})

		case "todo":
			// Last snapshot wins: the todo list is a point-in-time state,
			// not an append log.
			s.Todos = s.Todos[:0]
			for _, t := range rec.Todos {
				if t.Content == "" {
					continue
				}
				s.Todos = append(s.Todos, models.TodoItem{
					Content: t.Content,
					Status:  models.TodoStatus(t.Status),
				})
			}
		}
	}

	// A session with no timestamp-bearing record yields no result.
	if s.StartTime.IsZero() {
		return nil, nil
	}

	if s.ID == "" {
		s.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if s.ProjectPath != "" {
		s.Project = filepath.Base(s.ProjectPath)
	}
	return s, nil
}

// extractUserText handles content as a plain string or an array of blocks.
// Tool results carry no user text and are skipped.
func extractUserText(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str)
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var texts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			texts = append(texts, b.Text)
		}
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}

// extractAssistantContent concatenates text blocks and collects tool calls.
func extractAssistantContent(raw json.RawMessage) (string, []models.ToolCall) {
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		// some writers emit assistant content as a bare string
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			return strings.TrimSpace(str), nil
		}
		return "", nil
	}

	var texts []string
	var tools []models.ToolCall
	for _, b := range blocks {
		switch b.Type {
		case "text":
			if b.Text != "" {
				texts = append(texts, b.Text)
			}
		case "tool_use":
			tools = append(tools, models.ToolCall{
				Name:   b.Name,
				Target: toolTarget(b.Name, b.Input),
			})
		}
	}
	return strings.Join(texts, "\n"), tools
}

// toolTarget pulls the most useful parameter out of a tool invocation.
func toolTarget(name string, input json.RawMessage) string {
	var params map[string]any
	if err := json.Unmarshal(input, &params); err != nil {
		return ""
	}
	for _, key := range []string{"file_path", "notebook_path", "command", "pattern"} {
		if v, ok := params[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// classifyTool routes write/edit-style invocations into the modified-files
// set and shell execution into commands-run.
func classifyTool(s *models.Session, tc models.ToolCall, seenFiles map[string]bool) {
	switch tc.Name {
	case "Write", "Edit", "MultiEdit", "NotebookEdit":
		if tc.Target != "" && !seenFiles[tc.Target] {
			seenFiles[tc.Target] = true
			s.ModifiedFiles = append(s.ModifiedFiles, tc.Target)
		}
	case "Bash":
		if tc.Target != "" {
			s.Commands = append(s.Commands, tc.Target)
		}
	}
}

// collectErrorLines scans assistant text for error mentions, keeping a
// capped, deduplicated set.
func collectErrorLines(s *models.Session, text string, seen map[string]bool) {
	if text == "" || len(s.Errors) >= maxErrorLines {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "error") || strings.Contains(lower, "no error") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		s.Errors = append(s.Errors, line)
		if len(s.Errors) >= maxErrorLines {
			return
		}
	}
}

// ScanDir parses every .jsonl session file under root modified after since.
// Logs are organized one directory per project; unreadable files and files
// yielding no session are skipped. A missing root is an empty result, not
// an error.
func ScanDir(root string, since time.Time) ([]*models.Session, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var sessions []*models.Session
	for _, proj := range entries {
		if !proj.IsDir() {
			continue
		}
		projDir := filepath.Join(root, proj.Name())
		files, err := os.ReadDir(projDir)
		if err != nil {
			continue
		}
		for _, fe := range files {
			if fe.IsDir() || !strings.HasSuffix(fe.Name(), ".jsonl") {
				continue
			}
			info, err := fe.Info()
			if err != nil || info.ModTime().Before(since) {
				continue
			}
			s, err := ParseSessionFile(filepath.Join(projDir, fe.Name()))
			if err != nil || s == nil {
				continue
			}
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}
