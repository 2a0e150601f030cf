package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joescharf/daybrief/internal/models"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. A single connection
	// serializes all access through Go's connection pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// boolToInt converts a bool to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	// Create migrations tracking table
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	// Sort by filename
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		// Check if already applied
		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Briefings ---

// SaveBriefing archives a generated briefing with its ranked actions and
// quick wins.
func (s *SQLiteStore) SaveBriefing(ctx context.Context, b *models.Briefing) error {
	if b.ID == "" {
		b.ID = newULID()
	}
	if b.GeneratedAt.IsZero() {
		b.GeneratedAt = time.Now().UTC()
	}

	bundle := b.Bundle
	if bundle == nil {
		bundle = &models.SignalBundle{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO briefings (id, generated_at, window_days, session_count, question_count, blocker_count, action_count, quick_win_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.GeneratedAt, b.WindowDays, len(bundle.Sessions), len(bundle.Questions),
		len(bundle.Blockers), len(bundle.Actions), len(bundle.QuickWins),
	)
	if err != nil {
		return fmt.Errorf("insert briefing: %w", err)
	}

	insert := func(item models.ActionItem, quickWin bool) error {
		if item.ID == "" {
			item.ID = newULID()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO actions (id, briefing_id, content, category, priority, source, link, context, effort, start_here, quick_win)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, b.ID, item.Content, string(item.Category), item.Priority,
			item.Source, item.Link, item.Context, string(item.Effort),
			boolToInt(item.StartHere), boolToInt(quickWin),
		)
		return err
	}

	for _, item := range bundle.Actions {
		if err := insert(item, false); err != nil {
			return fmt.Errorf("insert action: %w", err)
		}
	}
	for _, item := range bundle.QuickWins {
		if err := insert(item, true); err != nil {
			return fmt.Errorf("insert quick win: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit briefing: %w", err)
	}
	return nil
}

const briefingColumns = `id, generated_at, window_days, session_count, question_count, blocker_count, action_count, quick_win_count`

func scanBriefing(row interface{ Scan(...any) error }) (*BriefingRecord, error) {
	r := &BriefingRecord{}
	err := row.Scan(&r.ID, &r.GeneratedAt, &r.WindowDays, &r.SessionCount,
		&r.QuestionCount, &r.BlockerCount, &r.ActionCount, &r.QuickWinCount)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *SQLiteStore) GetBriefing(ctx context.Context, id string) (*BriefingRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+briefingColumns+` FROM briefings WHERE id = ?`, id)
	r, err := scanBriefing(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("briefing not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get briefing: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) LatestBriefing(ctx context.Context) (*BriefingRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+briefingColumns+` FROM briefings ORDER BY generated_at DESC, id DESC LIMIT 1`)
	r, err := scanBriefing(row)
	if err == sql.ErrNoRows {
		return nil, nil // no briefings yet is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("latest briefing: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) ListBriefings(ctx context.Context, limit int) ([]*BriefingRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+briefingColumns+` FROM briefings ORDER BY generated_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list briefings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*BriefingRecord
	for rows.Next() {
		r, err := scanBriefing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan briefing: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListActions(ctx context.Context, briefingID string) ([]models.ActionItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, category, priority, source, link, context, effort, start_here
		FROM actions WHERE briefing_id = ? ORDER BY quick_win, priority, id`, briefingID)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.ActionItem
	for rows.Next() {
		var item models.ActionItem
		var category, effort string
		var startHere int
		if err := rows.Scan(&item.ID, &item.Content, &category, &item.Priority,
			&item.Source, &item.Link, &item.Context, &effort, &startHere); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		item.Category = models.ActionCategory(category)
		item.Effort = models.QuickWinEffort(effort)
		item.StartHere = startHere != 0
		out = append(out, item)
	}
	return out, rows.Err()
}
