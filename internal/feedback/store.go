package feedback

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joescharf/daybrief/internal/models"
)

const (
	feedbackLogName = "feedback.jsonl"
	prioritiesName  = "priorities.yaml"
)

// Store persists feedback entries and topic priorities under an explicit
// data directory. The feedback log is append-only, one JSON record per
// line; the priority snapshot is a flat YAML list rewritten whole. The
// design assumes a single writer per invocation.
type Store struct {
	dataDir string
}

// NewStore creates a Store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// Append writes one feedback entry to the end of the log.
func (s *Store) Append(entry models.FeedbackEntry) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal feedback entry: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(s.dataDir, feedbackLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open feedback log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append feedback entry: %w", err)
	}
	return nil
}

// Load reads all feedback entries. Corrupt lines are skipped; a missing
// log is an empty history, not an error.
func (s *Store) Load() ([]models.FeedbackEntry, error) {
	f, err := os.Open(filepath.Join(s.dataDir, feedbackLogName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open feedback log: %w", err)
	}
	defer f.Close()

	var entries []models.FeedbackEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e models.FeedbackEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

// LoadPriorities reads the topic priority snapshot. Missing snapshot means
// no priorities.
func (s *Store) LoadPriorities() ([]models.TopicPriority, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, prioritiesName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read priorities: %w", err)
	}

	var priorities []models.TopicPriority
	if err := yaml.Unmarshal(data, &priorities); err != nil {
		return nil, fmt.Errorf("parse priorities: %w", err)
	}
	return priorities, nil
}

// SavePriorities rewrites the whole priority snapshot, sorted by topic for
// stable diffs.
func (s *Store) SavePriorities(priorities []models.TopicPriority) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	sort.Slice(priorities, func(i, j int) bool {
		return priorities[i].Topic < priorities[j].Topic
	})

	data, err := yaml.Marshal(priorities)
	if err != nil {
		return fmt.Errorf("marshal priorities: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dataDir, prioritiesName), data, 0644); err != nil {
		return fmt.Errorf("write priorities: %w", err)
	}
	return nil
}

// SetUserPriority records an explicit user choice for a topic. User-set
// priorities are never overwritten by feedback derivation.
func (s *Store) SetUserPriority(topic string, level models.PriorityLevel) error {
	priorities, err := s.LoadPriorities()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	updated := false
	for i := range priorities {
		if priorities[i].Topic == topic {
			priorities[i].Level = level
			priorities[i].Reason = models.PriorityReasonUserSet
			priorities[i].UpdatedAt = now
			updated = true
			break
		}
	}
	if !updated {
		priorities = append(priorities, models.TopicPriority{
			Topic:     topic,
			Level:     level,
			Reason:    models.PriorityReasonUserSet,
			UpdatedAt: now,
		})
	}
	return s.SavePriorities(priorities)
}
