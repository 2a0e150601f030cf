package github

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joescharf/daybrief/internal/models"
)

// LoadActivity reads pre-fetched GitHub activity from a local JSON file.
// The fetch itself happens outside this program (e.g. a gh-based cron
// job); the pipeline only consumes the already-structured result. A
// missing file is an empty activity set, not an error.
func LoadActivity(path string) (*models.Activity, error) {
	if path == "" {
		return &models.Activity{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Activity{}, nil
		}
		return nil, fmt.Errorf("read activity file: %w", err)
	}

	var activity models.Activity
	if err := json.Unmarshal(data, &activity); err != nil {
		return nil, fmt.Errorf("parse activity file: %w", err)
	}
	return &activity, nil
}
