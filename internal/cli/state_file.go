package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/example/tokenvault/internal/models"
)

// readStateFile loads a project state from a JSON file.
func readStateFile(path string) (*models.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	var st models.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	return &st, nil
}
