// Package state persists the watermark map: the last-seen commit id per
// repository URL, the only durable state the tool keeps between runs.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Map holds the last observed commit id keyed by repository URL. A URL is
// present only after at least one run saw new commits for it.
type Map map[string]string

// fileState is the on-disk shape of the watermark file. JSON keeps the file
// human-diffable; map keys serialize in sorted order.
type fileState struct {
	LastSeen Map `json:"last_seen"`
}

// DefaultPath returns the watermark file location under the cache root.
func DefaultPath(cacheRoot string) string {
	return filepath.Join(cacheRoot, "state.json")
}

// Load reads the watermark map from path. A missing or unparseable file
// yields an empty map, never an error: first runs and corrupted state both
// degrade to "everything is new".
func Load(path string) Map {
	data, err := os.ReadFile(path)
	if err != nil {
		return Map{}
	}

	var fs fileState
	if err := json.Unmarshal(data, &fs); err != nil || fs.LastSeen == nil {
		return Map{}
	}
	return fs.LastSeen
}

// Save writes the watermark map to path, replacing any previous file. The
// write goes through a temp file in the same directory and a rename so a
// crash cannot leave a truncated state file behind.
func Save(m Map, path string) error {
	data, err := json.MarshalIndent(fileState{LastSeen: m}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
