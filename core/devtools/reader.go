package devtools

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ai-stats/ai-stats-go/internal/utils"
)

// ReadEntries loads every entry from dir/generations.jsonl in file order. A
// missing file yields no entries. Lines that are not valid JSON, such as one
// cut short by a crash mid-write, are repaired when possible and skipped with
// a warning otherwise.
func ReadEntries(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, GenerationsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening generations file: %w", err)
	}
	defer utils.CloseWithLog(f)

	var entries []Entry
	reader := bufio.NewReader(f)
	for lineNo := 1; ; lineNo++ {
		line, readErr := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			var entry Entry
			repaired, err := utils.UnmarshalLenient(line, &entry)
			switch {
			case err != nil:
				slog.Warn("devtools: skipping unreadable entry", "line", lineNo, "error", err.Error())
			case entry.ID == "" && entry.Type == "":
				slog.Warn("devtools: skipping empty entry", "line", lineNo)
			default:
				if repaired {
					slog.Warn("devtools: repaired truncated entry", "line", lineNo, "id", entry.ID)
				}
				entries = append(entries, entry)
			}
		}
		if readErr == io.EOF {
			return entries, nil
		}
		if readErr != nil {
			return entries, fmt.Errorf("error reading generations file: %w", readErr)
		}
	}
}

// ReadSessionMetadata loads dir/metadata.json.
func ReadSessionMetadata(dir string) (*SessionMetadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, fmt.Errorf("error reading session metadata: %w", err)
	}
	var meta SessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("error decoding session metadata: %w", err)
	}
	return &meta, nil
}

// Clear removes the event log and session metadata from dir. Files that do
// not exist are ignored; asset directories are left in place.
func Clear(dir string) error {
	for _, name := range []string{GenerationsFile, MetadataFile} {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error removing %s: %w", name, err)
		}
	}
	return nil
}
