package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps one newline-terminated text file per user under a base
// directory. Replace goes through a temp file + rename so readers never see
// a half-written snapshot.
type FSStore struct {
	dir string
}

// NewFSStore creates a filesystem store rooted at dir, creating it if
// needed.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) path(userID string) string {
	return filepath.Join(s.dir, userID+".txt")
}

// Fetch reads the user's file and splits it into lines. Trailing newline is
// not reported as an empty line.
func (s *FSStore) Fetch(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(userID))
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read record file for %s: %w", userID, err)
	}

	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}

// Replace writes the lines as the user's new snapshot.
func (s *FSStore) Replace(ctx context.Context, userID string, lines []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(s.dir, userID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp record file for %s: %w", userID, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write record file for %s: %w", userID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close record file for %s: %w", userID, err)
	}

	if err := os.Rename(tmpName, s.path(userID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace record file for %s: %w", userID, err)
	}
	return nil
}
