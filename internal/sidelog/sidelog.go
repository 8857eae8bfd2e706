// Package sidelog maintains the append-only diagnostic log of journal names
// that concept extraction could not classify. Format: one journal name per
// line, no further structure. The log is assumed single-writer.
package sidelog

import (
	"fmt"
	"os"
	"sync"
)

// Log records journal names for later curation. Appends are never
// deduplicated: every miss is logged, even repeats.
type Log interface {
	Append(name string) error
}

// FileLog appends to a text file, creating it on first use.
type FileLog struct {
	path string
}

// NewFileLog creates a file-backed side-log at the given path.
func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

// Append writes one journal name as a new line.
func (l *FileLog) Append(name string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open side-log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, name); err != nil {
		return fmt.Errorf("append to side-log: %w", err)
	}
	return nil
}

// MemoryLog is an in-memory side-log for tests.
type MemoryLog struct {
	mu      sync.Mutex
	entries []string
}

// NewMemoryLog creates an empty in-memory side-log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append records one journal name.
func (l *MemoryLog) Append(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, name)
	return nil
}

// Entries returns a copy of everything appended so far.
func (l *MemoryLog) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}
