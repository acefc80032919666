// Package history remembers the filter queries typed into the feed.
package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// DefaultMaxSize is the number of queries kept when none is given.
const DefaultMaxSize = 100

// Queries is a most-recent-last list of queries with a cursor for stepping
// through them. With a path, every change is written to disk.
type Queries struct {
	mu      sync.Mutex
	entries []string
	cursor  int
	draft   string
	path    string
	maxSize int
}

// Open loads the queries stored at path. An empty path keeps queries in
// memory only. A missing file is an empty history.
func Open(path string, maxSize int) (*Queries, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	q := &Queries{path: path, maxSize: maxSize}
	if path != "" {
		if err := q.load(); err != nil {
			return nil, fmt.Errorf("failed to load query history: %w", err)
		}
	}
	q.cursor = len(q.entries)
	return q, nil
}

// Add records query as the most recent one. Blank queries are ignored and a
// repeated query moves to the end.
func (q *Queries) Add(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.entries = slices.DeleteFunc(q.entries, func(e string) bool { return e == query })
	q.entries = append(q.entries, query)
	if over := len(q.entries) - q.maxSize; over > 0 {
		q.entries = slices.Delete(q.entries, 0, over)
	}
	q.cursor = len(q.entries)
	q.draft = ""
	return q.save()
}

// Previous steps back and returns the older query. current is kept as the
// draft the walk started from; at the oldest entry it stays put.
func (q *Queries) Previous(current string) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return current
	}
	if q.cursor == len(q.entries) {
		q.draft = current
	}
	q.cursor = max(q.cursor-1, 0)
	return q.entries[q.cursor]
}

// Next steps forward. Stepping past the newest query returns the draft.
func (q *Queries) Next(current string) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.cursor >= len(q.entries) {
		return current
	}
	q.cursor++
	if q.cursor == len(q.entries) {
		return q.draft
	}
	return q.entries[q.cursor]
}

// Reset moves the cursor past the newest query.
func (q *Queries) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cursor = len(q.entries)
	q.draft = ""
}

// Recent returns up to n queries, newest first.
func (q *Queries) Recent(n int) []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	n = min(max(n, 0), len(q.entries))
	out := slices.Clone(q.entries[len(q.entries)-n:])
	slices.Reverse(out)
	return out
}

func (q *Queries) load() error {
	f, err := os.Open(q.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			q.entries = append(q.entries, line)
		}
	}
	if over := len(q.entries) - q.maxSize; over > 0 {
		q.entries = q.entries[over:]
	}
	return scanner.Err()
}

// save replaces the file in one rename so a crash never leaves half a
// history behind.
func (q *Queries) save() error {
	if q.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(q.path), 0o700); err != nil {
		return err
	}
	tmp := q.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.Join(q.entries, "\n")+"\n"), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, q.path)
}
