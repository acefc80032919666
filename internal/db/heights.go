package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/turbo/internal/scroller"
)

var _ scroller.HeightStore[string] = (*HeightStore)(nil)

const (
	selectHeights = "SELECT item_key, height FROM heights WHERE cache_key = ?"
	deleteHeights = "DELETE FROM heights WHERE cache_key = ?"
	insertHeight  = "INSERT INTO heights (cache_key, item_key, height, updated_at) VALUES (?, ?, ?, ?)"
	listCaches    = "SELECT cache_key, COUNT(*), MAX(updated_at) FROM heights GROUP BY cache_key ORDER BY cache_key"
)

// CacheInfo describes one stored height cache.
type CacheInfo struct {
	Key       string    `json:"key"`
	Entries   int       `json:"entries"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HeightStore keeps measured heights in sqlite so they survive restarts.
// Failures are logged and reported to the engine as a missing cache.
type HeightStore struct {
	db      *sql.DB
	timeout time.Duration

	selectStmt *sql.Stmt
	deleteStmt *sql.Stmt
	insertStmt *sql.Stmt
}

// NewHeightStore prepares the statements used by the store.
func NewHeightStore(ctx context.Context, db *sql.DB) (*HeightStore, error) {
	s := &HeightStore{db: db, timeout: 5 * time.Second}

	stmts := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.selectStmt, selectHeights},
		{&s.deleteStmt, deleteHeights},
		{&s.insertStmt, insertHeight},
	}
	for _, st := range stmts {
		stmt, err := db.PrepareContext(ctx, st.query)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to prepare statement: %w", err)
		}
		*st.dst = stmt
	}
	return s, nil
}

// Get implements scroller.HeightStore.
func (s *HeightStore) Get(cacheKey string) (scroller.Heights[string], bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	m, err := s.Load(ctx, cacheKey)
	if err != nil {
		slog.Error("Failed to load heights", "key", cacheKey, "error", err)
		return scroller.Heights[string]{}, false
	}
	if len(m) == 0 {
		return scroller.Heights[string]{}, false
	}
	return scroller.NewHeights(m), true
}

// Set implements scroller.HeightStore.
func (s *HeightStore) Set(cacheKey string, heights scroller.Heights[string]) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.Save(ctx, cacheKey, heights.Map()); err != nil {
		slog.Error("Failed to save heights", "key", cacheKey, "error", err)
	}
}

// Load returns the heights stored under cacheKey.
func (s *HeightStore) Load(ctx context.Context, cacheKey string) (map[string]float64, error) {
	rows, err := s.selectStmt.QueryContext(ctx, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query heights: %w", err)
	}
	defer rows.Close()

	m := make(map[string]float64)
	for rows.Next() {
		var (
			key    string
			height float64
		)
		if err := rows.Scan(&key, &height); err != nil {
			return nil, fmt.Errorf("failed to scan height: %w", err)
		}
		m[key] = height
	}
	return m, rows.Err()
}

// Save replaces the heights stored under cacheKey.
func (s *HeightStore) Save(ctx context.Context, cacheKey string, heights map[string]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.StmtContext(ctx, s.deleteStmt).ExecContext(ctx, cacheKey); err != nil {
		return fmt.Errorf("failed to clear heights: %w", err)
	}

	insert := tx.StmtContext(ctx, s.insertStmt)
	now := time.Now().UnixMilli()
	for key, height := range heights {
		if _, err := insert.ExecContext(ctx, cacheKey, key, height, now); err != nil {
			return fmt.Errorf("failed to insert height of %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit heights: %w", err)
	}
	slog.Debug("Saved heights", "key", cacheKey, "entries", len(heights))
	return nil
}

// Caches lists every stored height cache.
func (s *HeightStore) Caches(ctx context.Context) ([]CacheInfo, error) {
	rows, err := s.db.QueryContext(ctx, listCaches)
	if err != nil {
		return nil, fmt.Errorf("failed to list caches: %w", err)
	}
	defer rows.Close()

	var caches []CacheInfo
	for rows.Next() {
		var (
			info    CacheInfo
			updated int64
		)
		if err := rows.Scan(&info.Key, &info.Entries, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan cache: %w", err)
		}
		info.UpdatedAt = time.UnixMilli(updated)
		caches = append(caches, info)
	}
	return caches, rows.Err()
}

// Clear removes the cache stored under cacheKey and returns the number of
// heights removed.
func (s *HeightStore) Clear(ctx context.Context, cacheKey string) (int64, error) {
	res, err := s.deleteStmt.ExecContext(ctx, cacheKey)
	if err != nil {
		return 0, fmt.Errorf("failed to clear heights: %w", err)
	}
	return res.RowsAffected()
}

// ClearAll removes every cache.
func (s *HeightStore) ClearAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM heights")
	if err != nil {
		return 0, fmt.Errorf("failed to clear heights: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the prepared statements. The database stays open.
func (s *HeightStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.selectStmt, s.deleteStmt, s.insertStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
