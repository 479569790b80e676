package usda

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"nutriplan"
)

// defaultTTL keeps cached search results for a month. FoodData Central
// records change rarely, so stale hits are acceptable.
const defaultTTL = 30 * 24 * time.Hour

// Cache wraps a FoodSearcher with a sqlite-backed result cache keyed by
// search term. A cache miss or read error falls through to the inner
// searcher; only successful lookups are stored.
type Cache struct {
	inner nutriplan.FoodSearcher
	db    *sql.DB
	ttl   time.Duration
}

func NewCache(inner nutriplan.FoodSearcher, dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	c := &Cache{inner: inner, db: db, ttl: defaultTTL}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}
	return c, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS food_searches (
        term TEXT PRIMARY KEY,
        results TEXT NOT NULL,
        fetched_at DATETIME NOT NULL
    );
    `
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (c *Cache) Search(ctx context.Context, term string) ([]nutriplan.ReferenceFood, error) {
	if foods, ok := c.lookup(ctx, term); ok {
		return foods, nil
	}

	foods, err := c.inner.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	if err := c.store(ctx, term, foods); err != nil {
		slog.Warn("USDA CACHE: Failed to store search results", "term", term, "error", err)
	}
	return foods, nil
}

func (c *Cache) lookup(ctx context.Context, term string) ([]nutriplan.ReferenceFood, bool) {
	var payload, fetchedAtStr string
	row := c.db.QueryRowContext(ctx,
		`SELECT results, fetched_at FROM food_searches WHERE term = ?`, term)
	if err := row.Scan(&payload, &fetchedAtStr); err != nil {
		if err != sql.ErrNoRows {
			slog.Warn("USDA CACHE: Failed to read cache row", "term", term, "error", err)
		}
		return nil, false
	}

	fetchedAt, err := time.Parse(time.RFC3339, fetchedAtStr)
	if err != nil || time.Since(fetchedAt) > c.ttl {
		return nil, false
	}

	var foods []nutriplan.ReferenceFood
	if err := json.Unmarshal([]byte(payload), &foods); err != nil {
		slog.Warn("USDA CACHE: Discarding corrupt cache row", "term", term, "error", err)
		return nil, false
	}
	return foods, true
}

func (c *Cache) store(ctx context.Context, term string, foods []nutriplan.ReferenceFood) error {
	payload, err := json.Marshal(foods)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO food_searches (term, results, fetched_at) VALUES (?, ?, ?)
         ON CONFLICT(term) DO UPDATE SET results = excluded.results, fetched_at = excluded.fetched_at`,
		term, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write cache row: %w", err)
	}
	return nil
}
