package cache

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"
)

// DuckStore is the optional, queryable persistent cache tier backed by
// DuckDB (spec.md §4.4 tier 3). Unlike FileStore it stores the full
// annotation payload alongside its variant key fields, so cached results can
// be inspected or re-exported with SQL without going back through the
// pipeline.
type DuckStore struct {
	db *sql.DB
}

// OpenDuckStore opens or creates a DuckDB-backed annotation cache at path.
// An empty path opens an in-memory database, useful for tests.
func OpenDuckStore(path string) (*DuckStore, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &DuckStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *DuckStore) Close() error {
	return s.db.Close()
}

func (s *DuckStore) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS annotation_cache (
		variant_key VARCHAR PRIMARY KEY,
		chrom VARCHAR,
		pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		payload VARCHAR,
		stored_at TIMESTAMP
	)`)
	return err
}

// CachedResult is one row of the DuckDB annotation cache.
type CachedResult struct {
	VariantKey string
	Chrom      string
	Pos        int64
	Ref        string
	Alt        string
	Payload    json.RawMessage
}

// WriteResults batch-inserts annotation results using the Appender API,
// deduplicating by variant key (spec.md §4.4), replacing any row already
// present for a key.
func (s *DuckStore) WriteResults(results []CachedResult) error {
	if len(results) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(results))
	deduped := make([]CachedResult, 0, len(results))
	for _, r := range results {
		if seen[r.VariantKey] {
			continue
		}
		seen[r.VariantKey] = true
		deduped = append(deduped, r)
	}

	keys := make([]any, len(deduped))
	for i, r := range deduped {
		keys[i] = r.VariantKey
	}
	placeholders := make([]string, len(keys))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	delQuery := fmt.Sprintf("DELETE FROM annotation_cache WHERE variant_key IN (%s)", joinPlaceholders(placeholders))
	if _, err := s.db.Exec(delQuery, keys...); err != nil {
		return fmt.Errorf("clear existing cache rows: %w", err)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "annotation_cache")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range deduped {
		if err := appender.AppendRow(
			r.VariantKey, r.Chrom, r.Pos, r.Ref, r.Alt, string(r.Payload), time.Now(),
		); err != nil {
			return fmt.Errorf("append annotation cache row: %w", err)
		}
	}

	return appender.Flush()
}

// Lookup returns the cached payload for a variant key, if present.
func (s *DuckStore) Lookup(variantKey string) (json.RawMessage, bool, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT payload FROM annotation_cache WHERE variant_key = ?`, variantKey,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup annotation cache row: %w", err)
	}
	return json.RawMessage(payload), true, nil
}

// Clear removes every cached row.
func (s *DuckStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM annotation_cache`)
	if err != nil {
		return fmt.Errorf("clear annotation cache: %w", err)
	}
	return nil
}

// Count returns the number of cached rows.
func (s *DuckStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM annotation_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count annotation cache rows: %w", err)
	}
	return n, nil
}

func joinPlaceholders(ps []string) string {
	out := ps[0]
	for _, p := range ps[1:] {
		out += "," + p
	}
	return out
}
