// Package storage provides the optional sqlite cache of rendered extraction
// results, keyed by index digest and extraction options. The extractor core
// is stateless; only the CLI layer consults this cache.
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"codeslice/internal/emit"
	"codeslice/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	key        TEXT PRIMARY KEY,
	run_id     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	payload    BLOB NOT NULL
);
`

// DB is the result-cache database handle
type DB struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Open opens or creates the cache database at <root>/.codeslice/cache.db
func Open(root string, logger *logging.Logger) (*DB, error) {
	dir := filepath.Join(root, ".codeslice")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .codeslice directory: %w", err)
	}

	dbPath := filepath.Join(dir, "cache.db")
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{conn: conn, logger: logger, dbPath: dbPath}, nil
}

// Close releases the database handle
func (db *DB) Close() error {
	return db.conn.Close()
}

// Key derives the cache key for one extraction: the index digest plus every
// option that affects the rendered output.
func Key(indexDigest string, rootFiles []string, depth int, mode string, excludeRoot bool, excludedPrefixes []string) string {
	roots := append([]string(nil), rootFiles...)
	sort.Strings(roots)
	prefixes := append([]string(nil), excludedPrefixes...)
	sort.Strings(prefixes)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%s|%t|%s",
		indexDigest,
		strings.Join(roots, ","),
		depth,
		mode,
		excludeRoot,
		strings.Join(prefixes, ","),
	)
	return hex.EncodeToString(h.Sum(nil))
}

// IndexDigest fingerprints an index file by path, size, and mtime
func IndexDigest(indexPath string) (string, error) {
	info, err := os.Stat(indexPath)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d", indexPath, info.Size(), info.ModTime().UnixNano())
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get retrieves a cached result set, returning ok=false on miss
func (db *DB) Get(key string) ([]emit.FileResult, bool) {
	var payload []byte
	row := db.conn.QueryRow("SELECT payload FROM results WHERE key = ?", key)
	if err := row.Scan(&payload); err != nil {
		if err != sql.ErrNoRows {
			db.logger.Warn("result cache read failed", "error", err.Error())
		}
		return nil, false
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, false
	}
	defer decoder.Close()

	raw, err := decoder.DecodeAll(payload, nil)
	if err != nil {
		db.logger.Warn("result cache payload corrupt, ignoring", "key", key)
		return nil, false
	}

	var results []emit.FileResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false
	}
	return results, true
}

// Put stores a result set under key
func (db *DB) Put(key string, results []emit.FileResult) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return err
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	payload := encoder.EncodeAll(raw, nil)
	encoder.Close()

	_, err = db.conn.Exec(
		"INSERT OR REPLACE INTO results (key, run_id, created_at, payload) VALUES (?, ?, ?, ?)",
		key,
		uuid.NewString(),
		time.Now().UTC().Format(time.RFC3339),
		payload,
	)
	return err
}

// Clear drops every cached result
func (db *DB) Clear() error {
	_, err := db.conn.Exec("DELETE FROM results")
	return err
}
