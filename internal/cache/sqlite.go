package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"vibescan/internal/logging"
)

// SQLiteStore persists cache entries in a single SQLite database, one
// table per namespace. WAL mode plus upserts give per-key atomicity, so
// several vibescan processes can share one cache file.
type SQLiteStore struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// OpenSQLite opens or creates the cache database under dir.
func OpenSQLite(dir string, logger *logging.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	dbPath := filepath.Join(dir, "cache.db")

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",    // concurrent readers during writes
		"PRAGMA synchronous=NORMAL",  // balance between safety and speed
		"PRAGMA busy_timeout=5000",   // wait up to 5 seconds on lock
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	s := &SQLiteStore{conn: conn, logger: logger, dbPath: dbPath}
	if err := s.initializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}

	logger.Debug("cache database open", map[string]interface{}{
		"path": dbPath,
	})
	return s, nil
}

func (s *SQLiteStore) initializeSchema() error {
	for _, ns := range Namespaces {
		table, err := tableFor(ns)
		if err != nil {
			return err
		}
		schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			created_at INTEGER NOT NULL DEFAULT (unixepoch())
		)`, table)
		if _, err := s.conn.Exec(schema); err != nil {
			return fmt.Errorf("creating table %s: %w", table, err)
		}
	}
	return nil
}

// tableFor maps a namespace to its table, rejecting anything else so
// namespaces never reach SQL as raw strings.
func tableFor(ns Namespace) (string, error) {
	switch ns {
	case NSReport:
		return "report_cache", nil
	case NSSymbols:
		return "symbol_cache", nil
	case NSDir:
		return "dir_cache", nil
	default:
		return "", fmt.Errorf("unknown cache namespace %q", ns)
	}
}

func (s *SQLiteStore) Get(ns Namespace, key ContentHash) ([]byte, bool, error) {
	table, err := tableFor(ns)
	if err != nil {
		return nil, false, err
	}

	var value []byte
	err = s.conn.QueryRow(
		fmt.Sprintf("SELECT value FROM %s WHERE key = ?", table), key.Hex(),
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", table, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Put(ns Namespace, key ContentHash, value []byte) error {
	table, err := tableFor(ns)
	if err != nil {
		return err
	}

	_, err = s.conn.Exec(fmt.Sprintf(
		`INSERT INTO %s (key, value, created_at) VALUES (?, ?, unixepoch())
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, table),
		key.Hex(), value)
	if err != nil {
		return fmt.Errorf("writing %s: %w", table, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ns Namespace, key ContentHash) error {
	table, err := tableFor(ns)
	if err != nil {
		return err
	}
	if _, err := s.conn.Exec(fmt.Sprintf("DELETE FROM %s WHERE key = ?", table), key.Hex()); err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	return nil
}

func (s *SQLiteStore) Count(ns Namespace) (int, error) {
	table, err := tableFor(ns)
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.conn.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

func (s *SQLiteStore) Clear() error {
	for _, ns := range Namespaces {
		table, err := tableFor(ns)
		if err != nil {
			return err
		}
		if _, err := s.conn.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string { return s.dbPath }
