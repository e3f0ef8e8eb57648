package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rs/xid"

	// Registers the pure-Go "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// Compile-time interface check.
var _ Store = (*SQLite)(nil)

// SQLite implements Store on an embedded SQLite database.
//
// Every path maps to a row in a single records table holding the JSON value.
// All operations are pushed onto a dispatch queue consumed by one worker
// goroutine: callers return immediately, callbacks fire from the worker, and
// operations issued by one caller are applied in submission order: a read
// issued after a write observes that write.
type SQLite struct {
	conn   *sql.DB
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	ops    chan func()
	done   chan struct{}
}

// queueDepth bounds how many operations may be in flight before callers
// block on submission.
const queueDepth = 256

// NewSQLite opens (or creates) the database at dbPath and starts the
// dispatch worker. Use ":memory:" for a throwaway in-memory store in tests.
func NewSQLite(dbPath string, logger *slog.Logger) (*SQLite, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: pinging database: %w", err)
	}

	// WAL keeps readers unblocked while the worker writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			path  TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: creating records table: %w", err)
	}

	s := &SQLite{
		conn:   conn,
		logger: logger,
		ops:    make(chan func(), queueDepth),
		done:   make(chan struct{}),
	}
	go s.dispatch()

	return s, nil
}

// dispatch runs queued operations in order until Close.
func (s *SQLite) dispatch() {
	defer close(s.done)
	for op := range s.ops {
		op()
	}
}

// Close drains the dispatch queue, waits for the worker, and closes the
// database. Operations submitted after Close are dropped.
func (s *SQLite) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.ops)
	s.mu.Unlock()

	<-s.done
	return s.conn.Close()
}

// enqueue submits op to the worker. Returns false if the store is closed.
func (s *SQLite) enqueue(op func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.ops <- op
	return true
}

// GenerateKey returns a fresh unique key. Generation is purely local, and
// keys sort by creation time, so collection reads come back in insertion
// order.
func (s *SQLite) GenerateKey(string) string {
	return xid.New().String()
}

// Write stores value at path, fire-and-forget. Failures are logged, never
// raised: callers that need the post-write state re-read it.
func (s *SQLite) Write(path string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("store: encoding value for write",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return
	}

	ok := s.enqueue(func() {
		var err error
		if parts := strings.SplitN(path, "/", 3); len(parts) == 3 {
			err = s.mergeField(parts[0]+"/"+parts[1], parts[2], raw)
		} else {
			err = s.upsert(path, raw)
		}
		if err != nil {
			s.logger.Error("store: write failed",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
	})
	if !ok {
		s.logger.Warn("store: write after close dropped", slog.String("path", path))
	}
}

func (s *SQLite) upsert(path string, raw []byte) error {
	_, err := s.conn.Exec(
		`INSERT INTO records (path, value) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET value = excluded.value`,
		path, string(raw),
	)
	return err
}

// mergeField folds a single-field write at "collection/id/field" into the
// record row at "collection/id", creating the record if it is absent.
func (s *SQLite) mergeField(recordPath, field string, raw []byte) error {
	record := map[string]json.RawMessage{}

	var stored string
	err := s.conn.QueryRow(
		`SELECT value FROM records WHERE path = ?`, recordPath,
	).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		// new record with just this field
	case err != nil:
		return fmt.Errorf("reading %s for merge: %w", recordPath, err)
	default:
		if err := json.Unmarshal([]byte(stored), &record); err != nil {
			return fmt.Errorf("decoding %s for merge: %w", recordPath, err)
		}
	}

	record[field] = raw
	merged, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding merged %s: %w", recordPath, err)
	}
	return s.upsert(recordPath, merged)
}

// ReadOnce reads path and invokes fn exactly once from the worker.
func (s *SQLite) ReadOnce(path string, fn func(Snapshot, error)) {
	ok := s.enqueue(func() {
		fn(s.read(path))
	})
	if !ok {
		fn(Snapshot{}, fmt.Errorf("store: closed"))
	}
}

func (s *SQLite) read(path string) (Snapshot, error) {
	// Record path: exact row.
	var value string
	err := s.conn.QueryRow(
		`SELECT value FROM records WHERE path = ?`, path,
	).Scan(&value)
	if err == nil {
		return Snapshot{Exists: true, Value: json.RawMessage(value)}, nil
	}
	if err != sql.ErrNoRows {
		return Snapshot{}, fmt.Errorf("querying %s: %w", path, err)
	}

	// Collection path: direct children, in key order.
	rows, err := s.conn.Query(
		`SELECT path, value FROM records WHERE path LIKE ? || '/%' ORDER BY path`,
		path,
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying children of %s: %w", path, err)
	}
	defer rows.Close()

	var children []Child
	for rows.Next() {
		var childPath, childValue string
		if err := rows.Scan(&childPath, &childValue); err != nil {
			return Snapshot{}, fmt.Errorf("scanning child of %s: %w", path, err)
		}
		key := strings.TrimPrefix(childPath, path+"/")
		if strings.Contains(key, "/") {
			continue // grandchild rows are not direct children
		}
		children = append(children, Child{Key: key, Value: json.RawMessage(childValue)})
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterating children of %s: %w", path, err)
	}

	if len(children) == 0 {
		return Snapshot{Exists: false}, nil
	}
	return Snapshot{Exists: true, Children: children}, nil
}

// Remove deletes path and everything beneath it, fire-and-forget.
func (s *SQLite) Remove(path string) {
	ok := s.enqueue(func() {
		_, err := s.conn.Exec(
			`DELETE FROM records WHERE path = ? OR path LIKE ? || '/%'`,
			path, path,
		)
		if err != nil {
			s.logger.Error("store: remove failed",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
	})
	if !ok {
		s.logger.Warn("store: remove after close dropped", slog.String("path", path))
	}
}
