// Package store defines the backing-store contract the repositories are
// written against, the bridge that turns its one-shot asynchronous reads
// into blocking calls, and a SQLite-backed implementation.
//
// The store is a schemaless, hierarchical key-value space. Paths look like
// "items" (a collection) or "items/cv37rs3pp9olc6atsptg" (a record).
// Writes and removes are fire-and-forget; reads notify completion through a
// callback that the store promises to invoke once.
package store

import "encoding/json"

// Child is one entry under a collection path, keyed by its store-generated id.
type Child struct {
	Key   string
	Value json.RawMessage
}

// Snapshot is the result of a one-shot read.
//
// For a record path, Value holds the record's JSON and Children is nil.
// For a collection path, Children holds the records in key order.
// Exists is false when nothing lives at the path: that is an ordinary
// outcome, not an error.
type Snapshot struct {
	Exists   bool
	Value    json.RawMessage
	Children []Child
}

// Store is the asynchronous backing-store contract.
//
// Implementations must invoke the ReadOnce callback exactly once, from any
// goroutine. Write and Remove return before the operation completes; their
// failures are the implementation's to report (typically by logging).
// Operations issued by one caller are applied in submission order.
type Store interface {
	// GenerateKey returns a fresh unique child key for the collection at
	// path. Key generation is local: it never touches the backing medium.
	GenerateKey(path string) string

	// Write stores value (JSON-encodable) at path, replacing whatever was
	// there. A write at "collection/id/field" merges the single field into
	// the record at "collection/id".
	Write(path string, value any)

	// ReadOnce reads the value at path and calls fn exactly once with the
	// snapshot or a read error (never both meaningful at once).
	ReadOnce(path string, fn func(Snapshot, error))

	// Remove deletes the value at path. Removing an absent path is a no-op.
	Remove(path string)
}

// Join builds a path from segments. Segments must be non-empty and must not
// contain '/'.
func Join(segments ...string) string {
	path := ""
	for i, s := range segments {
		if i > 0 {
			path += "/"
		}
		path += s
	}
	return path
}
