package store

import (
	"context"
	"fmt"
	"sync"
)

type readOutcome struct {
	snap Snapshot
	err  error
}

// Read issues a one-shot read at path and blocks until the store notifies,
// returning exactly one of: a snapshot (present or absent) or an error.
//
// The synchronization primitive is owned per call and never reused: a
// buffered channel guarded by sync.Once. The first notification wins; if a
// misbehaving store notifies again, the extra call is swallowed rather than
// double-resolved. If ctx is cancelled the caller detaches and returns
// ctx.Err(): the store may still complete the read internally, and that
// late resolution parks harmlessly in the buffered channel.
func Read(ctx context.Context, s Store, path string) (Snapshot, error) {
	done := make(chan readOutcome, 1)
	var once sync.Once

	s.ReadOnce(path, func(snap Snapshot, err error) {
		once.Do(func() {
			done <- readOutcome{snap: snap, err: err}
		})
	})

	select {
	case out := <-done:
		if out.err != nil {
			return Snapshot{}, fmt.Errorf("store: reading %s: %w", path, out.err)
		}
		return out.snap, nil
	case <-ctx.Done():
		return Snapshot{}, fmt.Errorf("store: reading %s: %w", path, ctx.Err())
	}
}
