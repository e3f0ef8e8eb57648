// Package kv implements the repository interfaces on the asynchronous
// backing store. Every read goes through the store bridge; writes are
// fire-and-forget at the store level, so operations that return the
// post-write record re-read it rather than echoing their input.
package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/findnest/findnest/internal/apperror"
	"github.com/findnest/findnest/internal/store"
)

// Collection paths. Active items, archived items, and users are logically
// independent namespaces with no cross-collection coordination.
const (
	itemsPath   = "items"
	historyPath = "itemsHistory"
	usersPath   = "users"
)

// readRecord fetches the record at collection/id and decodes it into out.
// Absent records map to apperror.ErrNotFound; store faults map to
// apperror.ErrStoreRead: the two are never conflated.
func readRecord(ctx context.Context, s store.Store, collection, resource, id string, out any) error {
	path := store.Join(collection, id)
	snap, err := store.Read(ctx, s, path)
	if err != nil {
		return apperror.StoreReadFailed(path, err)
	}
	if !snap.Exists {
		return apperror.NotFound(resource, id)
	}
	if err := json.Unmarshal(snap.Value, out); err != nil {
		return apperror.StoreReadFailed(path, fmt.Errorf("decoding record: %w", err))
	}
	return nil
}

// readCollection fetches every child of collection and decodes each into a T.
// An empty or absent collection yields an empty slice.
func readCollection[T any](ctx context.Context, s store.Store, collection string) ([]T, error) {
	snap, err := store.Read(ctx, s, collection)
	if err != nil {
		return nil, apperror.StoreReadFailed(collection, err)
	}

	records := make([]T, 0, len(snap.Children))
	for _, child := range snap.Children {
		var record T
		if err := json.Unmarshal(child.Value, &record); err != nil {
			return nil, apperror.StoreReadFailed(
				store.Join(collection, child.Key),
				fmt.Errorf("decoding record: %w", err),
			)
		}
		records = append(records, record)
	}
	return records, nil
}

// confirmWrite re-reads collection/id after a fire-and-forget write and
// decodes the store's authoritative value into out. A confirming read that
// comes back absent means the write was lost.
func confirmWrite(ctx context.Context, s store.Store, collection, id string, out any) error {
	path := store.Join(collection, id)
	snap, err := store.Read(ctx, s, path)
	if err != nil {
		return apperror.StoreWriteFailed(path, err)
	}
	if !snap.Exists {
		return apperror.StoreWriteFailed(path, nil)
	}
	if err := json.Unmarshal(snap.Value, out); err != nil {
		return apperror.StoreWriteFailed(path, fmt.Errorf("decoding stored record: %w", err))
	}
	return nil
}
