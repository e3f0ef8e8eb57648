package kv

import (
	"context"

	"github.com/findnest/findnest/internal/model"
	"github.com/findnest/findnest/internal/repository"
	"github.com/findnest/findnest/internal/store"
)

// Compile-time interface check.
var _ repository.ItemHistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo is the append-only archive of removed items.
type HistoryRepo struct {
	store store.Store
}

// NewHistoryRepo creates a HistoryRepo on the given store.
func NewHistoryRepo(s store.Store) *HistoryRepo {
	return &HistoryRepo{store: s}
}

// Archive writes a structural copy of item under a fresh history id,
// independent of the item's origin id, and confirms the write landed before
// returning the new id. The caller's item is left untouched.
func (r *HistoryRepo) Archive(ctx context.Context, item *model.Item) (string, error) {
	entry := *item
	entry.ID = r.store.GenerateKey(historyPath)
	r.store.Write(store.Join(historyPath, entry.ID), entry)
	if err := confirmWrite(ctx, r.store, historyPath, entry.ID, &entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// GetByID returns the archived entry at id.
func (r *HistoryRepo) GetByID(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	if err := readRecord(ctx, r.store, historyPath, "history item", id, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns every archived entry in archival order.
func (r *HistoryRepo) List(ctx context.Context) ([]model.Item, error) {
	return readCollection[model.Item](ctx, r.store, historyPath)
}
