package kv

import (
	"context"

	"github.com/findnest/findnest/internal/model"
	"github.com/findnest/findnest/internal/repository"
	"github.com/findnest/findnest/internal/store"
)

// Compile-time interface check.
var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo is the active-items repository.
type ItemRepo struct {
	store store.Store
}

// NewItemRepo creates an ItemRepo on the given store.
func NewItemRepo(s store.Store) *ItemRepo {
	return &ItemRepo{store: s}
}

// Create assigns a fresh store-generated id, writes the full record, and
// reloads item with the stored form.
func (r *ItemRepo) Create(ctx context.Context, item *model.Item) error {
	item.ID = r.store.GenerateKey(itemsPath)
	r.store.Write(store.Join(itemsPath, item.ID), item)
	return confirmWrite(ctx, r.store, itemsPath, item.ID, item)
}

// GetByID returns the item, or a NotFound error when nothing lives at id.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	if err := readRecord(ctx, r.store, itemsPath, "item", id, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns every active item in key order (keys are time-ordered, so
// this is creation order).
func (r *ItemRepo) List(ctx context.Context) ([]model.Item, error) {
	return readCollection[model.Item](ctx, r.store, itemsPath)
}

// Update writes the full record at item.ID and reloads item with the stored
// form. Existence checks belong to the caller; a bare Update happily creates.
func (r *ItemRepo) Update(ctx context.Context, item *model.Item) error {
	r.store.Write(store.Join(itemsPath, item.ID), item)
	return confirmWrite(ctx, r.store, itemsPath, item.ID, item)
}

// Delete removes the record from the active collection. Removing an absent
// id is a store-level no-op.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	r.store.Remove(store.Join(itemsPath, id))
	return nil
}
