// Package repository defines the persistence interfaces the service layer
// depends on. The kv subpackage implements them on the asynchronous backing
// store; tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/findnest/findnest/internal/model"
)

// ItemRepository owns the active-items collection.
type ItemRepository interface {
	// Create assigns a store-generated id, writes the record, and refreshes
	// item from the store's authoritative post-write value.
	Create(ctx context.Context, item *model.Item) error
	// GetByID returns apperror.ErrNotFound (wrapped) when no record exists.
	GetByID(ctx context.Context, id string) (*model.Item, error)
	// List returns all active items, empty (never nil error) when the
	// collection is empty.
	List(ctx context.Context) ([]model.Item, error)
	// Update writes the full record at item.ID and refreshes item from the
	// stored value.
	Update(ctx context.Context, item *model.Item) error
	// Delete removes the record from the active collection.
	Delete(ctx context.Context, id string) error
}

// ItemHistoryRepository owns the append-only archive. No mutation operations
// exist: entries are immutable after insertion.
type ItemHistoryRepository interface {
	// Archive writes a structural copy of item under a fresh history id and
	// returns that id.
	Archive(ctx context.Context, item *model.Item) (string, error)
	GetByID(ctx context.Context, id string) (*model.Item, error)
	List(ctx context.Context) ([]model.Item, error)
}

// UserRepository owns profile records keyed by the externally issued
// identity.
type UserRepository interface {
	// Save writes the full profile at user.ID and refreshes user from the
	// stored value. The id is supplied by the caller, never generated here.
	Save(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int, error)
	// SetProfilePicture is a fire-and-forget single-field write.
	SetProfilePicture(id, url string)
	// Delete is best-effort: removal is fire-and-forget and never fails the
	// caller.
	Delete(id string)
}
