package kv

import (
	"context"

	"github.com/findnest/findnest/internal/apperror"
	"github.com/findnest/findnest/internal/model"
	"github.com/findnest/findnest/internal/repository"
	"github.com/findnest/findnest/internal/store"
)

// Compile-time interface check.
var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo stores user profiles keyed by the identity-provider-issued id.
// The store is purely a profile cache; the identity provider stays
// authoritative for existence and credentials.
type UserRepo struct {
	store store.Store
}

// NewUserRepo creates a UserRepo on the given store.
func NewUserRepo(s store.Store) *UserRepo {
	return &UserRepo{store: s}
}

// Save writes the full profile at user.ID and reloads user with the stored
// form.
func (r *UserRepo) Save(ctx context.Context, user *model.User) error {
	r.store.Write(store.Join(usersPath, user.ID), user)
	return confirmWrite(ctx, r.store, usersPath, user.ID, user)
}

// GetByID returns the profile, or a NotFound error.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := readRecord(ctx, r.store, usersPath, "user", id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every profile.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	return readCollection[model.User](ctx, r.store, usersPath)
}

// Count returns the number of profiles as of one read snapshot.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	snap, err := store.Read(ctx, r.store, usersPath)
	if err != nil {
		return 0, apperror.StoreReadFailed(usersPath, err)
	}
	return len(snap.Children), nil
}

// SetProfilePicture writes only the profilePicture attribute of the profile,
// fire-and-forget. Failures are the store's to log.
func (r *UserRepo) SetProfilePicture(id, url string) {
	r.store.Write(store.Join(usersPath, id, "profilePicture"), url)
}

// Delete removes the profile, fire-and-forget.
func (r *UserRepo) Delete(id string) {
	r.store.Remove(store.Join(usersPath, id))
}
