package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/findnest/findnest/internal/apperror"
	"github.com/findnest/findnest/internal/identity"
	"github.com/findnest/findnest/internal/model"
	"github.com/findnest/findnest/internal/repository"
)

// UserService coordinates profile records with the external identity
// provider. The provider is authoritative for existence and credentials; the
// profile store is a cache keyed by the provider-issued id.
type UserService struct {
	users    repository.UserRepository
	provider identity.Provider
	logger   *slog.Logger

	now func() string
}

// NewUserService creates a UserService over the given repository and
// identity provider.
func NewUserService(users repository.UserRepository, provider identity.Provider, logger *slog.Logger) *UserService {
	return &UserService{
		users:    users,
		provider: provider,
		logger:   logger,
		now:      func() string { return time.Now().UTC().Format(time.RFC3339) },
	}
}

// Create registers the identity first and only then writes the profile,
// adopting the provider-issued id. A provider failure aborts the whole
// operation with no store write. The password is forwarded to the provider
// and stripped before the profile is persisted.
func (s *UserService) Create(ctx context.Context, user model.User) (*model.User, error) {
	user.Email = strings.TrimSpace(user.Email)
	if user.Email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if user.Password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	id, err := s.provider.CreateIdentity(ctx, user.Email, user.Password, user.DisplayName())
	if err != nil {
		s.logger.Error("identity creation failed",
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
		return nil, apperror.IdentityFailed("create", err)
	}

	user.ID = id
	user.Password = ""
	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.users.Save(ctx, &user); err != nil {
		s.logger.Error("failed to save user profile",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("saving user %s: %w", id, err)
	}

	s.logger.Info("user created",
		slog.String("id", id),
		slog.String("email", user.Email),
	)
	return &user, nil
}

// Get retrieves a profile by id.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, id)
}

// List returns all profiles.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Count returns the number of profiles.
func (s *UserService) Count(ctx context.Context) (int, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count users", slog.String("error", err.Error()))
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// Update writes the profile, then forwards a credential change to the
// identity provider when a non-empty password was supplied. A credential
// failure is reported to the caller but the profile write it follows is not
// rolled back: the profile and credential may briefly disagree and the
// caller is told so.
func (s *UserService) Update(ctx context.Context, id string, user model.User) (*model.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}

	user.ID = id
	user.UpdatedAt = s.now()
	password := user.Password
	user.Password = ""

	if err := s.users.Save(ctx, &user); err != nil {
		s.logger.Error("failed to update user profile",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating user %s: %w", id, err)
	}

	if password != "" {
		if err := s.provider.UpdateCredential(ctx, id, password); err != nil {
			s.logger.Error("credential update failed after profile write",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			return nil, apperror.IdentityFailed("update credential", err)
		}
	}

	s.logger.Info("user updated", slog.String("id", id))
	return &user, nil
}

// Delete removes the identity first and aborts on provider failure. Profile
// removal afterwards is best-effort: residual profile data is a logged
// condition, never a request failure.
func (s *UserService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "user ID is required")
	}

	if err := s.provider.DeleteIdentity(ctx, id); err != nil {
		s.logger.Error("identity deletion failed",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return apperror.IdentityFailed("delete", err)
	}

	s.users.Delete(id)

	s.logger.Info("user deleted", slog.String("id", id))
	return nil
}

// UpdateProfilePicture writes only the profile's picture attribute,
// fire-and-forget. A store failure is logged by the store, not retried.
func (s *UserService) UpdateProfilePicture(ctx context.Context, id, url string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "user ID is required")
	}
	if strings.TrimSpace(url) == "" {
		return apperror.ValidationFailed("profilePictureUrl", "profile picture URL is required")
	}

	s.users.SetProfilePicture(id, url)
	s.logger.Info("profile picture updated", slog.String("id", id))
	return nil
}
