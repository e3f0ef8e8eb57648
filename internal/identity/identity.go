// Package identity defines the external identity provider contract the
// user directory depends on, plus a local store-backed implementation.
//
// The provider is the system of record for who exists and what their
// credentials are. The user directory only ever caches profile data under
// the provider's ids.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrEmailTaken is returned by CreateIdentity when an identity with the
	// same email already exists.
	ErrEmailTaken = errors.New("identity: email already registered")

	// ErrNoIdentity is returned when no identity exists for the given id or
	// email.
	ErrNoIdentity = errors.New("identity: no such identity")

	// ErrBadCredentials is returned by Authenticate on a wrong password.
	ErrBadCredentials = errors.New("identity: invalid credentials")
)

// Provider issues, updates, and revokes identities.
type Provider interface {
	// CreateIdentity registers a new identity and returns its issued id.
	CreateIdentity(ctx context.Context, email, password, displayName string) (string, error)

	// DeleteIdentity removes the identity. It returns only after removal is
	// confirmed; ErrNoIdentity when nothing exists at id.
	DeleteIdentity(ctx context.Context, id string) error

	// UpdateCredential replaces the password for an existing identity.
	UpdateCredential(ctx context.Context, id, password string) error
}

// Authenticator verifies credentials and resolves them to an identity id.
// Satisfied by Local; used by the login endpoint.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
}
