package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/findnest/findnest/internal/auth"
	"github.com/findnest/findnest/internal/store"
)

// accountsPath is the store namespace for identity records. It is owned by
// this package; nothing else reads or writes under it.
const accountsPath = "auth"

// Compile-time interface checks.
var (
	_ Provider      = (*Local)(nil)
	_ Authenticator = (*Local)(nil)
)

// account is the persisted identity record. Only the bcrypt hash is ever
// stored.
type account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	DisplayName  string `json:"displayName"`
}

// Local is a Provider backed by the same asynchronous store as the rest of
// the system, under its own namespace. Passwords are hashed with bcrypt.
//
// Email uniqueness is enforced by scanning the accounts collection: the
// store has no secondary indexes, and the account population here is small.
type Local struct {
	store     store.Store
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewLocal creates a Local provider.
func NewLocal(s store.Store, passwords *auth.PasswordService, logger *slog.Logger) *Local {
	return &Local{store: s, passwords: passwords, logger: logger}
}

// CreateIdentity registers a new identity and returns its issued id.
// Fails with ErrEmailTaken when the email is already registered.
func (l *Local) CreateIdentity(ctx context.Context, email, password, displayName string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("identity: email must not be empty")
	}

	if _, err := l.findByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if err != ErrNoIdentity {
		return "", err
	}

	hash, err := l.passwords.Hash(password)
	if err != nil {
		return "", fmt.Errorf("identity: %w", err)
	}

	acct := account{
		ID:           l.store.GenerateKey(accountsPath),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
	}
	l.store.Write(store.Join(accountsPath, acct.ID), acct)

	// Confirm the write landed before handing out the id.
	snap, err := store.Read(ctx, l.store, store.Join(accountsPath, acct.ID))
	if err != nil {
		return "", fmt.Errorf("identity: confirming account write: %w", err)
	}
	if !snap.Exists {
		return "", fmt.Errorf("identity: account write for %s was lost", email)
	}

	l.logger.Info("identity created", slog.String("id", acct.ID))
	return acct.ID, nil
}

// DeleteIdentity removes the identity at id and confirms removal before
// returning.
func (l *Local) DeleteIdentity(ctx context.Context, id string) error {
	path := store.Join(accountsPath, id)

	snap, err := store.Read(ctx, l.store, path)
	if err != nil {
		return fmt.Errorf("identity: reading account %s: %w", id, err)
	}
	if !snap.Exists {
		return ErrNoIdentity
	}

	l.store.Remove(path)

	snap, err = store.Read(ctx, l.store, path)
	if err != nil {
		return fmt.Errorf("identity: confirming removal of %s: %w", id, err)
	}
	if snap.Exists {
		return fmt.Errorf("identity: account %s still present after removal", id)
	}

	l.logger.Info("identity deleted", slog.String("id", id))
	return nil
}

// UpdateCredential replaces the password of an existing identity.
func (l *Local) UpdateCredential(ctx context.Context, id, password string) error {
	path := store.Join(accountsPath, id)

	snap, err := store.Read(ctx, l.store, path)
	if err != nil {
		return fmt.Errorf("identity: reading account %s: %w", id, err)
	}
	if !snap.Exists {
		return ErrNoIdentity
	}

	var acct account
	if err := json.Unmarshal(snap.Value, &acct); err != nil {
		return fmt.Errorf("identity: decoding account %s: %w", id, err)
	}

	hash, err := l.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	acct.PasswordHash = hash
	l.store.Write(path, acct)

	l.logger.Info("credential updated", slog.String("id", id))
	return nil
}

// Authenticate verifies email and password, returning the identity id on
// success.
func (l *Local) Authenticate(ctx context.Context, email, password string) (string, error) {
	acct, err := l.findByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == ErrNoIdentity {
			return "", ErrBadCredentials
		}
		return "", err
	}
	if err := l.passwords.Verify(acct.PasswordHash, password); err != nil {
		return "", ErrBadCredentials
	}
	return acct.ID, nil
}

func (l *Local) findByEmail(ctx context.Context, email string) (*account, error) {
	snap, err := store.Read(ctx, l.store, accountsPath)
	if err != nil {
		return nil, fmt.Errorf("identity: scanning accounts: %w", err)
	}
	for _, child := range snap.Children {
		var acct account
		if err := json.Unmarshal(child.Value, &acct); err != nil {
			return nil, fmt.Errorf("identity: decoding account %s: %w", child.Key, err)
		}
		if acct.Email == email {
			return &acct, nil
		}
	}
	return nil, ErrNoIdentity
}
