package auth

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when the email already has an account.
	ErrEmailTaken = errors.New("email already in use")
)

// UserStore persists account records. Emails are stored lowercased and
// trimmed; Create reports ErrEmailTaken on a duplicate.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}
