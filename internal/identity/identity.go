// Package identity wraps the external identity provider that issues end-user
// bearer tokens and owns login accounts.
package identity

import (
	"context"
	"errors"
)

var (
	ErrTokenInvalid = errors.New("identity token invalid")
	ErrTokenExpired = errors.New("identity token expired or revoked")
	ErrEmailExists  = errors.New("email already registered with identity provider")
	ErrUserNotFound = errors.New("identity user not found")
)

// Token is a verified end-user bearer token.
type Token struct {
	UID   string
	Email string
}

// NewUser describes an account to create at the provider.
type NewUser struct {
	Email       string
	Password    string
	DisplayName string
}

// Provider is the subset of identity provider operations the portal uses.
type Provider interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Token, error)
	EmailRegistered(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u NewUser) (uid string, err error)
	DeleteUser(ctx context.Context, uid string) error
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
	EmailVerificationLink(ctx context.Context, email string) (string, error)
}
