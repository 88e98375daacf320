package identity

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// Firebase implements Provider on top of Firebase Authentication.
type Firebase struct {
	client *auth.Client
}

// NewFirebase creates a Firebase-backed Provider.
func NewFirebase(client *auth.Client) *Firebase {
	return &Firebase{client: client}
}

// VerifyIDToken checks signature, expiry and revocation of a Firebase ID token.
func (f *Firebase) VerifyIDToken(ctx context.Context, idToken string) (*Token, error) {
	tok, err := f.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		switch {
		case auth.IsIDTokenExpired(err), auth.IsIDTokenRevoked(err):
			return nil, ErrTokenExpired
		case auth.IsCertificateFetchFailed(err):
			return nil, fmt.Errorf("verify id token: %w", err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}

	email, _ := tok.Claims["email"].(string)
	return &Token{UID: tok.UID, Email: email}, nil
}

// EmailRegistered reports whether an account already uses email.
func (f *Firebase) EmailRegistered(ctx context.Context, email string) (bool, error) {
	_, err := f.client.GetUserByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if auth.IsUserNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("lookup user by email: %w", err)
}

// CreateUser creates an unverified email/password account.
func (f *Firebase) CreateUser(ctx context.Context, u NewUser) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(u.Email).
		Password(u.Password).
		DisplayName(u.DisplayName).
		EmailVerified(false)

	rec, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", ErrEmailExists
		}
		return "", fmt.Errorf("create identity user: %w", err)
	}
	return rec.UID, nil
}

// DeleteUser removes an account. Deleting a missing account is not an error.
func (f *Firebase) DeleteUser(ctx context.Context, uid string) error {
	if err := f.client.DeleteUser(ctx, uid); err != nil && !auth.IsUserNotFound(err) {
		return fmt.Errorf("delete identity user: %w", err)
	}
	return nil
}

// UpdateDisplayName sets the account display name.
func (f *Firebase) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	_, err := f.client.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).DisplayName(displayName))
	if err != nil {
		if auth.IsUserNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update display name: %w", err)
	}
	return nil
}

// EmailVerificationLink generates an out-of-band email verification link.
func (f *Firebase) EmailVerificationLink(ctx context.Context, email string) (string, error) {
	link, err := f.client.EmailVerificationLink(ctx, email)
	if err != nil {
		return "", fmt.Errorf("generate verification link: %w", err)
	}
	return link, nil
}
