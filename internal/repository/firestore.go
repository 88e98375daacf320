package repository

import (
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrNotFound is returned by mutations that target a missing document.
	ErrNotFound = errors.New("document not found")
	// ErrUsernameTaken is returned when a username reservation already exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrAlreadyExists is returned when a conditional create hits an existing document.
	ErrAlreadyExists = errors.New("document already exists")
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

// decode reads snap into a new T, returning nil for a missing document.
func decode[T any](snap *firestore.DocumentSnapshot) (*T, error) {
	if snap == nil || !snap.Exists() {
		return nil, nil
	}
	v := new(T)
	if err := snap.DataTo(v); err != nil {
		return nil, err
	}
	return v, nil
}
