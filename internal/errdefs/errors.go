// Package errdefs holds the sentinel errors shared by repositories, services
// and handlers. Wrap them with fmt.Errorf("%w: ...") to add detail.
package errdefs

import "errors"

var (
	// ErrNotFound also covers records owned by another user.
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrValidation       = errors.New("validation error")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	// ErrAuthentication is returned for bad credentials and unknown sessions alike.
	ErrAuthentication = errors.New("authentication error")
)
