package gamify

import "errors"

var (
	// ErrUserNotFound indicates the user's progress document does not exist.
	ErrUserNotFound = errors.New("progress record not found")
	// ErrMissingUserID indicates a required user id was absent.
	ErrMissingUserID = errors.New("user id is required")
)
