package domain

import "errors"

var (
	// ErrInvalidInput marks a required field that is empty or whitespace only.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("username already registered")
	// ErrDuplicateEmail is returned when the email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller does not own the post.
	ErrForbidden = errors.New("forbidden")
	// ErrAuthorNotFound is returned when a post references a missing user.
	ErrAuthorNotFound = errors.New("author not found")
	// ErrStoreUnavailable marks an unexpected failure of the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// StoreError wraps a driver failure. Error() never includes the driver
// message; Unwrap exposes it for logging.
type StoreError struct {
	Op  string
	Err error
}

// StoreFailure wraps err as a StoreError for the given operation.
func StoreFailure(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return "store unavailable: " + e.Op
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}
