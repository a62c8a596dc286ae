package domain

import "errors"

// Sentinel errors for the error taxonomy. Services wrap these with
// fmt.Errorf("%w: ...") so handlers can classify with errors.Is while
// keeping the human-readable detail.
var (
	// ErrNotFound indicates a page, workspace, or parent is absent
	// (or trashed where an active record is required).
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates invalid input: self-parenting, moving a page
	// under its own descendant, restoring an active page, missing fields.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates authentication failure.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller is authenticated but not permitted.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates a uniqueness collision, such as inserting a row
	// whose id already exists.
	ErrConflict = errors.New("conflict")
)
