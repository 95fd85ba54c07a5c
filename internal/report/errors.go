package report

import "errors"

// Engine error taxonomy. All of these are recoverable: callers substitute a
// default window, omit the affected section, or fold the orphaned value into
// an "Uncategorized" bucket. Nothing in this package is fatal to a request.
var (
	ErrInvalidWindow     = errors.New("invalid reporting window")
	ErrIntervalTooLarge  = errors.New("reporting interval too large")
	ErrUnresolvedOwner   = errors.New("owner filter matches no account")
	ErrOrphanedReference = errors.New("entry references a missing account or category")
)
