package application

import "errors"

// Domain-conflict sentinels surfaced to the transport layer so it can render
// specific, non-alarming messages instead of a generic failure.
var (
	// ErrNotConfigured means the guild has no ServerConfig yet; the caller
	// should run setup first.
	ErrNotConfigured = errors.New("server not configured")

	// ErrAlreadyApproved means approve was invoked on a project that is
	// already approved. Reported distinctly since it signals operator
	// confusion, and stored state is left untouched.
	ErrAlreadyApproved = errors.New("project already approved")

	// ErrNotModerator means the invoking member lacks an
	// administrator-equivalent permission bit.
	ErrNotModerator = errors.New("caller is not a moderator")
)
