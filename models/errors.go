package models

import "errors"

// Domain error taxonomy. Repositories and services wrap these with context via
// fmt.Errorf("...: %w", ...); handlers map them to HTTP status codes with
// errors.Is. Every error here is recoverable by the caller.
var (
	// ErrNotFound: unknown complaint, assignment or account id.
	ErrNotFound = errors.New("not found")

	// ErrForbidden: the actor lacks permission for the mutation.
	ErrForbidden = errors.New("forbidden")

	// ErrTerminalState: mutation attempted on a resolved/rejected complaint.
	ErrTerminalState = errors.New("complaint is in a terminal state")

	// ErrInvalidTarget: forward target does not exist or is the wrong role.
	ErrInvalidTarget = errors.New("invalid forward target")

	// ErrUnsupportedFileType: attachment is neither an image nor a PDF.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrConflict: concurrent write raced on the same record; retry.
	ErrConflict = errors.New("conflicting concurrent update, retry")
)
