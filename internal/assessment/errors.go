package assessment

import "errors"

// Grading-path failures. Wrap with fmt.Errorf("...: %w", Err...) so the HTTP
// layer can translate via errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
)
