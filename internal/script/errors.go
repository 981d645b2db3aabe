package script

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is wrapped by every parse failure.
	ErrSyntax = errors.New("script: syntax error")

	// ErrUnknownCommand is wrapped when a command name is not recognized.
	ErrUnknownCommand = errors.New("script: unknown command")
)

// ParseError locates a parse failure.
type ParseError struct {
	Line int
	Err  error
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
