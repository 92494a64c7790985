// Package diagnostics defines the stable error codes and the diagnostic
// error type shared by every compilation pass.
//
// Codes are stable identifiers: tests and editor tooling match on them, so
// they are never renumbered. H-codes cover the inheritance resolution pass.
package diagnostics

import (
	"fmt"

	"github.com/funvibe/funherit/internal/token"
)

// ErrorCode is a stable diagnostic identifier.
type ErrorCode string

const (
	// ErrH001: the declared base's registry does not exist in the store.
	// Fatal for the extension being compiled.
	ErrH001 ErrorCode = "H001"

	// ErrH002: the declared base exists but has not finalized its registry
	// (forward reference to a still-compiling unit). Fatal: the private-name
	// set is not yet complete, so routines cannot be classified.
	ErrH002 ErrorCode = "H002"

	// ErrH003: a routine key is withheld (or was never emitted) on the
	// target unit; the call site has nothing to resolve to.
	ErrH003 ErrorCode = "H003"

	// WarnH010: a unit declared a routine at a key whose inherited override
	// permission is false. The declaration is accepted but unreachable.
	WarnH010 ErrorCode = "H010"

	// WarnH011: a grant names a routine key the unit does not have; the
	// grant has no effect.
	WarnH011 ErrorCode = "H011"
)

// Severity distinguishes build-stopping errors from advisory warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// DiagnosticError is a positioned compiler diagnostic.
type DiagnosticError struct {
	Code     ErrorCode
	Token    token.Token
	File     string // unit identity or source file, "" when unknown
	Message  string
	Severity Severity
}

func (e *DiagnosticError) Error() string {
	if e.Token.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %d:%d: %s", e.Code, e.Token.Line, e.Token.Column, e.Message)
}

// IsWarning reports whether the diagnostic is advisory.
func (e *DiagnosticError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// NewError builds a fatal diagnostic at the given token.
func NewError(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: message, Severity: SeverityError}
}

// NewWarning builds an advisory diagnostic at the given token.
func NewWarning(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: message, Severity: SeverityWarning}
}
