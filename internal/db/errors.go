package db

import "fmt"

// ErrorKind classifies a guarded execution failure. Callers switch on the
// kind instead of matching error strings or concrete driver types.
type ErrorKind int

const (
	// KindSecurityViolation: statement failed the read-only shape check.
	// Terminal for the whole request, never retried.
	KindSecurityViolation ErrorKind = iota
	// KindTimeout: the statement hit the server-side statement_timeout.
	// Terminal for the whole request, never retried.
	KindTimeout
	// KindRecoverable: ordinary execution error (missing column, bad join,
	// type mismatch). The only kind eligible for self-correction.
	KindRecoverable
	// KindInternal: unexpected/unclassified failure. Terminal.
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindSecurityViolation:
		return "security_violation"
	case KindTimeout:
		return "timeout_exceeded"
	case KindRecoverable:
		return "recoverable_execution_failure"
	default:
		return "internal_failure"
	}
}

// QueryError tags an execution failure with its guardrail category and the
// statement that caused it.
type QueryError struct {
	Kind    ErrorKind
	Query   string
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
