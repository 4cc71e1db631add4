package types

import "errors"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindNotFound      ErrKind = iota // missing index/data file, unknown name or index
	ErrKindMalformed                    // no handler could detect and parse the index
	ErrKindNameViolation                // filename empty, too long, illegal or colliding
	ErrKindUnsupported                  // write attempted on a read-only format
	ErrKindUninitialized                // cipher used before its tables or key were supplied
	ErrKindCommit                       // Save failed and was rolled back
	ErrKindState                        // invalid operation for the current staged state
)

// String returns a short name for the kind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not found"
	case ErrKindMalformed:
		return "malformed"
	case ErrKindNameViolation:
		return "name violation"
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindUninitialized:
		return "uninitialized"
	case ErrKindCommit:
		return "commit"
	case ErrKindState:
		return "state"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound)
// works for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrNotFound indicates a missing file, filename or record index.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrMalformed indicates every format handler rejected the index.
	ErrMalformed = &Error{Kind: ErrKindMalformed, Msg: "cannot parse index"}
	// ErrNameViolation indicates a filename was rejected at stage time.
	ErrNameViolation = &Error{Kind: ErrKindNameViolation, Msg: "invalid filename"}
	// ErrUnsupported indicates the bound format cannot perform the operation.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "operation not supported by format"}
	// ErrUninitializedCipher indicates cipher material was never supplied.
	ErrUninitializedCipher = &Error{Kind: ErrKindUninitialized, Msg: "cipher tables not supplied; load them with cipher.LoadTables"}
	// ErrCommit indicates Save failed; both files were restored from backup.
	ErrCommit = &Error{Kind: ErrKindCommit, Msg: "save failed and was rolled back"}
	// ErrState indicates a staged change conflicts with an earlier one.
	ErrState = &Error{Kind: ErrKindState, Msg: "invalid staged state"}
)

// New builds a typed error of the given kind wrapping cause (which may be nil).
func New(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}
