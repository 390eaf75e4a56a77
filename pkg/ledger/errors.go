package ledger

import "fmt"

// ErrorKind enumerates the ledger's typed failure modes, so callers (the
// HTTP layer in particular) can switch on a category instead of matching
// error strings.
type ErrorKind string

const (
	ErrBelowMinimum     ErrorKind = "below_minimum"
	ErrInsufficientChips ErrorKind = "insufficient_chips"
	ErrUnknownCashout   ErrorKind = "unknown_cashout"
	ErrDurableWrite     ErrorKind = "durable_write_failed"
)

// Error is the ledger's uniform error type. Every failure mode in the
// package surfaces through this, never a bare panic — including the
// journal-write case (ErrDurableWrite), which the caller re-surfaces as a
// server error (durable-write failure aborts the action).
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ledger: %s: %s", e.Kind, e.Msg)
}

func newErr(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Is matches any *Error with the same Kind, so a kind above can be tested
// with errors.Is(err, &ledger.Error{Kind: ledger.ErrBelowMinimum}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
