package runtime

import "fmt"

// ErrorKind enumerates the runtime's own typed failure modes (distinct
// from the errors an embedded engine or the ledger may return, which
// propagate through unchanged via errors.As).
type ErrorKind string

const (
	ErrAtTable       ErrorKind = "at_table"
	ErrInsufficientChips ErrorKind = "insufficient_chips"
	ErrChatTooLong   ErrorKind = "chat_too_long"
	ErrNotSeated     ErrorKind = "not_seated"
)

// Error is the runtime's uniform typed error.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("runtime: %s: %s", e.Kind, e.Msg) }

func newErr(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
