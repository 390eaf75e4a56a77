package craps

import "fmt"

// ErrorKind enumerates craps's typed failure modes.
type ErrorKind string

const (
	ErrNotShooter   ErrorKind = "not_shooter"
	ErrBadPhase     ErrorKind = "bad_phase"
	ErrDuplicateBet ErrorKind = "duplicate_bet"
	ErrBetLimit     ErrorKind = "bet_limit"
	ErrNotSeated    ErrorKind = "not_seated"
	ErrAlreadySeated ErrorKind = "already_seated"
	ErrActiveBets   ErrorKind = "active_bets"
	ErrUnknownBet   ErrorKind = "unknown_bet"
)

// Error is craps's uniform typed error.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("craps: %s: %s", e.Kind, e.Msg) }

func newErr(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
