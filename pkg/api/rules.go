package api

import (
	"github.com/feltedge/tablehouse/pkg/auth"
	"github.com/feltedge/tablehouse/pkg/craps"
	"github.com/feltedge/tablehouse/pkg/ledger"
	"github.com/feltedge/tablehouse/pkg/poker"
	"github.com/feltedge/tablehouse/pkg/runtime"
)

// errorCatalog is the full set of recoverable error codes a client may
// see, assembled from each package's own typed-error registry so an
// agent programmer can enumerate every condition it should handle.
var errorCatalog = []string{
	string(ledger.ErrBelowMinimum), string(ledger.ErrInsufficientChips),
	string(ledger.ErrUnknownCashout), string(ledger.ErrDurableWrite),

	string(auth.ErrNoChallenge), string(auth.ErrMismatch), string(auth.ErrExpired),
	string(auth.ErrBadSignature), string(auth.ErrBadToken), string(auth.ErrTokenExpired),

	string(craps.ErrNotShooter), string(craps.ErrBadPhase), string(craps.ErrDuplicateBet),
	string(craps.ErrBetLimit), string(craps.ErrNotSeated), string(craps.ErrAlreadySeated),
	string(craps.ErrActiveBets), string(craps.ErrUnknownBet),

	string(poker.ErrTableFull), string(poker.ErrAlreadySeated), string(poker.ErrNotSeated),
	string(poker.ErrBuyInLimit), string(poker.ErrInHand), string(poker.ErrNotEnoughSeats),
	string(poker.ErrHandInProgress), string(poker.ErrNoHand), string(poker.ErrNotYourTurn),
	string(poker.ErrIllegalAction), string(poker.ErrBadAmount),

	string(runtime.ErrAtTable), string(runtime.ErrChatTooLong),

	"missing_field", "rate_limited", "operator_key_required",
}

// crapsBetKinds names the twelve bet kinds /rules documents for CRABS.
var crapsBetKinds = []craps.Kind{
	craps.PassLine, craps.DontPass, craps.Come, craps.DontCome,
	craps.Place4, craps.Place5, craps.Place6, craps.Place8, craps.Place9, craps.Place10,
	craps.AnyCraps, craps.YoEleven,
}

// pokerActions names the six action names Molt'em accepts.
var pokerActions = []poker.Action{
	poker.ActionFold, poker.ActionCheck, poker.ActionCall,
	poker.ActionBet, poker.ActionRaise, poker.ActionAllIn,
}
