package poker

import (
	"time"

	"github.com/feltedge/tablehouse/pkg/money"
)

// playerStateFn is one player lifecycle state, following Rob Pike's
// state-function pattern: given the player, it reconciles HasFolded and
// IsAllIn with the state being entered, records its own name, and
// returns the state function now installed. Player needs only one
// concrete state machine, so it lives here as a plain function type
// rather than a generic engine shared with craps (craps' shooter/bet
// phases are few enough to stay a plain enum field on Table instead).
type playerStateFn func(*Player) playerStateFn

// Player is a single seat's state, spanning both table-level membership
// and per-hand game state (the latter reset every hand).
type Player struct {
	Wallet         string
	TableSeat      int
	IsReady        bool
	IsDisconnected bool
	LastAction     time.Time

	Stack      money.Amount // chips in front of the seat for the current hand
	HoleCards  []Card
	CurrentBet money.Amount // committed in the current betting round

	state      playerStateFn
	stateLabel string

	HasFolded bool
	IsAllIn   bool
	IsDealer  bool
	IsTurn    bool

	HandValue *HandValue
}

// NewPlayer seats a new player with the given starting table stack.
func NewPlayer(wallet string, stack money.Amount) *Player {
	p := &Player{
		Wallet:     wallet,
		Stack:      stack,
		TableSeat:  -1,
		HoleCards:  make([]Card, 0, 2),
		LastAction: time.Now(),
	}
	p.state = playerStateAtTable(p)
	return p
}

func playerStateAtTable(p *Player) playerStateFn {
	if p.HasFolded {
		return playerStateFolded(p)
	}
	p.stateLabel = "AT_TABLE"
	return playerStateAtTable
}

func playerStateInGame(p *Player) playerStateFn {
	if p.HasFolded {
		return playerStateFolded(p)
	}
	if p.Stack == 0 && p.CurrentBet > 0 {
		return playerStateAllIn(p)
	}
	p.HasFolded = false
	p.IsAllIn = false
	p.stateLabel = "IN_GAME"
	return playerStateInGame
}

func playerStateFolded(p *Player) playerStateFn {
	p.HasFolded = true
	p.IsAllIn = false
	p.stateLabel = "FOLDED"
	return playerStateFolded
}

func playerStateAllIn(p *Player) playerStateFn {
	if p.HasFolded {
		return playerStateFolded(p)
	}
	p.HasFolded = false
	p.IsAllIn = true
	p.stateLabel = "ALL_IN"
	return playerStateAllIn
}

func playerStateLeft(p *Player) playerStateFn {
	p.HasFolded = false
	p.IsAllIn = false
	p.stateLabel = "LEFT"
	return playerStateLeft
}

// ResetForNewHand clears per-hand state while preserving table membership.
func (p *Player) ResetForNewHand(stack money.Amount) {
	p.HoleCards = make([]Card, 0, 2)
	p.Stack = stack
	p.CurrentBet = 0
	p.IsDealer = false
	p.IsTurn = false
	p.HandValue = nil
	p.LastAction = time.Now()

	p.HasFolded = false
	p.IsAllIn = false
	p.state = playerStateInGame(p)
}

// SetGameState forces the player's lifecycle state into the named state,
// dispatching once so the state function can reconcile HasFolded/IsAllIn
// against it.
func (p *Player) SetGameState(name string) {
	switch name {
	case "AT_TABLE":
		p.state = playerStateAtTable(p)
	case "IN_GAME":
		p.state = playerStateInGame(p)
	case "FOLDED":
		p.state = playerStateFolded(p)
	case "ALL_IN":
		p.state = playerStateAllIn(p)
	case "LEFT":
		p.state = playerStateLeft(p)
	}
}

// GameState returns a string name for the player's current lifecycle
// state, for diagnostics and event payloads.
func (p *Player) GameState() string {
	if p.state == nil {
		return "UNINITIALIZED"
	}
	return p.stateLabel
}

// IsActiveInGame reports whether the player is still live in the current
// hand (in game or all-in, as opposed to folded or away from the table).
func (p *Player) IsActiveInGame() bool {
	s := p.GameState()
	return s == "IN_GAME" || s == "ALL_IN"
}

// IsAtTable reports whether the player is still seated (has not left).
func (p *Player) IsAtTable() bool {
	return p.GameState() != "LEFT"
}
