// Package events implements the per-table typed event stream: lifecycle,
// craps, poker, chat, and ledger events fanned out to subscribers with
// role-based visibility filtering.
package events

import "time"

// Type names one kind of event carried on the bus.
type Type string

const (
	// Lifecycle
	TypePlayerJoined  Type = "player_joined"
	TypePlayerLeft    Type = "player_left"
	TypeHandStarted   Type = "hand_started"
	TypeHandComplete  Type = "hand_complete"
	TypePhaseChanged  Type = "phase_changed"

	// Craps
	TypeBetPlaced      Type = "bet_placed"
	TypeDiceRolled     Type = "dice_rolled"
	TypeBetResolved    Type = "bet_resolved"
	TypeShooterChanged Type = "shooter_changed"

	// Poker
	TypeBlindsPosted   Type = "blinds_posted"
	TypeHoleCardsDealt Type = "hole_cards_dealt"
	TypeActionOn       Type = "action_on"
	TypePlayerActed    Type = "player_acted"
	TypeFlopDealt      Type = "flop_dealt"
	TypeTurnDealt      Type = "turn_dealt"
	TypeRiverDealt     Type = "river_dealt"
	TypeShowdown       Type = "showdown"
	TypePotAwarded     Type = "pot_awarded"

	// Chat
	TypeChat Type = "chat"

	// Ledger
	TypeDepositConfirmed Type = "deposit_confirmed"
	TypeCashoutRequested Type = "cashout_requested"
	TypeCashoutCompleted Type = "cashout_completed"

	// Snapshot is sent once to every new subscriber before the live stream.
	TypeSnapshot Type = "snapshot"
)

// Event is one entry on a table's event stream. Seq is a per-table
// monotonic logical clock; subscribers observe events in increasing Seq
// order with no gaps.
type Event struct {
	Seq     int64     `json:"seq"`
	Type    Type      `json:"type"`
	Table   string    `json:"table"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}
