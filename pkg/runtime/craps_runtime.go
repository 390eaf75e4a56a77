package runtime

import (
	"sync"

	"github.com/decred/slog"
	"github.com/google/uuid"

	"github.com/feltedge/tablehouse/pkg/craps"
	"github.com/feltedge/tablehouse/pkg/events"
	"github.com/feltedge/tablehouse/pkg/ledger"
	"github.com/feltedge/tablehouse/pkg/money"
)

const maxChatLen = 500

// CrapsRuntime is the craps table façade: it owns the single lock that
// serializes every action against the engine, the ledger, and the event
// bus, per the reconciliation contract (debit the ledger first, call the
// engine, refund on engine failure, emit an event).
type CrapsRuntime struct {
	log   slog.Logger
	table *craps.Table
	ldg   *ledger.Ledger
	bus   *events.Bus

	mu sync.Mutex
}

// NewCrapsRuntime wires a craps engine to its ledger and event bus.
func NewCrapsRuntime(table *craps.Table, ldg *ledger.Ledger, bus *events.Bus, log slog.Logger) *CrapsRuntime {
	return &CrapsRuntime{table: table, ldg: ldg, bus: bus, log: log}
}

// Join seats wallet at the table. Craps has no buy-in: chips are debited
// per-bet directly against the ledger balance.
func (r *CrapsRuntime) Join(wallet string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.table.Join(wallet); err != nil {
		return err
	}
	r.bus.Publish(events.TypePlayerJoined, map[string]string{"wallet": wallet}, nil)
	return nil
}

// Leave removes wallet from the table. The engine itself refuses this
// while the wallet has any active bet.
func (r *CrapsRuntime) Leave(wallet string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.table.Leave(wallet); err != nil {
		return err
	}
	r.bus.Publish(events.TypePlayerLeft, map[string]string{"wallet": wallet}, nil)
	return nil
}

// PlaceBet debits wallet's ledger balance for amount, then asks the
// engine to accept the bet. If the engine rejects it (bad phase, limits,
// duplicate contract bet), the debit is refunded before the error
// returns to the caller.
func (r *CrapsRuntime) PlaceBet(wallet string, kind craps.Kind, amount money.Amount) (*craps.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref := uuid.NewString()
	ok, err := r.ldg.PlaceWager(wallet, amount, ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newErr(ErrInsufficientChips, "%s has insufficient chips for a %s bet of %s", wallet, kind, amount)
	}

	bet, err := r.table.PlaceBet(wallet, kind, amount)
	if err != nil {
		if refundErr := r.ldg.RefundWager(wallet, amount, ref); refundErr != nil {
			r.log.Errorf("failed to refund rejected bet for %s: %v", wallet, refundErr)
		}
		return nil, err
	}

	r.bus.Publish(events.TypeBetPlaced, bet, nil)
	return bet, nil
}

// Roll validates wallet is the current shooter, drives the engine
// through one roll and its resolutions, and settles each resolved bet
// against the ledger (credit on won/pushed, record on lost).
func (r *CrapsRuntime) Roll(wallet string) (*craps.RollResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.table.Roll(wallet)
	if err != nil {
		return nil, err
	}

	for _, res := range result.Resolutions {
		switch res.Outcome {
		case craps.OutcomeWon:
			if err := r.ldg.SettleWon(res.Owner, res.Payout, res.BetID); err != nil {
				r.log.Errorf("settling won bet %s for %s: %v", res.BetID, res.Owner, err)
			}
		case craps.OutcomeLost:
			if err := r.ldg.SettleLost(res.Owner, res.Amount, res.BetID); err != nil {
				r.log.Errorf("settling lost bet %s for %s: %v", res.BetID, res.Owner, err)
			}
		case craps.OutcomePushed:
			if err := r.ldg.SettlePushed(res.Owner, res.Payout, res.BetID); err != nil {
				r.log.Errorf("settling pushed bet %s for %s: %v", res.BetID, res.Owner, err)
			}
		}
	}

	r.bus.Publish(events.TypeDiceRolled, result, nil)
	for _, res := range result.Resolutions {
		r.bus.Publish(events.TypeBetResolved, res, nil)
	}
	if result.ShooterLeft != "" {
		r.bus.Publish(events.TypeShooterChanged, map[string]string{
			"left": result.ShooterLeft, "new": result.NewShooter,
		}, nil)
	}
	return result, nil
}

// Chat broadcasts a chat event from a seated wallet.
func (r *CrapsRuntime) Chat(wallet, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(message) == 0 || len(message) > maxChatLen {
		return newErr(ErrChatTooLong, "chat message must be 1-%d bytes", maxChatLen)
	}
	if !seatedAt(r.table, wallet) {
		return newErr(ErrNotSeated, "%s is not seated", wallet)
	}
	r.bus.Publish(events.TypeChat, map[string]string{"wallet": wallet, "message": message}, nil)
	return nil
}

func seatedAt(t *craps.Table, wallet string) bool {
	for _, w := range t.Seated() {
		if w == wallet {
			return true
		}
	}
	return false
}

// CashoutRequest delegates to the ledger. A craps player must leave the
// table before cashing out; Leave in turn is refused while any bet is
// active.
func (r *CrapsRuntime) CashoutRequest(wallet string, amount money.Amount, toAddress string) (*ledger.CashoutRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seatedAt(r.table, wallet) {
		return nil, newErr(ErrAtTable, "%s must leave the table before cashing out", wallet)
	}
	return r.ldg.RequestCashout(wallet, amount, toAddress)
}

// CrapsSnapshot is the public view of the table: no hidden information
// exists in craps (all bets are visible), so there is only one
// projection.
type CrapsSnapshot struct {
	Phase    craps.Phase  `json:"phase"`
	Point    int          `json:"point"`
	Shooter  string       `json:"shooter"`
	Seated   []string     `json:"seated"`
	Bets     []*craps.Bet `json:"bets"`
	LastRoll [2]int       `json:"lastRoll,omitempty"`
}

// State returns the current public table snapshot.
func (r *CrapsRuntime) State() CrapsSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	lastRoll, rolled := r.table.LastRoll()
	snap := CrapsSnapshot{
		Phase:   r.table.Phase(),
		Point:   r.table.Point(),
		Shooter: r.table.Shooter(),
		Seated:  r.table.Seated(),
		Bets:    r.table.ActiveBets(),
	}
	if rolled {
		snap.LastRoll = lastRoll
	}
	return snap
}

// Activity returns up to limit of the most recent table events.
func (r *CrapsRuntime) Activity(limit int) []events.Event {
	return r.bus.Activity(limit)
}

// Subscribe registers a new subscriber to this table's event stream and
// immediately sends it a snapshot.
func (r *CrapsRuntime) Subscribe(role events.Role, wallet string) *events.Subscriber {
	sub := r.bus.Subscribe(role, wallet)
	r.bus.Snapshot(sub, r.State())
	return sub
}
