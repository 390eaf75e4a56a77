package runtime

import (
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/google/uuid"

	"github.com/feltedge/tablehouse/pkg/events"
	"github.com/feltedge/tablehouse/pkg/ledger"
	"github.com/feltedge/tablehouse/pkg/money"
	"github.com/feltedge/tablehouse/pkg/poker"
)

// PokerRuntime is the poker table façade: it owns the single lock that
// serializes every seat/action against the engine, the ledger, and the
// event bus, and it is the only place a hand is started or chased into
// the next one once the current hand completes.
//
// Action deadlines are owned here, not by the engine (spec: "the
// runtime, not the engine, owns the timer"). A deadline is registered
// whenever action_on is emitted; the process's timer goroutine calls
// ExpireDeadline periodically, which re-enters the critical section,
// re-checks the deadline is still the live one, and auto-folds or
// auto-checks.
type PokerRuntime struct {
	log           slog.Logger
	table         *poker.Table
	ldg           *ledger.Ledger
	bus           *events.Bus
	actionTimeout time.Duration

	mu             sync.Mutex
	deadline       time.Time
	deadlineWallet string
}

// NewPokerRuntime wires a poker engine to its ledger and event bus.
func NewPokerRuntime(table *poker.Table, ldg *ledger.Ledger, bus *events.Bus, actionTimeout time.Duration, log slog.Logger) *PokerRuntime {
	return &PokerRuntime{table: table, ldg: ldg, bus: bus, actionTimeout: actionTimeout, log: log}
}

// Sit debits wallet's ledger balance for buyIn, seats it at seat, and
// kicks off a new hand if the table now has enough stacked seats and no
// hand is in progress. On engine rejection the debit is refunded.
func (r *PokerRuntime) Sit(wallet string, seat int, buyIn money.Amount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref := uuid.NewString()
	ok, err := r.ldg.PlaceWager(wallet, buyIn, ref)
	if err != nil {
		return err
	}
	if !ok {
		return newErr(ErrInsufficientChips, "%s has insufficient chips for a buy-in of %s", wallet, buyIn)
	}

	if err := r.table.Sit(wallet, seat, buyIn); err != nil {
		if refundErr := r.ldg.RefundWager(wallet, buyIn, ref); refundErr != nil {
			r.log.Errorf("failed to refund rejected buy-in for %s: %v", wallet, refundErr)
		}
		return err
	}

	r.bus.Publish(events.TypePlayerJoined, map[string]any{"wallet": wallet, "seat": seat, "buyIn": buyIn}, nil)
	r.maybeStartHandLocked()
	return nil
}

// Stand removes wallet from the table, refused by the engine while it is
// live (holding hole cards) in the current hand. The remaining stack is
// credited back to the ledger.
func (r *PokerRuntime) Stand(wallet string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stack money.Amount
	found := false
	for _, p := range r.table.Seats() {
		if p.Wallet == wallet {
			stack = p.Stack
			found = true
			break
		}
	}
	if !found {
		return newErr(ErrNotSeated, "%s not seated", wallet)
	}

	if err := r.table.Leave(wallet); err != nil {
		return err
	}
	if stack > 0 {
		if err := r.ldg.SettlePushed(wallet, stack, uuid.NewString()); err != nil {
			r.log.Errorf("crediting stand-up stack for %s: %v", wallet, err)
			return err
		}
	}
	r.bus.Publish(events.TypePlayerLeft, map[string]any{"wallet": wallet, "stack": stack}, nil)
	return nil
}

// Act applies action by wallet on its turn. Chip movement within a hand
// happens entirely inside the table's pot (the buy-in was already
// debited at Sit); only the terminal stand-up settles chips back with
// the ledger. When a hand completes, the next eligible hand is started
// immediately.
func (r *PokerRuntime) Act(wallet string, action poker.Action, amount money.Amount) (*poker.ActionResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.table.Act(wallet, action, amount)
	if err != nil {
		return nil, err
	}

	r.publishActionResult(res)
	if res.Phase == poker.PhaseComplete {
		r.maybeStartHandLocked()
	} else {
		r.publishActionOnLocked()
	}
	return res, nil
}

func (r *PokerRuntime) publishActionResult(res *poker.ActionResult) {
	r.bus.Publish(events.TypePlayerActed, map[string]any{"phase": res.Phase}, nil)
	if len(res.CommunityCards) > 0 {
		switch len(res.CommunityCards) {
		case 3:
			r.bus.Publish(events.TypeFlopDealt, res.CommunityCards, nil)
		case 4:
			r.bus.Publish(events.TypeTurnDealt, res.CommunityCards[len(res.CommunityCards)-1], nil)
		case 5:
			r.bus.Publish(events.TypeRiverDealt, res.CommunityCards[len(res.CommunityCards)-1], nil)
		}
	}
	if res.Showdown != nil {
		r.bus.Publish(events.TypeShowdown, res.Showdown, nil)
		r.bus.Publish(events.TypePotAwarded, res.Showdown.Pots, nil)
		r.bus.Publish(events.TypeHandComplete, map[string]any{"handNumber": res.Showdown.HandNumber}, nil)
	}
}

// maybeStartHandLocked deals a new hand if the table is idle and has at
// least two stacked seats. Called with r.mu already held.
func (r *PokerRuntime) maybeStartHandLocked() {
	if r.table.Phase() != poker.PhaseWaiting && r.table.Phase() != poker.PhaseComplete {
		return
	}
	started, err := r.table.StartHand()
	if err != nil {
		// Not enough eligible seats yet; this is the common case, not a
		// failure worth logging loudly.
		return
	}
	private := make(map[string]any, len(r.table.Seats()))
	for _, p := range r.table.Seats() {
		private[p.Wallet] = map[string]any{"holeCards": p.HoleCards}
	}
	r.bus.Publish(events.TypeHandStarted, started, nil)
	r.bus.Publish(events.TypeBlindsPosted, started, nil)
	r.bus.Publish(events.TypeHoleCardsDealt, map[string]any{"dealt": true}, private)
	r.publishActionOnLocked()
}

func (r *PokerRuntime) publishActionOnLocked() {
	actor := r.table.CurrentActor()
	if actor == "" {
		r.deadlineWallet = ""
		return
	}
	actions, err := r.table.ValidActions(actor)
	if err != nil {
		return
	}
	r.deadline = time.Now().Add(r.actionTimeout)
	r.deadlineWallet = actor
	r.bus.Publish(events.TypeActionOn, map[string]any{"seat": actor}, map[string]any{
		actor: map[string]any{"seat": actor, "validActions": actions},
	})
}

// ExpireDeadline auto-folds (if facing a bet) or auto-checks (if not)
// the seat whose action deadline has passed. A stale firing — the
// deadline was bumped or cleared by an intervening action, or this
// isn't actually past it yet — is a no-op, since deadline cancellation
// is best-effort per spec.
func (r *PokerRuntime) ExpireDeadline(wallet string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deadlineWallet == "" || r.deadlineWallet != wallet {
		return
	}
	if time.Now().Before(r.deadline) {
		return
	}
	if r.table.CurrentActor() != wallet {
		return
	}

	actions, err := r.table.ValidActions(wallet)
	if err != nil {
		return
	}
	action := poker.ActionFold
	for _, a := range actions {
		if a.Action == poker.ActionCheck {
			action = poker.ActionCheck
			break
		}
	}

	res, err := r.table.Act(wallet, action, 0)
	if err != nil {
		r.log.Errorf("auto-action for %s failed: %v", wallet, err)
		return
	}
	r.publishActionResult(res)
	if res.Phase == poker.PhaseComplete {
		r.maybeStartHandLocked()
	} else {
		r.publishActionOnLocked()
	}
}

// PendingDeadline reports the wallet and time currently on the clock, if
// any, for the process's timer goroutine to poll.
func (r *PokerRuntime) PendingDeadline() (wallet string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deadlineWallet, r.deadline
}

// Chat broadcasts a chat event from a seated wallet.
func (r *PokerRuntime) Chat(wallet, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(message) == 0 || len(message) > maxChatLen {
		return newErr(ErrChatTooLong, "chat message must be 1-%d bytes", maxChatLen)
	}
	found := false
	for _, p := range r.table.Seats() {
		if p.Wallet == wallet {
			found = true
			break
		}
	}
	if !found {
		return newErr(ErrNotSeated, "%s is not seated", wallet)
	}
	r.bus.Publish(events.TypeChat, map[string]string{"wallet": wallet, "message": message}, nil)
	return nil
}

// CashoutRequest delegates to the ledger. A poker player must stand up
// (no seat) before cashing out, since their chips would otherwise be
// committed to the table's stack rather than the ledger balance.
func (r *PokerRuntime) CashoutRequest(wallet string, amount money.Amount, toAddress string) (*ledger.CashoutRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.table.Seats() {
		if p.Wallet == wallet {
			return nil, newErr(ErrAtTable, "%s must stand before cashing out", wallet)
		}
	}
	return r.ldg.RequestCashout(wallet, amount, toAddress)
}

// PokerSeatView is one seat's public projection: hole cards are present
// only when the viewer is entitled to see them.
type PokerSeatView struct {
	Seat            int          `json:"seat"`
	Wallet          string       `json:"wallet"`
	Stack           money.Amount `json:"stack"`
	CurrentBet      money.Amount `json:"currentBet"`
	TotalInvested   money.Amount `json:"totalInvested"`
	Folded          bool         `json:"folded"`
	AllIn           bool         `json:"allIn"`
	HoleCards       []poker.Card `json:"holeCards,omitempty"`
}

// PokerSnapshot is the table-wide view delivered to a subscriber, built
// with the hole-card visibility appropriate to that subscriber.
type PokerSnapshot struct {
	Phase          poker.Phase     `json:"phase"`
	HandNumber     int64           `json:"handNumber,omitempty"`
	CommunityCards []poker.Card    `json:"communityCards,omitempty"`
	Pot            money.Amount    `json:"pot"`
	CurrentActor   string          `json:"currentActor,omitempty"`
	Seats          []PokerSeatView `json:"seats"`
}

// State returns the public snapshot for spectators (no hole cards, with
// the single exception of a completed hand that actually reached
// showdown) or the per-wallet snapshot (own hole cards too) for a
// player. A hand awarded uncontested on a fold-around never reveals
// anyone's cards, matching the winner mucking. operatorOverride always
// yields every seat's hole cards, live hand or not, the sole exception
// spec.md:186 carves out of "spectators never see hole cards."
func (r *PokerRuntime) State(forWallet string, operatorOverride bool) PokerSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(forWallet, operatorOverride)
}

func (r *PokerRuntime) snapshotLocked(forWallet string, operatorOverride bool) PokerSnapshot {
	phase := r.table.Phase()
	revealed := phase == poker.PhaseComplete && r.table.ReachedShowdown()
	snap := PokerSnapshot{
		Phase:          phase,
		CommunityCards: r.table.CommunityCards(),
		Pot:            r.table.Pot(),
		CurrentActor:   r.table.CurrentActor(),
	}
	for _, p := range r.table.Seats() {
		sv := PokerSeatView{
			Seat:          p.TableSeat,
			Wallet:        p.Wallet,
			Stack:         p.Stack,
			CurrentBet:    p.CurrentBet,
			TotalInvested: r.table.TotalInvested(p.TableSeat),
			Folded:        p.HasFolded,
			AllIn:         p.IsAllIn,
		}
		// A spectator (or player looking at someone else's seat) only
		// ever sees hole cards once the hand they belong to is no
		// longer in progress, and never for a seat that mucked by
		// folding. Operators, and the wallet's own seat, always see
		// through that gate.
		switch {
		case operatorOverride, p.Wallet == forWallet:
			sv.HoleCards = p.HoleCards
		case revealed && !p.HasFolded:
			sv.HoleCards = p.HoleCards
		}
		snap.Seats = append(snap.Seats, sv)
	}
	return snap
}

// Activity returns up to limit of the most recent table events.
func (r *PokerRuntime) Activity(limit int) []events.Event {
	return r.bus.Activity(limit)
}

// Subscribe registers a new subscriber to this table's event stream and
// immediately sends it a snapshot appropriate to its role. Only an
// operator subscription bypasses the phase-gated hole-card visibility
// in snapshotLocked; a spectator's initial snapshot is subject to the
// exact same "no hole cards mid-hand" rule as the public HTTP state
// endpoint.
func (r *PokerRuntime) Subscribe(role events.Role, wallet string) *events.Subscriber {
	sub := r.bus.Subscribe(role, wallet)
	operatorOverride := role == events.RoleOperator
	r.bus.Snapshot(sub, r.State(wallet, operatorOverride))
	return sub
}
