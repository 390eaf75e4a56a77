package craps

import (
	"sync"

	"github.com/decred/slog"
	"github.com/google/uuid"

	"github.com/feltedge/tablehouse/pkg/money"
)

// Config holds table-wide bet limits.
type Config struct {
	MinBet money.Amount
	MaxBet money.Amount
}

// Table is the singleton craps table. All mutation happens
// under mu, serializing it with respect to itself.
type Table struct {
	cfg Config
	log slog.Logger

	mu sync.Mutex

	phase Phase
	point int

	seated       []string // ordered wallets
	shooterQueue []string // rotation of wallets eligible to shoot; head is shooter
	lastRoll     [2]int
	haveRolled   bool
	rollCount    int

	bets map[string]*Bet
}

// New constructs an empty craps table in the waiting_for_shooter phase.
func New(cfg Config, log slog.Logger) *Table {
	return &Table{
		cfg:   cfg,
		log:   log,
		phase: PhaseWaitingForShooter,
		bets:  make(map[string]*Bet),
	}
}

// placeableIn reports whether kind may be newly placed while phase is
// active.
func placeableIn(kind Kind, phase Phase) bool {
	switch kind {
	case PassLine, DontPass:
		return phase == PhaseComeOutBetting
	case Come, DontCome, Place4, Place5, Place6, Place8, Place9, Place10:
		return phase == PhasePointSetBetting
	case AnyCraps, YoEleven:
		return phase == PhaseComeOutBetting || phase == PhasePointSetBetting
	}
	return false
}

// Phase returns the table's current phase.
func (t *Table) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// Point returns the current point (0 if none).
func (t *Table) Point() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.point
}

// Shooter returns the wallet currently at the head of the shooter queue,
// or "" if no one is seated.
func (t *Table) Shooter() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.shooterQueue) == 0 {
		return ""
	}
	return t.shooterQueue[0]
}

func contains(list []string, w string) bool {
	for _, x := range list {
		if x == w {
			return true
		}
	}
	return false
}

func remove(list []string, w string) []string {
	out := list[:0:0]
	for _, x := range list {
		if x != w {
			out = append(out, x)
		}
	}
	return out
}

// Join seats wallet at the table. The first joiner becomes shooter and the
// table transitions from waiting_for_shooter to come_out_betting.
func (t *Table) Join(wallet string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if contains(t.seated, wallet) {
		// A lone remaining player who just seven-out'ed the table into
		// waiting_for_shooter rejoins the rotation by "joining" again;
		// already being seated elsewhere is a genuine duplicate join.
		if t.phase == PhaseWaitingForShooter {
			t.phase = PhaseComeOutBetting
			return nil
		}
		return newErr(ErrAlreadySeated, "%s already seated", wallet)
	}

	t.seated = append(t.seated, wallet)
	t.shooterQueue = append(t.shooterQueue, wallet)

	if t.phase == PhaseWaitingForShooter {
		t.phase = PhaseComeOutBetting
	}
	return nil
}

// Leave removes wallet from the table. Refused while the wallet has any
// active bet. If the departing
// wallet is the current shooter, the queue rotates to the next shooter;
// if the table becomes empty, it reverts to waiting_for_shooter.
func (t *Table) Leave(wallet string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !contains(t.seated, wallet) {
		return newErr(ErrNotSeated, "%s not seated", wallet)
	}
	for _, b := range t.bets {
		if b.Owner == wallet {
			return newErr(ErrActiveBets, "%s has active bets", wallet)
		}
	}

	t.seated = remove(t.seated, wallet)
	t.shooterQueue = remove(t.shooterQueue, wallet)

	if len(t.seated) == 0 {
		t.phase = PhaseWaitingForShooter
		t.point = 0
	}
	return nil
}

// PlaceBet adds a new bet for wallet. Fails with bad_phase if kind cannot
// be newly placed in the current phase, bet_limit if amount is outside
// [MinBet, MaxBet], or duplicate_bet if wallet already has an active bet
// of a contract kind that allows only one at a time.
func (t *Table) PlaceBet(wallet string, kind Kind, amount money.Amount) (*Bet, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !contains(t.seated, wallet) {
		return nil, newErr(ErrNotSeated, "%s not seated", wallet)
	}
	if !placeableIn(kind, t.phase) {
		return nil, newErr(ErrBadPhase, "%s cannot be placed during %s", kind, t.phase)
	}
	if amount < t.cfg.MinBet || amount > t.cfg.MaxBet {
		return nil, newErr(ErrBetLimit, "amount %s outside [%s, %s]", amount, t.cfg.MinBet, t.cfg.MaxBet)
	}
	if isContractKind(kind) {
		for _, b := range t.bets {
			if b.Owner == wallet && b.Kind == kind {
				return nil, newErr(ErrDuplicateBet, "%s already has an active %s bet", wallet, kind)
			}
		}
	}

	bet := &Bet{
		ID:     uuid.NewString(),
		Owner:  wallet,
		Kind:   kind,
		Amount: amount,
	}
	t.bets[bet.ID] = bet
	return bet, nil
}

// RemoveBet removes a bet outright (used by the runtime to undo a
// placement whose ledger debit failed).
func (t *Table) RemoveBet(betID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.bets[betID]; !ok {
		return newErr(ErrUnknownBet, "no bet with id %s", betID)
	}
	delete(t.bets, betID)
	return nil
}

// Roll validates that wallet is the current shooter, rolls the dice,
// resolves every active bet against the pre-roll phase, and transitions
// the table to its next phase — collapsing the come_out_roll/point_roll
// intermediate phases into one atomic call driven by the runtime.
func (t *Table) Roll(wallet string) (*RollResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.shooterQueue) == 0 || t.shooterQueue[0] != wallet {
		return nil, newErr(ErrNotShooter, "%s is not the current shooter", wallet)
	}
	if t.phase != PhaseComeOutBetting && t.phase != PhasePointSetBetting {
		return nil, newErr(ErrBadPhase, "cannot roll during %s", t.phase)
	}

	dice, err := rollDice()
	if err != nil {
		return nil, err
	}
	roll := total(dice)
	tablePointBefore := t.point

	result := &RollResult{Dice: dice, Total: roll}

	resolutions := make([]Resolution, 0, len(t.bets))
	for id, bet := range t.bets {
		r := resolve(bet, roll, tablePointBefore)
		res := Resolution{
			BetID: bet.ID, Owner: bet.Owner, Kind: bet.Kind,
			Amount: bet.Amount, Outcome: r.outcome, Payout: r.payout,
		}
		resolutions = append(resolutions, res)
		if r.stillActive {
			bet.ComePoint = r.newComePoint
		} else {
			delete(t.bets, id)
		}
	}
	result.Resolutions = resolutions

	t.lastRoll = dice
	t.haveRolled = true
	t.rollCount++

	if tablePointBefore == 0 {
		if isPointNumber(roll) {
			t.point = roll
			t.phase = PhasePointSetBetting
		} else {
			t.point = 0
			t.phase = PhaseComeOutBetting
		}
	} else {
		switch {
		case roll == tablePointBefore:
			t.point = 0
			t.phase = PhaseComeOutBetting
		case roll == 7:
			t.point = 0
			result.ShooterLeft = wallet
			t.rollCount = 0
			t.shooterQueue = append(remove(t.shooterQueue, wallet), wallet)
			if len(t.seated) <= 1 {
				t.phase = PhaseWaitingForShooter
			} else {
				t.phase = PhaseComeOutBetting
				result.NewShooter = t.shooterQueue[0]
			}
		default:
			// point not made, no seven: stays on the point phase.
		}
	}

	result.Phase = t.phase
	result.Point = t.point
	return result, nil
}

// ActiveBets returns a snapshot of every bet currently on the table.
func (t *Table) ActiveBets() []*Bet {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Bet, 0, len(t.bets))
	for _, b := range t.bets {
		cp := *b
		out = append(out, &cp)
	}
	return out
}

// Seated returns a copy of the seated-wallet list in table order.
func (t *Table) Seated() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.seated...)
}

// LastRoll returns the most recent dice pair and whether any roll has
// happened yet.
func (t *Table) LastRoll() ([2]int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastRoll, t.haveRolled
}
