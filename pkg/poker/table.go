package poker

import (
	"sort"
	"sync"
	"time"

	"github.com/decred/slog"

	"github.com/feltedge/tablehouse/pkg/money"
)

// TableConfig holds a poker table's static configuration.
type TableConfig struct {
	SmallBlind   money.Amount
	BigBlind     money.Amount
	MinBuyIn     money.Amount
	MaxBuyIn     money.Amount
	MaxSeats     int
	ActionTimeout time.Duration
}

// Table is a single No-Limit Hold'em table: seating, the button, and at
// most one hand (Game) in progress at a time. All mutation happens
// under mu.
type Table struct {
	cfg TableConfig
	log slog.Logger

	mu sync.Mutex

	seats      map[int]*Player // seat index -> occupant
	buttonSeat int             // -1 until the first hand is dealt
	handNumber int64

	game *Game
}

// New constructs an empty table in the waiting phase.
func New(cfg TableConfig, log slog.Logger) *Table {
	return &Table{
		cfg:        cfg,
		log:        log,
		seats:      make(map[int]*Player),
		buttonSeat: -1,
	}
}

// Phase returns "waiting" if no hand is in progress, else the current
// hand's phase.
func (t *Table) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.game == nil {
		return PhaseWaiting
	}
	return t.game.phase
}

// Sit seats wallet at the given seat index with the given starting
// stack. The seat must be empty and the table not already seating that
// wallet elsewhere; stack must fall within [MinBuyIn, MaxBuyIn].
func (t *Table) Sit(wallet string, seat int, stack money.Amount) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seat < 0 || seat >= t.cfg.MaxSeats {
		return newErr(ErrIllegalAction, "seat %d out of range", seat)
	}
	if _, occupied := t.seats[seat]; occupied {
		return newErr(ErrTableFull, "seat %d already occupied", seat)
	}
	for _, p := range t.seats {
		if p.Wallet == wallet {
			return newErr(ErrAlreadySeated, "%s already seated", wallet)
		}
	}
	if stack < t.cfg.MinBuyIn || stack > t.cfg.MaxBuyIn {
		return newErr(ErrBuyInLimit, "stack %s outside [%s, %s]", stack, t.cfg.MinBuyIn, t.cfg.MaxBuyIn)
	}

	p := NewPlayer(wallet, stack)
	p.TableSeat = seat
	t.seats[seat] = p
	return nil
}

// Leave removes wallet from the table. Refused while wallet is live in
// the current hand (seated players who have already folded, or whose
// hand has not started, may leave freely).
func (t *Table) Leave(wallet string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	seat, p := t.findSeat(wallet)
	if p == nil {
		return newErr(ErrNotSeated, "%s not seated", wallet)
	}
	if t.game != nil && !p.HasFolded {
		for _, s := range t.game.seatOrder {
			if s == seat {
				return newErr(ErrInHand, "%s is live in the current hand", wallet)
			}
		}
	}
	delete(t.seats, seat)
	return nil
}

func (t *Table) findSeat(wallet string) (int, *Player) {
	for seat, p := range t.seats {
		if p.Wallet == wallet {
			return seat, p
		}
	}
	return -1, nil
}

func (t *Table) occupiedSeatsAscending() []int {
	out := make([]int, 0, len(t.seats))
	for s := range t.seats {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// HandStarted summarizes the blinds posted and seats dealt in for a new
// hand, for the runtime to broadcast.
type HandStarted struct {
	HandNumber      int64
	ButtonSeat      int
	SmallBlindSeat  int
	SmallBlindPosted money.Amount
	BigBlindSeat    int
	BigBlindPosted  money.Amount
}

// StartHand deals a new hand to every seated player with chips left.
// Requires at least two such seats; a seat short of a blind posts what it
// has and is all-in.
func (t *Table) StartHand() (*HandStarted, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.game != nil && t.game.phase != PhaseComplete {
		return nil, newErr(ErrHandInProgress, "a hand is already in progress")
	}

	eligible := make([]int, 0, len(t.seats))
	for _, s := range t.occupiedSeatsAscending() {
		if t.seats[s].Stack > 0 {
			eligible = append(eligible, s)
		}
	}
	if len(eligible) < 2 {
		return nil, newErr(ErrNotEnoughSeats, "need at least 2 seats with chips to start a hand")
	}

	t.buttonSeat = nextButton(t.buttonSeat, eligible)
	seatOrder := rotateFrom(eligible, t.buttonSeat)

	t.handNumber++
	g := newGame(GameConfig{SmallBlind: t.cfg.SmallBlind, BigBlind: t.cfg.BigBlind}, t.buttonSeat, seatOrder)
	if err := g.deck.Shuffle(); err != nil {
		return nil, err
	}
	t.game = g

	for _, s := range seatOrder {
		p := t.seats[s]
		p.ResetForNewHand(p.Stack)
	}

	for i := 0; i < 2; i++ {
		for _, s := range seatOrder {
			t.seats[s].HoleCards = append(t.seats[s].HoleCards, g.deck.Draw())
		}
	}

	sbSeat, bbSeat := blindSeats(seatOrder)
	sbAmt := t.postBlind(sbSeat, t.cfg.SmallBlind)
	bbAmt := t.postBlind(bbSeat, t.cfg.BigBlind)
	g.currentBet = bbAmt
	g.aggressor = bbSeat

	g.startBettingRound(t.seats)
	// startBettingRound clears CurrentBet/acted for the fresh round, but
	// the blinds already posted stand as this round's opening bet.
	g.currentBet = bbAmt
	t.seats[sbSeat].CurrentBet = sbAmt
	t.seats[bbSeat].CurrentBet = bbAmt

	return &HandStarted{
		HandNumber:       t.handNumber,
		ButtonSeat:       t.buttonSeat,
		SmallBlindSeat:   sbSeat,
		SmallBlindPosted: sbAmt,
		BigBlindSeat:     bbSeat,
		BigBlindPosted:   bbAmt,
	}, nil
}

// postBlind debits the posting seat for min(amount, stack) — short
// stacks post all-in for less — and records it in the pot.
func (t *Table) postBlind(seat int, amount money.Amount) money.Amount {
	p := t.seats[seat]
	post := amount
	if post > p.Stack {
		post = p.Stack
	}
	p.Stack -= post
	t.game.pot.AddBet(seat, post)
	if p.Stack == 0 {
		p.IsAllIn = true
	}
	return post
}

// blindSeats returns (smallBlind, bigBlind) seat numbers given a
// button-first seatOrder. Heads-up: the button posts the small blind.
func blindSeats(seatOrder []int) (sb, bb int) {
	n := len(seatOrder)
	if n == 2 {
		return seatOrder[0], seatOrder[1]
	}
	return seatOrder[1], seatOrder[2]
}

func nextButton(current int, eligible []int) int {
	if current < 0 {
		return eligible[0]
	}
	for _, s := range eligible {
		if s > current {
			return s
		}
	}
	return eligible[0]
}

func rotateFrom(seats []int, from int) []int {
	idx := 0
	for i, s := range seats {
		if s == from {
			idx = i
			break
		}
	}
	out := make([]int, 0, len(seats))
	out = append(out, seats[idx:]...)
	out = append(out, seats[:idx]...)
	return out
}

// ValidAction describes one action a seat may currently take, with the
// bet-sizing bounds that apply to it (zero for Fold/Check/Call).
type ValidAction struct {
	Action      Action
	MinAmount   money.Amount // for Bet/Raise: the minimum total bet/raise-to size
	MaxAmount   money.Amount // for Bet/Raise: the seat's full stack (no-limit)
	CallAmount  money.Amount // for Call: the amount it costs to call
}

// ValidActions returns the actions available to wallet right now, or an
// error if it is not wallet's turn.
func (t *Table) ValidActions(wallet string) ([]ValidAction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.assertTurn(wallet); err != nil {
		return nil, err
	}
	_, p := t.findSeat(wallet)
	g := t.game

	var actions []ValidAction
	toCall := g.currentBet - p.CurrentBet
	actions = append(actions, ValidAction{Action: ActionFold})
	if toCall <= 0 {
		actions = append(actions, ValidAction{Action: ActionCheck})
	} else {
		call := toCall
		if call > p.Stack {
			call = p.Stack
		}
		actions = append(actions, ValidAction{Action: ActionCall, CallAmount: call})
	}

	minRaiseTo := g.currentBet + g.lastRaiseBy
	maxTo := p.CurrentBet + p.Stack
	if p.Stack > 0 && maxTo > g.currentBet {
		if g.currentBet == 0 {
			min := t.cfg.BigBlind
			if min > maxTo {
				min = maxTo
			}
			actions = append(actions, ValidAction{Action: ActionBet, MinAmount: min, MaxAmount: maxTo})
		} else if maxTo > g.currentBet {
			min := minRaiseTo
			if min > maxTo {
				min = maxTo
			}
			actions = append(actions, ValidAction{Action: ActionRaise, MinAmount: min, MaxAmount: maxTo})
		}
	}
	if p.Stack > 0 {
		actions = append(actions, ValidAction{Action: ActionAllIn, MaxAmount: p.CurrentBet + p.Stack})
	}
	return actions, nil
}

func (t *Table) assertTurn(wallet string) error {
	if t.game == nil || (t.game.phase != PhasePreflop && t.game.phase != PhaseFlop &&
		t.game.phase != PhaseTurn && t.game.phase != PhaseRiver) {
		return newErr(ErrNoHand, "no betting round in progress")
	}
	seat, p := t.findSeat(wallet)
	if p == nil {
		return newErr(ErrNotSeated, "%s not seated", wallet)
	}
	if t.game.currentSeat() != seat {
		return newErr(ErrNotYourTurn, "it is not %s's turn", wallet)
	}
	return nil
}
