package poker

import (
	"github.com/feltedge/tablehouse/pkg/money"
)

// Phase is one of the hand phases a table moves through.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePreflop  Phase = "preflop"
	PhaseFlop     Phase = "flop"
	PhaseTurn     Phase = "turn"
	PhaseRiver    Phase = "river"
	PhaseShowdown Phase = "showdown"
	PhaseComplete Phase = "complete"
)

// Action is one of the actions a seat may take on its turn.
type Action string

const (
	ActionFold  Action = "fold"
	ActionCheck Action = "check"
	ActionCall  Action = "call"
	ActionBet   Action = "bet"
	ActionRaise Action = "raise"
	ActionAllIn Action = "all_in"
)

// GameConfig holds the blind structure for hands dealt at a table.
type GameConfig struct {
	SmallBlind money.Amount
	BigBlind   money.Amount
}

// Game is the state of a single hand in progress: the deck, community
// cards, pot, and betting-round bookkeeping. A Table owns at most one
// live Game at a time.
type Game struct {
	cfg GameConfig

	deck      *Deck
	community []Card
	pot       *PotManager

	phase Phase

	// reachedShowdown is set only when every remaining seat's hand was
	// actually evaluated at showdown. A hand that ends by everyone but
	// one seat folding never sets this, so the winner's hole cards stay
	// hidden from spectators exactly like a folded seat's would.
	reachedShowdown bool

	seatOrder   []int // seats dealt into this hand, in button-relative order
	dealerSeat  int
	currentIdx  int // index into seatOrder of the seat to act
	currentBet  money.Amount
	lastRaiseBy money.Amount // size of the last raise, for min-raise enforcement
	aggressor   int          // seat that last bet/raised; round closes when action returns to them
	acted       map[int]bool
}

func newGame(cfg GameConfig, dealerSeat int, seatOrder []int) *Game {
	return &Game{
		cfg:        cfg,
		deck:       NewDeck(),
		pot:        NewPotManager(),
		phase:      PhasePreflop,
		seatOrder:  seatOrder,
		dealerSeat: dealerSeat,
		aggressor:  -1,
		acted:      make(map[int]bool),
	}
}

// liveSeats returns the seats (from seatOrder) that have neither folded
// nor left the table.
func (g *Game) liveSeats(seats map[int]*Player) []int {
	live := make([]int, 0, len(g.seatOrder))
	for _, s := range g.seatOrder {
		if p, ok := seats[s]; ok && !p.HasFolded {
			live = append(live, s)
		}
	}
	return live
}

// canAct reports whether seat still has a decision to make (live and not
// all-in).
func canAct(seats map[int]*Player, seat int) bool {
	p, ok := seats[seat]
	return ok && !p.HasFolded && !p.IsAllIn
}

// startBettingRound resets per-round bookkeeping and sets the first seat
// to act. Preflop acts starting from the seat after the big blind (or,
// heads-up, the small blind/dealer); every later street starts from the
// first live seat after the dealer button.
func (g *Game) startBettingRound(seats map[int]*Player) {
	g.pot.StartNewRound()
	g.currentBet = 0
	g.lastRaiseBy = g.cfg.BigBlind
	g.aggressor = -1
	g.acted = make(map[int]bool)
	for _, s := range g.seatOrder {
		if p, ok := seats[s]; ok {
			p.CurrentBet = 0
		}
	}
	g.currentIdx = g.firstToActIndex(seats)
}

// firstToActIndex returns the seatOrder index of whoever acts first on
// the current street. seatOrder[0] is always the button; seatOrder[1]
// is the small blind and seatOrder[2] the big blind when there are
// three or more seats.
func (g *Game) firstToActIndex(seats map[int]*Player) int {
	n := len(g.seatOrder)
	var from int
	switch {
	case g.phase == PhasePreflop && n == 2:
		from = 0 // heads-up: button/small blind acts first preflop
	case g.phase == PhasePreflop:
		from = 3 % n // seat after the big blind
	default:
		from = 1 % n // first live seat after the button (the small blind spot)
	}
	for i := 0; i < n; i++ {
		idx := (from + i) % n
		if canAct(seats, g.seatOrder[idx]) {
			return idx
		}
	}
	return from
}

// bettingRoundClosed reports whether every seat still able to act has
// acted and matched the current bet (or is all-in for less).
func (g *Game) bettingRoundClosed(seats map[int]*Player) bool {
	live := g.liveSeats(seats)
	if len(live) <= 1 {
		return true
	}
	for _, s := range live {
		p := seats[s]
		if p.IsAllIn {
			continue
		}
		if !g.acted[s] || p.CurrentBet != g.currentBet {
			return false
		}
	}
	return true
}

// advanceSeat moves currentIdx to the next seat still able to act,
// wrapping around the table.
func (g *Game) advanceSeat(seats map[int]*Player) {
	n := len(g.seatOrder)
	for i := 1; i <= n; i++ {
		idx := (g.currentIdx + i) % n
		if canAct(seats, g.seatOrder[idx]) {
			g.currentIdx = idx
			return
		}
	}
}

func (g *Game) currentSeat() int {
	if len(g.seatOrder) == 0 {
		return -1
	}
	return g.seatOrder[g.currentIdx]
}

// nextStreet deals the community cards for the next phase and returns
// the new phase.
func (g *Game) nextStreet() Phase {
	switch g.phase {
	case PhasePreflop:
		g.deck.Burn()
		g.community = append(g.community, g.deck.Draw(), g.deck.Draw(), g.deck.Draw())
		g.phase = PhaseFlop
	case PhaseFlop:
		g.deck.Burn()
		g.community = append(g.community, g.deck.Draw())
		g.phase = PhaseTurn
	case PhaseTurn:
		g.deck.Burn()
		g.community = append(g.community, g.deck.Draw())
		g.phase = PhaseRiver
	case PhaseRiver:
		g.phase = PhaseShowdown
	}
	return g.phase
}

// allButOneAllInOrFolded reports whether the hand should run out all
// remaining streets face up without further betting: at most one live
// seat can still voluntarily act.
func (g *Game) allButOneAllInOrFolded(seats map[int]*Player) bool {
	canStillBet := 0
	for _, s := range g.liveSeats(seats) {
		if !seats[s].IsAllIn {
			canStillBet++
		}
	}
	return canStillBet <= 1
}
