package poker

import (
	"time"

	"github.com/feltedge/tablehouse/pkg/money"
)

// ActionResult reports what happened after Act: the updated phase,
// community cards if a new street was dealt, and showdown results if the
// hand just concluded.
type ActionResult struct {
	Phase          Phase
	CommunityCards []Card
	Showdown       *ShowdownResult
}

// ShowdownResult is the outcome of resolving every pot at the end of a
// hand.
type ShowdownResult struct {
	Pots        []PotResult
	HandNumber  int64
}

// PotResult is one pot's award, naming who won it and by what hand.
type PotResult struct {
	Amount   money.Amount
	Winners  []string
	Shares   map[string]money.Amount
	WinningHand *HandValue // nil if awarded uncontested (everyone else folded)
}

// Act applies action by wallet on its turn, with amount meaningful only
// for Bet/Raise (the total size to bet/raise to, not the incremental
// chip count).
func (t *Table) Act(wallet string, action Action, amount money.Amount) (*ActionResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.assertTurn(wallet); err != nil {
		return nil, err
	}
	seat, p := t.findSeat(wallet)
	g := t.game

	if action == ActionAllIn {
		if p.Stack == 0 {
			return nil, newErr(ErrIllegalAction, "no chips left to go all in with")
		}
		amount = p.CurrentBet + p.Stack
		if g.currentBet == 0 {
			action = ActionBet
		} else {
			action = ActionRaise
		}
	}

	switch action {
	case ActionFold:
		p.HasFolded = true
		p.SetGameState("FOLDED")
	case ActionCheck:
		if g.currentBet-p.CurrentBet > 0 {
			return nil, newErr(ErrIllegalAction, "cannot check facing a bet of %s", g.currentBet)
		}
	case ActionCall:
		toCall := g.currentBet - p.CurrentBet
		if toCall <= 0 {
			return nil, newErr(ErrIllegalAction, "nothing to call")
		}
		t.commit(seat, p, toCall)
	case ActionBet, ActionRaise:
		if amount <= p.CurrentBet {
			return nil, newErr(ErrBadAmount, "amount %s does not increase the bet", amount)
		}
		delta := amount - p.CurrentBet
		if delta > p.Stack {
			return nil, newErr(ErrBadAmount, "amount %s exceeds stack", amount)
		}
		isAllIn := delta == p.Stack
		minTo := g.currentBet + g.lastRaiseBy
		if g.currentBet == 0 {
			minTo = t.cfg.BigBlind
		}
		if amount < minTo && !isAllIn {
			return nil, newErr(ErrBadAmount, "raise to %s is below the minimum of %s", amount, minTo)
		}
		raiseSize := amount - g.currentBet
		t.commit(seat, p, delta)
		if amount > g.currentBet {
			if raiseSize > g.lastRaiseBy {
				g.lastRaiseBy = raiseSize
			}
			g.currentBet = amount
			g.aggressor = seat
			g.acted = map[int]bool{seat: true}
		}
	default:
		return nil, newErr(ErrIllegalAction, "unknown action %q", action)
	}

	if p.Stack == 0 && !p.HasFolded {
		p.IsAllIn = true
		p.SetGameState("ALL_IN")
	}
	g.acted[seat] = true
	p.LastAction = time.Now()

	return t.afterAction()
}

// commit moves delta chips from p's stack into the pot, tracking both
// the seat's current-round bet and the hand's whole investment.
func (t *Table) commit(seat int, p *Player, delta money.Amount) {
	p.Stack -= delta
	p.CurrentBet += delta
	t.game.pot.AddBet(seat, delta)
}

// afterAction advances the turn, closes the betting round and deals the
// next street (or runs straight to showdown) once every live seat has
// matched the bet, and resolves the hand once the river round closes.
func (t *Table) afterAction() (*ActionResult, error) {
	g := t.game

	if len(g.liveSeats(t.seats)) <= 1 {
		return t.concludeUncontested()
	}

	if !g.bettingRoundClosed(t.seats) {
		g.advanceSeat(t.seats)
		return &ActionResult{Phase: g.phase}, nil
	}

	if g.allButOneAllInOrFolded(t.seats) {
		for g.phase != PhaseShowdown {
			g.nextStreet()
		}
		return t.runShowdown()
	}

	g.nextStreet()
	if g.phase == PhaseShowdown {
		return t.runShowdown()
	}
	g.startBettingRound(t.seats)
	return &ActionResult{Phase: g.phase, CommunityCards: g.community}, nil
}

// concludeUncontested awards the pot to the sole remaining live seat
// without a showdown, as every other seat folded.
func (t *Table) concludeUncontested() (*ActionResult, error) {
	g := t.game
	live := g.liveSeats(t.seats)

	refundSeat, refund, ok := g.pot.ReturnUncalledRaise(liveSeatsIncludingAllIn(t.seats, g.seatOrder))
	if ok {
		t.seats[refundSeat].Stack += refund
	}

	var winnerWallet string
	var amount money.Amount
	if len(live) == 1 {
		winnerWallet = t.seats[live[0]].Wallet
		amount = g.pot.Total()
		t.seats[live[0]].Stack += amount
	}

	g.phase = PhaseComplete
	t.game = &Game{phase: PhaseComplete, pot: NewPotManager()}

	return &ActionResult{
		Phase: PhaseComplete,
		Showdown: &ShowdownResult{
			HandNumber: t.handNumber,
			Pots: []PotResult{{
				Amount:  amount,
				Winners: []string{winnerWallet},
				Shares:  map[string]money.Amount{winnerWallet: amount},
			}},
		},
	}, nil
}

// ReachedShowdown reports whether the hand that just finished (or is
// finishing) actually went to showdown, as opposed to being awarded
// uncontested because everyone else folded. Spectators never see hole
// cards for an uncontested win — the winner mucks just like a folded
// seat would.
func (t *Table) ReachedShowdown() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.game != nil && t.game.reachedShowdown
}

func liveSeatsIncludingAllIn(seats map[int]*Player, seatOrder []int) []int {
	out := make([]int, 0, len(seatOrder))
	for _, s := range seatOrder {
		if p, ok := seats[s]; ok && !p.HasFolded {
			out = append(out, s)
		}
	}
	return out
}

// runShowdown evaluates every live seat's hand, builds side pots from
// the hand's whole investment, and distributes each pot to its winners.
func (t *Table) runShowdown() (*ActionResult, error) {
	g := t.game
	g.phase = PhaseShowdown

	handOf := make(map[int]*HandValue)
	for _, s := range g.liveSeats(t.seats) {
		p := t.seats[s]
		all := append(append([]Card{}, p.HoleCards...), g.community...)
		hv, err := Evaluate(all)
		if err != nil {
			return nil, err
		}
		p.HandValue = &hv
		handOf[s] = &hv
	}

	pots := g.pot.BuildPots(g.seatOrder, func(s int) bool { return t.seats[s].HasFolded })
	firstToAct := g.seatOrder[1%len(g.seatOrder)]
	awards := DistributePots(pots, func(s int) *HandValue { return handOf[s] }, firstToAct, g.seatOrder)

	results := make([]PotResult, 0, len(awards))
	for _, a := range awards {
		shares := make(map[string]money.Amount, len(a.Shares))
		winners := make([]string, 0, len(a.Winners))
		for seat, share := range a.Shares {
			w := t.seats[seat].Wallet
			shares[w] = share
			t.seats[seat].Stack += share
		}
		for _, seat := range a.Winners {
			winners = append(winners, t.seats[seat].Wallet)
		}
		var hv *HandValue
		if len(a.Winners) > 0 {
			hv = handOf[a.Winners[0]]
		}
		results = append(results, PotResult{Amount: a.Pot.Amount, Winners: winners, Shares: shares, WinningHand: hv})
	}

	g.phase = PhaseComplete
	hn := t.handNumber
	community := g.community
	t.game = &Game{phase: PhaseComplete, pot: NewPotManager(), reachedShowdown: true}

	return &ActionResult{
		Phase:          PhaseComplete,
		CommunityCards: community,
		Showdown:       &ShowdownResult{Pots: results, HandNumber: hn},
	}, nil
}

// CommunityCards returns the board dealt so far in the current hand.
func (t *Table) CommunityCards() []Card {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.game == nil {
		return nil
	}
	return append([]Card(nil), t.game.community...)
}

// Pot returns the total chips invested in the current hand.
func (t *Table) Pot() money.Amount {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.game == nil {
		return 0
	}
	return t.game.pot.Total()
}

// TotalInvested returns how much seat has put into the pot across the
// whole hand so far, 0 if no hand is in progress.
func (t *Table) TotalInvested(seat int) money.Amount {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.game == nil {
		return 0
	}
	return t.game.pot.TotalBet(seat)
}

// CurrentActor returns the wallet whose turn it is, or "" if no betting
// round is in progress.
func (t *Table) CurrentActor() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.game == nil {
		return ""
	}
	seat := t.game.currentSeat()
	if p, ok := t.seats[seat]; ok {
		return p.Wallet
	}
	return ""
}

// Seats returns a snapshot of every occupied seat, ascending by index.
func (t *Table) Seats() []*Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Player, 0, len(t.seats))
	for _, s := range t.occupiedSeatsAscending() {
		cp := *t.seats[s]
		out = append(out, &cp)
	}
	return out
}
