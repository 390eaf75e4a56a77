package poker

import (
	"sort"

	"github.com/feltedge/tablehouse/pkg/money"
)

// Pot is one pot (main or side): its size and the set of seats eligible
// to win it.
type Pot struct {
	Amount    money.Amount
	Eligible  map[int]bool // seat index -> eligible
}

func newPot() *Pot {
	return &Pot{Amount: 0, Eligible: make(map[int]bool)}
}

// PotManager tracks investment across a single hand and resolves it into
// a main pot plus any side pots once the hand reaches showdown (or an
// all-in run-out), using the investment-level algorithm: sort the
// distinct amounts any seat in the hand (folded or not) has put in, and
// carve one pot per
// level, each funded by every seat that invested at least that much and
// eligible only to seats that did so without folding.
type PotManager struct {
	invested map[int]money.Amount // seat -> total put in across the whole hand
	round    map[int]money.Amount // seat -> put in during the current betting round only
}

// NewPotManager returns an empty pot manager for a fresh hand.
func NewPotManager() *PotManager {
	return &PotManager{
		invested: make(map[int]money.Amount),
		round:    make(map[int]money.Amount),
	}
}

// AddBet records seat committing amount more chips, in both the
// whole-hand and current-round totals.
func (pm *PotManager) AddBet(seat int, amount money.Amount) {
	pm.invested[seat] += amount
	pm.round[seat] += amount
}

// RoundBet returns how much seat has put in during the current round.
func (pm *PotManager) RoundBet(seat int) money.Amount { return pm.round[seat] }

// TotalBet returns how much seat has put into the pot across the whole
// hand.
func (pm *PotManager) TotalBet(seat int) money.Amount { return pm.invested[seat] }

// StartNewRound clears the current-round counters at the start of each
// betting round, leaving whole-hand totals untouched.
func (pm *PotManager) StartNewRound() {
	pm.round = make(map[int]money.Amount)
}

// Total returns the sum of every seat's whole-hand investment.
func (pm *PotManager) Total() money.Amount {
	var total money.Amount
	for _, v := range pm.invested {
		total += v
	}
	return total
}

// ReturnUncalledRaise hands back the portion of the current round's
// largest bet that no other live seat called, when that seat is the only
// one left who could have called it. Returns the seat and amount
// refunded, or (0, 0, false) if nothing is owed back.
func (pm *PotManager) ReturnUncalledRaise(liveSeats []int) (seat int, amount money.Amount, ok bool) {
	var highest, secondHighest money.Amount
	highSeat := -1
	for _, s := range liveSeats {
		b := pm.round[s]
		switch {
		case b > highest:
			secondHighest = highest
			highest = b
			highSeat = s
		case b > secondHighest:
			secondHighest = b
		}
	}
	if highSeat < 0 || highest <= secondHighest {
		return 0, 0, false
	}
	refund := highest - secondHighest
	pm.invested[highSeat] -= refund
	pm.round[highSeat] -= refund
	return highSeat, refund, true
}

// FoldedFunc reports, for BuildPots, whether a seat has folded (and is
// therefore ineligible despite having invested).
type FoldedFunc func(seat int) bool

// BuildPots partitions the whole-hand investment into a main pot and any
// side pots. liveSeats lists every seat that put any chips in this hand
// (folded or not); a seat that folded still contributes its chips to
// every pot its investment reaches, it is simply never eligible to win
// them.
func (pm *PotManager) BuildPots(liveSeats []int, folded FoldedFunc) []*Pot {
	levels := distinctPositiveLevels(pm.invested, liveSeats)
	if len(levels) == 0 {
		return nil
	}

	pots := make([]*Pot, 0, len(levels))
	var prev money.Amount
	for _, level := range levels {
		pot := newPot()
		for _, s := range liveSeats {
			inv := pm.invested[s]
			if inv <= prev {
				continue
			}
			contribution := inv
			if contribution > level {
				contribution = level
			}
			pot.Amount += contribution - prev
			if inv >= level && !folded(s) {
				pot.Eligible[s] = true
			}
		}
		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
		prev = level
	}
	return pots
}

func distinctPositiveLevels(invested map[int]money.Amount, liveSeats []int) []money.Amount {
	seen := make(map[money.Amount]bool)
	var levels []money.Amount
	for _, s := range liveSeats {
		v := invested[s]
		if v > 0 && !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	return levels
}

// Award is one pot's resolution: who won it and how much each gets (any
// odd chip is already included in the first winner's share).
type Award struct {
	Pot     *Pot
	Winners []int
	Shares  map[int]money.Amount
}

// DistributePots resolves every pot to its winner(s). handOf returns a
// seat's best HandValue (nil if the seat folded or never showed). For
// each pot, the eligible seat(s) with the best hand split it evenly; any
// remainder from an uneven split goes to the first eligible winner found
// scanning clockwise from firstToAct, matching the house's odd-chip
// convention.
func DistributePots(pots []*Pot, handOf func(seat int) *HandValue, firstToAct int, seatOrder []int) []Award {
	awards := make([]Award, 0, len(pots))
	for _, pot := range pots {
		var winners []int
		var best *HandValue
		for _, s := range orderedFrom(seatOrder, firstToAct) {
			if !pot.Eligible[s] {
				continue
			}
			hv := handOf(s)
			if hv == nil {
				continue
			}
			switch {
			case best == nil || CompareHands(*hv, *best) > 0:
				best = hv
				winners = []int{s}
			case CompareHands(*hv, *best) == 0:
				winners = append(winners, s)
			}
		}
		if len(winners) == 0 {
			awards = append(awards, Award{Pot: pot, Shares: map[int]money.Amount{}})
			continue
		}
		share, remainder := money.Split(pot.Amount, len(winners))
		shares := make(map[int]money.Amount, len(winners))
		for _, w := range winners {
			shares[w] = share
		}
		shares[winners[0]] += remainder
		awards = append(awards, Award{Pot: pot, Winners: winners, Shares: shares})
	}
	return awards
}

// orderedFrom rotates seatOrder so it starts at (and includes) start,
// wrapping around — the clockwise scan used to break odd-chip ties.
func orderedFrom(seatOrder []int, start int) []int {
	idx := -1
	for i, s := range seatOrder {
		if s == start {
			idx = i
			break
		}
	}
	if idx < 0 {
		return seatOrder
	}
	out := make([]int, 0, len(seatOrder))
	out = append(out, seatOrder[idx:]...)
	out = append(out, seatOrder[:idx]...)
	return out
}
