package craps

import "github.com/feltedge/tablehouse/pkg/money"

// resolved is the internal result of dispatching one bet against one roll:
// the outcome, the payout if any, and — for bets that remain active — the
// updated come-point to store back on the bet.
type resolved struct {
	outcome       Outcome
	payout        money.Amount
	newComePoint  int
	stillActive   bool
}

// resolve pattern-matches on kind and returns {outcome, payout, updated bet
// state}, keeping every bet's settlement rule in one place instead of
// scattered across the table's roll handling.
// tablePoint is the table's point as of the start of this roll (0 if none),
// which supplies the come-out/point context for pass_line and dont_pass —
// they have no come-point of their own, unlike come/dont_come bets which
// track it on themselves via bet.ComePoint.
func resolve(bet *Bet, roll int, tablePoint int) resolved {
	switch bet.Kind {
	case PassLine:
		return resolvePassLine(bet, roll, tablePoint)
	case DontPass:
		return resolveDontPass(bet, roll, tablePoint)
	case Come:
		return resolveCome(bet, roll)
	case DontCome:
		return resolveDontCome(bet, roll)
	case Place4, Place5, Place6, Place8, Place9, Place10:
		return resolvePlace(bet, roll)
	case AnyCraps:
		return resolveAnyCraps(bet, roll)
	case YoEleven:
		return resolveYoEleven(bet, roll)
	}
	panic("craps: resolve: unknown bet kind " + string(bet.Kind))
}

func resolvePassLine(bet *Bet, roll, tablePoint int) resolved {
	if tablePoint == 0 {
		switch {
		case isNatural(roll):
			return resolved{outcome: OutcomeWon, payout: bet.Amount * 2}
		case isCraps(roll):
			return resolved{outcome: OutcomeLost}
		default:
			return resolved{outcome: OutcomeActive, stillActive: true}
		}
	}
	switch {
	case roll == tablePoint:
		return resolved{outcome: OutcomeWon, payout: bet.Amount * 2}
	case roll == 7:
		return resolved{outcome: OutcomeLost}
	default:
		return resolved{outcome: OutcomeActive, stillActive: true}
	}
}

func resolveDontPass(bet *Bet, roll, tablePoint int) resolved {
	if tablePoint == 0 {
		switch {
		case roll == 12:
			return resolved{outcome: OutcomePushed, payout: bet.Amount} // bar-12
		case isNatural(roll):
			return resolved{outcome: OutcomeLost}
		case isCraps(roll): // 2 or 3
			return resolved{outcome: OutcomeWon, payout: bet.Amount * 2}
		default:
			return resolved{outcome: OutcomeActive, stillActive: true}
		}
	}
	switch {
	case roll == 7:
		return resolved{outcome: OutcomeWon, payout: bet.Amount * 2}
	case roll == tablePoint:
		return resolved{outcome: OutcomeLost}
	default:
		return resolved{outcome: OutcomeActive, stillActive: true}
	}
}

// resolveCome wins on 7/11 on its first roll, same as pass_line at
// come-out, then travels to its own come-point exactly like pass_line
// travels to the table point.
func resolveCome(bet *Bet, roll int) resolved {
	if bet.ComePoint == 0 {
		switch {
		case isNatural(roll):
			return resolved{outcome: OutcomeWon, payout: bet.Amount * 2}
		case isCraps(roll):
			return resolved{outcome: OutcomeLost}
		default:
			return resolved{outcome: OutcomeActive, stillActive: true, newComePoint: roll}
		}
	}
	switch {
	case roll == bet.ComePoint:
		return resolved{outcome: OutcomeWon, payout: bet.Amount * 2}
	case roll == 7:
		return resolved{outcome: OutcomeLost}
	default:
		return resolved{outcome: OutcomeActive, stillActive: true, newComePoint: bet.ComePoint}
	}
}

// resolveDontCome mirrors resolveCome with don't-pass's bar-12 and loses
// on 7/11 on its first roll.
func resolveDontCome(bet *Bet, roll int) resolved {
	if bet.ComePoint == 0 {
		switch {
		case roll == 12:
			return resolved{outcome: OutcomePushed, payout: bet.Amount}
		case isNatural(roll):
			return resolved{outcome: OutcomeLost}
		case isCraps(roll): // 2 or 3
			return resolved{outcome: OutcomeWon, payout: bet.Amount * 2}
		default:
			return resolved{outcome: OutcomeActive, stillActive: true, newComePoint: roll}
		}
	}
	switch {
	case roll == 7:
		return resolved{outcome: OutcomeWon, payout: bet.Amount * 2}
	case roll == bet.ComePoint:
		return resolved{outcome: OutcomeLost}
	default:
		return resolved{outcome: OutcomeActive, stillActive: true, newComePoint: bet.ComePoint}
	}
}

func resolvePlace(bet *Bet, roll int) resolved {
	num, den, number := placeOdds(bet.Kind)
	switch {
	case roll == 7:
		return resolved{outcome: OutcomeLost}
	case roll == number:
		payout := bet.Amount + money.Mul(bet.Amount, num, den)
		return resolved{outcome: OutcomeWon, payout: payout}
	default:
		return resolved{outcome: OutcomeActive, stillActive: true}
	}
}

func resolveAnyCraps(bet *Bet, roll int) resolved {
	if isCraps(roll) {
		return resolved{outcome: OutcomeWon, payout: bet.Amount + money.Mul(bet.Amount, 7, 1)}
	}
	return resolved{outcome: OutcomeLost}
}

func resolveYoEleven(bet *Bet, roll int) resolved {
	if roll == 11 {
		return resolved{outcome: OutcomeWon, payout: bet.Amount + money.Mul(bet.Amount, 7, 1)}
	}
	return resolved{outcome: OutcomeLost}
}
