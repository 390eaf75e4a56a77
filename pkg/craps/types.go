// Package craps implements the craps table state machine: the
// phase-based come-out/point cycle, the twelve-kind bet catalog, and
// per-roll resolution.
package craps

import "github.com/feltedge/tablehouse/pkg/money"

// Phase is one of the five craps table phases.
type Phase string

const (
	PhaseWaitingForShooter Phase = "waiting_for_shooter"
	PhaseComeOutBetting    Phase = "come_out_betting"
	PhaseComeOutRoll       Phase = "come_out_roll"
	PhasePointSetBetting   Phase = "point_set_betting"
	PhasePointRoll         Phase = "point_roll"
)

// Kind is one of the twelve bet kinds.
type Kind string

const (
	PassLine Kind = "pass_line"
	DontPass Kind = "dont_pass"
	Come     Kind = "come"
	DontCome Kind = "dont_come"
	Place4   Kind = "place_4"
	Place5   Kind = "place_5"
	Place6   Kind = "place_6"
	Place8   Kind = "place_8"
	Place9   Kind = "place_9"
	Place10  Kind = "place_10"
	AnyCraps Kind = "ce_craps"
	YoEleven Kind = "ce_eleven"
)

// contractKinds are the kinds subject to the "at most one active bet per
// (wallet, kind)" rule. Proposition bets (ce_craps, ce_eleven) are
// one-roll and excluded.
var contractKinds = map[Kind]bool{
	PassLine: true, DontPass: true, Come: true, DontCome: true,
	Place4: true, Place5: true, Place6: true, Place8: true, Place9: true, Place10: true,
}

func isContractKind(k Kind) bool { return contractKinds[k] }

// placeOdds returns the numerator/denominator pair for a place bet's win
// payout math (stake + floor(stake*num/den)).
func placeOdds(k Kind) (num, den int64, number int) {
	switch k {
	case Place4:
		return 9, 5, 4
	case Place10:
		return 9, 5, 10
	case Place5:
		return 7, 5, 5
	case Place9:
		return 7, 5, 9
	case Place6:
		return 7, 6, 6
	case Place8:
		return 7, 6, 8
	}
	return 0, 0, 0
}

// Outcome is the per-bet result of one roll's resolution.
type Outcome string

const (
	OutcomeWon     Outcome = "won"
	OutcomeLost    Outcome = "lost"
	OutcomePushed  Outcome = "pushed"
	OutcomeActive  Outcome = "active"
)

// Bet is a single active wager: shared fields plus kind-specific state
// (ComePoint tracks a come/don't-come bet's own point once established).
type Bet struct {
	ID        string
	Owner     string
	Kind      Kind
	Amount    money.Amount
	ComePoint int // 0 until a come/don't-come bet establishes its own point
}

// Resolution is the outcome of evaluating one bet against one roll.
type Resolution struct {
	BetID   string
	Owner   string
	Kind    Kind
	Amount  money.Amount
	Outcome Outcome
	// Payout is the full amount returned to the player on Won/Pushed,
	// zero otherwise.
	Payout money.Amount
}

// RollResult is everything a Roll call reports back to the runtime.
type RollResult struct {
	Dice        [2]int
	Total       int
	Resolutions []Resolution
	Phase       Phase
	Point       int
	ShooterLeft string // non-empty if the shooter rotated away (seven-out)
	NewShooter  string // non-empty if a new shooter took over
}

func total(dice [2]int) int { return dice[0] + dice[1] }

func isNatural(t int) bool { return t == 7 || t == 11 }
func isCraps(t int) bool   { return t == 2 || t == 3 || t == 12 }
func isPointNumber(t int) bool {
	switch t {
	case 4, 5, 6, 8, 9, 10:
		return true
	}
	return false
}
