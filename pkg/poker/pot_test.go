package poker

import "testing"

func hv(score int64) *HandValue { return &HandValue{Score: score} }

func TestPotManagerTracksTotals(t *testing.T) {
	pm := NewPotManager()
	pm.AddBet(0, 10)
	pm.AddBet(1, 10)
	pm.AddBet(2, 10)
	if pm.Total() != 30 {
		t.Fatalf("got total %d, want 30", pm.Total())
	}
	if pm.RoundBet(0) != 10 {
		t.Fatalf("got round bet %d, want 10", pm.RoundBet(0))
	}
	pm.StartNewRound()
	if pm.RoundBet(0) != 0 {
		t.Fatal("round bet should reset on a new round")
	}
	if pm.TotalBet(0) != 10 {
		t.Fatal("whole-hand total should survive a new round")
	}
}

func TestBuildPotsSingleLevelNoFolds(t *testing.T) {
	pm := NewPotManager()
	pm.AddBet(0, 100)
	pm.AddBet(1, 100)
	pm.AddBet(2, 100)
	pots := pm.BuildPots([]int{0, 1, 2}, func(int) bool { return false })
	if len(pots) != 1 {
		t.Fatalf("got %d pots, want 1", len(pots))
	}
	if pots[0].Amount != 300 {
		t.Fatalf("got pot %d, want 300", pots[0].Amount)
	}
	for _, s := range []int{0, 1, 2} {
		if !pots[0].Eligible[s] {
			t.Fatalf("seat %d should be eligible", s)
		}
	}
}

func TestBuildPotsSidePotForShortStack(t *testing.T) {
	pm := NewPotManager()
	pm.AddBet(0, 50)  // short stack, all-in
	pm.AddBet(1, 200)
	pm.AddBet(2, 200)
	pots := pm.BuildPots([]int{0, 1, 2}, func(int) bool { return false })
	if len(pots) != 2 {
		t.Fatalf("got %d pots, want 2", len(pots))
	}
	if pots[0].Amount != 150 { // 50 * 3
		t.Fatalf("got main pot %d, want 150", pots[0].Amount)
	}
	if pots[1].Amount != 300 { // (200-50) * 2
		t.Fatalf("got side pot %d, want 300", pots[1].Amount)
	}
	if pots[1].Eligible[0] {
		t.Fatal("the short stack should not be eligible for the side pot")
	}
}

func TestBuildPotsFoldedSeatFundsButCannotWin(t *testing.T) {
	pm := NewPotManager()
	pm.AddBet(0, 100)
	pm.AddBet(1, 100) // folds after betting
	pm.AddBet(2, 100)
	pots := pm.BuildPots([]int{0, 1, 2}, func(s int) bool { return s == 1 })
	if len(pots) != 1 {
		t.Fatalf("got %d pots, want 1", len(pots))
	}
	if pots[0].Amount != 300 {
		t.Fatalf("got pot %d, want 300", pots[0].Amount)
	}
	if pots[0].Eligible[1] {
		t.Fatal("folded seat should not be eligible")
	}
}

func TestDistributePotsSplitsEvenlyWithDeterministicOddChip(t *testing.T) {
	pot := &Pot{Amount: 101, Eligible: map[int]bool{0: true, 1: true}}
	hands := map[int]*HandValue{0: hv(100), 1: hv(100)}
	seatOrder := []int{0, 1, 2}

	awards := DistributePots([]*Pot{pot}, func(s int) *HandValue { return hands[s] }, 1, seatOrder)
	if len(awards) != 1 {
		t.Fatalf("got %d awards, want 1", len(awards))
	}
	a := awards[0]
	if len(a.Winners) != 2 {
		t.Fatalf("got %d winners, want 2", len(a.Winners))
	}
	// firstToAct is seat 1, so seat 1 gets the odd chip.
	if a.Shares[1] != 51 || a.Shares[0] != 50 {
		t.Fatalf("got shares %v, want seat 1 to have the odd chip", a.Shares)
	}
}

func TestDistributePotsPicksBestHand(t *testing.T) {
	pot := &Pot{Amount: 90, Eligible: map[int]bool{0: true, 1: true, 2: true}}
	hands := map[int]*HandValue{0: hv(10), 1: hv(50), 2: hv(30)}
	awards := DistributePots([]*Pot{pot}, func(s int) *HandValue { return hands[s] }, 0, []int{0, 1, 2})
	if len(awards[0].Winners) != 1 || awards[0].Winners[0] != 1 {
		t.Fatalf("got winners %v, want [1]", awards[0].Winners)
	}
	if awards[0].Shares[1] != 90 {
		t.Fatalf("got share %d, want 90", awards[0].Shares[1])
	}
}

func TestReturnUncalledRaiseRefundsTheGap(t *testing.T) {
	pm := NewPotManager()
	pm.AddBet(0, 100)
	pm.AddBet(1, 40)
	seat, amount, ok := pm.ReturnUncalledRaise([]int{0, 1})
	if !ok {
		t.Fatal("expected a refund")
	}
	if seat != 0 || amount != 60 {
		t.Fatalf("got seat %d amount %d, want seat 0 amount 60", seat, amount)
	}
	if pm.TotalBet(0) != 40 {
		t.Fatalf("got total bet %d after refund, want 40", pm.TotalBet(0))
	}
}

func TestReturnUncalledRaiseNoOpWhenMatched(t *testing.T) {
	pm := NewPotManager()
	pm.AddBet(0, 100)
	pm.AddBet(1, 100)
	_, _, ok := pm.ReturnUncalledRaise([]int{0, 1})
	if ok {
		t.Fatal("expected no refund when bets are matched")
	}
}
