package poker

import "testing"

func mustCards(t *testing.T, specs ...string) []Card {
	t.Helper()
	cards := make([]Card, len(specs))
	for i, s := range specs {
		r, ok := lettersToRank[s[0]]
		if !ok {
			t.Fatalf("bad rank in %q", s)
		}
		cards[i] = Card{Rank: r, Suit: Suit(s[1])}
	}
	return cards
}

func TestEvaluateRanksCategoriesCorrectly(t *testing.T) {
	cases := []struct {
		name string
		cards []string
		want Category
	}{
		{"high card", []string{"2h", "5d", "9c", "Js", "Ah"}, HighCard},
		{"pair", []string{"2h", "2d", "9c", "Js", "Ah"}, Pair},
		{"two pair", []string{"2h", "2d", "9c", "9s", "Ah"}, TwoPair},
		{"trips", []string{"2h", "2d", "2c", "9s", "Ah"}, ThreeOfAKind},
		{"straight", []string{"5h", "6d", "7c", "8s", "9h"}, Straight},
		{"flush", []string{"2h", "5h", "9h", "Jh", "Ah"}, Flush},
		{"full house", []string{"2h", "2d", "2c", "9s", "9h"}, FullHouse},
		{"quads", []string{"2h", "2d", "2c", "2s", "9h"}, FourOfAKind},
		{"straight flush", []string{"5h", "6h", "7h", "8h", "9h"}, StraightFlush},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hv, err := Evaluate(mustCards(t, tc.cards...))
			if err != nil {
				t.Fatal(err)
			}
			if hv.Category != tc.want {
				t.Fatalf("got %v, want %v", hv.Category, tc.want)
			}
		})
	}
}

func TestEvaluateRejectsWrongCardCount(t *testing.T) {
	if _, err := Evaluate(mustCards(t, "2h", "3d")); err == nil {
		t.Fatal("expected an error for too few cards")
	}
	if _, err := Evaluate(mustCards(t, "2h", "3d", "4c", "5s", "6h", "7d", "8c", "9s")); err == nil {
		t.Fatal("expected an error for too many cards")
	}
}

func TestCompareHandsOrdersByStrength(t *testing.T) {
	pair, err := Evaluate(mustCards(t, "2h", "2d", "9c", "Js", "Ah"))
	if err != nil {
		t.Fatal(err)
	}
	straight, err := Evaluate(mustCards(t, "5h", "6d", "7c", "8s", "9h"))
	if err != nil {
		t.Fatal(err)
	}
	if CompareHands(straight, pair) <= 0 {
		t.Fatal("expected a straight to beat a pair")
	}
	if CompareHands(pair, straight) >= 0 {
		t.Fatal("expected a pair to lose to a straight")
	}
	if CompareHands(pair, pair) != 0 {
		t.Fatal("expected a hand to tie itself")
	}
}

func TestEvaluatePicksBestFiveOfSeven(t *testing.T) {
	// Board plus hole cards: the best hand is the heart flush, not the
	// pair of aces.
	cards := mustCards(t, "Ah", "As", "2h", "5h", "9h", "Jh", "3d")
	hv, err := Evaluate(cards)
	if err != nil {
		t.Fatal(err)
	}
	if hv.Category != Flush {
		t.Fatalf("got %v, want flush", hv.Category)
	}
}
