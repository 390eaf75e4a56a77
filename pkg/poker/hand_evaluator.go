package poker

import (
	"fmt"
	"sort"

	chehsunliu "github.com/chehsunliu/poker"
)

// Category is one of the nine standard poker hand categories, ordered
// worst to best.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "high_card"
	case Pair:
		return "pair"
	case TwoPair:
		return "two_pair"
	case ThreeOfAKind:
		return "three_of_a_kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full_house"
	case FourOfAKind:
		return "four_of_a_kind"
	case StraightFlush:
		return "straight_flush"
	}
	return "unknown"
}

// HandValue is a complete evaluation of a 5-to-7-card hand: its category
// plus a fully kicker-ordered Score such that comparing two HandValues by
// Score alone is equivalent to the complete poker hand-ranking rule,
// including every kicker tie-break. Higher Score always wins; ties share
// the pot.
type HandValue struct {
	Category    Category
	Score       int64
	Best5       [5]Card
	Description string
}

// chehsunliuRankMax is one past the largest rank chehsunliu ever returns
// (worst possible hand), used to invert its "lower is better" convention
// into "higher is better" for HandValue.Score.
const chehsunliuRankMax = 7463

func toChehsunliu(c Card) (chehsunliu.Card, error) {
	rankChar, ok := rankLetters[c.Rank]
	if !ok {
		return chehsunliu.Card(0), fmt.Errorf("poker: invalid rank %v", c.Rank)
	}
	return chehsunliu.NewCard(string([]byte{rankChar, byte(c.Suit)})), nil
}

func categoryFromClass(class int32) Category {
	switch class {
	case 1:
		return StraightFlush
	case 2:
		return FourOfAKind
	case 3:
		return FullHouse
	case 4:
		return Flush
	case 5:
		return Straight
	case 6:
		return ThreeOfAKind
	case 7:
		return TwoPair
	case 8:
		return Pair
	default:
		return HighCard
	}
}

// Evaluate returns the best possible hand value from 5 to 7 cards (hole
// cards plus whatever community cards have been dealt so far).
func Evaluate(cards []Card) (HandValue, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandValue{}, fmt.Errorf("poker: evaluate requires 5-7 cards, got %d", len(cards))
	}
	conv := make([]chehsunliu.Card, len(cards))
	for i, c := range cards {
		cc, err := toChehsunliu(c)
		if err != nil {
			return HandValue{}, err
		}
		conv[i] = cc
	}

	rank := chehsunliu.Evaluate(conv)
	class := chehsunliu.RankClass(rank)

	best5, err := bestFive(cards, conv, rank)
	if err != nil {
		return HandValue{}, err
	}

	return HandValue{
		Category:    categoryFromClass(class),
		Score:       int64(chehsunliuRankMax) - int64(rank),
		Best5:       best5,
		Description: chehsunliu.RankString(rank),
	}, nil
}

// bestFive finds which 5 of the given cards achieve the already-computed
// best rank, for display purposes (the showdown UI shows the 5 cards that
// made the hand, not all 7).
func bestFive(cards []Card, conv []chehsunliu.Card, bestRank int32) ([5]Card, error) {
	var out [5]Card
	if len(cards) == 5 {
		copy(out[:], cards)
		return out, nil
	}
	idx := make([]int, len(cards))
	for i := range idx {
		idx[i] = i
	}
	var found bool
	forEachCombination(idx, 5, func(combo []int) bool {
		sub := make([]chehsunliu.Card, 5)
		for i, ci := range combo {
			sub[i] = conv[ci]
		}
		if chehsunliu.Evaluate(sub) == bestRank {
			for i, ci := range combo {
				out[i] = cards[ci]
			}
			found = true
			return true
		}
		return false
	})
	if !found {
		return out, fmt.Errorf("poker: no 5-card subset matched the evaluated rank")
	}
	sort.Slice(out[:], func(i, j int) bool { return out[i].Rank > out[j].Rank })
	return out, nil
}

// forEachCombination calls fn with every k-element combination of idx
// (as index positions), stopping early if fn returns true.
func forEachCombination(idx []int, k int, fn func(combo []int) bool) {
	n := len(idx)
	combo := make([]int, k)
	var rec func(start, depth int) bool
	rec = func(start, depth int) bool {
		if depth == k {
			return fn(combo)
		}
		for i := start; i <= n-(k-depth); i++ {
			combo[depth] = idx[i]
			if rec(i+1, depth+1) {
				return true
			}
		}
		return false
	}
	rec(0, 0)
}

// CompareHands returns -1, 0, or 1 as a is worse than, equal to, or
// better than b.
func CompareHands(a, b HandValue) int {
	switch {
	case a.Score < b.Score:
		return -1
	case a.Score > b.Score:
		return 1
	default:
		return 0
	}
}
