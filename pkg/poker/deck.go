package poker

import "github.com/feltedge/tablehouse/pkg/rng"

// Deck is a shuffled stack of cards dealt from the top (index 0).
type Deck struct {
	cards []Card
}

// NewDeck returns a fresh, unshuffled 52-card deck in a fixed order.
func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for _, s := range allSuits {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return &Deck{cards: cards}
}

// Shuffle randomizes the deck in place using the package's cryptographically
// secure Fisher-Yates shuffle.
func (d *Deck) Shuffle() error {
	return rng.Shuffle(d.cards)
}

// Len returns the number of cards remaining in the deck.
func (d *Deck) Len() int { return len(d.cards) }

// Draw removes and returns the top card. Panics if the deck is empty; a
// 52-card deck can never run dry in hold'em with up to ten seats plus
// three burns, so an empty draw indicates a caller bug, not player input.
func (d *Deck) Draw() Card {
	if len(d.cards) == 0 {
		panic("poker: draw from empty deck")
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c
}

// Burn discards the top card face down, per standard hold'em procedure
// before the flop, turn, and river.
func (d *Deck) Burn() {
	d.Draw()
}
