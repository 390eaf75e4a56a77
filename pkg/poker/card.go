// Package poker implements the No-Limit Texas Hold'em engine: cards and
// deck, the 7-card hand evaluator, the betting-round controller, the
// side-pot solver, and the hand phase machine.
package poker

import (
	"encoding/json"
	"fmt"
)

// Suit is one of the four card suits, encoded on the wire as a single
// letter: h d c s.
type Suit byte

const (
	Hearts   Suit = 'h'
	Diamonds Suit = 'd'
	Clubs    Suit = 'c'
	Spades   Suit = 's'
)

var allSuits = [4]Suit{Hearts, Diamonds, Clubs, Spades}

// Rank is a card's face value, 2 through 14 (Ace high).
type Rank int

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

var rankLetters = map[Rank]byte{
	Two: '2', Three: '3', Four: '4', Five: '5', Six: '6', Seven: '7',
	Eight: '8', Nine: '9', Ten: 'T', Jack: 'J', Queen: 'Q', King: 'K', Ace: 'A',
}

var lettersToRank = map[byte]Rank{
	'2': Two, '3': Three, '4': Four, '5': Five, '6': Six, '7': Seven,
	'8': Eight, '9': Nine, 'T': Ten, 'J': Jack, 'Q': Queen, 'K': King, 'A': Ace,
}

// Card is an immutable playing card.
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return fmt.Sprintf("%c%c", rankLetters[c.Rank], c.Suit)
}

type cardJSON struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// MarshalJSON encodes a card as {"rank":"T","suit":"h"}.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{
		Rank: string(rankLetters[c.Rank]),
		Suit: string(c.Suit),
	})
}

// UnmarshalJSON decodes the wire card encoding.
func (c *Card) UnmarshalJSON(data []byte) error {
	var cj cardJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	if len(cj.Rank) != 1 || len(cj.Suit) != 1 {
		return fmt.Errorf("poker: invalid card %+v", cj)
	}
	r, ok := lettersToRank[cj.Rank[0]]
	if !ok {
		return fmt.Errorf("poker: invalid rank %q", cj.Rank)
	}
	s := Suit(cj.Suit[0])
	switch s {
	case Hearts, Diamonds, Clubs, Spades:
	default:
		return fmt.Errorf("poker: invalid suit %q", cj.Suit)
	}
	c.Rank = r
	c.Suit = s
	return nil
}
