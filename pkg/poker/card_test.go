package poker

import (
	"encoding/json"
	"testing"
)

func TestDeckHas52UniqueCards(t *testing.T) {
	d := NewDeck()
	if d.Len() != 52 {
		t.Fatalf("got %d cards, want 52", d.Len())
	}
	seen := make(map[Card]bool)
	for d.Len() > 0 {
		c := d.Draw()
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Fatalf("got %d unique cards, want 52", len(seen))
	}
}

func TestDeckDrawOnEmptyPanics(t *testing.T) {
	d := NewDeck()
	for d.Len() > 0 {
		d.Draw()
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected Draw on an empty deck to panic")
		}
	}()
	d.Draw()
}

func TestDeckShuffleIsDeterministicByContentNotOrder(t *testing.T) {
	d := NewDeck()
	before := append([]Card{}, d.cards...)
	if err := d.Shuffle(); err != nil {
		t.Fatal(err)
	}
	if len(d.cards) != len(before) {
		t.Fatalf("shuffle changed deck size: %d vs %d", len(d.cards), len(before))
	}
	sameOrder := true
	for i := range before {
		if before[i] != d.cards[i] {
			sameOrder = false
			break
		}
	}
	if sameOrder {
		t.Fatal("shuffle left the deck in its original order (vanishingly unlikely for 52 cards)")
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	c := Card{Rank: Ten, Suit: Hearts}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"rank":"T","suit":"h"}` {
		t.Fatalf("got %s", data)
	}
	var out Card
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out != c {
		t.Fatalf("got %v, want %v", out, c)
	}
}

func TestCardUnmarshalRejectsBadSuit(t *testing.T) {
	var c Card
	err := json.Unmarshal([]byte(`{"rank":"A","suit":"x"}`), &c)
	if err == nil {
		t.Fatal("expected an error for an invalid suit")
	}
}
