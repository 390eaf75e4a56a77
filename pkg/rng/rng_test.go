package rng

import "testing"

func TestUniformIntRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n, err := UniformInt(4, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n < 4 || n >= 10 {
			t.Fatalf("out of range: %d", n)
		}
	}
}

func TestUniformIntPanicsOnBadRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for hi <= lo")
		}
	}()
	_, _ = UniformInt(5, 5)
}

func TestShufflePreservesElements(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	orig := append([]int(nil), items...)
	if err := Shuffle(items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum, origSum := 0, 0
	for i := range items {
		sum += items[i]
		origSum += orig[i]
	}
	if sum != origSum {
		t.Fatalf("shuffle changed the multiset of elements")
	}
}
