package domain

import (
	"math/rand"
	"testing"
)

func TestNewDeckComposition(t *testing.T) {
	tests := []struct {
		name     string
		numDecks int
		want     int
	}{
		{name: "single deck", numDecks: 1, want: 52},
		{name: "double deck", numDecks: 2, want: 104},
		{name: "triple deck", numDecks: 3, want: 156},
		{name: "clamped to one", numDecks: 0, want: 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeck(tt.numDecks)
			if d.Remaining() != tt.want {
				t.Fatalf("remaining = %d, want %d", d.Remaining(), tt.want)
			}

			copies := tt.want / DeckSize
			counts := make(map[Card]int)
			for _, c := range d.cards {
				counts[c]++
			}
			if len(counts) != DeckSize {
				t.Fatalf("distinct cards = %d, want %d", len(counts), DeckSize)
			}
			for card, n := range counts {
				if n != copies {
					t.Fatalf("card %s appears %d times, want %d", card, n, copies)
				}
			}
		})
	}
}

func TestNewDeckBaseOrder(t *testing.T) {
	d := NewDeck(1)

	if got := d.cards[0]; got != (Card{Rank: "2", Suit: "Hearts"}) {
		t.Fatalf("first card = %s, want 2 of Hearts", got)
	}
	if got := d.cards[12]; got != (Card{Rank: "A", Suit: "Hearts"}) {
		t.Fatalf("13th card = %s, want A of Hearts", got)
	}
	if got := d.cards[13]; got != (Card{Rank: "2", Suit: "Diamonds"}) {
		t.Fatalf("14th card = %s, want 2 of Diamonds", got)
	}
	if got := d.cards[51]; got != (Card{Rank: "A", Suit: "Spades"}) {
		t.Fatalf("last card = %s, want A of Spades", got)
	}
}

func TestShufflePreservesMultiset(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	d := NewDeck(2)

	before := make(map[Card]int)
	for _, c := range d.cards {
		before[c]++
	}

	d.Shuffle(rng)

	after := make(map[Card]int)
	for _, c := range d.cards {
		after[c]++
	}
	if len(after) != len(before) {
		t.Fatalf("distinct cards changed: %d -> %d", len(before), len(after))
	}
	for card, n := range before {
		if after[card] != n {
			t.Fatalf("card %s count changed: %d -> %d", card, n, after[card])
		}
	}
}

func TestShuffleSeedReproducible(t *testing.T) {
	a := NewDeck(1)
	b := NewDeck(1)
	a.Shuffle(rand.New(rand.NewSource(7)))
	b.Shuffle(rand.New(rand.NewSource(7)))

	for i := range a.cards {
		if a.cards[i] != b.cards[i] {
			t.Fatalf("decks diverge at %d: %s vs %s", i, a.cards[i], b.cards[i])
		}
	}
}

func TestShufflePositionOccupancy(t *testing.T) {
	// Every card should land in the first position with roughly equal
	// frequency across many trials.
	const trials = 5200
	rng := rand.New(rand.NewSource(1))

	counts := make(map[Card]int)
	for i := 0; i < trials; i++ {
		d := NewDeck(1)
		d.Shuffle(rng)
		counts[d.cards[0]]++
	}

	if len(counts) != DeckSize {
		t.Fatalf("only %d distinct cards reached position 0, want %d", len(counts), DeckSize)
	}
	expected := trials / DeckSize
	for card, n := range counts {
		if n > 3*expected {
			t.Fatalf("card %s hit position 0 %d times, expected around %d", card, n, expected)
		}
	}
}

func TestDraw(t *testing.T) {
	tests := []struct {
		name          string
		draw          int
		wantDrawn     int
		wantRemaining int
	}{
		{name: "partial draw", draw: 5, wantDrawn: 5, wantRemaining: 47},
		{name: "full draw", draw: 52, wantDrawn: 52, wantRemaining: 0},
		{name: "over-draw degrades silently", draw: 60, wantDrawn: 52, wantRemaining: 0},
		{name: "zero draw", draw: 0, wantDrawn: 0, wantRemaining: 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeck(1)
			front := make([]Card, len(d.cards))
			copy(front, d.cards)

			drawn := d.Draw(tt.draw)
			if len(drawn) != tt.wantDrawn {
				t.Fatalf("drawn = %d, want %d", len(drawn), tt.wantDrawn)
			}
			if d.Remaining() != tt.wantRemaining {
				t.Fatalf("remaining = %d, want %d", d.Remaining(), tt.wantRemaining)
			}
			for i, c := range drawn {
				if c != front[i] {
					t.Fatalf("drawn[%d] = %s, want %s (front order must hold)", i, c, front[i])
				}
			}
		})
	}
}

func TestDrawConsumesFromFront(t *testing.T) {
	d := NewDeck(1)
	first := d.Draw(3)
	second := d.Draw(3)

	want := NewDeck(1)
	for i := 0; i < 3; i++ {
		if first[i] != want.cards[i] {
			t.Fatalf("first draw out of order at %d", i)
		}
		if second[i] != want.cards[i+3] {
			t.Fatalf("second draw out of order at %d", i)
		}
	}
}
