package domain

import "math/rand"

// DeckSize is the number of cards in one standard deck.
const DeckSize = 52

// Deck is an ordered pile of cards built from one or more standard decks.
type Deck struct {
	numDecks int
	cards    []Card
}

// NewDeck builds numDecks standard decks in a fixed base order: one full
// suit run of ranks per suit, the whole sequence repeated per deck.
// Counts below 1 are clamped to 1.
func NewDeck(numDecks int) *Deck {
	if numDecks < 1 {
		numDecks = 1
	}
	d := &Deck{numDecks: numDecks}
	d.cards = make([]Card, 0, numDecks*DeckSize)
	for i := 0; i < numDecks; i++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
			}
		}
	}
	return d
}

// Shuffle permutes the remaining cards using the provided source.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the first n cards in current order. If fewer
// than n remain it returns all remaining cards; running dry is not an
// error.
func (d *Deck) Draw(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	if n <= 0 {
		return nil
	}
	drawn := make([]Card, n)
	copy(drawn, d.cards[:n])
	d.cards = d.cards[n:]
	return drawn
}

// Remaining reports how many cards are left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
