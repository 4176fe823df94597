package domain

// Suits lists the four suits in deck build order.
var Suits = []string{"Hearts", "Diamonds", "Clubs", "Spades"}

// Ranks lists the thirteen ranks in deck build order, low to high.
var Ranks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Card is an immutable playing card value.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func (c Card) String() string {
	return c.Rank + " of " + c.Suit
}
