package domain

// Player is a room member with a hand, a cumulative score and
// round-transient state. Scores can go negative.
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Hand        []Card `json:"-"`
	Score       int    `json:"score"`
	InRound     bool   `json:"-"`
}

// NewPlayer creates a player. An empty display name falls back to the id.
func NewPlayer(id, displayName string) *Player {
	if displayName == "" {
		displayName = id
	}
	return &Player{ID: id, DisplayName: displayName}
}

// TakeCards appends cards to the hand, preserving their order.
func (p *Player) TakeCards(cards []Card) {
	p.Hand = append(p.Hand, cards...)
}

// PlayCard removes and returns the first card of the hand. The second
// return is false when the hand is empty. There is no strategic
// selection.
func (p *Player) PlayCard() (Card, bool) {
	if len(p.Hand) == 0 {
		return Card{}, false
	}
	c := p.Hand[0]
	p.Hand = p.Hand[1:]
	return c, true
}

// ResetForRound clears the hand and marks the player active for a new
// round.
func (p *Player) ResetForRound() {
	p.Hand = nil
	p.InRound = true
}
