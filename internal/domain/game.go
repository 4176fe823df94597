package domain

import (
	"math/rand"
	"sort"

	"github.com/google/uuid"
)

// PointsRules is a room's named scoring configuration.
type PointsRules struct {
	// PointsPerRemainingCard scales the per-round penalty.
	PointsPerRemainingCard int `json:"points_per_remaining_card"`
	// WinnerBonus overrides the default bonus when set. When nil the
	// winner receives the sum of the penalties charged to the other
	// players that round.
	WinnerBonus *int `json:"winner_bonus,omitempty"`
}

// DefaultPointsRules returns the rules a fresh room starts with.
func DefaultPointsRules() PointsRules {
	return PointsRules{PointsPerRemainingCard: 1}
}

// Play is one entry of a round's play sequence.
type Play struct {
	PlayerID string `json:"player_id"`
	Card     Card   `json:"card"`
}

// RoundResult records one completed deal-and-drain cycle.
type RoundResult struct {
	Round        int            `json:"round"`
	PlaySequence []Play         `json:"play_sequence"`
	Delta        map[string]int `json:"delta"`
	ScoresAfter  map[string]int `json:"scores_after_round"`
	WinnerID     string         `json:"winner"`
}

// ScoreRow is one scoreboard line.
type ScoreRow struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
}

// Game orchestrates rounds against a snapshot of a room's players. The
// snapshot shares the room's Player values, so cumulative scores carry
// over to later games; all mutation happens under the room's
// serialization lock.
type Game struct {
	ID          string
	RoomCode    string
	DeckCount   int
	Deck        *Deck
	Rules       PointsRules
	RoundNumber int
	Finished    bool
	History     []RoundResult

	players []*Player // snapshot in join order
}

func newGame(room *Room, deckCount int) *Game {
	if deckCount < 1 {
		deckCount = 1
	}
	return &Game{
		ID:        uuid.NewString(),
		RoomCode:  room.Code,
		DeckCount: deckCount,
		Deck:      NewDeck(deckCount),
		Rules:     room.Rules,
		players:   room.Players(),
	}
}

// Players returns the player snapshot taken at game creation.
func (g *Game) Players() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

// PlayRound runs one full cycle: reset, fresh deck, equal deal,
// round-robin drain, scoring, winner bonus. The undealt remainder of the
// previous round is discarded with its deck, never carried forward.
func (g *Game) PlayRound(rng *rand.Rand) *RoundResult {
	g.RoundNumber++
	for _, p := range g.players {
		p.ResetForRound()
	}

	g.Deck = NewDeck(g.DeckCount)
	g.Deck.Shuffle(rng)

	n := len(g.players)
	cardsEach := g.Deck.Remaining() / n
	for _, p := range g.players {
		p.TakeCards(g.Deck.Draw(cardsEach))
	}

	// Pure draining pass: every visit plays the top card. Nothing is
	// compared and no win condition derives from the plays.
	total := n * cardsEach
	plays := make([]Play, 0, total)
	for turn := 0; len(plays) < total; turn++ {
		p := g.players[turn%n]
		if c, ok := p.PlayCard(); ok {
			plays = append(plays, Play{PlayerID: p.ID, Card: c})
		}
	}

	// The penalty derives from the configured deal size, not from the
	// post-remainder draw count.
	originalDealt := g.DeckCount * DeckSize / n
	penalty := originalDealt * g.Rules.PointsPerRemainingCard

	delta := make(map[string]int, n)
	for _, p := range g.players {
		delta[p.ID] = -penalty
		p.Score -= penalty
	}

	// The winner is chosen uniformly at random, independent of the plays.
	// Placeholder for real trick-taking rules.
	winner := g.players[rng.Intn(n)]
	bonus := 0
	if g.Rules.WinnerBonus != nil {
		bonus = *g.Rules.WinnerBonus
	} else {
		for id, d := range delta {
			if id != winner.ID {
				bonus += -d
			}
		}
	}
	delta[winner.ID] += bonus
	winner.Score += bonus

	scores := make(map[string]int, n)
	for _, p := range g.players {
		scores[p.ID] = p.Score
	}

	result := RoundResult{
		Round:        g.RoundNumber,
		PlaySequence: plays,
		Delta:        delta,
		ScoresAfter:  scores,
		WinnerID:     winner.ID,
	}
	g.History = append(g.History, result)
	return &result
}

// IsGameOver reports whether the deck as it stands cannot cover another
// visit of every player. Each round rebuilds a full deck before dealing,
// so between rounds this reflects the remainder left by the last deal.
func (g *Game) IsGameOver() bool {
	return g.Deck.Remaining() < len(g.players)
}

// Scoreboard ranks players by cumulative score, descending. Ties keep the
// snapshot's relative order.
func (g *Game) Scoreboard() []ScoreRow {
	rows := make([]ScoreRow, 0, len(g.players))
	for _, p := range g.players {
		rows = append(rows, ScoreRow{PlayerID: p.ID, DisplayName: p.DisplayName, Score: p.Score})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	return rows
}
