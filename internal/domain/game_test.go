package domain

import (
	"math/rand"
	"testing"
)

func startedGame(t *testing.T, playerIDs []string, deckCount int, rules *PointsRules) (*Room, *Game) {
	t.Helper()
	r := NewRoom("ABC123", playerIDs[0])
	for _, id := range playerIDs {
		if err := r.AddPlayer(NewPlayer(id, "")); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
	if rules != nil {
		r.SetPointsRules(*rules)
	}
	g, err := r.StartGame(deckCount)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return r, g
}

func TestPlayRoundFourPlayersSingleDeck(t *testing.T) {
	// 1 deck, 4 players: 13 cards each, 52 plays, penalty 13,
	// winner bonus 3x13 by default.
	_, g := startedGame(t, []string{"u0", "u1", "u2", "u3"}, 1, nil)
	rng := rand.New(rand.NewSource(42))

	result := g.PlayRound(rng)
	if result.Round != 1 {
		t.Fatalf("round = %d, want 1", result.Round)
	}
	if len(result.PlaySequence) != 52 {
		t.Fatalf("plays = %d, want 52", len(result.PlaySequence))
	}

	if _, ok := result.Delta[result.WinnerID]; !ok {
		t.Fatalf("winner %s not among players", result.WinnerID)
	}
	for id, d := range result.Delta {
		if id == result.WinnerID {
			if d != 26 {
				t.Fatalf("winner delta = %d, want 26 (39 bonus - 13 penalty)", d)
			}
			continue
		}
		if d != -13 {
			t.Fatalf("delta[%s] = %d, want -13", id, d)
		}
	}
	for id, d := range result.Delta {
		if result.ScoresAfter[id] != d {
			t.Fatalf("first-round score for %s = %d, want %d", id, result.ScoresAfter[id], d)
		}
	}
}

func TestPlayRoundFivePlayersDiscardsRemainder(t *testing.T) {
	// 1 deck, 5 players: 10 cards each, 2 cards discarded, 50 plays.
	_, g := startedGame(t, []string{"u0", "u1", "u2", "u3", "u4"}, 1, nil)
	rng := rand.New(rand.NewSource(7))

	result := g.PlayRound(rng)
	if len(result.PlaySequence) != 50 {
		t.Fatalf("plays = %d, want 50", len(result.PlaySequence))
	}
	if g.Deck.Remaining() != 2 {
		t.Fatalf("deck remainder = %d, want 2", g.Deck.Remaining())
	}

	perPlayer := make(map[string]int)
	for _, play := range result.PlaySequence {
		perPlayer[play.PlayerID]++
	}
	for id, n := range perPlayer {
		if n != 10 {
			t.Fatalf("player %s played %d cards, want 10", id, n)
		}
	}

	// Penalty still derives from the configured deal: 52/5 = 10.
	for id, d := range result.Delta {
		if id == result.WinnerID {
			continue
		}
		if d != -10 {
			t.Fatalf("delta[%s] = %d, want -10", id, d)
		}
	}
}

func TestPlayRoundRoundRobinOrder(t *testing.T) {
	ids := []string{"u0", "u1", "u2", "u3"}
	_, g := startedGame(t, ids, 1, nil)
	rng := rand.New(rand.NewSource(3))

	result := g.PlayRound(rng)
	for i, play := range result.PlaySequence {
		if want := ids[i%len(ids)]; play.PlayerID != want {
			t.Fatalf("play %d by %s, want %s (fixed list order)", i, play.PlayerID, want)
		}
	}
}

func TestPlayRoundCustomRules(t *testing.T) {
	bonus := 100
	tests := []struct {
		name          string
		rules         PointsRules
		wantPenalty   int
		wantWinnerDlt int
	}{
		{
			name:          "scaled penalty",
			rules:         PointsRules{PointsPerRemainingCard: 2},
			wantPenalty:   26,
			wantWinnerDlt: 52, // 3x26 bonus - 26 penalty
		},
		{
			name:          "fixed winner bonus",
			rules:         PointsRules{PointsPerRemainingCard: 1, WinnerBonus: &bonus},
			wantPenalty:   13,
			wantWinnerDlt: 87, // 100 bonus - 13 penalty
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, g := startedGame(t, []string{"u0", "u1", "u2", "u3"}, 1, &tt.rules)
			result := g.PlayRound(rand.New(rand.NewSource(11)))

			for id, d := range result.Delta {
				if id == result.WinnerID {
					if d != tt.wantWinnerDlt {
						t.Fatalf("winner delta = %d, want %d", d, tt.wantWinnerDlt)
					}
					continue
				}
				if d != -tt.wantPenalty {
					t.Fatalf("delta[%s] = %d, want %d", id, d, -tt.wantPenalty)
				}
			}
		})
	}
}

func TestPlayRoundAccumulatesAcrossRounds(t *testing.T) {
	_, g := startedGame(t, []string{"u0", "u1"}, 1, nil)
	rng := rand.New(rand.NewSource(5))

	first := g.PlayRound(rng)
	second := g.PlayRound(rng)

	if first.Round != 1 || second.Round != 2 {
		t.Fatalf("round numbers = %d, %d, want 1, 2", first.Round, second.Round)
	}
	if len(g.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(g.History))
	}
	for id, after := range second.ScoresAfter {
		if want := first.ScoresAfter[id] + second.Delta[id]; after != want {
			t.Fatalf("score for %s = %d, want %d (cumulative)", id, after, want)
		}
	}
}

func TestPlayRoundSeedReproducible(t *testing.T) {
	_, a := startedGame(t, []string{"u0", "u1", "u2"}, 1, nil)
	_, b := startedGame(t, []string{"u0", "u1", "u2"}, 1, nil)

	ra := a.PlayRound(rand.New(rand.NewSource(9)))
	rb := b.PlayRound(rand.New(rand.NewSource(9)))

	if ra.WinnerID != rb.WinnerID {
		t.Fatalf("winners diverge: %s vs %s", ra.WinnerID, rb.WinnerID)
	}
	for i := range ra.PlaySequence {
		if ra.PlaySequence[i] != rb.PlaySequence[i] {
			t.Fatalf("play %d diverges: %+v vs %+v", i, ra.PlaySequence[i], rb.PlaySequence[i])
		}
	}
}

func TestIsGameOver(t *testing.T) {
	_, g := startedGame(t, []string{"u0", "u1", "u2", "u3", "u4"}, 1, nil)

	// A fresh game holds a full deck: 52 >= 5.
	if g.IsGameOver() {
		t.Fatal("fresh game should not be over")
	}

	// After a round the deck holds only the deal remainder (2 < 5).
	g.PlayRound(rand.New(rand.NewSource(1)))
	if !g.IsGameOver() {
		t.Fatal("post-round remainder below player count should read as game over")
	}
}

func TestScoreboardOrdering(t *testing.T) {
	r, g := startedGame(t, []string{"u0", "u1", "u2", "u3"}, 1, nil)

	players := r.Players()
	players[0].Score = 5
	players[1].Score = 20
	players[2].Score = 5
	players[3].Score = -7

	rows := g.Scoreboard()
	want := []string{"u1", "u0", "u2", "u3"} // desc, ties keep list order
	for i, row := range rows {
		if row.PlayerID != want[i] {
			t.Fatalf("scoreboard[%d] = %s, want %s", i, row.PlayerID, want[i])
		}
	}
}
