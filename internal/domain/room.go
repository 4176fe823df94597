package domain

import "errors"

const (
	// MaxPlayers caps room membership.
	MaxPlayers = 15
	// MinPlayersToStart is the smallest lobby that can start a game.
	MinPlayersToStart = 2
)

var (
	ErrRoomFull            = errors.New("room is full")
	ErrDuplicatePlayer     = errors.New("player already in room")
	ErrGameInProgress      = errors.New("game already in progress")
	ErrInsufficientPlayers = errors.New("not enough players to start")
)

// Room is a lobby grouping players under a unique code. It holds at most
// one game at a time plus the scoring configuration handed to new games.
type Room struct {
	Code   string
	HostID string
	Rules  PointsRules
	Game   *Game

	players map[string]*Player
	order   []string // join order; load-bearing for round-robin turns
}

// NewRoom creates an empty room under the given code.
func NewRoom(code, hostID string) *Room {
	return &Room{
		Code:    code,
		HostID:  hostID,
		Rules:   DefaultPointsRules(),
		players: make(map[string]*Player),
	}
}

// AddPlayer inserts a member, preserving join order.
func (r *Room) AddPlayer(p *Player) error {
	if len(r.players) >= MaxPlayers {
		return ErrRoomFull
	}
	if _, ok := r.players[p.ID]; ok {
		return ErrDuplicatePlayer
	}
	r.players[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

// RemovePlayer drops a member and reports whether a removal occurred.
// Removing an absent player is not an error.
func (r *Room) RemovePlayer(playerID string) bool {
	if _, ok := r.players[playerID]; !ok {
		return false
	}
	delete(r.players, playerID)
	for i, id := range r.order {
		if id == playerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Player returns a member by id.
func (r *Room) Player(playerID string) (*Player, bool) {
	p, ok := r.players[playerID]
	return p, ok
}

// Players lists members in join order.
func (r *Room) Players() []*Player {
	out := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

// PlayerCount reports current membership.
func (r *Room) PlayerCount() int {
	return len(r.players)
}

// SetPointsRules replaces the scoring configuration wholesale.
func (r *Room) SetPointsRules(rules PointsRules) {
	r.Rules = rules
}

// StartGame binds a new game to a snapshot of the current members and the
// room's current rules. Later membership changes do not affect a game in
// flight; a finished game is superseded, never restarted in place.
func (r *Room) StartGame(deckCount int) (*Game, error) {
	if r.Game != nil && !r.Game.Finished {
		return nil, ErrGameInProgress
	}
	if len(r.players) < MinPlayersToStart {
		return nil, ErrInsufficientPlayers
	}
	r.Game = newGame(r, deckCount)
	return r.Game, nil
}
