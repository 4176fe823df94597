package app

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"kaliteedi/internal/domain"
	"kaliteedi/internal/ports"
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrGameNotFound       = errors.New("no game started in room")
	ErrStorageUnavailable = errors.New("score storage unavailable")
)

// Seeder produces seeds for per-room randomness. Production uses
// cryptoSeed; tests inject a fixed seeder for reproducible rounds.
type Seeder func() int64

func cryptoSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("seed entropy: %v", err))
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const roomCodeLength = 6

// RoomInfo is the registry's external view of a room.
type RoomInfo struct {
	Code    string `json:"room_code"`
	HostID  string `json:"host_id"`
	Members int    `json:"members"`
	InGame  bool   `json:"in_game"`
}

// PlayerInfo is the registry's external view of a room member.
type PlayerInfo struct {
	ID          string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
}

// GameInfo describes a freshly started game.
type GameInfo struct {
	GameID    string   `json:"game_id"`
	RoomCode  string   `json:"room_code"`
	DeckCount int      `json:"deck_count"`
	Players   []string `json:"players"`
}

type roomEntry struct {
	mu   sync.Mutex
	room *domain.Room
	rng  *rand.Rand
}

// Registry owns every live room and serializes access per room. All
// mutating operations return the events a port should fan out.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*roomEntry
	store   ports.ScoreStorePort
	seed    Seeder
	codeRng *rand.Rand
}

// NewRegistry builds a registry persisting scoreboards through store.
// A nil seeder falls back to crypto entropy.
func NewRegistry(store ports.ScoreStorePort, seed Seeder) *Registry {
	if seed == nil {
		seed = cryptoSeed
	}
	return &Registry{
		rooms:   make(map[string]*roomEntry),
		store:   store,
		seed:    seed,
		codeRng: rand.New(rand.NewSource(seed())),
	}
}

// CreateRoom opens a room with a fresh code and joins the host into it.
func (r *Registry) CreateRoom(hostID, hostName string) (RoomInfo, []Event, error) {
	if hostID == "" {
		return RoomInfo{}, nil, errors.New("host id required")
	}

	r.mu.Lock()
	code := r.newRoomCodeLocked()
	room := domain.NewRoom(code, hostID)
	entry := &roomEntry{room: room, rng: rand.New(rand.NewSource(r.seed()))}
	r.rooms[code] = entry
	r.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := room.AddPlayer(domain.NewPlayer(hostID, hostName)); err != nil {
		return RoomInfo{}, nil, err
	}

	host, _ := room.Player(hostID)
	info := roomInfoLocked(room)
	events := []Event{{
		Kind: EventPlayerJoined,
		Payload: PlayerJoinedPayload{
			PlayerID:    hostID,
			DisplayName: host.DisplayName,
			Members:     room.PlayerCount(),
		},
	}}
	return info, events, nil
}

func (r *Registry) newRoomCodeLocked() string {
	buf := make([]byte, roomCodeLength)
	for {
		for i := range buf {
			buf[i] = roomCodeAlphabet[r.codeRng.Intn(len(roomCodeAlphabet))]
		}
		code := string(buf)
		if _, taken := r.rooms[code]; !taken {
			return code
		}
	}
}

func (r *Registry) entry(roomCode string) (*roomEntry, error) {
	r.mu.RLock()
	entry, ok := r.rooms[roomCode]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomCode)
	}
	return entry, nil
}

// AddPlayer joins a player into an existing room.
func (r *Registry) AddPlayer(roomCode, playerID, displayName string) (PlayerInfo, []Event, error) {
	if playerID == "" {
		return PlayerInfo{}, nil, errors.New("player id required")
	}
	entry, err := r.entry(roomCode)
	if err != nil {
		return PlayerInfo{}, nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := entry.room.AddPlayer(domain.NewPlayer(playerID, displayName)); err != nil {
		return PlayerInfo{}, nil, err
	}

	p, _ := entry.room.Player(playerID)
	events := []Event{{
		Kind: EventPlayerJoined,
		Payload: PlayerJoinedPayload{
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			Members:     entry.room.PlayerCount(),
		},
	}}
	return PlayerInfo{ID: p.ID, DisplayName: p.DisplayName, Score: p.Score}, events, nil
}

// RemovePlayer drops a player from the room roster. Removing an unknown
// player is a no-op and emits nothing.
func (r *Registry) RemovePlayer(roomCode, playerID string) ([]Event, error) {
	entry, err := r.entry(roomCode)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if !entry.room.RemovePlayer(playerID) {
		return nil, nil
	}
	return []Event{{
		Kind:    EventPlayerLeft,
		Payload: PlayerLeftPayload{PlayerID: playerID},
	}}, nil
}

// Players lists room members in join order.
func (r *Registry) Players(roomCode string) ([]PlayerInfo, error) {
	entry, err := r.entry(roomCode)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	members := entry.room.Players()
	infos := make([]PlayerInfo, 0, len(members))
	for _, p := range members {
		infos = append(infos, PlayerInfo{ID: p.ID, DisplayName: p.DisplayName, Score: p.Score})
	}
	return infos, nil
}

// ListRooms reports every live room.
func (r *Registry) ListRooms() []RoomInfo {
	r.mu.RLock()
	entries := make([]*roomEntry, 0, len(r.rooms))
	for _, e := range r.rooms {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	infos := make([]RoomInfo, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		infos = append(infos, roomInfoLocked(e.room))
		e.mu.Unlock()
	}
	return infos
}

func roomInfoLocked(room *domain.Room) RoomInfo {
	return RoomInfo{
		Code:    room.Code,
		HostID:  room.HostID,
		Members: room.PlayerCount(),
		InGame:  room.Game != nil && !room.Game.Finished,
	}
}

// SetPointsRules replaces the room's scoring rules wholesale. A running
// game keeps the rules it captured at creation; the new rules take
// effect on the next StartGame.
func (r *Registry) SetPointsRules(roomCode string, rules domain.PointsRules) ([]Event, error) {
	entry, err := r.entry(roomCode)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.room.SetPointsRules(rules)
	return []Event{{
		Kind:    EventRulesSet,
		Payload: RulesSetPayload{Rules: rules},
	}}, nil
}

// StartGame begins a game over the room's current roster.
func (r *Registry) StartGame(roomCode string, deckCount int) (GameInfo, []Event, error) {
	entry, err := r.entry(roomCode)
	if err != nil {
		return GameInfo{}, nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	game, err := entry.room.StartGame(deckCount)
	if err != nil {
		return GameInfo{}, nil, err
	}

	ids := make([]string, 0, len(game.Players()))
	for _, p := range game.Players() {
		ids = append(ids, p.ID)
	}
	info := GameInfo{GameID: game.ID, RoomCode: roomCode, DeckCount: game.DeckCount, Players: ids}
	events := []Event{{
		Kind:    EventGameStarted,
		Payload: GameStartedPayload{GameID: game.ID, DeckCount: game.DeckCount, Players: ids},
	}}
	return info, events, nil
}

// PlayRound runs one full round and persists the updated scoreboard.
// When the store fails the round still stands: the result comes back
// alongside an ErrStorageUnavailable so callers can surface both.
func (r *Registry) PlayRound(ctx context.Context, roomCode string) (*domain.RoundResult, []Event, error) {
	entry, err := r.entry(roomCode)
	if err != nil {
		return nil, nil, err
	}

	entry.mu.Lock()
	game := entry.room.Game
	if game == nil {
		entry.mu.Unlock()
		return nil, nil, fmt.Errorf("%w: %s", ErrGameNotFound, roomCode)
	}
	result := game.PlayRound(entry.rng)
	scores := make(map[string]int, len(result.ScoresAfter))
	for id, s := range result.ScoresAfter {
		scores[id] = s
	}
	entry.mu.Unlock()

	events := []Event{{
		Kind:    EventRoundPlayed,
		Payload: RoundPlayedPayload{Result: result},
	}}

	if err := r.store.SaveGameScores(ctx, roomCode, scores); err != nil {
		return result, events, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	events = append(events, Event{
		Kind:    EventScoresSaved,
		Payload: ScoresSavedPayload{RoomCode: roomCode},
	})
	return result, events, nil
}

// Scoreboard returns the current game's standings, highest score first.
func (r *Registry) Scoreboard(roomCode string) ([]domain.ScoreRow, error) {
	entry, err := r.entry(roomCode)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.room.Game == nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, roomCode)
	}
	return entry.room.Game.Scoreboard(), nil
}

// RoundHistory returns every round result of the current game in order.
func (r *Registry) RoundHistory(roomCode string) ([]domain.RoundResult, error) {
	entry, err := r.entry(roomCode)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.room.Game == nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, roomCode)
	}
	history := make([]domain.RoundResult, len(entry.room.Game.History))
	copy(history, entry.room.Game.History)
	return history, nil
}

// ScoreHistory returns the persisted scoreboard snapshots for a room.
func (r *Registry) ScoreHistory(ctx context.Context, roomCode string) ([]ports.ScoreSnapshot, error) {
	snapshots, err := r.store.LoadRoomScores(ctx, roomCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return snapshots, nil
}
