package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"kaliteedi/internal/app"
	"kaliteedi/internal/config"
	"kaliteedi/internal/domain"
)

// gRPC status codes used by runtime.NewError.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codeFailedPrecondition = 9
	codeInternal           = 13
	codeUnavailable        = 14
)

const notificationCodeGameEvent = 100

// Port exposes the registry over Nakama RPCs.
type Port struct {
	registry *app.Registry
	invites  *app.InviteService
}

func NewPort(registry *app.Registry, invites *app.InviteService) *Port {
	return &Port{registry: registry, invites: invites}
}

// RegisterRPCs binds every game RPC on the initializer.
func (p *Port) RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		"create_room":   p.rpcCreateRoom,
		"add_player":    p.rpcAddPlayer,
		"remove_player": p.rpcRemovePlayer,
		"set_rules":     p.rpcSetRules,
		"start_game":    p.rpcStartGame,
		"play_round":    p.rpcPlayRound,
		"scoreboard":    p.rpcScoreboard,
		"players":       p.rpcPlayers,
		"rooms":         p.rpcRooms,
		"score_history": p.rpcScoreHistory,
		"room_invite":   p.rpcRoomInvite,
	}
	for name, fn := range rpcs {
		if err := initializer.RegisterRpc(name, fn); err != nil {
			return err
		}
	}
	return nil
}

func rpcError(err error) error {
	switch {
	case errors.Is(err, app.ErrRoomNotFound), errors.Is(err, app.ErrGameNotFound):
		return runtime.NewError(err.Error(), codeNotFound)
	case errors.Is(err, domain.ErrRoomFull),
		errors.Is(err, domain.ErrDuplicatePlayer),
		errors.Is(err, domain.ErrGameInProgress),
		errors.Is(err, domain.ErrInsufficientPlayers):
		return runtime.NewError(err.Error(), codeFailedPrecondition)
	case errors.Is(err, app.ErrStorageUnavailable):
		return runtime.NewError(err.Error(), codeUnavailable)
	default:
		return runtime.NewError(err.Error(), codeInternal)
	}
}

func decode(payload string, v any) error {
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return runtime.NewError("invalid payload", codeInvalidArgument)
	}
	return nil
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", runtime.NewError("encode response", codeInternal)
	}
	return string(data), nil
}

func callerID(ctx context.Context) string {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	return userID
}

// notifyEvents fans registry events out as Nakama notifications. Events
// without explicit recipients go to every room member. Delivery failures
// are logged and swallowed; the state change already happened.
func (p *Port) notifyEvents(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule, roomCode string, events []app.Event) {
	for _, ev := range events {
		recipients := ev.Recipients
		if len(recipients) == 0 {
			members, err := p.registry.Players(roomCode)
			if err != nil {
				logger.Warn("notify %s: resolve room %s: %v", ev.Kind, roomCode, err)
				continue
			}
			for _, m := range members {
				recipients = append(recipients, m.ID)
			}
		}

		content := eventContent(ev)
		for _, userID := range recipients {
			if err := nk.NotificationSend(ctx, userID, string(ev.Kind), content, notificationCodeGameEvent, "", false); err != nil {
				logger.Warn("notify %s to %s: %v", ev.Kind, userID, err)
			}
		}
	}
}

func eventContent(ev app.Event) map[string]interface{} {
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		return map[string]interface{}{}
	}
	content := make(map[string]interface{})
	if err := json.Unmarshal(data, &content); err != nil {
		return map[string]interface{}{}
	}
	return content
}

func (p *Port) rpcCreateRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		HostID   string `json:"host_id"`
		HostName string `json:"host_name"`
	}
	if payload != "" {
		if err := decode(payload, &req); err != nil {
			return "", err
		}
	}
	if req.HostID == "" {
		req.HostID = callerID(ctx)
	}
	if req.HostID == "" {
		return "", runtime.NewError("host_id required", codeInvalidArgument)
	}

	info, events, err := p.registry.CreateRoom(req.HostID, req.HostName)
	if err != nil {
		return "", rpcError(err)
	}
	logger.Info("room %s created by %s", info.Code, req.HostID)
	p.notifyEvents(ctx, logger, nk, info.Code, events)
	return encode(info)
}

func (p *Port) rpcAddPlayer(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		RoomCode    string `json:"room_code"`
		PlayerID    string `json:"player_id"`
		DisplayName string `json:"display_name"`
		InviteToken string `json:"invite_token"`
	}
	if err := decode(payload, &req); err != nil {
		return "", err
	}
	if req.PlayerID == "" {
		req.PlayerID = callerID(ctx)
	}

	if req.InviteToken != "" && p.invites != nil {
		room, err := p.invites.ValidateToken(req.InviteToken)
		if err != nil {
			return "", runtime.NewError(err.Error(), codeInvalidArgument)
		}
		if req.RoomCode == "" {
			req.RoomCode = room
		} else if req.RoomCode != room {
			return "", runtime.NewError("invite token names a different room", codeInvalidArgument)
		}
	}
	if req.RoomCode == "" {
		return "", runtime.NewError("room_code required", codeInvalidArgument)
	}

	info, events, err := p.registry.AddPlayer(req.RoomCode, req.PlayerID, req.DisplayName)
	if err != nil {
		return "", rpcError(err)
	}
	p.notifyEvents(ctx, logger, nk, req.RoomCode, events)
	return encode(info)
}

func (p *Port) rpcRemovePlayer(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		RoomCode string `json:"room_code"`
		PlayerID string `json:"player_id"`
	}
	if err := decode(payload, &req); err != nil {
		return "", err
	}
	if req.PlayerID == "" {
		req.PlayerID = callerID(ctx)
	}

	events, err := p.registry.RemovePlayer(req.RoomCode, req.PlayerID)
	if err != nil {
		return "", rpcError(err)
	}
	p.notifyEvents(ctx, logger, nk, req.RoomCode, events)
	return encode(map[string]bool{"removed": len(events) > 0})
}

func (p *Port) rpcSetRules(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		RoomCode               string `json:"room_code"`
		PointsPerRemainingCard int    `json:"points_per_remaining_card"`
		WinnerBonus            *int   `json:"winner_bonus"`
	}
	if err := decode(payload, &req); err != nil {
		return "", err
	}
	if req.PointsPerRemainingCard <= 0 {
		req.PointsPerRemainingCard = config.Get().PointsPerRemainingCard
	}

	rules := domain.PointsRules{
		PointsPerRemainingCard: req.PointsPerRemainingCard,
		WinnerBonus:            req.WinnerBonus,
	}
	events, err := p.registry.SetPointsRules(req.RoomCode, rules)
	if err != nil {
		return "", rpcError(err)
	}
	p.notifyEvents(ctx, logger, nk, req.RoomCode, events)
	return encode(rules)
}

func (p *Port) rpcStartGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		RoomCode  string `json:"room_code"`
		DeckCount int    `json:"deck_count"`
	}
	if err := decode(payload, &req); err != nil {
		return "", err
	}
	if req.DeckCount <= 0 {
		req.DeckCount = config.Get().DefaultDeckCount
	}

	info, events, err := p.registry.StartGame(req.RoomCode, req.DeckCount)
	if err != nil {
		return "", rpcError(err)
	}
	logger.Info("game %s started in room %s with %d players", info.GameID, req.RoomCode, len(info.Players))
	p.notifyEvents(ctx, logger, nk, req.RoomCode, events)
	return encode(info)
}

// PlayRoundResponse carries the round outcome plus a storage warning
// when persisting the scoreboard failed.
type PlayRoundResponse struct {
	*domain.RoundResult
	StorageError string `json:"storage_error,omitempty"`
}

func (p *Port) rpcPlayRound(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		RoomCode string `json:"room_code"`
	}
	if err := decode(payload, &req); err != nil {
		return "", err
	}

	result, events, err := p.registry.PlayRound(ctx, req.RoomCode)
	if err != nil && !errors.Is(err, app.ErrStorageUnavailable) {
		return "", rpcError(err)
	}

	resp := PlayRoundResponse{RoundResult: result}
	if err != nil {
		logger.Error("room %s round %d: %v", req.RoomCode, result.Round, err)
		resp.StorageError = err.Error()
	}
	p.notifyEvents(ctx, logger, nk, req.RoomCode, events)
	return encode(resp)
}

func (p *Port) rpcScoreboard(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		RoomCode string `json:"room_code"`
	}
	if err := decode(payload, &req); err != nil {
		return "", err
	}

	rows, err := p.registry.Scoreboard(req.RoomCode)
	if err != nil {
		return "", rpcError(err)
	}
	return encode(rows)
}

func (p *Port) rpcPlayers(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		RoomCode string `json:"room_code"`
	}
	if err := decode(payload, &req); err != nil {
		return "", err
	}

	players, err := p.registry.Players(req.RoomCode)
	if err != nil {
		return "", rpcError(err)
	}
	return encode(players)
}

func (p *Port) rpcRooms(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return encode(p.registry.ListRooms())
}

func (p *Port) rpcScoreHistory(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		RoomCode string `json:"room_code"`
	}
	if err := decode(payload, &req); err != nil {
		return "", err
	}

	history, err := p.registry.ScoreHistory(ctx, req.RoomCode)
	if err != nil {
		return "", rpcError(err)
	}
	return encode(history)
}

func (p *Port) rpcRoomInvite(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if p.invites == nil {
		return "", runtime.NewError("invites are not configured", codeFailedPrecondition)
	}
	var req struct {
		RoomCode string `json:"room_code"`
	}
	if err := decode(payload, &req); err != nil {
		return "", err
	}
	if _, err := p.registry.Players(req.RoomCode); err != nil {
		return "", rpcError(err)
	}

	token, err := p.invites.GenerateToken(req.RoomCode)
	if err != nil {
		return "", runtime.NewError(err.Error(), codeInternal)
	}
	return encode(map[string]string{
		"room_code": req.RoomCode,
		"token":     token,
		"expires":   time.Now().Add(time.Duration(config.Get().InviteTTLMinutes) * time.Minute).UTC().Format(time.RFC3339),
	})
}
