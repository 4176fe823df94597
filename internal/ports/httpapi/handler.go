package httpapi

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kaliteedi/internal/app"
	"kaliteedi/internal/config"
	"kaliteedi/internal/domain"
)

// Handler serves the room registry over HTTP. The sink is optional; when
// set, every registry event is published through it.
type Handler struct {
	registry *app.Registry
	invites  *app.InviteService
	sink     app.EventSink
}

func NewHandler(registry *app.Registry, invites *app.InviteService, sink app.EventSink) *Handler {
	return &Handler{registry: registry, invites: invites, sink: sink}
}

// publish fans events out to the sink. Publish failures are logged and
// swallowed; the state change already happened.
func (h *Handler) publish(roomCode string, events []app.Event) {
	if h.sink == nil {
		return
	}
	for _, ev := range events {
		if err := h.sink.Publish(roomCode, ev); err != nil {
			log.Printf("publish %s for room %s: %v", ev.Kind, roomCode, err)
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrRoomNotFound), errors.Is(err, app.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRoomFull),
		errors.Is(err, domain.ErrDuplicatePlayer),
		errors.Is(err, domain.ErrGameInProgress),
		errors.Is(err, domain.ErrInsufficientPlayers):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func (h *Handler) createRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "host_id required"})
		return
	}

	info, events, err := h.registry.CreateRoom(req.HostID, req.HostName)
	if err != nil {
		fail(c, err)
		return
	}
	h.publish(info.Code, events)
	c.JSON(http.StatusOK, info)
}

func (h *Handler) addPlayer(c *gin.Context) {
	var req AddPlayerRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player_id required"})
		return
	}

	if req.InviteToken != "" && h.invites != nil {
		room, err := h.invites.ValidateToken(req.InviteToken)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.RoomCode == "" {
			req.RoomCode = room
		} else if req.RoomCode != room {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invite token names a different room"})
			return
		}
	}
	if req.RoomCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_code required"})
		return
	}

	info, events, err := h.registry.AddPlayer(req.RoomCode, req.PlayerID, req.DisplayName)
	if err != nil {
		fail(c, err)
		return
	}
	h.publish(req.RoomCode, events)
	c.JSON(http.StatusOK, info)
}

func (h *Handler) removePlayer(c *gin.Context) {
	var req RemovePlayerRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_code and player_id required"})
		return
	}

	events, err := h.registry.RemovePlayer(req.RoomCode, req.PlayerID)
	if err != nil {
		fail(c, err)
		return
	}
	h.publish(req.RoomCode, events)
	c.JSON(http.StatusOK, gin.H{"removed": len(events) > 0})
}

func (h *Handler) setRules(c *gin.Context) {
	var req SetRulesRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_code required"})
		return
	}
	if req.PointsPerRemainingCard <= 0 {
		req.PointsPerRemainingCard = config.Get().PointsPerRemainingCard
	}

	rules := domain.PointsRules{
		PointsPerRemainingCard: req.PointsPerRemainingCard,
		WinnerBonus:            req.WinnerBonus,
	}
	events, err := h.registry.SetPointsRules(req.RoomCode, rules)
	if err != nil {
		fail(c, err)
		return
	}
	h.publish(req.RoomCode, events)
	c.JSON(http.StatusOK, rules)
}

func (h *Handler) startGame(c *gin.Context) {
	var req StartGameRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_code required"})
		return
	}
	if req.DeckCount <= 0 {
		req.DeckCount = config.Get().DefaultDeckCount
	}

	info, events, err := h.registry.StartGame(req.RoomCode, req.DeckCount)
	if err != nil {
		fail(c, err)
		return
	}
	h.publish(req.RoomCode, events)
	c.JSON(http.StatusOK, info)
}

func (h *Handler) playRound(c *gin.Context) {
	var req PlayRoundRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_code required"})
		return
	}

	result, events, err := h.registry.PlayRound(c.Request.Context(), req.RoomCode)
	if err != nil && !errors.Is(err, app.ErrStorageUnavailable) {
		fail(c, err)
		return
	}

	resp := PlayRoundResponse{RoundResult: result}
	if err != nil {
		log.Printf("room %s round %d: %v", req.RoomCode, result.Round, err)
		resp.StorageError = err.Error()
	}
	h.publish(req.RoomCode, events)
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) scoreboard(c *gin.Context) {
	rows, err := h.registry.Scoreboard(c.Param("room_code"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scoreboard": rows})
}

func (h *Handler) players(c *gin.Context) {
	players, err := h.registry.Players(c.Param("room_code"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": players})
}

func (h *Handler) rooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.registry.ListRooms()})
}

func (h *Handler) rounds(c *gin.Context) {
	history, err := h.registry.RoundHistory(c.Param("room_code"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rounds": history})
}

func (h *Handler) scoreHistory(c *gin.Context) {
	history, err := h.registry.ScoreHistory(c.Request.Context(), c.Param("room_code"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": history})
}

func (h *Handler) invite(c *gin.Context) {
	if h.invites == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "invites are not configured"})
		return
	}
	var req InviteRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_code required"})
		return
	}
	if _, err := h.registry.Players(req.RoomCode); err != nil {
		fail(c, err)
		return
	}

	token, err := h.invites.GenerateToken(req.RoomCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	expires := time.Now().Add(time.Duration(config.Get().InviteTTLMinutes) * time.Minute)
	c.JSON(http.StatusOK, gin.H{
		"room_code": req.RoomCode,
		"token":     token,
		"expires":   expires.UTC().Format(time.RFC3339),
	})
}
