package httpapi

import "github.com/gin-gonic/gin"

// NewRouter builds the gin engine with every game route bound.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	r.POST("/create_room", h.createRoom)
	r.POST("/add_player", h.addPlayer)
	r.POST("/remove_player", h.removePlayer)
	r.POST("/set_rules", h.setRules)
	r.POST("/start_game", h.startGame)
	r.POST("/play_round", h.playRound)
	r.POST("/invite", h.invite)

	r.GET("/scoreboard/:room_code", h.scoreboard)
	r.GET("/players/:room_code", h.players)
	r.GET("/rooms", h.rooms)
	r.GET("/rounds/:room_code", h.rounds)
	r.GET("/scores/:room_code", h.scoreHistory)

	return r
}
