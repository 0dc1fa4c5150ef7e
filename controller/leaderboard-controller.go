package controller

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"cems/app_error"
	"cems/service"
	"cems/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

type subeventKey struct {
	EventId    int
	SubeventId int
}

type LeaderboardController struct {
	leaderboardService *service.LeaderboardService
	mu                 sync.Mutex
	connections        map[subeventKey]map[*websocket.Conn]bool
}

func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	controller := &LeaderboardController{
		leaderboardService: service.NewLeaderboardService(db),
		connections:        make(map[subeventKey]map[*websocket.Conn]bool),
	}
	controller.StartLeaderboardUpdater()
	return controller
}

func setupLeaderboardController(db *gorm.DB) []RouteInfo {
	e := NewLeaderboardController(db)
	return []RouteInfo{
		{Method: "GET", Path: "/events/:event_id/subevents/:subevent_id/leaderboard", HandlerFunc: e.getTeamLeaderboardHandler(), CacheTimeout: 10 * time.Second},
		{Method: "GET", Path: "/events/:event_id/subevents/:subevent_id/leaderboard/ws", HandlerFunc: e.leaderboardWebSocketHandler},
		{Method: "PUT", Path: "/events/:event_id/subevents/:subevent_id/winners", HandlerFunc: e.editTeamWinnersHandler(), Authenticated: true, RoleRequired: []string{"admin"}},
		{Method: "PATCH", Path: "/teams/:team_id/score", HandlerFunc: e.updateTeamScoreHandler(), Authenticated: true, RoleRequired: []string{"admin"}},
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// allow any host origin to connect to the websocket
		return true
	},
}

// @id GetTeamLeaderboard
// @Description Fetches the team standings for a subevent, attendance-eligible teams only
// @Tags leaderboard
// @Produce json
// @Param event_id path int true "Event Id"
// @Param subevent_id path int true "Subevent Id"
// @Success 200 {array} LeaderboardEntryResponse
// @Router /events/{event_id}/subevents/{subevent_id}/leaderboard [get]
func (e *LeaderboardController) getTeamLeaderboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := pathInt(c, "event_id")
		if !ok {
			return
		}
		subeventId, ok := pathInt(c, "subevent_id")
		if !ok {
			return
		}
		leaderboard, err := e.leaderboardService.GetTeamLeaderboard(eventId, subeventId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, utils.Map(leaderboard, toLeaderboardEntryResponse))
	}
}

// @id LeaderboardWebSocket
// @Description Websocket streaming team standings for a subevent. Connected clients receive the full standings on every refresh.
// @Tags leaderboard
// @Param event_id path int true "Event Id"
// @Param subevent_id path int true "Subevent Id"
// @Success 200 {array} LeaderboardEntryResponse
// @Router /events/{event_id}/subevents/{subevent_id}/leaderboard/ws [get]
func (e *LeaderboardController) leaderboardWebSocketHandler(c *gin.Context) {
	eventId, ok := pathInt(c, "event_id")
	if !ok {
		return
	}
	subeventId, ok := pathInt(c, "subevent_id")
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		http.NotFound(c.Writer, c.Request)
		return
	}
	defer conn.Close()

	key := subeventKey{EventId: eventId, SubeventId: subeventId}

	// Send the current standings to the new subscriber
	leaderboard, err := e.leaderboardService.GetTeamLeaderboard(eventId, subeventId)
	if err == nil {
		serialized, err := json.Marshal(utils.Map(leaderboard, toLeaderboardEntryResponse))
		if err != nil {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, serialized); err != nil {
			return
		}
	}

	e.mu.Lock()
	if _, ok := e.connections[key]; !ok {
		e.connections[key] = make(map[*websocket.Conn]bool)
	}
	e.connections[key][conn] = true
	e.mu.Unlock()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			e.mu.Lock()
			delete(e.connections[key], conn)
			if len(e.connections[key]) == 0 {
				delete(e.connections, key)
			}
			e.mu.Unlock()
			return
		}
	}
}

// StartLeaderboardUpdater periodically pushes standings to subevents with
// active websocket connections.
func (e *LeaderboardController) StartLeaderboardUpdater() {
	go func() {
		for {
			e.mu.Lock()
			keys := utils.Keys(e.connections)
			e.mu.Unlock()
			for _, key := range keys {
				leaderboard, err := e.leaderboardService.GetTeamLeaderboard(key.EventId, key.SubeventId)
				if err != nil {
					continue
				}
				serialized, err := json.Marshal(utils.Map(leaderboard, toLeaderboardEntryResponse))
				if err != nil {
					continue
				}
				e.mu.Lock()
				for conn := range e.connections[key] {
					if err := conn.WriteMessage(websocket.TextMessage, serialized); err != nil {
						conn.Close()
						delete(e.connections[key], conn)
					}
				}
				e.mu.Unlock()
			}
			time.Sleep(15 * time.Second)
		}
	}()
}

// @id EditTeamWinners
// @Description Replaces the subevent standings with the given winner list
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param event_id path int true "Event Id"
// @Param subevent_id path int true "Subevent Id"
// @Success 200 {array} LeaderboardEntryResponse
// @Router /events/{event_id}/subevents/{subevent_id}/winners [put]
// @Security BearerAuth
func (e *LeaderboardController) editTeamWinnersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := pathInt(c, "event_id")
		if !ok {
			return
		}
		subeventId, ok := pathInt(c, "subevent_id")
		if !ok {
			return
		}
		var winners []service.WinnerEntry
		if err := c.BindJSON(&winners); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		leaderboard, err := e.leaderboardService.EditTeamWinners(eventId, subeventId, winners)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, utils.Map(leaderboard, toLeaderboardEntryResponse))
	}
}

type ScoreUpdate struct {
	EventId    int `json:"event_id" binding:"required"`
	SubeventId int `json:"subevent_id" binding:"required"`
	Score      int `json:"score" binding:"min=0"`
}

// @id UpdateTeamScore
// @Description Updates a single team's score without declaring winners
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param team_id path int true "Team Id"
// @Success 200 {object} LeaderboardEntryResponse
// @Router /teams/{team_id}/score [patch]
// @Security BearerAuth
func (e *LeaderboardController) updateTeamScoreHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		teamId, ok := pathInt(c, "team_id")
		if !ok {
			return
		}
		var scoreUpdate ScoreUpdate
		if err := c.BindJSON(&scoreUpdate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		entry, err := e.leaderboardService.UpdateTeamScore(teamId, scoreUpdate.EventId, scoreUpdate.SubeventId, scoreUpdate.Score)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, toLeaderboardEntryResponse(entry))
	}
}
