package controller

import (
	"time"

	"cems/app_error"
	"cems/service"
	"cems/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TeamController struct {
	teamService       *service.TeamService
	teamStatusService *service.TeamStatusService
}

func NewTeamController(db *gorm.DB) *TeamController {
	return &TeamController{
		teamService:       service.NewTeamService(db),
		teamStatusService: service.NewTeamStatusService(db),
	}
}

func setupTeamController(db *gorm.DB) []RouteInfo {
	e := NewTeamController(db)
	return []RouteInfo{
		{Method: "PUT", Path: "/teams", HandlerFunc: e.createTeamHandler(), Authenticated: true},
		{Method: "GET", Path: "/teams", HandlerFunc: e.searchTeamsHandler(), CacheTimeout: 30 * time.Second},
		{Method: "POST", Path: "/teams/join", HandlerFunc: e.requestToJoinHandler(), Authenticated: true},
		{Method: "GET", Path: "/teams/requests", HandlerFunc: e.getPendingRequestsHandler(), Authenticated: true},
		{Method: "POST", Path: "/teams/requests/:request_id/accept", HandlerFunc: e.acceptRequestHandler(), Authenticated: true},
		{Method: "POST", Path: "/teams/requests/:request_id/reject", HandlerFunc: e.rejectRequestHandler(), Authenticated: true},
		{Method: "GET", Path: "/events/:event_id/subevents/:subevent_id/my-team", HandlerFunc: e.getMyTeamHandler(), Authenticated: true},
		{Method: "GET", Path: "/events/:event_id/subevents/:subevent_id/team-status", HandlerFunc: e.getTeamStatusHandler(), Authenticated: true},
	}
}

type TeamCreate struct {
	Name       string `json:"name" binding:"required"`
	EventId    int    `json:"event_id" binding:"required"`
	SubeventId int    `json:"subevent_id" binding:"required"`
}

type JoinRequestCreate struct {
	TeamId int `json:"team_id" binding:"required"`
}

// @id CreateTeam
// @Description Creates a team for a subevent with the caller as leader
// @Tags teams
// @Accept json
// @Produce json
// @Success 201 {object} TeamResponse
// @Router /teams [put]
func (e *TeamController) createTeamHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var teamCreate TeamCreate
		if err := c.BindJSON(&teamCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		claims := getClaims(c)
		team, err := e.teamService.CreateTeam(teamCreate.Name, teamCreate.EventId, teamCreate.SubeventId, claims.UserId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(201, toTeamResponse(team))
	}
}

// @id RequestToJoin
// @Description Creates a pending join request for the caller
// @Tags teams
// @Accept json
// @Produce json
// @Success 201 {object} MemberResponse
// @Router /teams/join [post]
func (e *TeamController) requestToJoinHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var joinRequest JoinRequestCreate
		if err := c.BindJSON(&joinRequest); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		claims := getClaims(c)
		request, err := e.teamService.CreateJoinRequest(joinRequest.TeamId, claims.UserId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(201, toMemberResponse(request))
	}
}

// @id AcceptRequest
// @Description Accepts a pending join request
// @Tags teams
// @Produce json
// @Success 200 {object} MemberResponse
// @Router /teams/requests/{request_id}/accept [post]
func (e *TeamController) acceptRequestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId, ok := pathInt(c, "request_id")
		if !ok {
			return
		}
		request, err := e.teamService.AcceptJoinRequest(requestId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, toMemberResponse(request))
	}
}

// @id RejectRequest
// @Description Rejects a pending join request
// @Tags teams
// @Produce json
// @Success 200 {object} MemberResponse
// @Router /teams/requests/{request_id}/reject [post]
func (e *TeamController) rejectRequestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId, ok := pathInt(c, "request_id")
		if !ok {
			return
		}
		request, err := e.teamService.RejectJoinRequest(requestId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, toMemberResponse(request))
	}
}

// @id SearchTeams
// @Description Lists teams for a subevent with their accepted members
// @Tags teams
// @Produce json
// @Param event_id query int true "Event Id"
// @Param subevent_id query int true "Subevent Id"
// @Param search query string false "Team name filter"
// @Success 200 {array} TeamResponse
// @Router /teams [get]
func (e *TeamController) searchTeamsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := queryInt(c, "event_id")
		if !ok {
			return
		}
		subeventId, ok := queryInt(c, "subevent_id")
		if !ok {
			return
		}
		teams, err := e.teamService.SearchTeams(eventId, subeventId, c.Query("search"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, utils.Map(teams, toTeamResponse))
	}
}

// @id GetMyTeam
// @Description Fetches the caller's team for a subevent, with roster
// @Tags teams
// @Produce json
// @Success 200 {object} service.TeamRoster
// @Router /events/{event_id}/subevents/{subevent_id}/my-team [get]
func (e *TeamController) getMyTeamHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := pathInt(c, "event_id")
		if !ok {
			return
		}
		subeventId, ok := pathInt(c, "subevent_id")
		if !ok {
			return
		}
		claims := getClaims(c)
		roster, err := e.teamStatusService.GetTeamByMember(claims.UserId, eventId, subeventId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, roster)
	}
}

// @id GetPendingRequests
// @Description Lists pending join requests for teams the caller leads
// @Tags teams
// @Produce json
// @Success 200 {array} service.PendingRequest
// @Router /teams/requests [get]
func (e *TeamController) getPendingRequestsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := getClaims(c)
		requests, err := e.teamService.GetPendingRequests(claims.UserId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, requests)
	}
}

// @id GetTeamStatus
// @Description Reports the caller's membership state for a subevent
// @Tags teams
// @Produce json
// @Success 200 {object} service.TeamStatus
// @Router /events/{event_id}/subevents/{subevent_id}/team-status [get]
func (e *TeamController) getTeamStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := pathInt(c, "event_id")
		if !ok {
			return
		}
		subeventId, ok := pathInt(c, "subevent_id")
		if !ok {
			return
		}
		claims := getClaims(c)
		status, err := e.teamStatusService.GetTeamStatus(claims.UserId, eventId, subeventId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, status)
	}
}
