package controller

import (
	"cems/app_error"
	"cems/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AttendanceController struct {
	attendanceService *service.AttendanceService
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{
		attendanceService: service.NewAttendanceService(db),
	}
}

func setupAttendanceController(db *gorm.DB) []RouteInfo {
	e := NewAttendanceController(db)
	return []RouteInfo{
		{Method: "POST", Path: "/teams/:team_id/attendance", HandlerFunc: e.markTeamAttendanceHandler(), Authenticated: true, RoleRequired: []string{"admin"}},
		{Method: "GET", Path: "/teams/:team_id/attendance", HandlerFunc: e.getTeamAttendanceHandler()},
	}
}

type AttendanceCreate struct {
	Present *bool `json:"present" binding:"required"`
}

// @id MarkTeamAttendance
// @Description Marks a team present or absent and mirrors it onto member registrations
// @Tags attendance
// @Accept json
// @Produce json
// @Param team_id path int true "Team Id"
// @Success 200 {object} AttendanceResponse
// @Router /teams/{team_id}/attendance [post]
// @Security BearerAuth
func (e *AttendanceController) markTeamAttendanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		teamId, ok := pathInt(c, "team_id")
		if !ok {
			return
		}
		var attendanceCreate AttendanceCreate
		if err := c.BindJSON(&attendanceCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		claims := getClaims(c)
		attendance, err := e.attendanceService.MarkTeamAttendance(teamId, *attendanceCreate.Present, claims.UserId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, toAttendanceResponse(attendance))
	}
}

// @id GetTeamAttendance
// @Description Fetches a team's attendance record with its roster
// @Tags attendance
// @Produce json
// @Param team_id path int true "Team Id"
// @Success 200 {object} AttendanceResponse
// @Router /teams/{team_id}/attendance [get]
func (e *AttendanceController) getTeamAttendanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		teamId, ok := pathInt(c, "team_id")
		if !ok {
			return
		}
		attendance, err := e.attendanceService.GetTeamAttendance(teamId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		if attendance == nil {
			c.JSON(200, nil)
			return
		}
		c.JSON(200, toAttendanceResponse(attendance))
	}
}
