package controller

import (
	"encoding/json"
	"io"

	"cems/app_error"
	"cems/client"
	"cems/service"
	"cems/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CertificateController struct {
	certificateService *service.CertificateService
}

func NewCertificateController(db *gorm.DB) *CertificateController {
	return &CertificateController{
		certificateService: service.NewCertificateService(db, client.NewRendererClient(), client.NewSMTPMailer()),
	}
}

func setupCertificateController(db *gorm.DB) []RouteInfo {
	e := NewCertificateController(db)
	return []RouteInfo{
		{Method: "POST", Path: "/teams/:team_id/certificates", HandlerFunc: e.generateTeamCertificatesHandler(), Authenticated: true, RoleRequired: []string{"admin"}},
		{Method: "GET", Path: "/teams/:team_id/certificates", HandlerFunc: e.getTeamCertificatesHandler(), Authenticated: true},
		{Method: "POST", Path: "/events/:event_id/subevents/:subevent_id/certificates/batch", HandlerFunc: e.generateBatchCertificatesHandler(), Authenticated: true, RoleRequired: []string{"admin"}},
	}
}

// @id GenerateTeamCertificates
// @Description Issues a certificate record for every accepted member of a team
// @Tags certificates
// @Produce json
// @Param team_id path int true "Team Id"
// @Success 201 {array} CertificateResponse
// @Router /teams/{team_id}/certificates [post]
// @Security BearerAuth
func (e *CertificateController) generateTeamCertificatesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		teamId, ok := pathInt(c, "team_id")
		if !ok {
			return
		}
		certificates, err := e.certificateService.GenerateTeamCertificates(teamId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(201, utils.Map(certificates, toCertificateResponse))
	}
}

// @id GetTeamCertificates
// @Description Lists the certificates issued to a team, newest first
// @Tags certificates
// @Produce json
// @Param team_id path int true "Team Id"
// @Success 200 {array} CertificateResponse
// @Router /teams/{team_id}/certificates [get]
// @Security BearerAuth
func (e *CertificateController) getTeamCertificatesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		teamId, ok := pathInt(c, "team_id")
		if !ok {
			return
		}
		certificates, err := e.certificateService.GetTeamCertificates(teamId)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, utils.Map(certificates, toCertificateResponse))
	}
}

// @id GenerateBatchCertificates
// @Description Renders, records and mails certificates for a whole subevent cohort. Multipart form: template image, kind (merit or participation) and a coordinates JSON object.
// @Tags certificates
// @Accept mpfd
// @Produce json
// @Param event_id path int true "Event Id"
// @Param subevent_id path int true "Subevent Id"
// @Param template formData file true "Certificate template image"
// @Param kind formData string true "merit or participation"
// @Param coordinates formData string true "Field name to coordinate JSON object"
// @Success 201 {array} CertificateResponse
// @Router /events/{event_id}/subevents/{subevent_id}/certificates/batch [post]
// @Security BearerAuth
func (e *CertificateController) generateBatchCertificatesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		eventId, ok := pathInt(c, "event_id")
		if !ok {
			return
		}
		subeventId, ok := pathInt(c, "subevent_id")
		if !ok {
			return
		}

		kind := service.CertificateKind(c.PostForm("kind"))
		if kind != service.CertificateMerit && kind != service.CertificateParticipation {
			c.JSON(400, gin.H{"error": "kind must be merit or participation"})
			return
		}

		fileHeader, err := c.FormFile("template")
		if err != nil {
			c.JSON(400, gin.H{"error": "template file is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		defer file.Close()
		template, err := io.ReadAll(file)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var coordinates map[string]client.Coordinate
		if err := json.Unmarshal([]byte(c.PostForm("coordinates")), &coordinates); err != nil {
			c.JSON(400, gin.H{"error": "coordinates must be a JSON object"})
			return
		}

		certificates, err := e.certificateService.GenerateBatchCertificates(eventId, subeventId, kind, template, coordinates)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(201, utils.Map(certificates, toCertificateResponse))
	}
}
