package app_error

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type statusError struct {
	message string
	status  int
}

func (e *statusError) Error() string {
	return e.message
}

func (e *statusError) HTTPStatus() int {
	return e.status
}

func New(status int, message string) error {
	return &statusError{message: message, status: status}
}

// Precondition and not-found failures of the team workflow. All are
// caller-fixable and surface as 4xx responses.
var (
	ErrDuplicateTeamName      = New(http.StatusConflict, "team name is already taken")
	ErrTeamNotFound           = New(http.StatusNotFound, "team not found")
	ErrRequestNotFound        = New(http.StatusNotFound, "join request not found")
	ErrRequestNotPending      = New(http.StatusConflict, "this request is no longer pending")
	ErrEventNotFound          = New(http.StatusNotFound, "event not found")
	ErrSubeventNotFound       = New(http.StatusNotFound, "subevent not found")
	ErrTeamFull               = New(http.StatusConflict, "team is already full")
	ErrExistingPendingRequest = New(http.StatusConflict, "student already has a pending request with another team")
	ErrAlreadyInTeam          = New(http.StatusConflict, "student is already a member of a team for this subevent")
	ErrAlreadyInOtherTeam     = New(http.StatusConflict, "student was accepted into another team for this subevent")
	ErrInsufficientTeamSize   = New(http.StatusUnprocessableEntity, "team does not meet the minimum size to mark attendance")
	ErrNoEligibleTeams        = New(http.StatusNotFound, "no eligible teams found for certificate generation")
)

// Status resolves the HTTP status for an error, defaulting to 500 for
// anything that does not carry one.
func Status(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.HTTPStatus()
	}
	return http.StatusInternalServerError
}

func Respond(c *gin.Context, err error) {
	c.JSON(Status(err), gin.H{"error": err.Error()})
}
