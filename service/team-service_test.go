package service

import (
	"testing"

	"cems/app_error"
	"cems/repository"

	"github.com/stretchr/testify/assert"
)

func TestTeamLifecycle(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	teamService := NewTeamService(db)

	team, err := teamService.CreateTeam("Null Pointers", subevent.EventId, subevent.Id, users[0].Id)
	assert.Nil(t, err)
	assert.Equal(t, "Null Pointers", team.Name)

	// the leader starts as an accepted member
	roster, err := repository.NewTeamRepository(db).GetTeamWithAcceptedMembers(team.Id)
	assert.Nil(t, err)
	assert.Len(t, roster.Members, 1)
	assert.Equal(t, users[0].Id, roster.Members[0].StudentId)

	request1, err := teamService.CreateJoinRequest(team.Id, users[1].Id)
	assert.Nil(t, err)
	assert.Equal(t, repository.MemberPending, request1.Status)

	accepted, err := teamService.AcceptJoinRequest(request1.Id)
	assert.Nil(t, err)
	assert.Equal(t, repository.MemberAccepted, accepted.Status)

	request2, err := teamService.CreateJoinRequest(team.Id, users[2].Id)
	assert.Nil(t, err)
	_, err = teamService.AcceptJoinRequest(request2.Id)
	assert.Nil(t, err)

	// team is now at max size 3, a further accept must fail
	request3, err := teamService.CreateJoinRequest(team.Id, users[3].Id)
	assert.Nil(t, err)
	_, err = teamService.AcceptJoinRequest(request3.Id)
	assert.ErrorIs(t, err, app_error.ErrTeamFull)

	// the failed accept must leave the request pending
	member, err := repository.NewTeamRepository(db).GetMemberById(request3.Id)
	assert.Nil(t, err)
	assert.Equal(t, repository.MemberPending, member.Status)
}

func TestCreateTeamDuplicateName(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	teamService := NewTeamService(db)

	_, err := teamService.CreateTeam("Null Pointers", subevent.EventId, subevent.Id, users[0].Id)
	assert.Nil(t, err)
	_, err = teamService.CreateTeam("Null Pointers", subevent.EventId, subevent.Id, users[1].Id)
	assert.ErrorIs(t, err, app_error.ErrDuplicateTeamName)
}

func TestJoinRequestPreconditions(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	teamService := NewTeamService(db)

	teamA, err := teamService.CreateTeam("Team A", subevent.EventId, subevent.Id, users[0].Id)
	assert.Nil(t, err)
	teamB, err := teamService.CreateTeam("Team B", subevent.EventId, subevent.Id, users[1].Id)
	assert.Nil(t, err)

	_, err = teamService.CreateJoinRequest(teamA.Id+teamB.Id+1000, users[2].Id)
	assert.ErrorIs(t, err, app_error.ErrTeamNotFound)

	_, err = teamService.CreateJoinRequest(teamA.Id, users[2].Id)
	assert.Nil(t, err)

	// a second pending request anywhere is rejected
	_, err = teamService.CreateJoinRequest(teamB.Id, users[2].Id)
	assert.ErrorIs(t, err, app_error.ErrExistingPendingRequest)

	// an accepted member of the pair cannot request again
	_, err = teamService.CreateJoinRequest(teamB.Id, users[0].Id)
	assert.ErrorIs(t, err, app_error.ErrAlreadyInTeam)
}

func TestAcceptJoinRequestRevalidates(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	teamService := NewTeamService(db)
	teamRepository := repository.NewTeamRepository(db)

	teamA, err := teamService.CreateTeam("Team A", subevent.EventId, subevent.Id, users[0].Id)
	assert.Nil(t, err)
	teamB, err := teamService.CreateTeam("Team B", subevent.EventId, subevent.Id, users[1].Id)
	assert.Nil(t, err)

	request, err := teamService.CreateJoinRequest(teamA.Id, users[2].Id)
	assert.Nil(t, err)

	// simulate a concurrent accept into another team of the same subevent
	_, err = teamRepository.CreateMember(&repository.TeamMember{
		TeamId:    teamB.Id,
		StudentId: users[2].Id,
		Status:    repository.MemberAccepted,
	})
	assert.Nil(t, err)

	_, err = teamService.AcceptJoinRequest(request.Id)
	assert.ErrorIs(t, err, app_error.ErrAlreadyInOtherTeam)
}

func TestAcceptRejectsOtherPendingRequests(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	teamService := NewTeamService(db)
	teamRepository := repository.NewTeamRepository(db)

	teamA, err := teamService.CreateTeam("Team A", subevent.EventId, subevent.Id, users[0].Id)
	assert.Nil(t, err)
	teamB, err := teamService.CreateTeam("Team B", subevent.EventId, subevent.Id, users[1].Id)
	assert.Nil(t, err)

	request, err := teamService.CreateJoinRequest(teamA.Id, users[2].Id)
	assert.Nil(t, err)
	// a second pending request that slipped past the single-pending check
	stray, err := teamRepository.CreateMember(&repository.TeamMember{
		TeamId:    teamB.Id,
		StudentId: users[2].Id,
		Status:    repository.MemberPending,
	})
	assert.Nil(t, err)

	_, err = teamService.AcceptJoinRequest(request.Id)
	assert.Nil(t, err)

	member, err := teamRepository.GetMemberById(stray.Id)
	assert.Nil(t, err)
	assert.Equal(t, repository.MemberRejected, member.Status)
}

func TestRejectJoinRequest(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	teamService := NewTeamService(db)

	team, err := teamService.CreateTeam("Team A", subevent.EventId, subevent.Id, users[0].Id)
	assert.Nil(t, err)
	request, err := teamService.CreateJoinRequest(team.Id, users[1].Id)
	assert.Nil(t, err)

	rejected, err := teamService.RejectJoinRequest(request.Id)
	assert.Nil(t, err)
	assert.Equal(t, repository.MemberRejected, rejected.Status)

	// settled requests cannot be arbitrated again
	_, err = teamService.AcceptJoinRequest(request.Id)
	assert.ErrorIs(t, err, app_error.ErrRequestNotPending)
	_, err = teamService.RejectJoinRequest(request.Id)
	assert.ErrorIs(t, err, app_error.ErrRequestNotPending)

	// a rejected student may request again
	_, err = teamService.CreateJoinRequest(team.Id, users[1].Id)
	assert.Nil(t, err)
}

func TestGetPendingRequests(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	teamService := NewTeamService(db)

	team, err := teamService.CreateTeam("Team A", subevent.EventId, subevent.Id, users[0].Id)
	assert.Nil(t, err)
	_, err = teamService.CreateJoinRequest(team.Id, users[1].Id)
	assert.Nil(t, err)
	_, err = teamService.CreateJoinRequest(team.Id, users[2].Id)
	assert.Nil(t, err)

	requests, err := teamService.GetPendingRequests(users[0].Id)
	assert.Nil(t, err)
	assert.Len(t, requests, 2)
	assert.Equal(t, "Team A", requests[0].TeamName)
	assert.NotEmpty(t, requests[0].StudentEmail)

	// non-leaders see nothing
	requests, err = teamService.GetPendingRequests(users[3].Id)
	assert.Nil(t, err)
	assert.Len(t, requests, 0)
}

func TestSearchTeams(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	teamService := NewTeamService(db)

	_, err := teamService.CreateTeam("Null Pointers", subevent.EventId, subevent.Id, users[0].Id)
	assert.Nil(t, err)
	_, err = teamService.CreateTeam("Segfault Squad", subevent.EventId, subevent.Id, users[1].Id)
	assert.Nil(t, err)

	teams, err := teamService.SearchTeams(subevent.EventId, subevent.Id, "")
	assert.Nil(t, err)
	assert.Len(t, teams, 2)

	teams, err = teamService.SearchTeams(subevent.EventId, subevent.Id, "null")
	assert.Nil(t, err)
	assert.Len(t, teams, 1)
	assert.Equal(t, "Null Pointers", teams[0].Name)
}
