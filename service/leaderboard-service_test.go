package service

import (
	"testing"

	"cems/repository"

	"github.com/stretchr/testify/assert"
)

func markPresent(t *testing.T, teamId int, adminId int) {
	t.Helper()
	_, err := NewAttendanceService(db).MarkTeamAttendance(teamId, true, adminId)
	assert.Nil(t, err)
}

func TestGetTeamLeaderboardSeedsEligibleTeams(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	leaderboardService := NewLeaderboardService(db)

	teamA := createAcceptedTeam("Team A", subevent, users[0].Id, users[1].Id)
	teamB := createAcceptedTeam("Team B", subevent, users[2].Id, users[3].Id)
	markPresent(t, teamA.Id, users[5].Id)
	markPresent(t, teamB.Id, users[5].Id)

	leaderboard, err := leaderboardService.GetTeamLeaderboard(subevent.EventId, subevent.Id)
	assert.Nil(t, err)
	assert.Len(t, leaderboard, 2)
	for _, entry := range leaderboard {
		assert.Equal(t, 0, entry.Score)
		assert.Nil(t, entry.Rank)
		assert.NotNil(t, entry.Team)
	}

	// the seed is written once, a second read returns the same rows
	leaderboard, err = leaderboardService.GetTeamLeaderboard(subevent.EventId, subevent.Id)
	assert.Nil(t, err)
	assert.Len(t, leaderboard, 2)
	var count int64
	db.Model(&repository.TeamLeaderboard{}).
		Where("event_id = ? AND subevent_id = ?", subevent.EventId, subevent.Id).
		Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestGetTeamLeaderboardFiltersIneligibleTeams(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	leaderboardService := NewLeaderboardService(db)

	teamA := createAcceptedTeam("Team A", subevent, users[0].Id, users[1].Id)
	teamB := createAcceptedTeam("Team B", subevent, users[2].Id, users[3].Id)
	markPresent(t, teamA.Id, users[5].Id)

	// stray row for a team that was never marked present
	assert.Nil(t, db.Create(&repository.TeamLeaderboard{
		TeamId:     teamB.Id,
		EventId:    subevent.EventId,
		SubeventId: subevent.Id,
		Score:      50,
	}).Error)

	leaderboard, err := leaderboardService.GetTeamLeaderboard(subevent.EventId, subevent.Id)
	assert.Nil(t, err)
	assert.Len(t, leaderboard, 1)
	assert.Equal(t, teamA.Id, leaderboard[0].TeamId)
}

func TestGetTeamLeaderboardEmptyWithoutAttendance(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	leaderboardService := NewLeaderboardService(db)

	createAcceptedTeam("Team A", subevent, users[0].Id, users[1].Id)

	leaderboard, err := leaderboardService.GetTeamLeaderboard(subevent.EventId, subevent.Id)
	assert.Nil(t, err)
	assert.Len(t, leaderboard, 0)
}

func TestEditTeamWinnersReplacesStandings(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	leaderboardService := NewLeaderboardService(db)
	leaderboardRepository := repository.NewLeaderboardRepository(db)

	teamA := createAcceptedTeam("Team A", subevent, users[0].Id, users[1].Id)
	teamB := createAcceptedTeam("Team B", subevent, users[2].Id, users[3].Id)
	markPresent(t, teamA.Id, users[5].Id)
	markPresent(t, teamB.Id, users[5].Id)
	_, err := leaderboardService.GetTeamLeaderboard(subevent.EventId, subevent.Id)
	assert.Nil(t, err)

	leaderboard, err := leaderboardService.EditTeamWinners(subevent.EventId, subevent.Id, []WinnerEntry{
		{TeamId: teamA.Id, Score: 95, Position: 1},
		{TeamId: teamB.Id, Score: 80, Position: 2},
	})
	assert.Nil(t, err)
	assert.Len(t, leaderboard, 2)
	assert.Equal(t, teamA.Id, leaderboard[0].TeamId)
	assert.Equal(t, 95, leaderboard[0].Score)
	assert.Equal(t, 1, *leaderboard[0].Rank)

	// seeded rows are gone, only the declared winners remain
	var count int64
	db.Model(&repository.TeamLeaderboard{}).
		Where("event_id = ? AND subevent_id = ?", subevent.EventId, subevent.Id).
		Count(&count)
	assert.Equal(t, int64(2), count)

	// each winning member got an individual row with the team's score and rank
	entry, err := leaderboardRepository.GetForStudent(users[2].Id, subevent.EventId, subevent.Id)
	assert.Nil(t, err)
	assert.Equal(t, 80, entry.Score)
	assert.Equal(t, 2, *entry.Rank)

	// declaring again rewrites rather than duplicates the individual rows
	_, err = leaderboardService.EditTeamWinners(subevent.EventId, subevent.Id, []WinnerEntry{
		{TeamId: teamB.Id, Score: 99, Position: 1},
	})
	assert.Nil(t, err)
	db.Model(&repository.Leaderboard{}).
		Where("student_id = ? AND event_id = ? AND subevent_id = ?", users[2].Id, subevent.EventId, subevent.Id).
		Count(&count)
	assert.Equal(t, int64(1), count)
	entry, err = leaderboardRepository.GetForStudent(users[2].Id, subevent.EventId, subevent.Id)
	assert.Nil(t, err)
	assert.Equal(t, 99, entry.Score)
	assert.Equal(t, 1, *entry.Rank)
}

func TestEditTeamWinnersRollsBackOnFailedInsert(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	leaderboardService := NewLeaderboardService(db)
	leaderboardRepository := repository.NewLeaderboardRepository(db)

	teamA := createAcceptedTeam("Team A", subevent, users[0].Id, users[1].Id)
	markPresent(t, teamA.Id, users[5].Id)
	_, err := leaderboardService.EditTeamWinners(subevent.EventId, subevent.Id, []WinnerEntry{
		{TeamId: teamA.Id, Score: 95, Position: 1},
	})
	assert.Nil(t, err)

	// a winner referencing a nonexistent team fails the insert step on the
	// team_id foreign key, after the old standings were already deleted
	_, err = leaderboardService.EditTeamWinners(subevent.EventId, subevent.Id, []WinnerEntry{
		{TeamId: teamA.Id, Score: 50, Position: 2},
		{TeamId: 99999, Score: 99, Position: 1},
	})
	assert.NotNil(t, err)

	// the failed declaration must leave the prior standings untouched
	leaderboard, err := leaderboardService.GetTeamLeaderboard(subevent.EventId, subevent.Id)
	assert.Nil(t, err)
	assert.Len(t, leaderboard, 1)
	assert.Equal(t, teamA.Id, leaderboard[0].TeamId)
	assert.Equal(t, 95, leaderboard[0].Score)
	assert.Equal(t, 1, *leaderboard[0].Rank)

	// individual rows from the prior declaration survive as well
	entry, err := leaderboardRepository.GetForStudent(users[0].Id, subevent.EventId, subevent.Id)
	assert.Nil(t, err)
	assert.Equal(t, 95, entry.Score)
	assert.Equal(t, 1, *entry.Rank)
}

func TestUpdateTeamScoreDoesNotSyncStudents(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	leaderboardService := NewLeaderboardService(db)
	leaderboardRepository := repository.NewLeaderboardRepository(db)

	team := createAcceptedTeam("Team A", subevent, users[0].Id, users[1].Id)
	markPresent(t, team.Id, users[5].Id)

	entry, err := leaderboardService.UpdateTeamScore(team.Id, subevent.EventId, subevent.Id, 42)
	assert.Nil(t, err)
	assert.Equal(t, 42, entry.Score)

	// upsert overwrites on repeat
	entry, err = leaderboardService.UpdateTeamScore(team.Id, subevent.EventId, subevent.Id, 77)
	assert.Nil(t, err)
	assert.Equal(t, 77, entry.Score)
	var count int64
	db.Model(&repository.TeamLeaderboard{}).Where("team_id = ?", team.Id).Count(&count)
	assert.Equal(t, int64(1), count)

	// individual standings are only written by winner declaration
	_, err = leaderboardRepository.GetForStudent(users[0].Id, subevent.EventId, subevent.Id)
	assert.NotNil(t, err)
}
