package service

import (
	"testing"

	"cems/app_error"
	"cems/client"

	"github.com/stretchr/testify/assert"
)

type fakeRenderer struct {
	calls int
}

func (f *fakeRenderer) Render(template []byte, fields map[string]string, coordinates map[string]client.Coordinate) ([]byte, error) {
	f.calls++
	return []byte("rendered"), nil
}

type fakeNotifier struct {
	recipients []string
}

func (f *fakeNotifier) Send(recipient string, subject string, body string, attachment []byte, attachmentName string) error {
	f.recipients = append(f.recipients, recipient)
	return nil
}

func newTestCertificateService() (*CertificateService, *fakeRenderer, *fakeNotifier) {
	renderer := &fakeRenderer{}
	notifier := &fakeNotifier{}
	return NewCertificateService(db, renderer, notifier), renderer, notifier
}

func TestGenerateTeamCertificates(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	certificateService, _, _ := newTestCertificateService()
	leaderboardService := NewLeaderboardService(db)

	team := createAcceptedTeam("Team A", subevent, users[0].Id, users[1].Id, users[2].Id)
	markPresent(t, team.Id, users[5].Id)
	_, err := leaderboardService.EditTeamWinners(subevent.EventId, subevent.Id, []WinnerEntry{
		{TeamId: team.Id, Score: 95, Position: 1},
	})
	assert.Nil(t, err)

	certificates, err := certificateService.GenerateTeamCertificates(team.Id)
	assert.Nil(t, err)
	assert.Len(t, certificates, 3)
	for _, certificate := range certificates {
		assert.Equal(t, 1, *certificate.Rank)
		assert.NotEmpty(t, certificate.CertificateId)
	}

	// ids must be distinct per member
	assert.NotEqual(t, certificates[0].CertificateId, certificates[1].CertificateId)
}

func TestGenerateTeamCertificatesWithoutRank(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	certificateService, _, _ := newTestCertificateService()

	team := createAcceptedTeam("Team A", subevent, users[0].Id, users[1].Id)

	certificates, err := certificateService.GenerateTeamCertificates(team.Id)
	assert.Nil(t, err)
	assert.Len(t, certificates, 2)
	assert.Nil(t, certificates[0].Rank)

	_, err = certificateService.GenerateTeamCertificates(9999)
	assert.ErrorIs(t, err, app_error.ErrTeamNotFound)
}

func TestGenerateTeamCertificatesAppends(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	certificateService, _, _ := newTestCertificateService()

	team := createAcceptedTeam("Team A", subevent, users[0].Id, users[1].Id)

	_, err := certificateService.GenerateTeamCertificates(team.Id)
	assert.Nil(t, err)
	_, err = certificateService.GenerateTeamCertificates(team.Id)
	assert.Nil(t, err)

	certificates, err := certificateService.GetTeamCertificates(team.Id)
	assert.Nil(t, err)
	assert.Len(t, certificates, 4)
	assert.NotNil(t, certificates[0].Member)
}

func TestGenerateBatchCertificatesMerit(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	certificateService, renderer, notifier := newTestCertificateService()
	leaderboardService := NewLeaderboardService(db)

	teamA := createAcceptedTeam("Team A", subevent, users[0].Id, users[1].Id)
	teamB := createAcceptedTeam("Team B", subevent, users[2].Id, users[3].Id)
	markPresent(t, teamA.Id, users[5].Id)
	markPresent(t, teamB.Id, users[5].Id)
	_, err := leaderboardService.EditTeamWinners(subevent.EventId, subevent.Id, []WinnerEntry{
		{TeamId: teamA.Id, Score: 95, Position: 1},
	})
	assert.Nil(t, err)

	certificates, err := certificateService.GenerateBatchCertificates(
		subevent.EventId, subevent.Id, CertificateMerit, []byte("template"), nil)
	assert.Nil(t, err)

	// only the declared winner's members receive merit certificates
	assert.Len(t, certificates, 2)
	for _, certificate := range certificates {
		assert.Equal(t, teamA.Id, certificate.TeamId)
		assert.Equal(t, 1, *certificate.Rank)
	}
	assert.Equal(t, 2, renderer.calls)
	assert.Len(t, notifier.recipients, 2)
	assert.Contains(t, notifier.recipients, users[0].Email)
}

func TestGenerateBatchCertificatesParticipation(t *testing.T) {
	TearDown()
	subevent := SetUp()
	users := fixtureUsers()
	certificateService, _, notifier := newTestCertificateService()
	leaderboardService := NewLeaderboardService(db)

	teamA := createAcceptedTeam("Team A", subevent, users[0].Id, users[1].Id)
	teamB := createAcceptedTeam("Team B", subevent, users[2].Id, users[3].Id)
	markPresent(t, teamA.Id, users[5].Id)
	markPresent(t, teamB.Id, users[5].Id)
	_, err := leaderboardService.EditTeamWinners(subevent.EventId, subevent.Id, []WinnerEntry{
		{TeamId: teamA.Id, Score: 95, Position: 1},
	})
	assert.Nil(t, err)

	certificates, err := certificateService.GenerateBatchCertificates(
		subevent.EventId, subevent.Id, CertificateParticipation, []byte("template"), nil)
	assert.Nil(t, err)

	// present teams off the leaderboard get unranked participation certificates
	assert.Len(t, certificates, 2)
	for _, certificate := range certificates {
		assert.Equal(t, teamB.Id, certificate.TeamId)
		assert.Nil(t, certificate.Rank)
	}
	assert.Len(t, notifier.recipients, 2)
}

func TestGenerateBatchCertificatesNoCohort(t *testing.T) {
	TearDown()
	subevent := SetUp()
	certificateService, renderer, _ := newTestCertificateService()

	_, err := certificateService.GenerateBatchCertificates(
		subevent.EventId, subevent.Id, CertificateMerit, []byte("template"), nil)
	assert.ErrorIs(t, err, app_error.ErrNoEligibleTeams)
	assert.Equal(t, 0, renderer.calls)

	// each missing entity is named in its own error
	_, err = certificateService.GenerateBatchCertificates(9999, subevent.Id, CertificateMerit, []byte("template"), nil)
	assert.ErrorIs(t, err, app_error.ErrEventNotFound)
	_, err = certificateService.GenerateBatchCertificates(subevent.EventId, 9999, CertificateMerit, []byte("template"), nil)
	assert.ErrorIs(t, err, app_error.ErrSubeventNotFound)
}

func TestRankSuffix(t *testing.T) {
	assert.Equal(t, "st", rankSuffix(1))
	assert.Equal(t, "nd", rankSuffix(2))
	assert.Equal(t, "rd", rankSuffix(3))
	assert.Equal(t, "th", rankSuffix(4))
	assert.Equal(t, "th", rankSuffix(11))
	assert.Equal(t, "th", rankSuffix(12))
	assert.Equal(t, "th", rankSuffix(13))
	assert.Equal(t, "st", rankSuffix(21))
}
