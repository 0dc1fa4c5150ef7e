package service

import (
	"errors"

	"cems/repository"
	"cems/utils"

	"gorm.io/gorm"
)

type TeamStatusService struct {
	teamRepository *repository.TeamRepository
}

func NewTeamStatusService(db *gorm.DB) *TeamStatusService {
	return &TeamStatusService{
		teamRepository: repository.NewTeamRepository(db),
	}
}

type TeamRosterMember struct {
	Id       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsLeader bool   `json:"isLeader"`
}

type TeamRoster struct {
	Id         int                 `json:"id"`
	Name       string              `json:"name"`
	EventId    int                 `json:"event_id"`
	SubeventId int                 `json:"subevent_id"`
	LeaderId   int                 `json:"leader_id"`
	Members    []*TeamRosterMember `json:"members"`
}

// TeamStatus buckets every membership row the student holds for one
// subevent. A student can be rejected by one team while pending with
// another; all of it is surfaced.
type TeamStatus struct {
	HasPendingRequest bool  `json:"hasPendingRequest"`
	RejectedTeams     []int `json:"rejectedTeams"`
	CurrentTeamId     *int  `json:"currentTeamId"`
}

// GetTeamByMember returns the student's team for the subevent with the full
// accepted roster, or nil when the student holds no accepted membership.
func (s *TeamStatusService) GetTeamByMember(studentId int, eventId int, subeventId int) (*TeamRoster, error) {
	team, err := s.teamRepository.GetTeamForMember(studentId, eventId, subeventId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	members, err := s.teamRepository.GetAcceptedMembers(team.Id)
	if err != nil {
		return nil, err
	}
	return &TeamRoster{
		Id:         team.Id,
		Name:       team.Name,
		EventId:    team.EventId,
		SubeventId: team.SubeventId,
		LeaderId:   team.LeaderId,
		Members: utils.Map(members, func(member *repository.TeamMember) *TeamRosterMember {
			rosterMember := &TeamRosterMember{
				Id:       member.StudentId,
				IsLeader: member.StudentId == team.LeaderId,
			}
			if member.Student != nil {
				rosterMember.Username = member.Student.Username
				rosterMember.Email = member.Student.Email
			}
			return rosterMember
		}),
	}, nil
}

func (s *TeamStatusService) GetTeamStatus(studentId int, eventId int, subeventId int) (*TeamStatus, error) {
	memberships, err := s.teamRepository.GetMembershipsForStudent(studentId, eventId, subeventId)
	if err != nil {
		return nil, err
	}
	status := &TeamStatus{
		RejectedTeams: make([]int, 0),
	}
	for _, membership := range memberships {
		switch membership.Status {
		case repository.MemberPending:
			status.HasPendingRequest = true
		case repository.MemberRejected:
			status.RejectedTeams = append(status.RejectedTeams, membership.TeamId)
		case repository.MemberAccepted:
			teamId := membership.TeamId
			status.CurrentTeamId = &teamId
		}
	}
	return status, nil
}
