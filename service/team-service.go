package service

import (
	"errors"

	"cems/app_error"
	"cems/repository"
	"cems/utils"

	"gorm.io/gorm"
)

type TeamService struct {
	db             *gorm.DB
	teamRepository *repository.TeamRepository
	userRepository *repository.UserRepository
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{
		db:             db,
		teamRepository: repository.NewTeamRepository(db),
		userRepository: repository.NewUserRepository(db),
	}
}

// CreateTeam inserts the team and its leader's accepted membership in one
// transaction.
func (s *TeamService) CreateTeam(name string, eventId int, subeventId int, leaderId int) (*repository.Team, error) {
	var team *repository.Team
	err := s.db.Transaction(func(tx *gorm.DB) error {
		teamRepository := repository.NewTeamRepository(tx)
		_, err := teamRepository.GetTeamByName(name)
		if err == nil {
			return app_error.ErrDuplicateTeamName
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		team, err = teamRepository.Create(&repository.Team{
			Name:       name,
			EventId:    eventId,
			SubeventId: subeventId,
			LeaderId:   leaderId,
		})
		if err != nil {
			return err
		}
		_, err = teamRepository.CreateMember(&repository.TeamMember{
			TeamId:    team.Id,
			StudentId: leaderId,
			Status:    repository.MemberAccepted,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// CreateJoinRequest validates the student's eligibility and records a
// pending request. Capacity is deliberately not checked here; it is enforced
// when the leader accepts.
func (s *TeamService) CreateJoinRequest(teamId int, studentId int) (*repository.TeamMember, error) {
	_, err := s.teamRepository.GetPendingRequestForStudent(studentId)
	if err == nil {
		return nil, app_error.ErrExistingPendingRequest
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	team, err := s.teamRepository.GetTeamById(teamId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.ErrTeamNotFound
		}
		return nil, err
	}

	_, err = s.teamRepository.GetAcceptedMembership(studentId, team.EventId, team.SubeventId, 0)
	if err == nil {
		return nil, app_error.ErrAlreadyInTeam
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.teamRepository.CreateMember(&repository.TeamMember{
		TeamId:    teamId,
		StudentId: studentId,
		Status:    repository.MemberPending,
	})
}

// AcceptJoinRequest promotes a pending request to accepted. Capacity and
// cross-team exclusivity are re-validated inside the same transaction as the
// write, since a concurrent accept could have changed either since the
// request was created. The student's other pending requests are rejected as
// part of the same transaction.
func (s *TeamService) AcceptJoinRequest(requestId int) (*repository.TeamMember, error) {
	var request *repository.TeamMember
	err := s.db.Transaction(func(tx *gorm.DB) error {
		teamRepository := repository.NewTeamRepository(tx)
		eventRepository := repository.NewEventRepository(tx)

		var err error
		request, err = teamRepository.GetMemberById(requestId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return app_error.ErrRequestNotFound
			}
			return err
		}
		if request.Status != repository.MemberPending {
			return app_error.ErrRequestNotPending
		}

		count, err := teamRepository.CountAcceptedMembers(request.TeamId)
		if err != nil {
			return err
		}
		subevent, err := eventRepository.GetSubeventById(request.Team.SubeventId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return app_error.ErrSubeventNotFound
			}
			return err
		}
		if count >= int64(subevent.MaxTeamSize) {
			return app_error.ErrTeamFull
		}

		_, err = teamRepository.GetAcceptedMembership(request.StudentId, request.Team.EventId, request.Team.SubeventId, request.TeamId)
		if err == nil {
			return app_error.ErrAlreadyInOtherTeam
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if _, err := teamRepository.UpdateMemberStatus(request, repository.MemberAccepted); err != nil {
			return err
		}
		return teamRepository.RejectOtherPendingRequests(request.StudentId, request.Id)
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *TeamService) RejectJoinRequest(requestId int) (*repository.TeamMember, error) {
	var request *repository.TeamMember
	err := s.db.Transaction(func(tx *gorm.DB) error {
		teamRepository := repository.NewTeamRepository(tx)
		var err error
		request, err = teamRepository.GetMemberById(requestId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return app_error.ErrRequestNotFound
			}
			return err
		}
		if request.Status != repository.MemberPending {
			return app_error.ErrRequestNotPending
		}
		_, err = teamRepository.UpdateMemberStatus(request, repository.MemberRejected)
		return err
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *TeamService) SearchTeams(eventId int, subeventId int, search string) ([]*repository.Team, error) {
	return s.teamRepository.SearchTeams(eventId, subeventId, search)
}

type PendingRequest struct {
	Id           int    `json:"id"`
	TeamId       int    `json:"team_id"`
	TeamName     string `json:"team_name"`
	StudentId    int    `json:"student_id"`
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	EventId      int    `json:"event_id"`
	SubeventId   int    `json:"subevent_id"`
}

// GetPendingRequests returns the pending join requests of every team the
// student leads.
func (s *TeamService) GetPendingRequests(leaderId int) ([]*PendingRequest, error) {
	teams, err := s.teamRepository.GetTeamsByLeader(leaderId)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return []*PendingRequest{}, nil
	}
	teamIds := utils.Map(teams, func(team *repository.Team) int {
		return team.Id
	})
	requests, err := s.teamRepository.GetPendingRequestsForTeams(teamIds)
	if err != nil {
		return nil, err
	}
	studentIds := utils.Map(requests, func(request *repository.TeamMember) int {
		return request.StudentId
	})
	students, err := s.userRepository.GetUsersByIds(studentIds)
	if err != nil {
		return nil, err
	}
	studentsById := make(map[int]*repository.User, len(students))
	for _, student := range students {
		studentsById[student.Id] = student
	}
	return utils.Map(requests, func(request *repository.TeamMember) *PendingRequest {
		pending := &PendingRequest{
			Id:        request.Id,
			TeamId:    request.TeamId,
			StudentId: request.StudentId,
		}
		if request.Team != nil {
			pending.TeamName = request.Team.Name
			pending.EventId = request.Team.EventId
			pending.SubeventId = request.Team.SubeventId
		}
		if student, ok := studentsById[request.StudentId]; ok {
			pending.StudentName = student.Username
			pending.StudentEmail = student.Email
		}
		return pending
	}), nil
}
