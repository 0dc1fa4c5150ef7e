package service

import (
	"errors"
	"time"

	"cems/app_error"
	"cems/repository"

	"gorm.io/gorm"
)

type AttendanceService struct {
	db                   *gorm.DB
	attendanceRepository *repository.TeamAttendanceRepository
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{
		db:                   db,
		attendanceRepository: repository.NewTeamAttendanceRepository(db),
	}
}

// MarkTeamAttendance records the team's attendance and mirrors the boolean
// onto every accepted member's paid registration, all-or-nothing. Undersized
// teams are rejected outright; attendance cannot be marked for them in
// either direction.
func (s *AttendanceService) MarkTeamAttendance(teamId int, present bool, adminId int) (*repository.TeamAttendance, error) {
	var attendance *repository.TeamAttendance
	err := s.db.Transaction(func(tx *gorm.DB) error {
		teamRepository := repository.NewTeamRepository(tx)
		eventRepository := repository.NewEventRepository(tx)
		attendanceRepository := repository.NewTeamAttendanceRepository(tx)
		registrationRepository := repository.NewRegistrationRepository(tx)

		team, err := teamRepository.GetTeamWithAcceptedMembers(teamId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return app_error.ErrTeamNotFound
			}
			return err
		}
		subevent, err := eventRepository.GetSubeventById(team.SubeventId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return app_error.ErrSubeventNotFound
			}
			return err
		}
		if len(team.Members) < subevent.MinTeamSize {
			return app_error.ErrInsufficientTeamSize
		}

		attendance, err = attendanceRepository.SetForTeam(&repository.TeamAttendance{
			TeamId:     teamId,
			EventId:    team.EventId,
			SubeventId: team.SubeventId,
			Attendance: present,
			MarkedBy:   adminId,
			MarkedAt:   time.Now(),
		})
		if err != nil {
			return err
		}

		for _, member := range team.Members {
			err = registrationRepository.SetAttendanceForPaid(member.StudentId, team.EventId, team.SubeventId, present)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attendance, nil
}

// GetTeamAttendance returns nil when no attendance has been marked yet.
func (s *AttendanceService) GetTeamAttendance(teamId int) (*repository.TeamAttendance, error) {
	attendance, err := s.attendanceRepository.GetByTeamIdWithMembers(teamId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return attendance, nil
}
