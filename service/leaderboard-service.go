package service

import (
	"cems/repository"
	"cems/utils"

	"gorm.io/gorm"
)

type LeaderboardService struct {
	db                        *gorm.DB
	attendanceRepository      *repository.TeamAttendanceRepository
	teamLeaderboardRepository *repository.TeamLeaderboardRepository
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{
		db:                        db,
		attendanceRepository:      repository.NewTeamAttendanceRepository(db),
		teamLeaderboardRepository: repository.NewTeamLeaderboardRepository(db),
	}
}

type WinnerEntry struct {
	TeamId   int `json:"team_id" binding:"required"`
	Score    int `json:"score" binding:"min=0"`
	Position int `json:"position" binding:"required,min=1"`
}

// GetTeamLeaderboard returns standings for teams marked present, highest
// score first. The first call after attendance is marked seeds a score-0,
// unranked row per eligible team so admins always have rows to edit. Teams
// without attendance never appear, even if a stray leaderboard row exists
// for them.
func (s *LeaderboardService) GetTeamLeaderboard(eventId int, subeventId int) ([]*repository.TeamLeaderboard, error) {
	eligible, err := s.attendanceRepository.GetPresentForSubevent(eventId, subeventId)
	if err != nil {
		return nil, err
	}
	teamIds := utils.Map(eligible, func(attendance *repository.TeamAttendance) int {
		return attendance.TeamId
	})

	leaderboard, err := s.teamLeaderboardRepository.GetForTeams(teamIds, eventId, subeventId)
	if err != nil {
		return nil, err
	}
	if len(leaderboard) == 0 && len(teamIds) > 0 {
		entries := utils.Map(teamIds, func(teamId int) *repository.TeamLeaderboard {
			return &repository.TeamLeaderboard{
				TeamId:     teamId,
				EventId:    eventId,
				SubeventId: subeventId,
				Score:      0,
			}
		})
		if err := s.teamLeaderboardRepository.CreateEntries(entries); err != nil {
			return nil, err
		}
		return s.teamLeaderboardRepository.GetForTeams(teamIds, eventId, subeventId)
	}
	return leaderboard, nil
}

// EditTeamWinners replaces the subevent's standings wholesale and rewrites
// each winning member's individual leaderboard row with the team's declared
// score and rank. Position values are taken as given; uniqueness and
// contiguity are the admin's responsibility.
func (s *LeaderboardService) EditTeamWinners(eventId int, subeventId int, winners []WinnerEntry) ([]*repository.TeamLeaderboard, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		teamRepository := repository.NewTeamRepository(tx)
		teamLeaderboardRepository := repository.NewTeamLeaderboardRepository(tx)
		leaderboardRepository := repository.NewLeaderboardRepository(tx)

		if err := teamLeaderboardRepository.DeleteForSubevent(eventId, subeventId); err != nil {
			return err
		}
		entries := utils.Map(winners, func(winner WinnerEntry) *repository.TeamLeaderboard {
			rank := winner.Position
			return &repository.TeamLeaderboard{
				TeamId:     winner.TeamId,
				EventId:    eventId,
				SubeventId: subeventId,
				Score:      winner.Score,
				Rank:       &rank,
			}
		})
		if err := teamLeaderboardRepository.CreateEntries(entries); err != nil {
			return err
		}

		for _, entry := range entries {
			members, err := teamRepository.GetAcceptedMembers(entry.TeamId)
			if err != nil {
				return err
			}
			studentIds := utils.Map(members, func(member *repository.TeamMember) int {
				return member.StudentId
			})
			if err := leaderboardRepository.DeleteForStudents(studentIds, eventId, subeventId); err != nil {
				return err
			}
			individualEntries := utils.Map(members, func(member *repository.TeamMember) *repository.Leaderboard {
				return &repository.Leaderboard{
					StudentId:  member.StudentId,
					EventId:    eventId,
					SubeventId: subeventId,
					Score:      entry.Score,
					Rank:       entry.Rank,
				}
			})
			if err := leaderboardRepository.CreateEntries(individualEntries); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.teamLeaderboardRepository.GetForSubevent(eventId, subeventId)
}

// UpdateTeamScore is the score-only upsert used outside winner declaration.
// It does not sync individual student rows; only EditTeamWinners does.
func (s *LeaderboardService) UpdateTeamScore(teamId int, eventId int, subeventId int, score int) (*repository.TeamLeaderboard, error) {
	return s.teamLeaderboardRepository.UpsertScore(teamId, eventId, subeventId, score)
}
