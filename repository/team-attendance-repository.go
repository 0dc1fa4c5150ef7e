package repository

import (
	"time"

	"gorm.io/gorm"
)

type TeamAttendance struct {
	Id         int       `gorm:"primaryKey"`
	TeamId     int       `gorm:"not null;unique"`
	EventId    int       `gorm:"not null;index"`
	SubeventId int       `gorm:"not null;index"`
	Attendance bool      `gorm:"not null;default:false"`
	MarkedBy   int       `gorm:"not null"`
	MarkedAt   time.Time `gorm:"not null"`
	Team       *Team     `gorm:"foreignKey:TeamId"`
}

type TeamAttendanceRepository struct {
	DB *gorm.DB
}

func NewTeamAttendanceRepository(db *gorm.DB) *TeamAttendanceRepository {
	return &TeamAttendanceRepository{DB: db}
}

func (r *TeamAttendanceRepository) GetByTeamId(teamId int) (*TeamAttendance, error) {
	var attendance TeamAttendance
	result := r.DB.First(&attendance, "team_id = ?", teamId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &attendance, nil
}

func (r *TeamAttendanceRepository) GetByTeamIdWithMembers(teamId int) (*TeamAttendance, error) {
	var attendance TeamAttendance
	result := r.DB.
		Preload("Team.Members", "status = ?", MemberAccepted).
		Preload("Team.Members.Student").
		First(&attendance, "team_id = ?", teamId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &attendance, nil
}

// SetForTeam is an explicit update-or-insert keyed by the unique team_id.
// The existing row is overwritten in place so a team never accumulates more
// than one attendance record.
func (r *TeamAttendanceRepository) SetForTeam(attendance *TeamAttendance) (*TeamAttendance, error) {
	existing, err := r.GetByTeamId(attendance.TeamId)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if existing != nil {
		attendance.Id = existing.Id
	}
	result := r.DB.Save(attendance)
	if result.Error != nil {
		return nil, result.Error
	}
	return attendance, nil
}

// GetPresentForSubevent returns the attendance rows of teams marked present
// for the (event, subevent) pair. These teams form the eligible set for the
// leaderboard.
func (r *TeamAttendanceRepository) GetPresentForSubevent(eventId int, subeventId int) ([]*TeamAttendance, error) {
	rows := make([]*TeamAttendance, 0)
	result := r.DB.
		Preload("Team.Members", "status = ?", MemberAccepted).
		Preload("Team.Members.Student").
		Find(&rows, "event_id = ? AND subevent_id = ? AND attendance = ?", eventId, subeventId, true)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}
