package repository

import (
	"time"

	"gorm.io/gorm"
)

// Leaderboard is the per-student standings table. Winner declaration
// overwrites these rows so a student's individual rank always derives from
// their team's declared rank.
type Leaderboard struct {
	Id         int       `gorm:"primaryKey"`
	StudentId  int       `gorm:"not null;index"`
	EventId    int       `gorm:"not null;index"`
	SubeventId int       `gorm:"not null;index"`
	Score      int       `gorm:"not null;default:0"`
	Rank       *int      `gorm:"null"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"`
}

type LeaderboardRepository struct {
	DB *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{DB: db}
}

func (r *LeaderboardRepository) DeleteForStudents(studentIds []int, eventId int, subeventId int) error {
	result := r.DB.
		Where("student_id in ? AND event_id = ? AND subevent_id = ?", studentIds, eventId, subeventId).
		Delete(&Leaderboard{})
	return result.Error
}

func (r *LeaderboardRepository) CreateEntries(entries []*Leaderboard) error {
	return r.DB.CreateInBatches(entries, len(entries)).Error
}

func (r *LeaderboardRepository) GetForStudent(studentId int, eventId int, subeventId int) (*Leaderboard, error) {
	var entry Leaderboard
	result := r.DB.First(&entry, "student_id = ? AND event_id = ? AND subevent_id = ?", studentId, eventId, subeventId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}
