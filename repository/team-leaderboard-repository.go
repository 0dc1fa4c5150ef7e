package repository

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type TeamLeaderboard struct {
	Id         int       `gorm:"primaryKey"`
	TeamId     int       `gorm:"not null;index"`
	EventId    int       `gorm:"not null;index"`
	SubeventId int       `gorm:"not null;index"`
	Score      int       `gorm:"not null;default:0"`
	Rank       *int      `gorm:"null"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"`
	Team       *Team     `gorm:"foreignKey:TeamId"`
}

type TeamLeaderboardRepository struct {
	DB *gorm.DB
}

func NewTeamLeaderboardRepository(db *gorm.DB) *TeamLeaderboardRepository {
	return &TeamLeaderboardRepository{DB: db}
}

// GetForTeams fetches the leaderboard entries of exactly the given teams,
// highest score first, with accepted rosters attached. Stray entries for
// teams outside the id set never surface.
func (r *TeamLeaderboardRepository) GetForTeams(teamIds []int, eventId int, subeventId int) ([]*TeamLeaderboard, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetForTeams"))
	defer timer.ObserveDuration()
	entries := make([]*TeamLeaderboard, 0)
	result := r.DB.
		Preload("Team.Members", "status = ?", MemberAccepted).
		Preload("Team.Members.Student").
		Where("team_id in ? AND event_id = ? AND subevent_id = ?", teamIds, eventId, subeventId).
		Order("score DESC").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

func (r *TeamLeaderboardRepository) GetForSubevent(eventId int, subeventId int) ([]*TeamLeaderboard, error) {
	entries := make([]*TeamLeaderboard, 0)
	result := r.DB.
		Preload("Team.Members", "status = ?", MemberAccepted).
		Preload("Team.Members.Student").
		Where("event_id = ? AND subevent_id = ?", eventId, subeventId).
		Order("score DESC").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// GetForSubeventByRank returns the entries in declared-rank order, used for
// merit certificate cohorts.
func (r *TeamLeaderboardRepository) GetForSubeventByRank(eventId int, subeventId int) ([]*TeamLeaderboard, error) {
	entries := make([]*TeamLeaderboard, 0)
	result := r.DB.
		Preload("Team.Members", "status = ?", MemberAccepted).
		Preload("Team.Members.Student").
		Where("event_id = ? AND subevent_id = ?", eventId, subeventId).
		Order("rank ASC").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

func (r *TeamLeaderboardRepository) GetByTeam(teamId int, eventId int, subeventId int) (*TeamLeaderboard, error) {
	var entry TeamLeaderboard
	result := r.DB.First(&entry, "team_id = ? AND event_id = ? AND subevent_id = ?", teamId, eventId, subeventId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}

func (r *TeamLeaderboardRepository) CreateEntries(entries []*TeamLeaderboard) error {
	return r.DB.CreateInBatches(entries, len(entries)).Error
}

func (r *TeamLeaderboardRepository) DeleteForSubevent(eventId int, subeventId int) error {
	result := r.DB.Where("event_id = ? AND subevent_id = ?", eventId, subeventId).
		Delete(&TeamLeaderboard{})
	return result.Error
}

// UpsertScore writes the score for one team without touching its rank or any
// individual standings.
func (r *TeamLeaderboardRepository) UpsertScore(teamId int, eventId int, subeventId int, score int) (*TeamLeaderboard, error) {
	existing := &TeamLeaderboard{}
	err := r.DB.First(existing, "team_id = ? AND event_id = ? AND subevent_id = ?", teamId, eventId, subeventId).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if existing.Id == 0 {
		existing = &TeamLeaderboard{TeamId: teamId, EventId: eventId, SubeventId: subeventId}
	}
	existing.Score = score
	result := r.DB.Save(existing)
	if result.Error != nil {
		return nil, result.Error
	}
	return existing, nil
}
