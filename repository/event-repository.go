package repository

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	Id        int         `gorm:"primaryKey"`
	Name      string      `gorm:"not null;unique"`
	Venue     string      `gorm:"null"`
	StartDate time.Time   `gorm:"null"`
	EndDate   time.Time   `gorm:"null"`
	Subevents []*Subevent `gorm:"foreignKey:EventId;constraint:OnDelete:CASCADE"`
}

type Subevent struct {
	Id          int    `gorm:"primaryKey"`
	EventId     int    `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"null"`
	Fee         int    `gorm:"not null;default:0"`
	MinTeamSize int    `gorm:"not null;default:1"`
	MaxTeamSize int    `gorm:"not null;default:1"`
}

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) GetEventById(eventId int) (*Event, error) {
	var event Event
	result := r.DB.First(&event, eventId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &event, nil
}

func (r *EventRepository) GetSubeventById(subeventId int) (*Subevent, error) {
	var subevent Subevent
	result := r.DB.First(&subevent, subeventId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &subevent, nil
}
