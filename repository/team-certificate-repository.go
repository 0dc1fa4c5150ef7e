package repository

import (
	"time"

	"gorm.io/gorm"
)

type TeamCertificate struct {
	Id             int         `gorm:"primaryKey"`
	TeamId         int         `gorm:"not null;index"`
	MemberId       int         `gorm:"not null;index"`
	EventId        int         `gorm:"not null;index"`
	SubeventId     int         `gorm:"not null;index"`
	CertificateId  string      `gorm:"not null;unique"`
	CertificateUrl string      `gorm:"not null"`
	Rank           *int        `gorm:"null"`
	IssuedAt       time.Time   `gorm:"not null"`
	Member         *TeamMember `gorm:"foreignKey:MemberId"`
}

type TeamCertificateRepository struct {
	DB *gorm.DB
}

func NewTeamCertificateRepository(db *gorm.DB) *TeamCertificateRepository {
	return &TeamCertificateRepository{DB: db}
}

func (r *TeamCertificateRepository) CreateCertificates(certificates []*TeamCertificate) error {
	return r.DB.CreateInBatches(certificates, len(certificates)).Error
}

func (r *TeamCertificateRepository) GetForTeam(teamId int) ([]*TeamCertificate, error) {
	certificates := make([]*TeamCertificate, 0)
	result := r.DB.
		Preload("Member.Student").
		Order("issued_at DESC").
		Find(&certificates, "team_id = ?", teamId)
	if result.Error != nil {
		return nil, result.Error
	}
	return certificates, nil
}
