package repository

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Permission string

const (
	PermissionAdmin   Permission = "admin"
	PermissionStudent Permission = "student"
)

type User struct {
	Id          int            `gorm:"primaryKey"`
	Username    string         `gorm:"not null"`
	Email       string         `gorm:"not null;unique"`
	RollNumber  string         `gorm:"null"`
	Year        string         `gorm:"null"`
	Semester    string         `gorm:"null"`
	Stream      string         `gorm:"null"`
	CollegeName string         `gorm:"null"`
	Permissions pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
}

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) GetUsersByIds(userIds []int) ([]*User, error) {
	users := make([]*User, 0)
	result := r.DB.Find(&users, "id in ?", userIds)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}
