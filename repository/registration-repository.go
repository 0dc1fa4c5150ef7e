package repository

import (
	"time"

	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentUnpaid     PaymentStatus = "unpaid"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
)

type StudentRegistration struct {
	Id            int           `gorm:"primaryKey"`
	StudentId     int           `gorm:"not null;index"`
	EventId       int           `gorm:"not null;index"`
	SubeventId    int           `gorm:"not null;index"`
	PaymentStatus PaymentStatus `gorm:"not null;default:'unpaid';type:cems.payment_status"`
	Attendance    bool          `gorm:"not null;default:false"`
	RegisteredAt  time.Time     `gorm:"not null;autoCreateTime"`
}

type RegistrationRepository struct {
	DB *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{DB: db}
}

// SetAttendanceForPaid mirrors a team attendance decision onto a member's
// individual registration. Only paid registrations are touched; an unpaid
// member simply has no matching row to update.
func (r *RegistrationRepository) SetAttendanceForPaid(studentId int, eventId int, subeventId int, present bool) error {
	result := r.DB.Model(&StudentRegistration{}).
		Where("student_id = ? AND event_id = ? AND subevent_id = ? AND payment_status = ?",
			studentId, eventId, subeventId, PaymentPaid).
		Update("attendance", present)
	return result.Error
}

func (r *RegistrationRepository) GetRegistration(studentId int, eventId int, subeventId int) (*StudentRegistration, error) {
	var registration StudentRegistration
	result := r.DB.First(&registration, "student_id = ? AND event_id = ? AND subevent_id = ?",
		studentId, eventId, subeventId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &registration, nil
}
