package dao

import (
	"context"
	"time"

	"healthsync/healthsync/sources/psql/models"

	"gorm.io/gorm"
)

type AppointmentDAO struct {
	DB *gorm.DB
}

func NewAppointmentDAO(db *gorm.DB) *AppointmentDAO {
	return &AppointmentDAO{DB: db}
}

func (dao *AppointmentDAO) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	return dao.DB.WithContext(ctx).Create(appointment).Error
}

// GetForParticipant returns the appointment only when userID is its patient
// or its doctor.
func (dao *AppointmentDAO) GetForParticipant(ctx context.Context, appointmentID, userID int) (*models.Appointment, error) {
	var appointment models.Appointment
	err := dao.DB.WithContext(ctx).
		Where("id = ? AND (doctor_id = ? OR patient_id = ?)", appointmentID, userID, userID).
		First(&appointment).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// ListScheduledBetween returns scheduled appointments starting in [from, to).
func (dao *AppointmentDAO) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := dao.DB.WithContext(ctx).
		Where("start_time >= ? AND start_time < ? AND status = ?",
			from, to, models.AppointmentScheduled).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (dao *AppointmentDAO) CountAppointments(ctx context.Context) (int64, error) {
	var n int64
	err := dao.DB.WithContext(ctx).Model(&models.Appointment{}).Count(&n).Error
	return n, err
}
