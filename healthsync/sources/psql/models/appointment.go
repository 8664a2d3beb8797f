package models

import "time"

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	ID        int  `json:"id" gorm:"primaryKey;autoIncrement"`
	PatientID int  `json:"patient_id" gorm:"not null;index"`
	Patient   User `json:"-" gorm:"foreignKey:PatientID;references:ID;constraint:OnDelete:CASCADE"`
	DoctorID  int  `json:"doctor_id" gorm:"not null;index"`
	Doctor    User `json:"-" gorm:"foreignKey:DoctorID;references:ID;constraint:OnDelete:CASCADE"`

	StartTime time.Time `json:"start_time" gorm:"not null;index"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`

	Status          AppointmentStatus `json:"status" gorm:"type:varchar(20);not null;default:scheduled"`
	TelemedicineURL *string           `json:"telemedicine_url,omitempty" gorm:"type:varchar(200)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Appointment) TableName() string {
	return "appointments"
}
