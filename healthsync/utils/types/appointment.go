package types

import "time"

type AppointmentRequest struct {
	DoctorID        int       `json:"doctor_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	TelemedicineURL *string   `json:"telemedicine_url,omitempty"`
}

type DoctorOut struct {
	ID              int      `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Email           string   `json:"email"`
	Specialization  *string  `json:"specialization,omitempty"`
	Qualifications  *string  `json:"qualifications,omitempty"`
	IsAvailable     bool     `json:"is_available"`
	Bio             *string  `json:"bio,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	YearsExperience *int     `json:"years_experience,omitempty"`
}
