package models

import "time"

type UserRole string

const (
	RolePatient UserRole = "patient"
	RoleDoctor  UserRole = "doctor"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID             int      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string   `json:"username" gorm:"type:varchar(50);not null;unique"`
	Email          string   `json:"email" gorm:"type:varchar(100);not null;unique"`
	HashedPassword string   `json:"-" gorm:"type:varchar(200);not null"`
	Role           UserRole `json:"role" gorm:"type:varchar(20);not null;default:patient"`

	FirstName *string `json:"first_name,omitempty" gorm:"type:varchar(100)"`
	LastName  *string `json:"last_name,omitempty" gorm:"type:varchar(100)"`

	// Doctor-only fields, null for patients and admins.
	Specialization  *string  `json:"specialization,omitempty" gorm:"type:varchar(100)"`
	Qualifications  *string  `json:"qualifications,omitempty" gorm:"type:varchar(200)"`
	Bio             *string  `json:"bio,omitempty" gorm:"type:text"`
	Rating          *float64 `json:"rating,omitempty"`
	YearsExperience *int     `json:"years_experience,omitempty"`
	IsAvailable     bool     `json:"is_available" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
