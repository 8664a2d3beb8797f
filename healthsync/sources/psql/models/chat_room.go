package models

import "time"

// ChatRoom groups sequential triage conversations for one patient. Room
// numbers start at 1 per patient; the composite unique index is what makes
// concurrent room creation safe (create conflicts are retried in the DAO).
type ChatRoom struct {
	ID         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	PatientID  int       `json:"patient_id" gorm:"not null;uniqueIndex:idx_patient_room"`
	Patient    User      `json:"-" gorm:"foreignKey:PatientID;references:ID;constraint:OnDelete:CASCADE"`
	RoomNumber int       `json:"room_number" gorm:"not null;uniqueIndex:idx_patient_room"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}
