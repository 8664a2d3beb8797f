package models

import "time"

// ChatSession is one completed triage exchange. Immutable once written.
type ChatSession struct {
	ID         int      `json:"id" gorm:"primaryKey;autoIncrement"`
	PatientID  int      `json:"patient_id" gorm:"not null;index"`
	Patient    User     `json:"-" gorm:"foreignKey:PatientID;references:ID;constraint:OnDelete:CASCADE"`
	ChatRoomID int      `json:"chat_room_id" gorm:"not null;index"`
	ChatRoom   ChatRoom `json:"-" gorm:"foreignKey:ChatRoomID;references:ID;constraint:OnDelete:CASCADE"`

	InputText     string  `json:"input_text" gorm:"type:text;not null"`
	ModelResponse string  `json:"model_response" gorm:"type:text"`
	TriageAdvice  *string `json:"triage_advice,omitempty" gorm:"type:varchar(50)"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
