package types

import "time"

type SymptomRequest struct {
	SymptomText string `json:"symptom_text"`
	RoomNumber  *int   `json:"room_number,omitempty"`
}

type ChatbotResponse struct {
	InputText     string  `json:"input_text"`
	Analysis      string  `json:"analysis"`
	TriageAdvice  *string `json:"triage_advice,omitempty"`
	ModelResponse *string `json:"model_response,omitempty"`
}

type ChatSessionOut struct {
	ID           int       `json:"id"`
	RoomNumber   int       `json:"room_number"`
	InputText    string    `json:"input_text"`
	Analysis     string    `json:"analysis"`
	TriageAdvice *string   `json:"triage_advice,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChatRoomChats is one conversation thread: sessions for a room, newest
// first.
type ChatRoomChats struct {
	RoomNumber int              `json:"room_number"`
	Chats      []ChatSessionOut `json:"chats"`
}
