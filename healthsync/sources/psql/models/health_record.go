package models

import (
	"time"

	"github.com/google/uuid"
)

type RecordType string

const (
	RecordAtTriage   RecordType = "at_triage"
	RecordDoctorNote RecordType = "doctor_note"
)

// Symptom is one structured entry produced by the extraction backend or
// entered by a doctor. Severity is 1-10 when the patient mentioned one.
type Symptom struct {
	Name        string  `json:"name"`
	Severity    *int    `json:"severity,omitempty"`
	Duration    *string `json:"duration,omitempty"`
	Description *string `json:"description,omitempty"`
}

type Diagnosis struct {
	Name        string  `json:"name"`
	ICD10Code   *string `json:"icd10_code,omitempty"`
	Description *string `json:"description,omitempty"`
}

type TreatmentStep struct {
	Description string  `json:"description"`
	Duration    *string `json:"duration,omitempty"`
}

type Medication struct {
	Name      string  `json:"name"`
	Dosage    *string `json:"dosage,omitempty"`
	Frequency *string `json:"frequency,omitempty"`
}

// Attachment points at a clinical file (lab PDF, scan) in object storage.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	ObjectKey   string    `json:"object_key"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// HealthRecord is either a system-generated triage summary (at_triage) or a
// note authored by a doctor (doctor_note).
type HealthRecord struct {
	ID        int  `json:"id" gorm:"primaryKey;autoIncrement"`
	PatientID int  `json:"patient_id" gorm:"not null;index"`
	Patient   User `json:"-" gorm:"foreignKey:PatientID;references:ID;constraint:OnDelete:CASCADE"`
	DoctorID  *int `json:"doctor_id,omitempty" gorm:"index"`

	// Provenance link to the chat session that triggered an at_triage record.
	ChatSessionID *int `json:"chat_session_id,omitempty" gorm:"index"`

	RecordType RecordType `json:"record_type" gorm:"type:varchar(20);not null;index"`
	Title      string     `json:"title" gorm:"type:varchar(200);not null"`
	Summary    string     `json:"summary" gorm:"type:text"`

	Symptoms      []Symptom       `json:"symptoms" gorm:"serializer:json"`
	Diagnosis     []Diagnosis     `json:"diagnosis" gorm:"serializer:json"`
	TreatmentPlan []TreatmentStep `json:"treatment_plan" gorm:"serializer:json"`
	Medication    []Medication    `json:"medication" gorm:"serializer:json"`
	Attachments   []Attachment    `json:"attachments" gorm:"serializer:json"`

	TriageRecommendation *string  `json:"triage_recommendation,omitempty" gorm:"type:varchar(50)"`
	ConfidenceScore      *float64 `json:"confidence_score,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (HealthRecord) TableName() string {
	return "health_records"
}
