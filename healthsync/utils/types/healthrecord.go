package types

import "healthsync/healthsync/sources/psql/models"

type HealthRecordCreate struct {
	PatientID     int  `json:"patient_id"`
	DoctorID      *int `json:"doctor_id,omitempty"`
	ChatSessionID *int `json:"chat_session_id,omitempty"`

	Title   string `json:"title"`
	Summary string `json:"summary"`

	Symptoms      []models.Symptom       `json:"symptoms,omitempty"`
	Diagnosis     []models.Diagnosis     `json:"diagnosis,omitempty"`
	TreatmentPlan []models.TreatmentStep `json:"treatment_plan,omitempty"`
	Medication    []models.Medication    `json:"medication,omitempty"`

	TriageRecommendation *string  `json:"triage_recommendation,omitempty"`
	ConfidenceScore      *float64 `json:"confidence_score,omitempty"`
}
