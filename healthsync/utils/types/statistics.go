package types

type UsageStatistics struct {
	TotalUsers         int64 `json:"total_users"`
	TotalDoctors       int64 `json:"total_doctors"`
	TotalPatients      int64 `json:"total_patients"`
	TotalAppointments  int64 `json:"total_appointments"`
	TotalChatSessions  int64 `json:"total_chat_sessions"`
	TotalHealthRecords int64 `json:"total_health_records"`
	TotalTriageRecords int64 `json:"total_triage_records"`
	TotalDoctorNotes   int64 `json:"total_doctor_notes"`
}
