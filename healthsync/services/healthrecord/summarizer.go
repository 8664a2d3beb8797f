package healthrecord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"healthsync/healthsync/services/llm"
	"healthsync/healthsync/sources/psql/dao"
	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/utils/logging"
	"healthsync/healthsync/utils/metrics"

	"go.uber.org/zap"
)

// How many recent sessions feed one triage summary.
const recentSessionLimit = 10

// Summarizer distills a patient's recent chat history into an at_triage
// health record for the receiving doctor.
type Summarizer struct {
	extraction llm.ExtractionBackend
	sessions   *dao.ChatSessionDAO
	records    *dao.HealthRecordDAO
	collector  *metrics.Collector
	now        func() time.Time
}

func NewSummarizer(extraction llm.ExtractionBackend, sessions *dao.ChatSessionDAO, records *dao.HealthRecordDAO, collector *metrics.Collector) *Summarizer {
	return &Summarizer{
		extraction: extraction,
		sessions:   sessions,
		records:    records,
		collector:  collector,
		now:        time.Now,
	}
}

// SummarizeRecentTriage builds and persists the triage record. A nil return
// is a normal outcome: no chat history, or a failure that was logged and
// swallowed so the caller's appointment workflow proceeds regardless.
func (s *Summarizer) SummarizeRecentTriage(ctx context.Context, patientID int, doctorID *int) *models.HealthRecord {
	defer logging.LogDuration(ctx, "summarize_recent_triage")()

	sessions, err := s.sessions.ListRecentByPatient(ctx, patientID, recentSessionLimit)
	if err != nil {
		logging.ErrorLogger.Error("failed to fetch chat sessions for triage record",
			zap.Int("patient_id", patientID), zap.Error(err))
		return nil
	}
	if len(sessions) == 0 {
		logging.AppLogger.Info("no chat sessions found, skipping triage record",
			zap.Int("patient_id", patientID))
		return nil
	}

	extraction := s.extractSymptoms(ctx, sessions)
	recommendation := latestRecommendation(sessions)

	record := &models.HealthRecord{
		PatientID:            patientID,
		DoctorID:             doctorID,
		ChatSessionID:        &sessions[0].ID,
		RecordType:           models.RecordAtTriage,
		Title:                fmt.Sprintf("Pre-appointment Assessment - %s", s.now().Format("2006-01-02 15:04")),
		Summary:              summaryLine(recommendation),
		Symptoms:             extraction.Symptoms,
		TriageRecommendation: recommendation,
		ConfidenceScore:      &extraction.ConfidenceScore,
	}

	if err := s.records.CreateRecord(ctx, record); err != nil {
		logging.ErrorLogger.Error("failed to persist triage health record",
			zap.Int("patient_id", patientID), zap.Error(err))
		return nil
	}

	s.collector.RecordsCreatedTotal.WithLabelValues(string(models.RecordAtTriage)).Inc()
	logging.AppLogger.Info("created triage health record",
		zap.Int("record_id", record.ID), zap.Int("patient_id", patientID))
	return record
}

// extractSymptoms runs the extraction backend over the transcript. Any
// failure degrades to an empty extraction with zero confidence.
func (s *Summarizer) extractSymptoms(ctx context.Context, sessions []models.ChatSession) llm.SymptomExtraction {
	transcript := Transcript(sessions)

	start := time.Now()
	extraction, err := s.extraction.Extract(ctx, transcript)
	s.collector.UpstreamDuration.WithLabelValues("extraction").Observe(time.Since(start).Seconds())
	if err != nil {
		logging.ErrorLogger.Error("symptom extraction failed", zap.Error(err))
		return llm.SymptomExtraction{Symptoms: []models.Symptom{}, ConfidenceScore: 0}
	}
	if extraction.Symptoms == nil {
		extraction.Symptoms = []models.Symptom{}
	}
	return extraction
}

// Transcript renders sessions oldest-to-newest as alternating Patient:/AI:
// turns, skipping sessions without input text. Input order is newest first.
func Transcript(sessions []models.ChatSession) string {
	var turns []string
	for i := len(sessions) - 1; i >= 0; i-- {
		session := sessions[i]
		if session.InputText == "" || session.ModelResponse == "" {
			continue
		}
		turns = append(turns, fmt.Sprintf("Patient: %s\nAI: %s", session.InputText, session.ModelResponse))
	}
	return strings.Join(turns, "\n")
}

// latestRecommendation picks the newest non-null triage advice.
func latestRecommendation(sessions []models.ChatSession) *string {
	for _, session := range sessions {
		if session.TriageAdvice != nil {
			return session.TriageAdvice
		}
	}
	return nil
}

func summaryLine(recommendation *string) string {
	latest := "none"
	if recommendation != nil {
		latest = *recommendation
	}
	return fmt.Sprintf("Summary of recent patient chat interactions. Latest triage: %s", latest)
}
