package healthrecord

import (
	"context"

	"healthsync/healthsync/services/triage"
	"healthsync/healthsync/sources/psql/dao"
	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/utils/logging"
	"healthsync/healthsync/utils/metrics"
	"healthsync/healthsync/utils/types"

	"go.uber.org/zap"
)

// Service covers doctor-authored records and record retrieval; the
// system-generated at_triage path lives in Summarizer.
type Service struct {
	records   *dao.HealthRecordDAO
	collector *metrics.Collector
}

func NewService(records *dao.HealthRecordDAO, collector *metrics.Collector) *Service {
	return &Service{records: records, collector: collector}
}

// CreateDoctorNote persists a doctor-authored record. creatorID becomes the
// doctor id when the caller did not name one.
func (s *Service) CreateDoctorNote(ctx context.Context, creatorID int, req types.HealthRecordCreate) (*models.HealthRecord, error) {
	if req.Title == "" {
		return nil, &triage.ValidationError{Detail: "title must not be empty"}
	}
	if req.ConfidenceScore != nil && (*req.ConfidenceScore < 0 || *req.ConfidenceScore > 1) {
		return nil, &triage.ValidationError{Detail: "confidence_score must lie in [0,1]"}
	}

	doctorID := req.DoctorID
	if doctorID == nil {
		doctorID = &creatorID
	}

	record := &models.HealthRecord{
		PatientID:            req.PatientID,
		DoctorID:             doctorID,
		ChatSessionID:        req.ChatSessionID,
		RecordType:           models.RecordDoctorNote,
		Title:                req.Title,
		Summary:              req.Summary,
		Symptoms:             req.Symptoms,
		Diagnosis:            req.Diagnosis,
		TreatmentPlan:        req.TreatmentPlan,
		Medication:           req.Medication,
		TriageRecommendation: req.TriageRecommendation,
		ConfidenceScore:      req.ConfidenceScore,
	}
	if err := s.records.CreateRecord(ctx, record); err != nil {
		return nil, &triage.PersistenceError{Op: "create health record", Err: err}
	}

	s.collector.RecordsCreatedTotal.WithLabelValues(string(models.RecordDoctorNote)).Inc()
	logging.AppLogger.Info("created health record",
		zap.Int("record_id", record.ID), zap.Int("patient_id", record.PatientID))
	return record, nil
}

func (s *Service) ListPatientRecords(ctx context.Context, patientID int, recordType string) ([]models.HealthRecord, error) {
	records, err := s.records.ListByPatient(ctx, patientID, recordType)
	if err != nil {
		return nil, &triage.PersistenceError{Op: "list health records", Err: err}
	}
	return records, nil
}

func (s *Service) GetRecord(ctx context.Context, recordID int) (*models.HealthRecord, error) {
	record, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return nil, &triage.PersistenceError{Op: "get health record", Err: err}
	}
	return record, nil
}
