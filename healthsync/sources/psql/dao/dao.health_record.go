package dao

import (
	"context"

	"healthsync/healthsync/sources/psql/models"

	"gorm.io/gorm"
)

type HealthRecordDAO struct {
	DB *gorm.DB
}

func NewHealthRecordDAO(db *gorm.DB) *HealthRecordDAO {
	return &HealthRecordDAO{DB: db}
}

func (dao *HealthRecordDAO) CreateRecord(ctx context.Context, record *models.HealthRecord) error {
	return dao.DB.WithContext(ctx).Create(record).Error
}

// ListByPatient returns a patient's records newest first. recordType filters
// when it names a known type; unknown values are ignored, not an error.
func (dao *HealthRecordDAO) ListByPatient(ctx context.Context, patientID int, recordType string) ([]models.HealthRecord, error) {
	q := dao.DB.WithContext(ctx).Where("patient_id = ?", patientID)
	switch models.RecordType(recordType) {
	case models.RecordAtTriage, models.RecordDoctorNote:
		q = q.Where("record_type = ?", recordType)
	}
	var records []models.HealthRecord
	err := q.Order("created_at DESC, id DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (dao *HealthRecordDAO) GetByID(ctx context.Context, id int) (*models.HealthRecord, error) {
	var record models.HealthRecord
	err := dao.DB.WithContext(ctx).First(&record, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// AppendAttachment is the only mutation allowed on a stored record.
func (dao *HealthRecordDAO) AppendAttachment(ctx context.Context, recordID int, attachment models.Attachment) error {
	return dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.HealthRecord
		if err := tx.First(&record, recordID).Error; err != nil {
			return err
		}
		record.Attachments = append(record.Attachments, attachment)
		return tx.Model(&record).Select("attachments").Updates(models.HealthRecord{Attachments: record.Attachments}).Error
	})
}

func (dao *HealthRecordDAO) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	err := dao.DB.WithContext(ctx).Model(&models.HealthRecord{}).Count(&n).Error
	return n, err
}

func (dao *HealthRecordDAO) CountByType(ctx context.Context, recordType models.RecordType) (int64, error) {
	var n int64
	err := dao.DB.WithContext(ctx).
		Model(&models.HealthRecord{}).
		Where("record_type = ?", recordType).
		Count(&n).Error
	return n, err
}
