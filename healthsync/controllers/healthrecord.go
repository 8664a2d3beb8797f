package controllers

import (
	"context"
	"io"
	"time"

	"healthsync/healthsync/services/healthrecord"
	"healthsync/healthsync/sources/psql/dao"
	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/sources/storage"
	"healthsync/healthsync/utils/types"

	"github.com/google/uuid"
)

type HealthRecordController struct {
	service     *healthrecord.Service
	recordDAO   *dao.HealthRecordDAO
	attachments *storage.AttachmentStore
}

func NewHealthRecordController(service *healthrecord.Service, recordDAO *dao.HealthRecordDAO, attachments *storage.AttachmentStore) *HealthRecordController {
	return &HealthRecordController{
		service:     service,
		recordDAO:   recordDAO,
		attachments: attachments,
	}
}

func (c *HealthRecordController) CreateDoctorNote(ctx context.Context, creatorID int, req types.HealthRecordCreate) (*models.HealthRecord, error) {
	return c.service.CreateDoctorNote(ctx, creatorID, req)
}

func (c *HealthRecordController) ListPatientRecords(ctx context.Context, patientID int, recordType string) ([]models.HealthRecord, error) {
	return c.service.ListPatientRecords(ctx, patientID, recordType)
}

func (c *HealthRecordController) GetRecord(ctx context.Context, recordID int) (*models.HealthRecord, error) {
	return c.service.GetRecord(ctx, recordID)
}

// UploadAttachment stores the file and appends its metadata to the record.
func (c *HealthRecordController) UploadAttachment(ctx context.Context, recordID int, fileName, contentType string, size int64, data io.Reader) (*models.Attachment, error) {
	record, err := c.service.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	key, err := c.attachments.Upload(ctx, recordID, fileName, contentType, size, data)
	if err != nil {
		return nil, err
	}

	attachment := models.Attachment{
		ID:          uuid.New(),
		FileName:    fileName,
		ContentType: contentType,
		ObjectKey:   key,
		SizeBytes:   size,
		UploadedAt:  time.Now(),
	}
	if err := c.recordDAO.AppendAttachment(ctx, recordID, attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (c *HealthRecordController) DownloadAttachment(ctx context.Context, key string) (io.ReadCloser, error) {
	return c.attachments.Download(ctx, key)
}
