package dao

import (
	"context"

	"healthsync/healthsync/sources/psql/models"

	"gorm.io/gorm"
)

type ChatSessionDAO struct {
	DB *gorm.DB
}

func NewChatSessionDAO(db *gorm.DB) *ChatSessionDAO {
	return &ChatSessionDAO{DB: db}
}

func (dao *ChatSessionDAO) CreateSession(ctx context.Context, session *models.ChatSession) error {
	return dao.DB.WithContext(ctx).Create(session).Error
}

// ListByPatient returns every session for the patient, newest first, with the
// owning room preloaded so callers can group by room number.
func (dao *ChatSessionDAO) ListByPatient(ctx context.Context, patientID int) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := dao.DB.WithContext(ctx).
		Preload("ChatRoom").
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListRecentByPatient returns up to limit sessions, newest first.
func (dao *ChatSessionDAO) ListRecentByPatient(ctx context.Context, patientID, limit int) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := dao.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (dao *ChatSessionDAO) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	err := dao.DB.WithContext(ctx).Model(&models.ChatSession{}).Count(&n).Error
	return n, err
}
