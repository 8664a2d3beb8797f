package dao

import (
	"context"
	"errors"

	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/utils/logging"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Bounded retries for room creation; conflicts only happen when the same
// patient fires concurrent reports, so contention is tiny.
const roomCreateAttempts = 3

type ChatRoomDAO struct {
	DB *gorm.DB
}

func NewChatRoomDAO(db *gorm.DB) *ChatRoomDAO {
	return &ChatRoomDAO{DB: db}
}

// GetOrCreateRoom resolves the chat room for a report. With an explicit room
// number it looks the room up and creates it on miss. Without one it assigns
// 1 + max(existing) for the patient. Either create can lose a race against a
// concurrent request from the same patient; the unique (patient_id,
// room_number) index turns that into a duplicate-key error which is retried.
func (dao *ChatRoomDAO) GetOrCreateRoom(ctx context.Context, patientID int, roomNumber *int) (*models.ChatRoom, error) {
	var lastErr error
	for attempt := 0; attempt < roomCreateAttempts; attempt++ {
		room, err := dao.resolveOnce(ctx, patientID, roomNumber)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		lastErr = err
		logging.AppLogger.Info("chat room create conflict, retrying",
			zap.Int("patient_id", patientID),
			zap.Int("attempt", attempt+1),
		)
	}
	return nil, lastErr
}

func (dao *ChatRoomDAO) resolveOnce(ctx context.Context, patientID int, roomNumber *int) (*models.ChatRoom, error) {
	if roomNumber != nil {
		var room models.ChatRoom
		err := dao.DB.WithContext(ctx).
			Where("patient_id = ? AND room_number = ?", patientID, *roomNumber).
			First(&room).Error
		if err == nil {
			return &room, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		room = models.ChatRoom{PatientID: patientID, RoomNumber: *roomNumber}
		if err := dao.DB.WithContext(ctx).Create(&room).Error; err != nil {
			return nil, err
		}
		return &room, nil
	}

	maxRoom, err := dao.MaxRoomNumber(ctx, patientID)
	if err != nil {
		return nil, err
	}
	room := models.ChatRoom{PatientID: patientID, RoomNumber: maxRoom + 1}
	if err := dao.DB.WithContext(ctx).Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (dao *ChatRoomDAO) MaxRoomNumber(ctx context.Context, patientID int) (int, error) {
	var maxRoom int
	err := dao.DB.WithContext(ctx).
		Model(&models.ChatRoom{}).
		Where("patient_id = ?", patientID).
		Select("COALESCE(MAX(room_number), 0)").
		Scan(&maxRoom).Error
	if err != nil {
		return 0, err
	}
	return maxRoom, nil
}
