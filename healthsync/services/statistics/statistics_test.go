package statistics

import (
	"context"
	"testing"
	"time"

	"healthsync/healthsync/sources/psql/dao"
	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/utils/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStats(t *testing.T, now func() time.Time) (*Service, *gorm.DB) {
	t.Helper()
	logging.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.ChatRoom{}, &models.ChatSession{}, &models.HealthRecord{}, &models.Appointment{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	svc := NewServiceWithClock(
		dao.NewUserDAO(db),
		dao.NewAppointmentDAO(db),
		dao.NewChatSessionDAO(db),
		dao.NewHealthRecordDAO(db),
		now,
	)
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) models.User {
	t.Helper()
	user := models.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		Role:           role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestUsageStatisticsCounts(t *testing.T) {
	svc, db := setupStats(t, time.Now)

	patient := seedUser(t, db, "pat", models.RolePatient)
	doctor := seedUser(t, db, "doc", models.RoleDoctor)
	seedUser(t, db, "admin", models.RoleAdmin)

	room := models.ChatRoom{PatientID: patient.ID, RoomNumber: 1}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("seed room: %v", err)
	}
	if err := db.Create(&models.ChatSession{PatientID: patient.ID, ChatRoomID: room.ID, InputText: "hi", ModelResponse: "hello"}).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	if err := db.Create(&models.HealthRecord{PatientID: patient.ID, RecordType: models.RecordAtTriage, Title: "t"}).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}
	if err := db.Create(&models.HealthRecord{PatientID: patient.ID, DoctorID: &doctor.ID, RecordType: models.RecordDoctorNote, Title: "n"}).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}
	if err := db.Create(&models.Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		StartTime: time.Now().Add(time.Hour),
		EndTime:   time.Now().Add(2 * time.Hour),
		Status:    models.AppointmentScheduled,
	}).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}

	stats, err := svc.UsageStatistics(context.Background())
	if err != nil {
		t.Fatalf("UsageStatistics failed: %v", err)
	}
	if stats.TotalUsers != 3 || stats.TotalDoctors != 1 || stats.TotalPatients != 1 {
		t.Errorf("user counts wrong: %+v", stats)
	}
	if stats.TotalAppointments != 1 || stats.TotalChatSessions != 1 {
		t.Errorf("activity counts wrong: %+v", stats)
	}
	if stats.TotalHealthRecords != 2 || stats.TotalTriageRecords != 1 || stats.TotalDoctorNotes != 1 {
		t.Errorf("record counts wrong: %+v", stats)
	}
}

func TestUsageStatisticsCacheWindow(t *testing.T) {
	current := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc, db := setupStats(t, func() time.Time { return current })

	seedUser(t, db, "pat", models.RolePatient)

	stats, err := svc.UsageStatistics(context.Background())
	if err != nil {
		t.Fatalf("UsageStatistics failed: %v", err)
	}
	if stats.TotalUsers != 1 {
		t.Fatalf("expected 1 user, got %d", stats.TotalUsers)
	}

	// A write inside the TTL window must not show up.
	seedUser(t, db, "doc", models.RoleDoctor)
	current = current.Add(4 * time.Minute)
	stats, err = svc.UsageStatistics(context.Background())
	if err != nil {
		t.Fatalf("UsageStatistics failed: %v", err)
	}
	if stats.TotalUsers != 1 {
		t.Errorf("cached value expected within TTL, got %d users", stats.TotalUsers)
	}

	// Past the TTL the counts are recomputed.
	current = current.Add(2 * time.Minute)
	stats, err = svc.UsageStatistics(context.Background())
	if err != nil {
		t.Fatalf("UsageStatistics failed: %v", err)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("expected recomputed count 2, got %d", stats.TotalUsers)
	}
}
