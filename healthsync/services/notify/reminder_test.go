package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"healthsync/healthsync/sources/psql/dao"
	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/utils/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- Helpers ---

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return f.err
}

func setupReminder(t *testing.T) (*Reminder, *fakeSender, *gorm.DB) {
	t.Helper()
	logging.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Appointment{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	sender := &fakeSender{}
	reminder := NewReminder(dao.NewAppointmentDAO(db), dao.NewUserDAO(db), sender, 8)
	return reminder, sender, db
}

func seedParty(t *testing.T, db *gorm.DB, username string, role models.UserRole) models.User {
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

// --- untilNextRun ---

func TestUntilNextRunSameDay(t *testing.T) {
	now := time.Date(2026, 8, 29, 6, 30, 0, 0, time.UTC)
	if got := untilNextRun(now, 8); got != 90*time.Minute {
		t.Errorf("untilNextRun = %v, want 1h30m", got)
	}
}

func TestUntilNextRunRollsToTomorrow(t *testing.T) {
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	if got := untilNextRun(now, 8); got != 23*time.Hour {
		t.Errorf("untilNextRun = %v, want 23h", got)
	}
}

// --- RunOnce ---

func TestRunOnceNotifiesBothParticipants(t *testing.T) {
	reminder, sender, db := setupReminder(t)

	patient := seedParty(t, db, "pat", models.RolePatient)
	doctor := seedParty(t, db, "doc", models.RoleDoctor)

	now := time.Now()
	appointment := models.Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		StartTime: now,
		EndTime:   now.Add(time.Hour),
		Status:    models.AppointmentScheduled,
	}
	if err := db.Create(&appointment).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}

	reminder.RunOnce(context.Background())

	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 mails, got %d", len(sender.sent))
	}
	if sender.sent[0].to != "pat@example.com" || sender.sent[1].to != "doc@example.com" {
		t.Errorf("wrong recipients: %+v", sender.sent)
	}
	if sender.sent[0].subject != "Appointment Reminder" {
		t.Errorf("patient subject = %q", sender.sent[0].subject)
	}
	if !strings.Contains(sender.sent[0].body, "Dr. doc") {
		t.Errorf("patient body should name the doctor: %q", sender.sent[0].body)
	}
}

func TestRunOnceSkipsCancelledAndOtherDays(t *testing.T) {
	reminder, sender, db := setupReminder(t)

	patient := seedParty(t, db, "pat", models.RolePatient)
	doctor := seedParty(t, db, "doc", models.RoleDoctor)

	now := time.Now()
	seed := []models.Appointment{
		{PatientID: patient.ID, DoctorID: doctor.ID, StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), Status: models.AppointmentCancelled},
		{PatientID: patient.ID, DoctorID: doctor.ID, StartTime: now.AddDate(0, 0, 2), EndTime: now.AddDate(0, 0, 2).Add(time.Hour), Status: models.AppointmentScheduled},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed appointment: %v", err)
		}
	}

	reminder.RunOnce(context.Background())
	if len(sender.sent) != 0 {
		t.Errorf("expected no mail, got %+v", sender.sent)
	}
}

func TestRunOnceSurvivesSendFailures(t *testing.T) {
	reminder, sender, db := setupReminder(t)
	sender.err = errors.New("smtp down")

	patient := seedParty(t, db, "pat", models.RolePatient)
	doctor := seedParty(t, db, "doc", models.RoleDoctor)

	now := time.Now()
	appointment := models.Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		StartTime: now,
		EndTime:   now.Add(time.Hour),
		Status:    models.AppointmentScheduled,
	}
	if err := db.Create(&appointment).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}

	// Must not panic or abort; both sends are still attempted.
	reminder.RunOnce(context.Background())
	if len(sender.sent) != 2 {
		t.Errorf("expected both sends attempted, got %d", len(sender.sent))
	}
}

// --- Email validation ---

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.com", "first.last@clinic.example.org"}
	invalid := []string{"", "nope", "@b.com", "a@", "a@nodot"}
	for _, addr := range valid {
		if !isValidEmail(addr) {
			t.Errorf("isValidEmail(%q) = false, want true", addr)
		}
	}
	for _, addr := range invalid {
		if isValidEmail(addr) {
			t.Errorf("isValidEmail(%q) = true, want false", addr)
		}
	}
}
