package notify

import (
	"context"
	"fmt"
	"time"

	"healthsync/healthsync/sources/psql/dao"
	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/utils/logging"

	"go.uber.org/zap"
)

// Reminder sends same-day appointment reminders to both participants once a
// day at the configured hour.
type Reminder struct {
	appointments *dao.AppointmentDAO
	users        *dao.UserDAO
	sender       EmailSender
	hour         int
}

func NewReminder(appointments *dao.AppointmentDAO, users *dao.UserDAO, sender EmailSender, hour int) *Reminder {
	return &Reminder{
		appointments: appointments,
		users:        users,
		sender:       sender,
		hour:         hour,
	}
}

// Start runs the reminder loop until ctx is cancelled.
func (r *Reminder) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(untilNextRun(time.Now(), r.hour)):
				r.RunOnce(ctx)
			}
		}
	}()
}

func untilNextRun(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// RunOnce sweeps today's scheduled appointments and notifies patient and
// doctor. Every failure is logged and skipped; the sweep never aborts.
func (r *Reminder) RunOnce(ctx context.Context) {
	logging.AppLogger.Info("running daily appointment notification check")

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	appointments, err := r.appointments.ListScheduledBetween(ctx, dayStart, dayEnd)
	if err != nil {
		logging.ErrorLogger.Error("failed to list today's appointments", zap.Error(err))
		return
	}

	for _, appointment := range appointments {
		r.notify(ctx, appointment)
	}
	logging.AppLogger.Info("appointment notification check completed",
		zap.Int("appointments", len(appointments)))
}

func (r *Reminder) notify(ctx context.Context, appointment models.Appointment) {
	patient, err := r.users.GetUserByID(ctx, appointment.PatientID)
	if err != nil || patient == nil {
		logging.ErrorLogger.Error("could not load patient for reminder",
			zap.Int("appointment_id", appointment.ID), zap.Error(err))
		return
	}
	doctor, err := r.users.GetUserByID(ctx, appointment.DoctorID)
	if err != nil || doctor == nil {
		logging.ErrorLogger.Error("could not load doctor for reminder",
			zap.Int("appointment_id", appointment.ID), zap.Error(err))
		return
	}

	when := appointment.StartTime.Format("2006-01-02 15:04 MST")
	link := "N/A"
	if appointment.TelemedicineURL != nil {
		link = *appointment.TelemedicineURL
	}

	patientBody := fmt.Sprintf(
		"Dear %s,\n\nThis is a reminder about your upcoming appointment with Dr. %s today.\n\n"+
			"Time: %s\nTelemedicine link: %s\n\nBest regards,\nHealthSync Team",
		displayName(patient), displayName(doctor), when, link)
	doctorBody := fmt.Sprintf(
		"Dear Dr. %s,\n\nThis is a notification for your appointment with patient %s today.\n\n"+
			"Time: %s\nTelemedicine link: %s\n\nBest regards,\nHealthSync Team",
		displayName(doctor), displayName(patient), when, link)

	if err := r.sender.Send(ctx, patient.Email, "Appointment Reminder", patientBody); err != nil {
		logging.ErrorLogger.Error("patient reminder failed",
			zap.Int("appointment_id", appointment.ID), zap.Error(err))
	}
	if err := r.sender.Send(ctx, doctor.Email, "Appointment Notification", doctorBody); err != nil {
		logging.ErrorLogger.Error("doctor reminder failed",
			zap.Int("appointment_id", appointment.ID), zap.Error(err))
	}
}

func displayName(user *models.User) string {
	if user.FirstName != nil && *user.FirstName != "" {
		return *user.FirstName
	}
	return user.Username
}
