package controllers

import (
	"context"
	"fmt"

	"healthsync/healthsync/services/healthrecord"
	"healthsync/healthsync/services/triage"
	"healthsync/healthsync/sources/psql/dao"
	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/utils/metrics"
	"healthsync/healthsync/utils/types"
)

var ErrDoctorNotFound = fmt.Errorf("doctor not found")

type AppointmentController struct {
	appointments *dao.AppointmentDAO
	users        *dao.UserDAO
	records      *healthrecord.Service
	summarizer   *healthrecord.Summarizer
	collector    *metrics.Collector
}

func NewAppointmentController(appointments *dao.AppointmentDAO, users *dao.UserDAO, records *healthrecord.Service, summarizer *healthrecord.Summarizer, collector *metrics.Collector) *AppointmentController {
	return &AppointmentController{
		appointments: appointments,
		users:        users,
		records:      records,
		summarizer:   summarizer,
		collector:    collector,
	}
}

// Schedule creates the appointment, then derives an at_triage health record
// from the patient's chat history. The summarizer swallows its own failures;
// only the appointment write itself can fail the call.
func (c *AppointmentController) Schedule(ctx context.Context, patientID int, req types.AppointmentRequest) (*models.Appointment, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, &triage.ValidationError{Detail: "end_time must be after start_time"}
	}

	doctor, err := c.users.GetDoctorByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	appointment := models.Appointment{
		PatientID:       patientID,
		DoctorID:        req.DoctorID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          models.AppointmentScheduled,
		TelemedicineURL: req.TelemedicineURL,
	}
	if err := c.appointments.CreateAppointment(ctx, &appointment); err != nil {
		return nil, &triage.PersistenceError{Op: "create appointment", Err: err}
	}
	c.collector.AppointmentsTotal.Inc()

	c.summarizer.SummarizeRecentTriage(ctx, patientID, &req.DoctorID)

	return &appointment, nil
}

// RecordsForAppointment returns the patient's records when userID is a
// participant of the appointment; a nil slice with nil error means the
// appointment was not visible to the caller.
func (c *AppointmentController) RecordsForAppointment(ctx context.Context, appointmentID, userID int) ([]models.HealthRecord, error) {
	appointment, err := c.appointments.GetForParticipant(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, nil
	}
	return c.records.ListPatientRecords(ctx, appointment.PatientID, "")
}

func (c *AppointmentController) ListDoctors(ctx context.Context, specialization string) ([]types.DoctorOut, error) {
	doctors, err := c.users.ListAvailableDoctors(ctx, specialization)
	if err != nil {
		return nil, err
	}
	out := make([]types.DoctorOut, 0, len(doctors))
	for _, doctor := range doctors {
		out = append(out, doctorOut(doctor))
	}
	return out, nil
}

func (c *AppointmentController) GetDoctor(ctx context.Context, doctorID int) (*types.DoctorOut, error) {
	doctor, err := c.users.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, nil
	}
	out := doctorOut(*doctor)
	return &out, nil
}

func doctorOut(doctor models.User) types.DoctorOut {
	out := types.DoctorOut{
		ID:              doctor.ID,
		Email:           doctor.Email,
		Specialization:  doctor.Specialization,
		Qualifications:  doctor.Qualifications,
		IsAvailable:     doctor.IsAvailable,
		Bio:             doctor.Bio,
		Rating:          doctor.Rating,
		YearsExperience: doctor.YearsExperience,
	}
	if doctor.FirstName != nil {
		out.FirstName = *doctor.FirstName
	}
	if doctor.LastName != nil {
		out.LastName = *doctor.LastName
	}
	return out
}
