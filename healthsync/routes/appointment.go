package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"healthsync/healthsync/config"
	"healthsync/healthsync/controllers"
	"healthsync/healthsync/middlewares"
	"healthsync/healthsync/utils/types"

	"github.com/go-chi/chi/v5"
)

func AppointmentRoutes(ctrl *controllers.AppointmentController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(cfg))

	// POST /appointments : schedule + derive triage record
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var req types.AppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		patientID := r.Context().Value(middlewares.UserIDKey).(int)
		appointment, err := ctrl.Schedule(r.Context(), patientID, req)
		if err != nil {
			if err == controllers.ErrDoctorNotFound {
				http.Error(w, "doctor not found", http.StatusNotFound)
				return
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, appointment)
	})

	// GET /appointments/{appointment_id}/health-records
	r.Get("/{appointment_id}/health-records", func(w http.ResponseWriter, r *http.Request) {
		appointmentID, err := strconv.Atoi(chi.URLParam(r, "appointment_id"))
		if err != nil {
			http.Error(w, "invalid appointment id", http.StatusBadRequest)
			return
		}
		userID := r.Context().Value(middlewares.UserIDKey).(int)
		records, err := ctrl.RecordsForAppointment(r.Context(), appointmentID, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		if records == nil {
			http.Error(w, "appointment not found or you don't have permission to access it", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, records)
	})

	// GET /appointments/doctors?specialization=
	r.Get("/doctors", func(w http.ResponseWriter, r *http.Request) {
		doctors, err := ctrl.ListDoctors(r.Context(), r.URL.Query().Get("specialization"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doctors)
	})

	// GET /appointments/doctors/{doctor_id}
	r.Get("/doctors/{doctor_id}", func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := strconv.Atoi(chi.URLParam(r, "doctor_id"))
		if err != nil {
			http.Error(w, "invalid doctor id", http.StatusBadRequest)
			return
		}
		doctor, err := ctrl.GetDoctor(r.Context(), doctorID)
		if err != nil {
			writeError(w, err)
			return
		}
		if doctor == nil {
			http.Error(w, "doctor not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, doctor)
	})

	return r
}
