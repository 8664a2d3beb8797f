package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"healthsync/healthsync/config"
	"healthsync/healthsync/controllers"
	"healthsync/healthsync/middlewares"
	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/utils/types"

	"github.com/go-chi/chi/v5"
)

const maxAttachmentBytes = 32 << 20

func HealthRecordRoutes(ctrl *controllers.HealthRecordController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(cfg))

	// POST /health-records : doctor-authored note
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.RequireRole(string(models.RoleDoctor)))
		gr.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req types.HealthRecordCreate
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			creatorID := r.Context().Value(middlewares.UserIDKey).(int)
			record, err := ctrl.CreateDoctorNote(r.Context(), creatorID, req)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, record)
		})
	})

	// GET /health-records/patient/{patient_id}?record_type=
	r.Get("/patient/{patient_id}", func(w http.ResponseWriter, r *http.Request) {
		patientID, err := strconv.Atoi(chi.URLParam(r, "patient_id"))
		if err != nil {
			http.Error(w, "invalid patient id", http.StatusBadRequest)
			return
		}
		records, err := ctrl.ListPatientRecords(r.Context(), patientID, r.URL.Query().Get("record_type"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	})

	// GET /health-records/{record_id}
	r.Get("/{record_id}", func(w http.ResponseWriter, r *http.Request) {
		recordID, err := strconv.Atoi(chi.URLParam(r, "record_id"))
		if err != nil {
			http.Error(w, "invalid record id", http.StatusBadRequest)
			return
		}
		record, err := ctrl.GetRecord(r.Context(), recordID)
		if err != nil {
			writeError(w, err)
			return
		}
		if record == nil {
			http.Error(w, "health record not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, record)
	})

	// POST /health-records/{record_id}/attachments : multipart file upload
	r.Post("/{record_id}/attachments", func(w http.ResponseWriter, r *http.Request) {
		recordID, err := strconv.Atoi(chi.URLParam(r, "record_id"))
		if err != nil {
			http.Error(w, "invalid record id", http.StatusBadRequest)
			return
		}
		if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		attachment, err := ctrl.UploadAttachment(
			r.Context(), recordID,
			header.Filename, header.Header.Get("Content-Type"), header.Size, file,
		)
		if err != nil {
			writeError(w, err)
			return
		}
		if attachment == nil {
			http.Error(w, "health record not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusCreated, attachment)
	})

	// GET /health-records/{record_id}/attachments/{key} : raw file stream
	r.Get("/{record_id}/attachments/*", func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "*")
		body, err := ctrl.DownloadAttachment(r.Context(), key)
		if err != nil {
			writeError(w, err)
			return
		}
		defer body.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		io.Copy(w, body)
	})

	return r
}
