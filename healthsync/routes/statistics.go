package routes

import (
	"net/http"

	"healthsync/healthsync/config"
	"healthsync/healthsync/controllers"
	"healthsync/healthsync/middlewares"
	"healthsync/healthsync/sources/psql/models"

	"github.com/go-chi/chi/v5"
)

func StatisticsRoutes(ctrl *controllers.StatisticsController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(cfg))
	r.Use(middlewares.RequireRole(string(models.RoleAdmin)))

	r.Get("/usage", func(w http.ResponseWriter, r *http.Request) {
		stats, err := ctrl.Usage(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	return r
}
