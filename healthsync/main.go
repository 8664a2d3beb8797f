package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthsync/healthsync/config"
	"healthsync/healthsync/controllers"
	"healthsync/healthsync/routes"
	"healthsync/healthsync/services/healthrecord"
	"healthsync/healthsync/services/llm"
	"healthsync/healthsync/services/notify"
	"healthsync/healthsync/services/statistics"
	"healthsync/healthsync/services/triage"
	"healthsync/healthsync/sources/psql"
	"healthsync/healthsync/sources/psql/dao"
	"healthsync/healthsync/sources/storage"
	httputils "healthsync/healthsync/utils/http"
	"healthsync/healthsync/utils/logging"
	"healthsync/healthsync/utils/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.AppLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	userDAO := dao.NewUserDAO(db.DB)
	roomDAO := dao.NewChatRoomDAO(db.DB)
	sessionDAO := dao.NewChatSessionDAO(db.DB)
	recordDAO := dao.NewHealthRecordDAO(db.DB)
	appointmentDAO := dao.NewAppointmentDAO(db.DB)

	collector := metrics.NewCollector("healthsync")
	httpClient := httputils.NewClient(&http.Client{Timeout: cfg.UpstreamTimeout})
	openRouter := llm.NewOpenRouterClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel, httpClient)

	pipeline := triage.NewPipeline(openRouter, roomDAO, sessionDAO, collector)
	recordService := healthrecord.NewService(recordDAO, collector)
	summarizer := healthrecord.NewSummarizer(openRouter, sessionDAO, recordDAO, collector)
	statsService := statistics.NewService(userDAO, appointmentDAO, sessionDAO, recordDAO)

	attachments, err := storage.NewAttachmentStore(cfg)
	if err != nil {
		logging.AppLogger.Error("minio connection error", zap.Error(err))
		os.Exit(1)
	}

	authCtrl := controllers.NewAuthController(userDAO, cfg)
	chatbotCtrl := controllers.NewChatbotController(pipeline)
	appointmentCtrl := controllers.NewAppointmentController(appointmentDAO, userDAO, recordService, summarizer, collector)
	recordCtrl := controllers.NewHealthRecordController(recordService, recordDAO, attachments)
	statsCtrl := controllers.NewStatisticsController(statsService)
	healthCtrl := controllers.NewHealthController()

	mailjet := notify.NewMailjetClient(cfg, httpClient)
	reminderCtx, reminderCancel := context.WithCancel(context.Background())
	defer reminderCancel()
	notify.NewReminder(appointmentDAO, userDAO, mailjet, cfg.ReminderHour).Start(reminderCtx)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/chatbot", routes.ChatbotRoutes(chatbotCtrl, cfg))
	r.Mount("/appointments", routes.AppointmentRoutes(appointmentCtrl, cfg))
	r.Mount("/health-records", routes.HealthRecordRoutes(recordCtrl, cfg))
	r.Mount("/statistics", routes.StatisticsRoutes(statsCtrl, cfg))
	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.AppLogger.Error("server listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.AppLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
