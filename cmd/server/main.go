// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/truesoul/offerengine-backend/internal/config"
	"github.com/truesoul/offerengine-backend/internal/content"
	"github.com/truesoul/offerengine-backend/internal/controller"
	"github.com/truesoul/offerengine-backend/internal/db"
	"github.com/truesoul/offerengine-backend/internal/logger"
	"github.com/truesoul/offerengine-backend/internal/mailer"
	"github.com/truesoul/offerengine-backend/internal/queue"
	"github.com/truesoul/offerengine-backend/internal/repository"
	"github.com/truesoul/offerengine-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to build logger: ", err)
	}
	defer zlog.Sync()

	conn, err := db.Open(cfg.DSN())
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()
	zlog.Info("connected to database", zap.String("db", cfg.DBName))

	jobRepo := &repository.JobRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	engineStateRepo := &repository.EngineStateRepository{DB: conn}
	senderRepo := &repository.SenderRepository{DB: conn}
	settingsRepo := &repository.SettingsRepository{DB: conn}
	logRepo := &repository.LogRepository{DB: conn}

	gmailSender, err := mailer.NewGmailSender(cfg.GoogleServiceAccountKey)
	if err != nil {
		zlog.Fatal("failed to build gmail sender", zap.Error(err))
	}

	dispatchQueue, err := queue.NewAMQPQueue(cfg.AMQPURL)
	if err != nil {
		zlog.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer dispatchQueue.Close()

	engineService := &service.EngineService{
		EngineStateRepo: engineStateRepo,
		LogRepo:         logRepo,
		Logger:          zlog,
	}
	dispatchService := &service.DispatchService{
		JobRepo:      jobRepo,
		SenderRepo:   senderRepo,
		SettingsRepo: settingsRepo,
		LogRepo:      logRepo,
		Renderer:     content.NewRenderer(),
		Mailer:       gmailSender,
		Logger:       zlog,
	}
	launchService := service.NewLaunchService(
		campaignRepo, jobRepo, senderRepo, engineStateRepo, logRepo, zlog)

	engineController := &controller.EngineController{
		Engine:     engineService,
		Dispatcher: dispatchService,
		Queue:      dispatchQueue,
		Logger:     zlog,
	}
	campaignController := &controller.CampaignController{
		CampaignRepo: campaignRepo,
		JobRepo:      jobRepo,
		SenderRepo:   senderRepo,
		Launcher:     launchService,
		Logger:       zlog,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/campaigns/stop", engineController.StopCampaign)
	r.Post("/campaigns/resume", engineController.ResumeCampaign)
	r.Post("/campaigns/{id}/launch", campaignController.LaunchCampaign)
	r.Get("/campaigns/{id}", campaignController.GetCampaign)
	r.Post("/engine/send-email", engineController.SendEmail)
	r.Post("/engine/queue-email", engineController.QueueEmail)
	r.Get("/senders", campaignController.ListSenders)

	zlog.Info("server running", zap.String("addr", cfg.ServerAddr))
	if err := http.ListenAndServe(cfg.ServerAddr, r); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
