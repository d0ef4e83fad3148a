package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/localauthority/leadengine/internal/config"
	"github.com/localauthority/leadengine/internal/infra/billing"
	"github.com/localauthority/leadengine/internal/infra/database"
	"github.com/localauthority/leadengine/internal/infra/http/handlers"
	"github.com/localauthority/leadengine/internal/infra/http/middleware"
	"github.com/localauthority/leadengine/internal/infra/mail"
	"github.com/localauthority/leadengine/internal/infra/queue"
	"github.com/localauthority/leadengine/internal/logger"
	"github.com/localauthority/leadengine/internal/usecase"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "leadengine-api")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPUser, cfg.AMQPPass, cfg.AMQPHost, cfg.AMQPPort)
	if err != nil {
		log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// Repositories
	siteRepo := database.NewSiteRepository(db)
	leadRepo := database.NewLeadRepository(db)
	partnerRepo := database.NewPartnerRepository(db)
	ledgerRepo := database.NewLedgerRepository(db)

	// Collaborators
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	billingClient := billing.NewClient(cfg.BillingAPIKey, cfg.BillingURL)

	// Notification worker: consumes routed-lead messages and emails the
	// partner with bounded retries.
	worker := queue.NewWorker(rabbitMQ.Ch, mailSender, log)
	go worker.Start(queue.QueueName)

	// Use cases
	routeLeadUC := usecase.NewRouteLeadUseCase(leadRepo, partnerRepo, producer, log)
	storeLeadUC := usecase.NewStoreLeadUseCase(siteRepo, leadRepo, routeLeadUC, log)
	provisionUC := usecase.NewProvisionSiteUseCase(siteRepo, log)
	assignUC := usecase.NewAssignPartnerUseCase(siteRepo, partnerRepo, billingClient, log)
	recordEventUC := usecase.NewRecordEventUseCase(siteRepo, ledgerRepo)

	// Handlers
	leadHandler := handlers.NewLeadHandler(storeLeadUC)
	siteHandler := handlers.NewSiteHandler(provisionUC, assignUC, recordEventUC)
	partnerHandler := handlers.NewPartnerHandler(assignUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Post("/api/lead", leadHandler.Handle)
	r.Post("/api/sites", siteHandler.HandleCreate)
	r.Post("/api/sites/batch", siteHandler.HandleBatchCreate)
	r.Post("/api/sites/{slug}/partner", siteHandler.HandleAssignPartner)
	r.Post("/api/sites/{slug}/events", siteHandler.HandleRecordEvent)
	r.Post("/api/partners", partnerHandler.HandleCreate)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.Port
	log.Info("lead engine API listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
