package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/localauthority/leadengine/internal/config"
	"github.com/localauthority/leadengine/internal/infra/database"
	"github.com/localauthority/leadengine/internal/infra/mail"
	"github.com/localauthority/leadengine/internal/logger"
	"github.com/localauthority/leadengine/internal/usecase"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "leadengine-lifecycle")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	siteRepo := database.NewSiteRepository(db)
	leadRepo := database.NewLeadRepository(db)
	ledgerRepo := database.NewLedgerRepository(db)
	runRepo := database.NewRunRepository(db)

	mailSender := mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	outreach := mail.NewOutreachMailer(mailSender, cfg.OutreachTo)

	scanner := usecase.NewEligibilityScanner(siteRepo, leadRepo, cfg.LeadThreshold, cfg.LeadWindowDays, log)
	tracker := usecase.NewROITracker(siteRepo, leadRepo, ledgerRepo, cfg.StallWindowDays, cfg.ROIWindowDays, log)
	controller := usecase.NewLifecycleController(scanner, tracker, siteRepo, runRepo, outreach, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("lifecycle controller started", zap.Duration("interval", cfg.RunInterval))

	ticker := time.NewTicker(cfg.RunInterval)
	defer ticker.Stop()

	runOnce(ctx, controller, log)

	for {
		select {
		case <-ctx.Done():
			log.Info("lifecycle controller stopped")
			return
		case <-ticker.C:
			runOnce(ctx, controller, log)
		}
	}
}

// runOnce logs and swallows run errors; a failed run is retried on the
// next tick, not immediately, so a window is never evaluated twice in
// quick succession.
func runOnce(ctx context.Context, controller *usecase.LifecycleController, log *zap.Logger) {
	report, err := controller.RunOnce(ctx, time.Now())
	if err != nil {
		log.Error("lifecycle run failed", zap.Error(err))
		return
	}

	log.Info("lifecycle run complete",
		zap.Time("as_of", report.AsOf),
		zap.Strings("flagged", report.FlaggedSites),
		zap.Strings("deactivated", report.Deactivated),
		zap.Int("outreach_sent", report.OutreachSent),
		zap.Int("outreach_failed", report.OutreachFailed),
	)
}
