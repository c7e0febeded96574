package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on minimal images

	"maintenance_alert_bot/internal/app"
	"maintenance_alert_bot/internal/clock"
	"maintenance_alert_bot/internal/infra/config"
	idb "maintenance_alert_bot/internal/infra/database"
	"maintenance_alert_bot/internal/infra/logger"
	"maintenance_alert_bot/internal/infra/metrics"
	"maintenance_alert_bot/internal/infra/scheduler"
	"maintenance_alert_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Could not load application configuration")
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"admin_id":    cfg.AdminTelegramID,
		"timezone":    cfg.Location.String(),
	}).Info("Maintenance Alert Bot starting...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	if err := idb.EnsureSchema(ctx, db); err != nil {
		mainLogger.WithError(err).Fatal("Could not ensure database schema")
	}
	mainLogger.Info("Database connection established and schema verified.")

	// Initialize Repositories
	equipmentRepo := idb.NewPostgresEquipmentRepository(db)
	maintenanceRepo := idb.NewPostgresMaintenanceRepository(db)
	recipientRepo := idb.NewPostgresRecipientRepository(db)
	dispatchRepo := idb.NewPostgresDispatchRepository(db)

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Component("telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{"text": c.Text(), "sender_id": c.Sender().ID, "chat_id": c.Chat().ID})
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}
	telegramClient := telegram.NewTelebotAdapter(bot)

	// Initialize Services
	collector := metrics.NewCollector()
	appClock := clock.RealClock{Location: cfg.Location}
	alertService := app.NewAlertService(
		maintenanceRepo,
		equipmentRepo,
		recipientRepo,
		dispatchRepo,
		telegramClient,
		appClock,
		collector,
		logger.Component("alert_service"),
	)
	reliabilityService := app.NewReliabilityService(
		maintenanceRepo,
		equipmentRepo,
		telegramClient,
		cfg.ManagerTelegramID,
		logger.Component("reliability_service"),
	)
	adminService := app.NewAdminService(recipientRepo, cfg.AdminTelegramID)

	// Register Handlers
	access := telegram.NewAccessChecker(cfg.AdminTelegramID, recipientRepo)
	handlerLogger := logger.Component("telegram")
	telegram.RegisterBotCommands(ctx, bot, access, handlerLogger)
	telegram.RegisterAdminHandlers(ctx, bot, adminService, handlerLogger)
	telegram.RegisterReportHandlers(ctx, bot, access, alertService, reliabilityService, handlerLogger)
	telegram.RegisterExecutionHandlers(ctx, bot, access, alertService, handlerLogger)
	mainLogger.Info("Telegram handlers registered.")

	// Initialize MaintenanceScheduler
	maintenanceScheduler := scheduler.NewMaintenanceScheduler(
		alertService,
		reliabilityService,
		logger.Component("scheduler"),
		cfg.Location,
		cfg.CronSpecAlertSweep,
		cfg.CronSpecReliabilityDigest,
		cfg.SweepTimeout,
	)
	if err := maintenanceScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start scheduler")
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, collector, logger.Component("metrics")); err != nil {
				mainLogger.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()
	mainLogger.Info("Application setup complete. Bot and scheduler are running.")

	<-ctx.Done() // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	bot.Stop()
	maintenanceScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
}
