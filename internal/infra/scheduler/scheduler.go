package scheduler

import (
	"context"
	"fmt"
	"time"

	"maintenance_alert_bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sweeper runs the daily alert sweep. *app.AlertService implements it.
type Sweeper interface {
	RunSweep(ctx context.Context) (app.SweepSummary, error)
}

// DigestSender sends the periodic reliability report. *app.ReliabilityService implements it.
type DigestSender interface {
	SendDigest(ctx context.Context) error
}

type MaintenanceScheduler struct {
	cronEngine     *cron.Cron
	sweeper        Sweeper
	digest         DigestSender
	logger         *logrus.Entry
	cronSpecSweep  string
	cronSpecDigest string // empty disables the digest job
	jobTimeout     time.Duration
}

func NewMaintenanceScheduler(
	sweeper Sweeper,
	digest DigestSender,
	logger *logrus.Entry,
	location *time.Location,
	cronSpecSweep string, // e.g., "0 8 * * *" (08:00 daily)
	cronSpecDigest string, // e.g., "0 9 * * 1" (09:00 on Mondays)
	jobTimeout time.Duration,
) *MaintenanceScheduler {
	if location == nil {
		location = time.Local
	}
	cronLogger := cron.PrintfLogger(logger)
	return &MaintenanceScheduler{
		cronEngine: cron.New(
			cron.WithLocation(location),
			cron.WithLogger(cronLogger),
			// Sweeps never overlap; they share the dispatch log.
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		sweeper:        sweeper,
		digest:         digest,
		logger:         logger,
		cronSpecSweep:  cronSpecSweep,
		cronSpecDigest: cronSpecDigest,
		jobTimeout:     jobTimeout,
	}
}

// Start registers the jobs and starts the cron engine. Invalid cron specs are returned
// instead of terminating the process.
func (s *MaintenanceScheduler) Start() error {
	s.logger.Info("Starting maintenance scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpecSweep, s.runSweep); err != nil {
		return fmt.Errorf("could not add alert sweep cron job %q: %w", s.cronSpecSweep, err)
	}

	if s.digest != nil && s.cronSpecDigest != "" {
		if _, err := s.cronEngine.AddFunc(s.cronSpecDigest, s.runDigest); err != nil {
			return fmt.Errorf("could not add reliability digest cron job %q: %w", s.cronSpecDigest, err)
		}
	}

	s.cronEngine.Start()
	s.logger.WithField("jobs", len(s.cronEngine.Entries())).Info("Maintenance scheduler started with jobs.")
	return nil
}

func (s *MaintenanceScheduler) runSweep() {
	s.logger.Info("Cron job triggered for alert sweep.")
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	if _, err := s.sweeper.RunSweep(ctx); err != nil {
		s.logger.WithError(err).Error("Error during alert sweep")
	}
}

func (s *MaintenanceScheduler) runDigest() {
	s.logger.Info("Cron job triggered for reliability digest.")
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	if err := s.digest.SendDigest(ctx); err != nil {
		s.logger.WithError(err).Error("Error during reliability digest")
	}
}

func (s *MaintenanceScheduler) Stop() {
	s.logger.Info("Stopping maintenance scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Maintenance scheduler gracefully stopped.")
}
