// internal/app/alert_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"maintenance_alert_bot/internal/clock"
	"maintenance_alert_bot/internal/domain/alert"
	"maintenance_alert_bot/internal/domain/equipment"
	"maintenance_alert_bot/internal/domain/maintenance"
	"maintenance_alert_bot/internal/domain/notification"
	domainTelegram "maintenance_alert_bot/internal/domain/telegram"
	idb "maintenance_alert_bot/internal/infra/database"
	"maintenance_alert_bot/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// CallbackExecutionDone is the unique of the inline button that records an execution.
const CallbackExecutionDone = "exec_done"

// ErrPlanInactive is returned when an execution is recorded for a deactivated plan.
var ErrPlanInactive = fmt.Errorf("maintenance plan is inactive")

// SweepRecorder receives sweep instrumentation. metrics.Collector implements it.
type SweepRecorder interface {
	ObserveSweep(d time.Duration, err error)
	AlertFired(severity string)
	Dispatch(result string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveSweep(time.Duration, error) {}
func (noopRecorder) AlertFired(string)                 {}
func (noopRecorder) Dispatch(string)                   {}

// SweepSummary counts what one sweep did.
// Each listed plan is counted once: evaluated, skipped, or as a failure when its equipment cannot be loaded.
type SweepSummary struct {
	RunID          string
	Today          time.Time
	PlansEvaluated int
	PlansSkipped   int // unknown periodicity, never due, or inactive equipment
	AlertsFired    int
	MessagesSent   int
	Duplicates     int
	Failures       int // equipment lookups and failed sends
}

// DueItem is one line of the due-date overview.
type DueItem struct {
	PlanID       int64
	EquipmentRef string
	TaskLabel    string
	DueDate      time.Time
	DaysUntil    int
	Severity     alert.Severity
}

type AlertService struct {
	maintenanceRepo maintenance.Repository
	equipmentRepo   equipment.Repository
	recipientRepo   notification.RecipientRepository
	dispatchRepo    notification.DispatchRepository
	telegramClient  domainTelegram.Client
	clock           clock.Clock
	recorder        SweepRecorder
	logger          *logrus.Entry
}

func NewAlertService(
	mr maintenance.Repository,
	er equipment.Repository,
	rr notification.RecipientRepository,
	dr notification.DispatchRepository,
	tc domainTelegram.Client,
	clk clock.Clock,
	recorder SweepRecorder,
	logger *logrus.Entry,
) *AlertService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &AlertService{
		maintenanceRepo: mr,
		equipmentRepo:   er,
		recipientRepo:   rr,
		dispatchRepo:    dr,
		telegramClient:  tc,
		clock:           clk,
		recorder:        recorder,
		logger:          logger,
	}
}

// RunSweep evaluates every active plan for today and notifies recipients of firing alerts.
// Failures on a single plan or recipient are counted and logged; only failing to load the
// plans or recipients aborts the sweep.
func (s *AlertService) RunSweep(ctx context.Context) (SweepSummary, error) {
	started := time.Now()
	summary := SweepSummary{RunID: uuid.NewString(), Today: s.clock.Now()}
	log := s.logger.WithFields(logrus.Fields{
		"sweep_id": summary.RunID,
		"today":    summary.Today.Format("2006-01-02"),
	})
	log.Info("Starting alert sweep")

	err := s.sweep(ctx, log, &summary)
	s.recorder.ObserveSweep(time.Since(started), err)
	if err != nil {
		log.WithError(err).Error("Alert sweep aborted")
		return summary, err
	}

	log.WithFields(logrus.Fields{
		"plans_evaluated": summary.PlansEvaluated,
		"plans_skipped":   summary.PlansSkipped,
		"alerts_fired":    summary.AlertsFired,
		"messages_sent":   summary.MessagesSent,
		"duplicates":      summary.Duplicates,
		"failures":        summary.Failures,
	}).Info("Alert sweep finished")
	return summary, nil
}

func (s *AlertService) sweep(ctx context.Context, log *logrus.Entry, summary *SweepSummary) error {
	plans, err := s.maintenanceRepo.ListActivePlans(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active maintenance plans: %w", err)
	}
	recipients, err := s.recipientRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active recipients: %w", err)
	}
	if len(recipients) == 0 {
		log.Warn("No active recipients registered. Alerts will be evaluated but not delivered.")
	}
	alertRecipients := toAlertRecipients(recipients)
	equipmentCache := make(map[int64]*equipment.Equipment)

	for _, plan := range plans {
		if err := ctx.Err(); err != nil {
			return err
		}
		planLog := log.WithFields(logrus.Fields{"plan_id": plan.ID, "equipment_id": plan.EquipmentID})

		if !plan.Periodicity.Valid() {
			planLog.WithField("periodicity", plan.Periodicity).Warn("Unknown periodicity, plan skipped")
			summary.PlansSkipped++
			continue
		}
		due, ok := plan.DueDate()
		if !ok {
			summary.PlansSkipped++
			continue
		}
		eq, err := s.lookupEquipment(ctx, equipmentCache, plan.EquipmentID)
		if err != nil {
			planLog.WithError(err).Error("Failed to load equipment for plan")
			summary.Failures++
			continue
		}
		if !eq.IsActive {
			planLog.Debug("Equipment is inactive, plan skipped")
			summary.PlansSkipped++
			continue
		}
		summary.PlansEvaluated++

		decision := alert.Evaluate(summary.Today, due)
		if !decision.Fires {
			continue
		}

		summary.AlertsFired++
		s.recorder.AlertFired(string(decision.Severity))
		event := alert.NewEvent(plan.ID, eq.Ref(), plan.Kind.Label(), due, decision, alertRecipients)
		planLog.WithFields(logrus.Fields{
			"due_date":    due.Format("2006-01-02"),
			"days_offset": event.DaysOffset,
			"overdue":     event.Overdue,
			"severity":    event.Severity,
		}).Info("Alert fired")

		s.deliver(ctx, planLog, event, summary)
	}
	return nil
}

// deliver sends the event to each recipient once; the dispatch log makes re-runs on the same day silent.
func (s *AlertService) deliver(ctx context.Context, log *logrus.Entry, event alert.Event, summary *SweepSummary) {
	text := event.Message()
	markup := executionMarkup(event.PlanID)

	for _, r := range event.Recipients {
		recipientLog := log.WithField("recipient_id", r.ID)
		key := notification.Key{
			PlanID:      event.PlanID,
			RecipientID: r.ID,
			DueDate:     event.DueDate,
			DaysOffset:  event.DaysOffset,
			Overdue:     event.Overdue,
		}

		exists, err := s.dispatchRepo.HasDispatch(ctx, key)
		if err != nil {
			recipientLog.WithError(err).Error("Failed to check dispatch log")
			summary.Failures++
			s.recorder.Dispatch(metrics.ResultFailed)
			continue
		}
		if exists {
			recipientLog.Debug("Alert already delivered today, skipping")
			summary.Duplicates++
			s.recorder.Dispatch(metrics.ResultDuplicate)
			continue
		}

		if err := s.telegramClient.SendMessage(ctx, r.TelegramID, text, &telebot.SendOptions{ReplyMarkup: markup}); err != nil {
			recipientLog.WithError(err).Error("Failed to send alert")
			summary.Failures++
			s.recorder.Dispatch(metrics.ResultFailed)
			continue
		}
		summary.MessagesSent++
		s.recorder.Dispatch(metrics.ResultSent)

		dispatch := &notification.Dispatch{
			PlanID:      key.PlanID,
			RecipientID: key.RecipientID,
			DueDate:     key.DueDate,
			DaysOffset:  key.DaysOffset,
			Overdue:     key.Overdue,
			SentAt:      s.clock.Now(),
		}
		if err := s.dispatchRepo.CreateDispatch(ctx, dispatch); err != nil {
			if errors.Is(err, idb.ErrDuplicateDispatch) {
				recipientLog.Warn("Concurrent sweep already recorded this dispatch")
				continue
			}
			recipientLog.WithError(err).Error("Alert sent but dispatch was not recorded; it may be repeated on the next run today")
		}
	}
}

func (s *AlertService) lookupEquipment(ctx context.Context, cache map[int64]*equipment.Equipment, id int64) (*equipment.Equipment, error) {
	if eq, ok := cache[id]; ok {
		return eq, nil
	}
	eq, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = eq
	return eq, nil
}

// ListDue returns plans that are overdue or due within horizonDays, soonest first.
func (s *AlertService) ListDue(ctx context.Context, horizonDays int) ([]DueItem, error) {
	today := s.clock.Now()
	plans, err := s.maintenanceRepo.ListActivePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active maintenance plans: %w", err)
	}

	equipmentCache := make(map[int64]*equipment.Equipment)
	items := make([]DueItem, 0)
	for _, plan := range plans {
		due, ok := plan.DueDate()
		if !ok {
			continue
		}
		daysUntil := alert.DaysUntil(today, due)
		if daysUntil > horizonDays {
			continue
		}

		ref := "#" + strconv.FormatInt(plan.EquipmentID, 10)
		if eq, err := s.lookupEquipment(ctx, equipmentCache, plan.EquipmentID); err == nil {
			if !eq.IsActive {
				continue
			}
			ref = eq.Ref()
		} else {
			s.logger.WithError(err).WithField("equipment_id", plan.EquipmentID).Warn("Equipment lookup failed for due list")
		}

		items = append(items, DueItem{
			PlanID:       plan.ID,
			EquipmentRef: ref,
			TaskLabel:    plan.Kind.Label(),
			DueDate:      due,
			DaysUntil:    daysUntil,
			Severity:     alert.Classify(daysUntil),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DaysUntil != items[j].DaysUntil {
			return items[i].DaysUntil < items[j].DaysUntil
		}
		return items[i].PlanID < items[j].PlanID
	})
	return items, nil
}

// RecordExecution stores an execution of the plan and projects its next due date.
func (s *AlertService) RecordExecution(ctx context.Context, planID int64, executedAt time.Time) (*maintenance.Plan, error) {
	plan, err := s.maintenanceRepo.GetPlanByID(ctx, planID)
	if err != nil {
		if errors.Is(err, idb.ErrPlanNotFound) {
			return nil, idb.ErrPlanNotFound // Propagate specific error
		}
		return nil, fmt.Errorf("failed to get maintenance plan %d: %w", planID, err)
	}
	if !plan.IsActive {
		s.logger.WithField("plan_id", plan.ID).Warn("Execution ignored for inactive plan")
		return nil, ErrPlanInactive
	}

	plan.MarkExecuted(executedAt)
	var next *time.Time
	if plan.NextDueAt.Valid {
		next = &plan.NextDueAt.Time
	}
	if err := s.maintenanceRepo.RecordExecution(ctx, plan.ID, executedAt, next); err != nil {
		return nil, fmt.Errorf("failed to record execution for plan %d: %w", planID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"plan_id":     plan.ID,
		"executed_at": executedAt.Format("2006-01-02"),
		"next_due_at": plan.NextDueAt.Time.Format("2006-01-02"),
	}).Info("Execution recorded")
	return plan, nil
}

// Now exposes the service clock so transport handlers stamp executions consistently.
func (s *AlertService) Now() time.Time {
	return s.clock.Now()
}

func executionMarkup(planID int64) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	btn := markup.Data("✅ Registrar execução", CallbackExecutionDone, strconv.FormatInt(planID, 10))
	markup.Inline(markup.Row(btn))
	return markup
}

func toAlertRecipients(recipients []*notification.Recipient) []alert.Recipient {
	out := make([]alert.Recipient, 0, len(recipients))
	for _, r := range recipients {
		out = append(out, alert.Recipient{ID: r.ID, TelegramID: r.TelegramID, Name: r.FullName()})
	}
	return out
}
