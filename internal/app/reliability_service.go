// internal/app/reliability_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"maintenance_alert_bot/internal/domain/equipment"
	"maintenance_alert_bot/internal/domain/maintenance"
	"maintenance_alert_bot/internal/domain/reliability"
	domainTelegram "maintenance_alert_bot/internal/domain/telegram"
	idb "maintenance_alert_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// AssetReport is the reliability of one piece of equipment.
type AssetReport struct {
	Equipment *equipment.Equipment
	Metrics   reliability.Metrics
}

// FleetReport is the pooled reliability of every active piece of equipment.
type FleetReport struct {
	EquipmentCount int
	Metrics        reliability.Metrics
}

type ReliabilityService struct {
	maintenanceRepo   maintenance.Repository
	equipmentRepo     equipment.Repository
	telegramClient    domainTelegram.Client
	managerTelegramID int64
	logger            *logrus.Entry
}

func NewReliabilityService(
	mr maintenance.Repository,
	er equipment.Repository,
	tc domainTelegram.Client,
	managerID int64,
	logger *logrus.Entry,
) *ReliabilityService {
	return &ReliabilityService{
		maintenanceRepo:   mr,
		equipmentRepo:     er,
		telegramClient:    tc,
		managerTelegramID: managerID,
		logger:            logger,
	}
}

func (s *ReliabilityService) AssetReliability(ctx context.Context, equipmentID int64) (*AssetReport, error) {
	eq, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		if errors.Is(err, idb.ErrEquipmentNotFound) {
			return nil, idb.ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to get equipment %d: %w", equipmentID, err)
	}

	tickets, err := s.maintenanceRepo.ListClosedTicketsByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets for equipment %d: %w", equipmentID, err)
	}

	report := &AssetReport{Equipment: eq, Metrics: reliability.ComputeAsset(toIntervals(tickets))}
	s.logMetrics(s.logger.WithField("equipment_id", equipmentID), report.Metrics)
	return report, nil
}

func (s *ReliabilityService) FleetReliability(ctx context.Context) (*FleetReport, error) {
	fleet, err := s.equipmentRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active equipment: %w", err)
	}
	if len(fleet) == 0 {
		return &FleetReport{Metrics: reliability.ComputeFleet(nil)}, nil
	}

	ids := make([]int64, 0, len(fleet))
	for _, eq := range fleet {
		ids = append(ids, eq.ID)
	}
	tickets, err := s.maintenanceRepo.ListClosedTicketsForEquipment(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list fleet tickets: %w", err)
	}

	// Tickets arrive ordered by equipment then opened_at, so each group keeps its order.
	byAsset := make(map[string][]reliability.Interval, len(fleet))
	for _, t := range tickets {
		interval, ok := t.Interval()
		if !ok {
			continue
		}
		key := strconv.FormatInt(t.EquipmentID, 10)
		byAsset[key] = append(byAsset[key], interval)
	}

	report := &FleetReport{EquipmentCount: len(fleet), Metrics: reliability.ComputeFleet(byAsset)}
	s.logMetrics(s.logger.WithField("equipment_count", len(fleet)), report.Metrics)
	return report, nil
}

// SendDigest sends the fleet report to the manager. Without a configured manager it does nothing.
func (s *ReliabilityService) SendDigest(ctx context.Context) error {
	if s.managerTelegramID == 0 {
		s.logger.Debug("No manager configured, reliability digest skipped")
		return nil
	}

	report, err := s.FleetReliability(ctx)
	if err != nil {
		return err
	}
	if err := s.telegramClient.SendMessage(ctx, s.managerTelegramID, FormatFleetReport(report), nil); err != nil {
		return fmt.Errorf("failed to send reliability digest: %w", err)
	}
	s.logger.WithField("manager_id", s.managerTelegramID).Info("Reliability digest sent")
	return nil
}

func (s *ReliabilityService) logMetrics(log *logrus.Entry, m reliability.Metrics) {
	fields := logrus.Fields{"samples": m.SampleCount, "anomalies": m.Anomalies}
	if m.MTTRHours != nil {
		fields["mttr_hours"] = *m.MTTRHours
	}
	if m.MTBFHours != nil {
		fields["mtbf_hours"] = *m.MTBFHours
	}
	entry := log.WithFields(fields)
	if m.Anomalies > 0 {
		entry.Warn("Reliability computed with anomalous tickets excluded")
		return
	}
	entry.Debug("Reliability computed")
}

func toIntervals(tickets []*maintenance.Ticket) []reliability.Interval {
	intervals := make([]reliability.Interval, 0, len(tickets))
	for _, t := range tickets {
		if interval, ok := t.Interval(); ok {
			intervals = append(intervals, interval)
		}
	}
	return intervals
}
