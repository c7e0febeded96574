// internal/infra/database/postgres_maintenance_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"maintenance_alert_bot/internal/domain/maintenance"
	"maintenance_alert_bot/internal/domain/schedule"

	"github.com/lib/pq" // For pq.Array
)

// Custom errors specific to maintenance repository
var ErrPlanNotFound = fmt.Errorf("maintenance plan not found")

type PostgresMaintenanceRepository struct {
	db *sql.DB
}

func NewPostgresMaintenanceRepository(db *sql.DB) *PostgresMaintenanceRepository {
	return &PostgresMaintenanceRepository{db: db}
}

// --- Plan Methods ---

const planColumns = `id, equipment_id, kind, periodicity, anchor_date, last_executed_at, next_due_at, is_active, created_at, updated_at`

// scanPlan keeps an unknown periodicity as-is; such a plan is never due and the sweep
// reports it instead of failing every other plan.
func scanPlan(row interface{ Scan(...any) error }) (*maintenance.Plan, error) {
	p := &maintenance.Plan{}
	var periodicity string
	if err := row.Scan(
		&p.ID, &p.EquipmentID, &p.Kind, &periodicity, &p.AnchorDate,
		&p.LastExecutedAt, &p.NextDueAt, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if parsed, err := schedule.ParsePeriodicity(periodicity); err == nil {
		p.Periodicity = parsed
	} else {
		p.Periodicity = schedule.Periodicity(periodicity)
	}
	return p, nil
}

func (r *PostgresMaintenanceRepository) GetPlanByID(ctx context.Context, id int64) (*maintenance.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM maintenance_plans WHERE id = $1`
	p, err := scanPlan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("error getting maintenance plan by ID: %w", err)
	}
	return p, nil
}

func (r *PostgresMaintenanceRepository) ListActivePlans(ctx context.Context) ([]*maintenance.Plan, error) {
	query := `SELECT ` + planColumns + `
               FROM maintenance_plans
               WHERE is_active = TRUE
               ORDER BY equipment_id, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying active maintenance plans: %w", err)
	}
	defer rows.Close()

	plans := make([]*maintenance.Plan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning maintenance plan row: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating maintenance plan rows: %w", err)
	}
	return plans, nil
}

func (r *PostgresMaintenanceRepository) RecordExecution(ctx context.Context, planID int64, executedAt time.Time, nextDueAt *time.Time) error {
	query := `UPDATE maintenance_plans
               SET last_executed_at = $1, next_due_at = $2, updated_at = NOW()
               WHERE id = $3`
	var next sql.NullTime
	if nextDueAt != nil {
		next = sql.NullTime{Time: dateOnly(*nextDueAt), Valid: true}
	}
	res, err := r.db.ExecContext(ctx, query, dateOnly(executedAt), next, planID)
	if err != nil {
		return fmt.Errorf("error recording execution for plan %d: %w", planID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows for plan %d: %w", planID, err)
	}
	if affected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// --- Ticket Methods ---

func scanTickets(rows *sql.Rows) ([]*maintenance.Ticket, error) {
	tickets := make([]*maintenance.Ticket, 0)
	for rows.Next() {
		t := &maintenance.Ticket{}
		if err := rows.Scan(&t.ID, &t.EquipmentID, &t.OpenedAt, &t.ClosedAt, &t.Description); err != nil {
			return nil, fmt.Errorf("error scanning ticket row: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket rows: %w", err)
	}
	return tickets, nil
}

func (r *PostgresMaintenanceRepository) ListClosedTicketsByEquipment(ctx context.Context, equipmentID int64) ([]*maintenance.Ticket, error) {
	query := `SELECT id, equipment_id, opened_at, closed_at, description
               FROM maintenance_tickets
               WHERE equipment_id = $1 AND closed_at IS NOT NULL
               ORDER BY opened_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("error querying closed tickets for equipment %d: %w", equipmentID, err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *PostgresMaintenanceRepository) ListClosedTicketsForEquipment(ctx context.Context, equipmentIDs []int64) ([]*maintenance.Ticket, error) {
	if len(equipmentIDs) == 0 {
		return []*maintenance.Ticket{}, nil
	}
	query := `SELECT id, equipment_id, opened_at, closed_at, description
               FROM maintenance_tickets
               WHERE equipment_id = ANY($1::bigint[]) AND closed_at IS NOT NULL
               ORDER BY equipment_id ASC, opened_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(equipmentIDs))
	if err != nil {
		return nil, fmt.Errorf("error querying closed tickets for fleet: %w", err)
	}
	defer rows.Close()
	return scanTickets(rows)
}
