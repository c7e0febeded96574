package database

import (
	"context"
	"database/sql"
	"fmt"

	"maintenance_alert_bot/internal/domain/notification"
)

var ErrDuplicateDispatch = fmt.Errorf("alert already dispatched (plan_id, recipient_id, due_date, days_offset, overdue)")

type PostgresDispatchRepository struct {
	db *sql.DB
}

func NewPostgresDispatchRepository(db *sql.DB) *PostgresDispatchRepository {
	return &PostgresDispatchRepository{db: db}
}

func (r *PostgresDispatchRepository) HasDispatch(ctx context.Context, key notification.Key) (bool, error) {
	query := `SELECT EXISTS (
                 SELECT 1 FROM alert_dispatches
                 WHERE plan_id = $1 AND recipient_id = $2 AND due_date = $3 AND days_offset = $4 AND overdue = $5
               )`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, key.PlanID, key.RecipientID, dateOnly(key.DueDate), key.DaysOffset, key.Overdue).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking alert dispatch: %w", err)
	}
	return exists, nil
}

// CreateDispatch returns ErrDuplicateDispatch when another sweep recorded the same delivery first.
func (r *PostgresDispatchRepository) CreateDispatch(ctx context.Context, d *notification.Dispatch) error {
	query := `INSERT INTO alert_dispatches (plan_id, recipient_id, due_date, days_offset, overdue, sent_at)
               VALUES ($1, $2, $3, $4, $5, $6)
               ON CONFLICT ON CONSTRAINT alert_dispatch_unique DO NOTHING
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query, d.PlanID, d.RecipientID, dateOnly(d.DueDate), d.DaysOffset, d.Overdue, d.SentAt).Scan(&d.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrDuplicateDispatch
		}
		return fmt.Errorf("error creating alert dispatch: %w", err)
	}
	return nil
}
