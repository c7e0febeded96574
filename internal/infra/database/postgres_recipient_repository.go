package database

import (
	"context"
	"database/sql"
	"fmt" // For error wrapping

	"maintenance_alert_bot/internal/domain/notification"
)

// Custom errors
var ErrRecipientNotFound = fmt.Errorf("alert recipient not found")
var ErrDuplicateTelegramID = fmt.Errorf("alert recipient with this Telegram ID already exists")

type PostgresRecipientRepository struct {
	db *sql.DB
}

func NewPostgresRecipientRepository(db *sql.DB) *PostgresRecipientRepository {
	return &PostgresRecipientRepository{db: db}
}

func (r *PostgresRecipientRepository) Create(ctx context.Context, rc *notification.Recipient) error {
	query := `INSERT INTO alert_recipients (telegram_id, first_name, last_name, is_active)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, rc.TelegramID, rc.FirstName, rc.LastName, rc.IsActive).Scan(&rc.ID, &rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTelegramID
		}
		return fmt.Errorf("error creating alert recipient: %w", err)
	}
	return nil
}

func (r *PostgresRecipientRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*notification.Recipient, error) {
	query := `SELECT id, telegram_id, first_name, last_name, is_active, created_at, updated_at
               FROM alert_recipients WHERE telegram_id = $1`
	rc := &notification.Recipient{}
	err := r.db.QueryRowContext(ctx, query, telegramID).Scan(&rc.ID, &rc.TelegramID, &rc.FirstName, &rc.LastName, &rc.IsActive, &rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("error getting alert recipient by Telegram ID: %w", err)
	}
	return rc, nil
}

func (r *PostgresRecipientRepository) Update(ctx context.Context, rc *notification.Recipient) error {
	query := `UPDATE alert_recipients
               SET first_name = $1, last_name = $2, is_active = $3, updated_at = NOW()
               WHERE id = $4
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, rc.FirstName, rc.LastName, rc.IsActive, rc.ID).Scan(&rc.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrRecipientNotFound
		}
		return fmt.Errorf("error updating alert recipient: %w", err)
	}
	return nil
}

func (r *PostgresRecipientRepository) ListActive(ctx context.Context) ([]*notification.Recipient, error) {
	return r.list(ctx, `SELECT id, telegram_id, first_name, last_name, is_active, created_at, updated_at
               FROM alert_recipients WHERE is_active = TRUE ORDER BY first_name, last_name`)
}

func (r *PostgresRecipientRepository) ListAll(ctx context.Context) ([]*notification.Recipient, error) {
	return r.list(ctx, `SELECT id, telegram_id, first_name, last_name, is_active, created_at, updated_at
               FROM alert_recipients ORDER BY id`)
}

func (r *PostgresRecipientRepository) list(ctx context.Context, query string) ([]*notification.Recipient, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing alert recipients: %w", err)
	}
	defer rows.Close()

	recipients := make([]*notification.Recipient, 0)
	for rows.Next() {
		rc := &notification.Recipient{}
		if err := rows.Scan(&rc.ID, &rc.TelegramID, &rc.FirstName, &rc.LastName, &rc.IsActive, &rc.CreatedAt, &rc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning alert recipient: %w", err)
		}
		recipients = append(recipients, rc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alert recipients: %w", err)
	}
	return recipients, nil
}
