package database

import (
	"context"
	"database/sql"
	"fmt"

	"maintenance_alert_bot/internal/domain/equipment"
)

// Custom errors
var ErrEquipmentNotFound = fmt.Errorf("equipment not found")

type PostgresEquipmentRepository struct {
	db *sql.DB
}

func NewPostgresEquipmentRepository(db *sql.DB) *PostgresEquipmentRepository {
	return &PostgresEquipmentRepository{db: db}
}

const equipmentColumns = `id, name, asset_tag, serial_number, location, is_active, created_at, updated_at`

func scanEquipment(row interface{ Scan(...any) error }) (*equipment.Equipment, error) {
	e := &equipment.Equipment{}
	err := row.Scan(&e.ID, &e.Name, &e.AssetTag, &e.SerialNumber, &e.Location, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *PostgresEquipmentRepository) GetByID(ctx context.Context, id int64) (*equipment.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`
	e, err := scanEquipment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("error getting equipment by ID: %w", err)
	}
	return e, nil
}

func (r *PostgresEquipmentRepository) ListActive(ctx context.Context) ([]*equipment.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE is_active = TRUE ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active equipment: %w", err)
	}
	defer rows.Close()

	list := make([]*equipment.Equipment, 0)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning equipment: %w", err)
		}
		list = append(list, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating equipment: %w", err)
	}
	return list, nil
}
