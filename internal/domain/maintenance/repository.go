// internal/domain/maintenance/repository.go
package maintenance

import (
	"context"
	"time"
)

// Repository defines operations for maintenance plans and corrective tickets.
type Repository interface {
	// Plan methods
	GetPlanByID(ctx context.Context, id int64) (*Plan, error)
	ListActivePlans(ctx context.Context) ([]*Plan, error)
	// RecordExecution stores the execution date and the projected next due date (NULL when never due).
	RecordExecution(ctx context.Context, planID int64, executedAt time.Time, nextDueAt *time.Time) error

	// Ticket methods, ordered by opened_at so consecutive gaps can be computed
	ListClosedTicketsByEquipment(ctx context.Context, equipmentID int64) ([]*Ticket, error)
	// ListClosedTicketsForEquipment returns tickets of all listed equipment ordered by equipment_id, opened_at.
	ListClosedTicketsForEquipment(ctx context.Context, equipmentIDs []int64) ([]*Ticket, error)
}
