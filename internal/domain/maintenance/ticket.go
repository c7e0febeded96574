package maintenance

import (
	"database/sql"
	"time"

	"maintenance_alert_bot/internal/domain/reliability"
)

// Ticket is a corrective-maintenance order (chamado) for one piece of equipment.
// Corresponds to the 'maintenance_tickets' table.
type Ticket struct {
	ID          int64
	EquipmentID int64
	OpenedAt    time.Time
	ClosedAt    sql.NullTime // NULL while the equipment is still under repair
	Description string
}

// Interval converts a closed ticket into a repair interval.
func (t *Ticket) Interval() (reliability.Interval, bool) {
	if !t.ClosedAt.Valid {
		return reliability.Interval{}, false
	}
	return reliability.Interval{OpenedAt: t.OpenedAt, ClosedAt: t.ClosedAt.Time}, true
}
