// internal/domain/notification/dispatch.go
package notification

import "time"

// Dispatch records that one alert was delivered to one recipient.
// Corresponds to the 'alert_dispatches' table; (plan_id, recipient_id, due_date,
// days_offset, overdue) is unique, which keeps a re-run sweep from sending twice.
type Dispatch struct {
	ID          int64
	PlanID      int64
	RecipientID int64
	DueDate     time.Time // date part only
	DaysOffset  int
	Overdue     bool
	SentAt      time.Time
}

// Key identifies a dispatch for deduplication.
type Key struct {
	PlanID      int64
	RecipientID int64
	DueDate     time.Time
	DaysOffset  int
	Overdue     bool
}

func (d *Dispatch) Key() Key {
	return Key{PlanID: d.PlanID, RecipientID: d.RecipientID, DueDate: d.DueDate, DaysOffset: d.DaysOffset, Overdue: d.Overdue}
}
