package alert

import (
	"fmt"
	"time"
)

// Recipient is whoever should hear about an event; resolution belongs to the caller.
type Recipient struct {
	ID         int64
	TelegramID int64
	Name       string
}

// Event is a single firing decision for one maintenance plan. It lives only for one sweep.
type Event struct {
	PlanID       int64
	EquipmentRef string
	TaskLabel    string
	DueDate      time.Time
	DaysOffset   int
	Overdue      bool
	Severity     Severity
	Recipients   []Recipient
}

// NewEvent builds an Event from a firing Decision.
func NewEvent(planID int64, equipmentRef, taskLabel string, dueDate time.Time, d Decision, recipients []Recipient) Event {
	return Event{
		PlanID:       planID,
		EquipmentRef: equipmentRef,
		TaskLabel:    taskLabel,
		DueDate:      dueDate,
		DaysOffset:   d.OffsetOrDaysPast,
		Overdue:      d.Overdue,
		Severity:     d.Severity,
		Recipients:   recipients,
	}
}

// Message renders the notification text sent to recipients.
func (e Event) Message() string {
	due := e.DueDate.Format("02/01/2006")
	switch {
	case e.Overdue:
		return fmt.Sprintf("🔴 %s do equipamento %s está VENCIDA há %d dias (vencimento em %s).", e.TaskLabel, e.EquipmentRef, e.DaysOffset, due)
	case e.DaysOffset == 0:
		return fmt.Sprintf("🔴 %s do equipamento %s vence HOJE (%s).", e.TaskLabel, e.EquipmentRef, due)
	case e.Severity == SeverityWarning:
		return fmt.Sprintf("🟡 %s do equipamento %s vence em %d dias (%s).", e.TaskLabel, e.EquipmentRef, e.DaysOffset, due)
	default:
		return fmt.Sprintf("🟢 %s do equipamento %s vence em %d dias (%s).", e.TaskLabel, e.EquipmentRef, e.DaysOffset, due)
	}
}
