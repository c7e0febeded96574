// internal/domain/maintenance/plan.go
package maintenance

import (
	"database/sql"
	"time"

	"maintenance_alert_bot/internal/domain/schedule"
)

// Kind identifies which recurring task a plan schedules.
type Kind string

const (
	KindPreventive  Kind = "PREVENTIVE"
	KindCalibration Kind = "CALIBRATION"
	KindSafetyTest  Kind = "SAFETY_TEST"
)

// Label is the Portuguese name used in messages.
func (k Kind) Label() string {
	switch k {
	case KindPreventive:
		return "Manutenção preventiva"
	case KindCalibration:
		return "Calibração"
	case KindSafetyTest:
		return "Teste de segurança elétrica"
	default:
		return string(k)
	}
}

// Plan is a recurring task for one piece of equipment.
// Corresponds to the 'maintenance_plans' table.
type Plan struct {
	ID             int64
	EquipmentID    int64
	Kind           Kind
	Periodicity    schedule.Periodicity
	AnchorDate     time.Time    // used when the task was never executed
	LastExecutedAt sql.NullTime // date of the last execution
	NextDueAt      sql.NullTime // explicit override, otherwise projected
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DueDate returns when the plan is next due. ok is false for inactive plans and for
// NOT_APPLICABLE periodicity, which are never due.
func (p *Plan) DueDate() (due time.Time, ok bool) {
	if !p.IsActive || !p.Periodicity.IsApplicable() {
		return time.Time{}, false
	}
	if p.NextDueAt.Valid {
		return p.NextDueAt.Time, true
	}
	if p.LastExecutedAt.Valid {
		return schedule.ProjectNextDueDate(p.Periodicity, p.LastExecutedAt.Time), true
	}
	return p.AnchorDate, true
}

// MarkExecuted records an execution and moves the next due date forward.
func (p *Plan) MarkExecuted(executedAt time.Time) {
	p.LastExecutedAt = sql.NullTime{Time: executedAt, Valid: true}
	if !p.Periodicity.IsApplicable() {
		p.NextDueAt = sql.NullTime{}
		return
	}
	p.NextDueAt = sql.NullTime{Time: schedule.ProjectNextDueDate(p.Periodicity, executedAt), Valid: true}
}
