// internal/domain/alert/threshold.go
package alert

import "time"

// Severity is the three-tier status shown next to a due date.
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityWarning Severity = "warning"
	SeverityOverdue Severity = "overdue"
)

// UpcomingOffsets are the days before the due date on which an alert fires, 0 being the due date itself.
var UpcomingOffsets = []int{60, 30, 20, 15, 10, 5, 0}

// OverdueCadenceDays is how often an overdue item is re-announced.
const OverdueCadenceDays = 5

// WarningWindowDays is the largest days-until-due still classified as a warning.
const WarningWindowDays = 30

// Decision is the outcome of evaluating one due date on one day.
type Decision struct {
	Fires bool
	// OffsetOrDaysPast is days until due for upcoming items and days past due for overdue ones.
	OffsetOrDaysPast int
	Overdue          bool
	Severity         Severity
}

// Evaluate decides whether an alert for dueDate fires on today.
// The result depends only on the two calendar dates, so repeated runs on the same day agree.
func Evaluate(today, dueDate time.Time) Decision {
	daysUntil := DaysUntil(today, dueDate)
	d := Decision{Severity: Classify(daysUntil)}

	if daysUntil >= 0 {
		d.OffsetOrDaysPast = daysUntil
		for _, offset := range UpcomingOffsets {
			if daysUntil == offset {
				d.Fires = true
				break
			}
		}
		return d
	}

	daysPast := -daysUntil
	d.Overdue = true
	d.OffsetOrDaysPast = daysPast
	d.Fires = daysPast%OverdueCadenceDays == 0
	return d
}

// Classify maps days until due to a severity bucket.
func Classify(daysUntilDue int) Severity {
	switch {
	case daysUntilDue <= 0:
		return SeverityOverdue
	case daysUntilDue <= WarningWindowDays:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

// DaysUntil returns the whole calendar days from today to dueDate, negative once past due.
// Both values are reduced to their civil dates first, so the hour of the sweep and DST
// changes never shift the result. The count goes through Unix seconds because
// time.Duration saturates for dates more than about 292 years apart.
func DaysUntil(today, dueDate time.Time) int {
	return int((civilDate(dueDate).Unix() - civilDate(today).Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
