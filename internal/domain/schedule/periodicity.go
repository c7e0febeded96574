// internal/domain/schedule/periodicity.go
package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Periodicity is the configured recurrence of a maintenance, calibration or safety-test task.
type Periodicity string

const (
	PeriodicityQuarterly     Periodicity = "QUARTERLY"
	PeriodicitySemiannual    Periodicity = "SEMIANNUAL"
	PeriodicityAnnual        Periodicity = "ANNUAL"
	PeriodicityBiennial      Periodicity = "BIENNIAL"
	PeriodicityQuinquennial  Periodicity = "QUINQUENNIAL"
	PeriodicityNotApplicable Periodicity = "NOT_APPLICABLE" // never due
)

var periodicityMonths = map[Periodicity]int{
	PeriodicityQuarterly:     3,
	PeriodicitySemiannual:    6,
	PeriodicityAnnual:        12,
	PeriodicityBiennial:      24,
	PeriodicityQuinquennial:  60,
	PeriodicityNotApplicable: 0,
}

// ErrUnknownPeriodicity is returned when text read from storage or a command is not a known periodicity.
var ErrUnknownPeriodicity = fmt.Errorf("unknown periodicity")

// Months returns the number of calendar months between two executions.
func (p Periodicity) Months() int {
	return periodicityMonths[p]
}

func (p Periodicity) Valid() bool {
	_, ok := periodicityMonths[p]
	return ok
}

// IsApplicable reports whether the periodicity ever produces a due date.
func (p Periodicity) IsApplicable() bool {
	return p.Valid() && p != PeriodicityNotApplicable
}

// ParsePeriodicity converts stored text into a Periodicity.
func ParsePeriodicity(s string) (Periodicity, error) {
	p := Periodicity(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriodicity, s)
	}
	return p, nil
}

// ProjectNextDueDate advances base by the periodicity using calendar months.
// The day of month is kept when it exists in the target month and clamped to the
// month's last day otherwise (Aug 31 + 6 months is Feb 28, or Feb 29 in leap years).
// NOT_APPLICABLE returns base unchanged; callers treat it as "never due".
func ProjectNextDueDate(p Periodicity, base time.Time) time.Time {
	return AddMonths(base, p.Months())
}

// AddMonths adds months to t with end-of-month clamping, keeping time of day and location.
func AddMonths(t time.Time, months int) time.Time {
	if months == 0 {
		return t
	}
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	// Day 1 never overflows, so normalization only carries months into years.
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(firstOfTarget.Year(), firstOfTarget.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
