package maintenance

import (
	"database/sql"
	"testing"
	"time"

	"maintenance_alert_bot/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDueDate(t *testing.T) {
	anchor := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	executed := time.Date(2024, time.August, 31, 0, 0, 0, 0, time.UTC)
	override := time.Date(2024, time.December, 20, 0, 0, 0, 0, time.UTC)

	t.Run("anchor when never executed", func(t *testing.T) {
		p := &Plan{Periodicity: schedule.PeriodicityAnnual, AnchorDate: anchor, IsActive: true}
		due, ok := p.DueDate()
		require.True(t, ok)
		assert.Equal(t, anchor, due)
	})

	t.Run("projected from last execution", func(t *testing.T) {
		p := &Plan{
			Periodicity:    schedule.PeriodicitySemiannual,
			AnchorDate:     anchor,
			LastExecutedAt: sql.NullTime{Time: executed, Valid: true},
			IsActive:       true,
		}
		due, ok := p.DueDate()
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), due)
	})

	t.Run("explicit next due wins", func(t *testing.T) {
		p := &Plan{
			Periodicity:    schedule.PeriodicitySemiannual,
			LastExecutedAt: sql.NullTime{Time: executed, Valid: true},
			NextDueAt:      sql.NullTime{Time: override, Valid: true},
			IsActive:       true,
		}
		due, ok := p.DueDate()
		require.True(t, ok)
		assert.Equal(t, override, due)
	})

	t.Run("not applicable is never due", func(t *testing.T) {
		p := &Plan{Periodicity: schedule.PeriodicityNotApplicable, AnchorDate: anchor, IsActive: true}
		_, ok := p.DueDate()
		assert.False(t, ok)
	})

	t.Run("inactive is never due", func(t *testing.T) {
		p := &Plan{Periodicity: schedule.PeriodicityAnnual, AnchorDate: anchor}
		_, ok := p.DueDate()
		assert.False(t, ok)
	})
}

func TestPlanMarkExecuted(t *testing.T) {
	executed := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	p := &Plan{Periodicity: schedule.PeriodicityQuarterly, IsActive: true}
	p.MarkExecuted(executed)
	assert.Equal(t, executed, p.LastExecutedAt.Time)
	require.True(t, p.NextDueAt.Valid)
	assert.Equal(t, time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC), p.NextDueAt.Time)

	na := &Plan{Periodicity: schedule.PeriodicityNotApplicable, IsActive: true, NextDueAt: sql.NullTime{Time: executed, Valid: true}}
	na.MarkExecuted(executed)
	assert.True(t, na.LastExecutedAt.Valid)
	assert.False(t, na.NextDueAt.Valid)
}

func TestTicketInterval(t *testing.T) {
	opened := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	open := &Ticket{OpenedAt: opened}
	_, ok := open.Interval()
	assert.False(t, ok)

	closed := &Ticket{OpenedAt: opened, ClosedAt: sql.NullTime{Time: opened.Add(4 * time.Hour), Valid: true}}
	interval, ok := closed.Interval()
	require.True(t, ok)
	assert.InDelta(t, 4, interval.RepairHours(), 1e-9)
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Calibração", KindCalibration.Label())
	assert.Equal(t, "OTHER", Kind("OTHER").Label())
}
