// internal/domain/reliability/metrics.go
package reliability

import (
	"maps"
	"slices"
	"time"
)

// Interval is one corrective-maintenance lifecycle of one asset.
type Interval struct {
	OpenedAt time.Time
	ClosedAt time.Time
}

// RepairHours is the time the asset spent under repair.
func (i Interval) RepairHours() float64 {
	return i.ClosedAt.Sub(i.OpenedAt).Hours()
}

// Metrics holds MTTR and MTBF in hours. A nil metric means there was not enough data,
// which is different from a zero value.
type Metrics struct {
	MTTRHours   *float64
	MTBFHours   *float64
	SampleCount int
	// Anomalies counts records left out of an average: tickets closed before they were
	// opened and non-positive gaps between consecutive tickets.
	Anomalies int
}

type accumulator struct {
	repairs   []float64
	gaps      []float64
	samples   int
	anomalies int
}

// addAsset folds one asset's tickets, ordered by OpenedAt, into the accumulator.
func (a *accumulator) addAsset(intervals []Interval) {
	a.samples += len(intervals)
	for i, interval := range intervals {
		if interval.ClosedAt.Before(interval.OpenedAt) {
			a.anomalies++
		} else {
			a.repairs = append(a.repairs, interval.RepairHours())
		}

		// A ticket closed before it opened has no usable close time, so the gap after it is dropped too.
		// It is already counted once above.
		if i == 0 || intervals[i-1].ClosedAt.Before(intervals[i-1].OpenedAt) {
			continue
		}
		gap := interval.OpenedAt.Sub(intervals[i-1].ClosedAt).Hours()
		if gap <= 0 {
			a.anomalies++
			continue
		}
		a.gaps = append(a.gaps, gap)
	}
}

func (a *accumulator) metrics() Metrics {
	return Metrics{
		MTTRHours:   mean(a.repairs),
		MTBFHours:   mean(a.gaps),
		SampleCount: a.samples,
		Anomalies:   a.anomalies,
	}
}

// ComputeAsset returns MTTR and MTBF for one asset's tickets ordered by OpenedAt.
// MTBF needs at least one positive gap between consecutive tickets.
func ComputeAsset(intervals []Interval) Metrics {
	var acc accumulator
	acc.addAsset(intervals)
	return acc.metrics()
}

// ComputeFleet pools every asset's tickets. Repair times and per-asset gaps are flattened
// into single populations before averaging, so assets with more tickets weigh more.
func ComputeFleet(byAsset map[string][]Interval) Metrics {
	var acc accumulator
	// Sorted keys keep the floating-point summation order stable between calls.
	for _, asset := range slices.Sorted(maps.Keys(byAsset)) {
		acc.addAsset(byAsset[asset])
	}
	return acc.metrics()
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}
