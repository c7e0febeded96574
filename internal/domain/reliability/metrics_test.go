package reliability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour int) time.Time {
	return time.Date(2025, time.January, day, hour, 0, 0, 0, time.UTC)
}

func TestComputeAsset_Empty(t *testing.T) {
	m := ComputeAsset(nil)
	assert.Nil(t, m.MTTRHours)
	assert.Nil(t, m.MTBFHours)
	assert.Equal(t, 0, m.SampleCount)
	assert.Equal(t, 0, m.Anomalies)
}

func TestComputeAsset_SingleTicketHasNoMTBF(t *testing.T) {
	m := ComputeAsset([]Interval{{OpenedAt: at(1, 0), ClosedAt: at(1, 6)}})
	require.NotNil(t, m.MTTRHours)
	assert.InDelta(t, 6, *m.MTTRHours, 1e-9)
	assert.Nil(t, m.MTBFHours)
	assert.Equal(t, 1, m.SampleCount)
}

func TestComputeAsset_InstantRepairIsZeroNotNil(t *testing.T) {
	m := ComputeAsset([]Interval{{OpenedAt: at(1, 3), ClosedAt: at(1, 3)}})
	require.NotNil(t, m.MTTRHours)
	assert.Equal(t, 0.0, *m.MTTRHours)
}

func TestComputeAsset_WorkedExample(t *testing.T) {
	m := ComputeAsset([]Interval{
		{OpenedAt: at(1, 0), ClosedAt: at(1, 4)},
		{OpenedAt: at(3, 0), ClosedAt: at(3, 2)},
	})

	require.NotNil(t, m.MTTRHours)
	require.NotNil(t, m.MTBFHours)
	assert.InDelta(t, 3, *m.MTTRHours, 1e-9)
	assert.InDelta(t, 44, *m.MTBFHours, 1e-9)
	assert.Equal(t, 2, m.SampleCount)
	assert.Equal(t, 0, m.Anomalies)
}

func TestComputeAsset_OverlappingTicketExcludedFromMTBF(t *testing.T) {
	m := ComputeAsset([]Interval{
		{OpenedAt: at(1, 0), ClosedAt: at(1, 4)},
		{OpenedAt: at(3, 0), ClosedAt: at(3, 2)},
		// opened before the previous ticket was closed
		{OpenedAt: at(3, 1), ClosedAt: at(3, 3)},
	})

	require.NotNil(t, m.MTBFHours)
	assert.InDelta(t, 44, *m.MTBFHours, 1e-9)
	require.NotNil(t, m.MTTRHours)
	assert.InDelta(t, 8.0/3.0, *m.MTTRHours, 1e-9)
	assert.Equal(t, 3, m.SampleCount)
	assert.Equal(t, 1, m.Anomalies)
}

func TestComputeAsset_ClosedBeforeOpenedExcludedFromMTTR(t *testing.T) {
	m := ComputeAsset([]Interval{
		{OpenedAt: at(1, 0), ClosedAt: at(1, 4)},
		{OpenedAt: at(5, 10), ClosedAt: at(5, 8)},
	})

	require.NotNil(t, m.MTTRHours)
	assert.InDelta(t, 4, *m.MTTRHours, 1e-9)
	require.NotNil(t, m.MTBFHours)
	assert.InDelta(t, 4*24+6, *m.MTBFHours, 1e-9)
	assert.Equal(t, 2, m.SampleCount)
	assert.Equal(t, 1, m.Anomalies)
}

func TestComputeAsset_GapAfterClosedBeforeOpenedIsDropped(t *testing.T) {
	m := ComputeAsset([]Interval{
		{OpenedAt: at(1, 0), ClosedAt: at(1, 4)},
		// close time typed as the 2nd instead of the 6th
		{OpenedAt: at(5, 10), ClosedAt: at(2, 0)},
		{OpenedAt: at(20, 0), ClosedAt: at(20, 2)},
	})

	require.NotNil(t, m.MTBFHours)
	assert.InDelta(t, 4*24+6, *m.MTBFHours, 1e-9)
	require.NotNil(t, m.MTTRHours)
	assert.InDelta(t, 3, *m.MTTRHours, 1e-9)
	assert.Equal(t, 3, m.SampleCount)
	assert.Equal(t, 1, m.Anomalies)
}

func TestComputeFleet_PooledMeans(t *testing.T) {
	byAsset := map[string][]Interval{
		"infusion-pump": {
			{OpenedAt: at(1, 0), ClosedAt: at(1, 4)},
			{OpenedAt: at(3, 0), ClosedAt: at(3, 2)},
			{OpenedAt: at(4, 0), ClosedAt: at(4, 6)},
		},
		"ventilator": {
			{OpenedAt: at(1, 0), ClosedAt: at(1, 12)},
		},
	}

	m := ComputeFleet(byAsset)

	// Repairs 4, 2, 6, 12 pooled: 24/4. A mean of per-asset means would give 8.
	require.NotNil(t, m.MTTRHours)
	assert.InDelta(t, 6, *m.MTTRHours, 1e-9)
	// Gaps only inside the pump: 44 and 22.
	require.NotNil(t, m.MTBFHours)
	assert.InDelta(t, 33, *m.MTBFHours, 1e-9)
	assert.Equal(t, 4, m.SampleCount)
}

func TestComputeFleet_NoGapsAcrossAssets(t *testing.T) {
	m := ComputeFleet(map[string][]Interval{
		"a": {{OpenedAt: at(1, 0), ClosedAt: at(1, 1)}},
		"b": {{OpenedAt: at(9, 0), ClosedAt: at(9, 1)}},
	})
	assert.Nil(t, m.MTBFHours)
	require.NotNil(t, m.MTTRHours)
	assert.InDelta(t, 1, *m.MTTRHours, 1e-9)
	assert.Equal(t, 2, m.SampleCount)
}

func TestComputeFleet_Empty(t *testing.T) {
	m := ComputeFleet(nil)
	assert.Nil(t, m.MTTRHours)
	assert.Nil(t, m.MTBFHours)
	assert.Equal(t, 0, m.SampleCount)
}

func TestComputeFleet_Deterministic(t *testing.T) {
	byAsset := map[string][]Interval{
		"a": {{OpenedAt: at(1, 0), ClosedAt: at(1, 1)}, {OpenedAt: at(2, 0), ClosedAt: at(2, 3)}},
		"b": {{OpenedAt: at(1, 0), ClosedAt: at(1, 7)}, {OpenedAt: at(6, 0), ClosedAt: at(6, 5)}},
		"c": {{OpenedAt: at(1, 0), ClosedAt: at(1, 2)}},
	}
	first := ComputeFleet(byAsset)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ComputeFleet(byAsset))
	}
}
