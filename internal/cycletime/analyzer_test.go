package cycletime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greyamp/alignops/internal/model"
)

func testStages() []model.Stage {
	return []model.Stage{
		{Name: "Sourcing", Order: 1, ConversionRate: 50, TATDays: 5},
		{Name: "Screening", Order: 2, ConversionRate: 60, TATDays: 3},
		{Name: "Offer", Order: 3, ConversionRate: 80, TATDays: 2},
		{Name: "Rejected", Order: model.OrderAny, IsSpecial: true},
	}
}

func ts(day int) time.Time {
	return time.Date(2025, 8, day, 12, 0, 0, 0, time.UTC)
}

func change(id, status string, day int) model.StatusChange {
	return model.StatusChange{CandidateID: id, New: status, ChangedAt: ts(day)}
}

func TestTransitions(t *testing.T) {
	a := New(testStages())

	history := []model.StatusChange{
		// c1: Sourcing day 1 -> Screening day 4 (3d) -> Offer day 9 (5d)
		change("c1", "Sourcing", 1),
		change("c1", "Screening", 4),
		change("c1", "Offer", 9),
		// c2: Sourcing day 2 -> Screening day 9 (7d), folded status
		change("c2", "Sourcing", 2),
		change("c2", "screening", 9),
	}

	stats := a.Transitions(history)
	require.Len(t, stats, 1, "single-sample pairs are excluded")

	st := stats[0]
	assert.Equal(t, "Sourcing", st.From)
	assert.Equal(t, "Screening", st.To)
	assert.Equal(t, 2, st.Count)
	assert.InDelta(t, 5.0, st.MeanDays, 1e-9)
	assert.InDelta(t, 5.0, st.MedianDays, 1e-9)
}

func TestTransitionsOrdersOutOfOrderHistory(t *testing.T) {
	a := New(testStages())

	// Rows arrive shuffled; the analyzer sorts per candidate.
	history := []model.StatusChange{
		change("c1", "Screening", 5),
		change("c1", "Sourcing", 1),
		change("c2", "Screening", 10),
		change("c2", "Sourcing", 4),
	}

	stats := a.Transitions(history)
	require.Len(t, stats, 1)
	assert.InDelta(t, 5.0, stats[0].MeanDays, 1e-9)
	assert.Equal(t, 2, stats[0].Count)
}

func TestTransitionsIgnoresUnknownAndSelf(t *testing.T) {
	a := New(testStages())

	history := []model.StatusChange{
		change("c1", "Sourcing", 1),
		change("c1", "Mystery", 3),   // unknown status
		change("c1", "Sourcing", 5),  // back to the same stage later
		change("c1", "Sourcing", 6),  // self transition
		change("c2", "Sourcing", 1),
		change("c2", "Mystery", 3),
	}

	assert.Empty(t, a.Transitions(history))
}

func TestTransitionsMedianEvenSample(t *testing.T) {
	a := New(testStages())

	history := []model.StatusChange{
		change("c1", "Sourcing", 1), change("c1", "Screening", 2), // 1d
		change("c2", "Sourcing", 1), change("c2", "Screening", 4), // 3d
		change("c3", "Sourcing", 1), change("c3", "Screening", 6), // 5d
		change("c4", "Sourcing", 1), change("c4", "Screening", 12), // 11d
	}

	stats := a.Transitions(history)
	require.Len(t, stats, 1)
	assert.InDelta(t, 5.0, stats[0].MeanDays, 1e-9)
	assert.InDelta(t, 4.0, stats[0].MedianDays, 1e-9)
}

func TestWaitTimes(t *testing.T) {
	a := New(testStages())
	now := ts(20)

	cands := []model.CandidateRecord{
		{ID: "c1", Name: "Asha", Status: "Screening", StatusChangedAt: ts(8)},
		{ID: "c2", Name: "Ben", Status: "Rejected", StatusChangedAt: ts(5)},  // terminal
		{ID: "c3", Name: "Cy", Status: "Mystery", StatusChangedAt: ts(5)},    // unknown
		{ID: "c4", Name: "Dee", Status: "Offer"},                             // no timestamp
	}

	waits := a.WaitTimes(cands, now)
	require.Len(t, waits, 1)
	assert.Equal(t, "c1", waits[0].CandidateID)
	assert.Equal(t, "Screening", waits[0].Stage)
	assert.InDelta(t, 12.0, waits[0].WaitDays, 1e-9)
}

func TestBottlenecks(t *testing.T) {
	a := New(testStages())

	waits := []CandidateWait{
		{CandidateID: "c1", Stage: "Screening", WaitDays: 14},
		{CandidateID: "c2", Stage: "Screening", WaitDays: 10},
		{CandidateID: "c3", Stage: "Sourcing", WaitDays: 3},
		{CandidateID: "c4", Stage: "Offer", WaitDays: 5},
	}

	ranked := a.Bottlenecks(waits)
	require.Len(t, ranked, 3)

	assert.Equal(t, "Screening", ranked[0].Stage)
	assert.Equal(t, 2, ranked[0].Candidates)
	assert.InDelta(t, 12.0, ranked[0].AvgWaitDays, 1e-9)
	assert.InDelta(t, 14.0, ranked[0].MaxWaitDays, 1e-9)
	assert.True(t, ranked[0].Critical)

	assert.Equal(t, "Offer", ranked[1].Stage)
	assert.False(t, ranked[1].Critical)
	assert.Equal(t, "Sourcing", ranked[2].Stage)
}
