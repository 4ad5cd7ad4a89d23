package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greyamp/alignops/internal/model"
)

func engHiring() []model.Stage {
	return []model.Stage{
		{Name: "Sourcing", Order: 1, ConversionRate: 50, TATDays: 5},
		{Name: "Screening", Order: 2, ConversionRate: 60, TATDays: 3},
		{Name: "Offer", Order: 3, ConversionRate: 80, TATDays: 2},
		{Name: "Rejected", Order: model.OrderAny, IsSpecial: true},
	}
}

func date(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTargetsWorkedExample(t *testing.T) {
	targets := Targets(engHiring(), 4, date("2025-09-01"))
	require.Len(t, targets, 3)

	want := []model.StageTarget{
		{StageName: "Sourcing", ProfilesInPipeline: 18, ProfilesConverted: 9, ConversionRate: 50, TATDays: 5, NeededByDate: date("2025-08-27")},
		{StageName: "Screening", ProfilesInPipeline: 9, ProfilesConverted: 5, ConversionRate: 60, TATDays: 3, NeededByDate: date("2025-08-30")},
		{StageName: "Offer", ProfilesInPipeline: 5, ProfilesConverted: 4, ConversionRate: 80, TATDays: 2, NeededByDate: date("2025-09-01")},
	}
	assert.Equal(t, want, targets)
}

func TestTargetsChainInvariant(t *testing.T) {
	headcounts := []int{1, 4, 7, 100}
	for _, hc := range headcounts {
		targets := Targets(engHiring(), hc, date("2025-09-01"))
		require.NotEmpty(t, targets)

		last := targets[len(targets)-1]
		assert.Equal(t, hc, last.ProfilesConverted)
		for i := 0; i < len(targets)-1; i++ {
			assert.Equal(t, targets[i+1].ProfilesInPipeline, targets[i].ProfilesConverted,
				"stage %d output must feed stage %d input", i, i+1)
		}
	}
}

func TestTargetsMonotonicDates(t *testing.T) {
	target := date("2025-09-01")
	targets := Targets(engHiring(), 4, target)

	for i := 0; i < len(targets)-1; i++ {
		assert.False(t, targets[i+1].NeededByDate.Before(targets[i].NeededByDate.Time),
			"needed-by dates must not decrease along the pipeline")
	}
	last := targets[len(targets)-1]
	assert.False(t, target.Before(last.NeededByDate.Time))
}

func TestTargetsForwardSimulationNeverUnderProvisions(t *testing.T) {
	for hc := 1; hc <= 50; hc++ {
		targets := Targets(engHiring(), hc, date("2025-09-01"))
		got := Simulate(targets, targets[0].ProfilesInPipeline)
		assert.GreaterOrEqual(t, got, hc, "headcount %d", hc)
	}
}

func TestTargetsIdempotent(t *testing.T) {
	a := Targets(engHiring(), 4, date("2025-09-01"))
	b := Targets(engHiring(), 4, date("2025-09-01"))
	assert.Equal(t, a, b)
}

func TestTargetsExcludesSpecialStages(t *testing.T) {
	targets := Targets(engHiring(), 4, date("2025-09-01"))
	for _, tg := range targets {
		assert.NotEqual(t, "Rejected", tg.StageName)
	}

	// A special stage with a positive order is still excluded.
	stages := append(engHiring(), model.Stage{Name: "On Hold", Order: 9, IsSpecial: true})
	targets = Targets(stages, 4, date("2025-09-01"))
	assert.Len(t, targets, 3)
}

func TestTargetsUnsortedInput(t *testing.T) {
	stages := []model.Stage{
		{Name: "Offer", Order: 3, ConversionRate: 80, TATDays: 2},
		{Name: "Sourcing", Order: 1, ConversionRate: 50, TATDays: 5},
		{Name: "Screening", Order: 2, ConversionRate: 60, TATDays: 3},
	}
	targets := Targets(stages, 4, date("2025-09-01"))
	require.Len(t, targets, 3)
	assert.Equal(t, "Sourcing", targets[0].StageName)
	assert.Equal(t, "Offer", targets[2].StageName)
}

func TestTargetsNoStages(t *testing.T) {
	assert.Nil(t, Targets(nil, 4, date("2025-09-01")))

	onlySpecial := []model.Stage{{Name: "Rejected", Order: model.OrderAny, IsSpecial: true}}
	assert.Nil(t, Targets(onlySpecial, 4, date("2025-09-01")))
}

func TestTargetsZeroRatePassThrough(t *testing.T) {
	stages := []model.Stage{
		{Name: "Sourcing", Order: 1, ConversionRate: 0, TATDays: 5},
		{Name: "Offer", Order: 2, ConversionRate: 50, TATDays: 2},
	}
	targets := Targets(stages, 4, date("2025-09-01"))
	require.Len(t, targets, 2)

	// Offer needs 8 in for 4 out; the zero-rate stage passes 8 through.
	assert.Equal(t, 8, targets[1].ProfilesInPipeline)
	assert.Equal(t, 8, targets[0].ProfilesConverted)
	assert.Equal(t, 8, targets[0].ProfilesInPipeline)
}

func TestTargetsSingleStage(t *testing.T) {
	stages := []model.Stage{{Name: "Direct Offer", Order: 1, ConversionRate: 25, TATDays: 7}}
	targets := Targets(stages, 3, date("2025-09-01"))
	require.Len(t, targets, 1)
	assert.Equal(t, 12, targets[0].ProfilesInPipeline)
	assert.Equal(t, 3, targets[0].ProfilesConverted)
	assert.Equal(t, date("2025-09-01"), targets[0].NeededByDate)
}

func TestTargetsWithBuffer(t *testing.T) {
	plain := Targets(engHiring(), 4, date("2025-09-01"))
	buffered := TargetsWithBuffer(engHiring(), 4, date("2025-09-01"), 25)

	// 25% buffer on 4 hires plans for 5.
	assert.Equal(t, 5, buffered[len(buffered)-1].ProfilesConverted)
	assert.Greater(t, buffered[0].ProfilesInPipeline, plain[0].ProfilesInPipeline)

	// Zero buffer is the identity.
	assert.Equal(t, plain, TargetsWithBuffer(engHiring(), 4, date("2025-09-01"), 0))
}

func TestTargetsRateBounds(t *testing.T) {
	stages := []model.Stage{{Name: "Formality", Order: 1, ConversionRate: 100, TATDays: 1}}
	targets := Targets(stages, 6, date("2025-09-01"))
	require.Len(t, targets, 1)
	assert.Equal(t, 6, targets[0].ProfilesInPipeline)
}
