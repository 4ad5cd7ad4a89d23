package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/greyamp/alignops/internal/model"
)

func reportStages() []model.Stage {
	return []model.Stage{
		{Name: "Sourcing", Order: 1, ConversionRate: 50, TATDays: 5},
		{Name: "Screening", Order: 2, ConversionRate: 60, TATDays: 3},
		{Name: "Staffed", Order: 3, ConversionRate: 100, TATDays: 0},
		{Name: "Rejected", Order: model.OrderAny, IsSpecial: true},
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2025, 8, d, 0, 0, 0, 0, time.UTC) }

	cands := []model.CandidateRecord{
		{ID: "c1", Status: "Staffed", StatusChangedAt: day(22), CreatedAt: day(2)},
		{ID: "c2", Status: "Screening", StatusChangedAt: day(26), CreatedAt: day(12)},
		{ID: "c3", Status: "Rejected", StatusChangedAt: day(24), CreatedAt: day(22)},
		{ID: "c4", Status: "Mystery", StatusChangedAt: day(28), CreatedAt: day(28)},
	}

	s := Summarize(reportStages(), cands, now)
	assert.Equal(t, 4, s.TotalCandidates)
	assert.Equal(t, 1, s.StaffedCount)
	assert.Equal(t, 1, s.ExitedCount)
	assert.Equal(t, 25.0, s.SuccessRate)
	assert.Equal(t, 25.0, s.AttritionRate)
	// waits: 10, 6, 8, 4 days -> 7.0 average
	assert.Equal(t, 7.0, s.AvgCurrentWait)
	// pipeline: 30, 20, 10, 4 days -> 16.0 average
	assert.Equal(t, 16.0, s.AvgPipelineDays)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(reportStages(), nil, time.Now())
	assert.Equal(t, PerformanceSummary{}, s)
}

func TestLastNormalStage(t *testing.T) {
	assert.Equal(t, "Staffed", lastNormalStage(reportStages()))
	assert.Equal(t, "", lastNormalStage([]model.Stage{{Name: "Rejected", Order: model.OrderAny, IsSpecial: true}}))
}
