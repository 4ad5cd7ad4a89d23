package report

import (
	"math"
	"time"

	"github.com/greyamp/alignops/internal/funnel"
	"github.com/greyamp/alignops/internal/model"
)

// PerformanceSummary is the whole-funnel health snapshot shown on the
// dashboard landing view.
type PerformanceSummary struct {
	TotalCandidates int     `json:"total_candidates"`
	AvgCurrentWait  float64 `json:"avg_current_wait_days"`
	AvgPipelineDays float64 `json:"avg_pipeline_days"`
	StaffedCount    int     `json:"staffed_count"`
	ExitedCount     int     `json:"exited_count"`
	SuccessRate     float64 `json:"success_rate"`
	AttritionRate   float64 `json:"attrition_rate"`
}

// Summarize computes funnel-wide performance over a candidate set. Success is
// reaching the final normal stage of the pipeline; attrition is landing on
// any terminal stage. Rates are percentages of the total, rounded to one
// decimal.
func Summarize(stages []model.Stage, cands []model.CandidateRecord, now time.Time) PerformanceSummary {
	statuses := funnel.NewStatusMap(stages)
	finalStage := lastNormalStage(stages)

	s := PerformanceSummary{TotalCandidates: len(cands)}
	if len(cands) == 0 {
		return s
	}

	var waitSum, pipelineSum float64
	var waitN, pipelineN int
	for _, c := range cands {
		if !c.StatusChangedAt.IsZero() {
			waitSum += now.Sub(c.StatusChangedAt).Hours() / 24
			waitN++
		}
		if !c.CreatedAt.IsZero() {
			pipelineSum += now.Sub(c.CreatedAt).Hours() / 24
			pipelineN++
		}

		stage, ok := statuses.Resolve(c.Status)
		if !ok {
			continue
		}
		switch {
		case statuses.IsSpecial(stage):
			s.ExitedCount++
		case stage == finalStage:
			s.StaffedCount++
		}
	}

	if waitN > 0 {
		s.AvgCurrentWait = round1(waitSum / float64(waitN))
	}
	if pipelineN > 0 {
		s.AvgPipelineDays = round1(pipelineSum / float64(pipelineN))
	}
	s.SuccessRate = round1(float64(s.StaffedCount) / float64(len(cands)) * 100)
	s.AttritionRate = round1(float64(s.ExitedCount) / float64(len(cands)) * 100)
	return s
}

// lastNormalStage returns the name of the highest-order normal stage.
func lastNormalStage(stages []model.Stage) string {
	name := ""
	best := model.StageOrder(0)
	for _, s := range stages {
		if s.IsSpecial || s.Order.IsAny() {
			continue
		}
		if s.Order > best {
			best = s.Order
			name = s.Name
		}
	}
	return name
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
