// Package schedule implements reverse pipeline calculation: working backward
// from a target hire date and headcount through a multi-stage funnel to the
// candidate volume and deadline each stage must meet.
package schedule

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/greyamp/alignops/internal/model"
)

// Targets computes the per-stage required input volume and needed-by date
// for hitting headcount by targetDate through the given pipeline stages.
//
// Special stages and any-order stages are excluded from the chain. The walk
// runs from the last normal stage (closest to hire) back to the sourcing
// stage: what a stage must convert equals what the following stage needs as
// input, volumes are rounded up at every step so a forward simulation never
// under-provisions, and each stage's deadline is the following stage's
// deadline minus that following stage's own turnaround.
//
// Returns nil when the pipeline has no normal stages; the caller is expected
// to surface that as "nothing to compute", not as a zero-hire plan.
func Targets(stages []model.Stage, headcount int, targetDate model.Date) []model.StageTarget {
	chain := conversionChain(stages)
	if len(chain) == 0 {
		return nil
	}

	out := make([]model.StageTarget, len(chain))
	converted := headcount
	needed := targetDate

	for i := len(chain) - 1; i >= 0; i-- {
		st := chain[i]
		out[i] = model.StageTarget{
			StageName:          st.Name,
			ProfilesInPipeline: requiredInput(converted, st),
			ProfilesConverted:  converted,
			ConversionRate:     st.ConversionRate,
			TATDays:            st.TATDays,
			NeededByDate:       needed,
		}
		converted = out[i].ProfilesInPipeline
		needed = needed.AddDays(-st.TATDays)
	}

	return out
}

// TargetsWithBuffer applies a safety buffer (percent) to the final headcount
// before walking backward, so the plan overshoots the bare target.
func TargetsWithBuffer(stages []model.Stage, headcount int, targetDate model.Date, bufferPct float64) []model.StageTarget {
	if bufferPct > 0 {
		headcount = int(math.Ceil(float64(headcount) * (1 + bufferPct/100)))
	}
	return Targets(stages, headcount, targetDate)
}

// requiredInput computes how many candidates must enter a stage for converted
// of them to come out. A zero rate is treated as pass-through rather than an
// error to avoid dividing by zero, but it almost always means the stage is
// misconfigured, so it is logged.
func requiredInput(converted int, st model.Stage) int {
	if st.ConversionRate <= 0 {
		zap.L().Warn("schedule: zero conversion rate treated as pass-through",
			zap.String("stage", st.Name),
			zap.Int64("pipeline_id", st.PipelineID),
		)
		return converted
	}
	return int(math.Ceil(float64(converted) / (st.ConversionRate / 100)))
}

// conversionChain returns the normal stages in ascending pipeline order.
func conversionChain(stages []model.Stage) []model.Stage {
	chain := make([]model.Stage, 0, len(stages))
	for _, s := range stages {
		if s.IsSpecial || s.Order.IsAny() {
			continue
		}
		chain = append(chain, s)
	}
	sort.Slice(chain, func(i, j int) bool { return chain[i].Order < chain[j].Order })
	return chain
}

// Simulate runs the plan forward: entering candidates at the first stage and
// applying each stage's conversion rate in sequence, rounding down at every
// step. Ceiling rounding in Targets guarantees the result is at least the
// original headcount.
func Simulate(targets []model.StageTarget, entering int) int {
	n := entering
	for _, t := range targets {
		rate := t.ConversionRate
		if rate <= 0 {
			continue
		}
		n = int(math.Floor(float64(n) * rate / 100))
	}
	return n
}
