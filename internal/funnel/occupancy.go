package funnel

import (
	"go.uber.org/zap"

	"github.com/greyamp/alignops/internal/model"
)

// Query identifies the plan role being counted. Client, plan and role arrive
// from free-text entry, so the aggregator relaxes them tier by tier rather
// than failing on a missed join.
type Query struct {
	Client    string
	Plan      string // staffing plan name
	Role      string
	PlanOwner string // owner of the staffing plan, for the owner tier
}

// Aggregator counts candidates against one pipeline's stage definitions.
// It is a pure function of its inputs; all candidate data is passed in.
type Aggregator struct {
	statuses *StatusMap
}

// NewAggregator builds an aggregator for a pipeline's full stage list.
func NewAggregator(stages []model.Stage) *Aggregator {
	return &Aggregator{statuses: NewStatusMap(stages)}
}

// StatusMap exposes the underlying status resolution table.
func (a *Aggregator) StatusMap() *StatusMap { return a.statuses }

// CountAtStage counts candidates whose current effective stage is the target
// stage — or, in cumulative mode, the target stage or any later one, since a
// candidate past a stage has satisfied that stage's requirement.
//
// A non-nil override short-circuits everything: the operator's number wins
// and no breakdown is reported.
func (a *Aggregator) CountAtStage(cands []model.CandidateRecord, q Query, targetStage string, cumulative bool, override *int) model.StageOccupancy {
	if override != nil {
		return model.StageOccupancy{
			StageName:   targetStage,
			ActualCount: *override,
			MatchLevel:  model.MatchManual,
		}
	}

	if !a.statuses.Known(targetStage) {
		zap.L().Warn("funnel: target stage not in pipeline",
			zap.String("stage", targetStage),
			zap.String("client", q.Client),
		)
		return model.StageOccupancy{StageName: targetStage, MatchLevel: model.MatchNone}
	}

	wanted := a.wantedStages(targetStage, cumulative)
	count, level, breakdown := a.tieredCount(cands, q, func(c model.CandidateRecord) bool {
		stage, ok := a.statuses.Resolve(c.Status)
		return ok && !a.statuses.IsSpecial(stage) && wanted[stage]
	})

	return model.StageOccupancy{
		StageName:   targetStage,
		ActualCount: count,
		MatchLevel:  level,
		Breakdown:   breakdown,
	}
}

// wantedStages returns the set of stage names counting toward the target.
func (a *Aggregator) wantedStages(targetStage string, cumulative bool) map[string]bool {
	wanted := map[string]bool{targetStage: true}
	if !cumulative {
		return wanted
	}
	targetOrder, _ := a.statuses.Order(targetStage)
	for stage, order := range a.statuses.order {
		if !a.statuses.special[stage] && !order.IsAny() && order >= targetOrder {
			wanted[stage] = true
		}
	}
	return wanted
}

// tieredCount applies the multi-level matching strategy: exact
// (client+plan+role), then plan owner (client+owner+role), then client+role.
// The first tier with a non-zero count wins; a zero at the loosest tier is a
// defined miss (MatchNone), distinct from a true zero-candidate count.
func (a *Aggregator) tieredCount(cands []model.CandidateRecord, q Query, include func(model.CandidateRecord) bool) (int, model.MatchLevel, map[string]int) {
	type tier struct {
		level model.MatchLevel
		match func(model.CandidateRecord) bool
	}
	tiers := []tier{
		{model.MatchExact, func(c model.CandidateRecord) bool {
			return c.Client == q.Client && c.Plan == q.Plan && c.Role == q.Role
		}},
		{model.MatchOwner, func(c model.CandidateRecord) bool {
			return q.PlanOwner != "" && c.Client == q.Client && c.Owner == q.PlanOwner && c.Role == q.Role
		}},
		{model.MatchClientRole, func(c model.CandidateRecord) bool {
			return c.Client == q.Client && c.Role == q.Role
		}},
	}

	for _, t := range tiers {
		count := 0
		breakdown := make(map[string]int)
		for _, c := range cands {
			if !t.match(c) || !include(c) {
				continue
			}
			count++
			breakdown[c.Status]++
		}
		if count > 0 {
			return count, t.level, breakdown
		}
	}

	return 0, model.MatchNone, nil
}
