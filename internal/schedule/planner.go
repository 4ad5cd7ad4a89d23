package schedule

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greyamp/alignops/internal/model"
	"github.com/greyamp/alignops/internal/store"
)

// Planner runs the reverse calculator against persisted plan roles and writes
// the generated stage plans back for later display.
type Planner struct {
	store store.Store

	// BufferPct inflates the target headcount before the backward walk.
	// Zero means plan to the bare target.
	BufferPct float64
}

// NewPlanner creates a planner over the given store.
func NewPlanner(st store.Store) *Planner {
	return &Planner{store: st}
}

// Generate computes and persists the stage plan for one plan role. A nil,
// nil return means the role's pipeline has no normal stages configured;
// nothing is persisted in that case.
func (p *Planner) Generate(ctx context.Context, planID, role string) ([]model.StageTarget, error) {
	pr, err := p.store.GetPlanRole(ctx, planID, role)
	if err != nil {
		return nil, err
	}
	if pr.TargetPositions <= 0 {
		return nil, model.NewValidation("target positions",
			"role %q of plan %q has no positions to fill", role, planID)
	}

	stages, err := p.store.ListStages(ctx, pr.PipelineID, false)
	if err != nil {
		return nil, eris.Wrapf(err, "schedule: load stages for pipeline %d", pr.PipelineID)
	}

	targets := TargetsWithBuffer(stages, pr.TargetPositions, pr.StaffedByDate, p.BufferPct)
	if targets == nil {
		zap.L().Warn("schedule: pipeline has no stages configured",
			zap.Int64("pipeline_id", pr.PipelineID),
			zap.String("plan_id", planID),
			zap.String("role", role),
		)
		return nil, nil
	}

	if err := p.store.SaveGeneratedPlan(ctx, planID, role, targets); err != nil {
		return nil, eris.Wrap(err, "schedule: save generated plan")
	}

	zap.L().Info("schedule: plan generated",
		zap.String("plan_id", planID),
		zap.String("role", role),
		zap.Int("stages", len(targets)),
		zap.Int("entering", targets[0].ProfilesInPipeline),
	)
	return targets, nil
}

// GenerateAll regenerates every role of a plan. Roles whose pipeline has no
// stages are skipped (already logged by Generate); the first hard error stops
// the run.
func (p *Planner) GenerateAll(ctx context.Context, planID string) (map[string][]model.StageTarget, error) {
	roles, err := p.store.ListPlanRoles(ctx, planID)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]model.StageTarget, len(roles))
	for _, r := range roles {
		targets, err := p.Generate(ctx, planID, r.Role)
		if err != nil {
			return nil, eris.Wrapf(err, "schedule: generate role %q", r.Role)
		}
		if targets != nil {
			out[r.Role] = targets
		}
	}
	return out, nil
}
