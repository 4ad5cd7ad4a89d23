package report

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/greyamp/alignops/internal/funnel"
	"github.com/greyamp/alignops/internal/model"
	"github.com/greyamp/alignops/internal/store"
)

// StageRow is one stage of a role report: the planned volume, the live
// occupancy against it, and the resulting health grade.
type StageRow struct {
	Target model.StageTarget    `json:"target"`
	Actual model.StageOccupancy `json:"actual"`
	Health Health               `json:"health"`
	Reason string               `json:"reason"`
}

// RoleReport is the full health picture for one plan role.
type RoleReport struct {
	PlanID          string             `json:"plan_id"`
	PlanName        string             `json:"plan_name"`
	Client          string             `json:"client"`
	Role            string             `json:"role"`
	TargetPositions int                `json:"target_positions"`
	StaffedByDate   model.Date         `json:"staffed_by_date"`
	Stages          []StageRow         `json:"stages"`
	Exited          funnel.ExitedCount `json:"exited"`
}

// Builder assembles role reports from persisted plans, candidates and
// overrides.
type Builder struct {
	store store.Store
}

// NewBuilder creates a report builder over the given store.
func NewBuilder(st store.Store) *Builder {
	return &Builder{store: st}
}

// RoleReport builds the health report for one plan role as of today. It
// requires a previously generated stage plan; counting runs in cumulative
// mode so candidates past a stage still satisfy it.
func (b *Builder) RoleReport(ctx context.Context, planID, role string, today model.Date) (*RoleReport, error) {
	plan, err := b.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	pr, err := b.store.GetPlanRole(ctx, planID, role)
	if err != nil {
		return nil, err
	}

	targets, err := b.store.GetGeneratedPlan(ctx, planID, role)
	if err != nil {
		return nil, err
	}
	if targets == nil {
		return nil, model.NewValidation("generated plan",
			"role %q of plan %q has no generated stage plan yet", role, planID)
	}

	stages, err := b.store.ListStages(ctx, pr.PipelineID, true)
	if err != nil {
		return nil, eris.Wrapf(err, "report: load stages for pipeline %d", pr.PipelineID)
	}
	cands, err := b.store.ListCandidates(ctx, store.CandidateFilter{Client: plan.Client})
	if err != nil {
		return nil, eris.Wrap(err, "report: load candidates")
	}

	agg := funnel.NewAggregator(stages)
	q := funnel.Query{Client: plan.Client, Plan: plan.Name, Role: role, PlanOwner: plan.Owner}

	out := &RoleReport{
		PlanID:          planID,
		PlanName:        plan.Name,
		Client:          plan.Client,
		Role:            role,
		TargetPositions: pr.TargetPositions,
		StaffedByDate:   pr.StaffedByDate,
		Stages:          make([]StageRow, 0, len(targets)),
		Exited:          agg.ExitedCount(cands, q),
	}

	for _, tg := range targets {
		override, err := b.store.GetOverride(ctx, planID, role, tg.StageName)
		if err != nil {
			return nil, eris.Wrapf(err, "report: load override for stage %q", tg.StageName)
		}
		occ := agg.CountAtStage(cands, q, tg.StageName, true, override)
		health, reason := AssessHealth(occ.ActualCount, tg.ProfilesInPipeline, tg.NeededByDate, today)
		out.Stages = append(out.Stages, StageRow{
			Target: tg,
			Actual: occ,
			Health: health,
			Reason: reason,
		})
	}
	return out, nil
}

// PlanReport builds role reports for every role of a plan.
func (b *Builder) PlanReport(ctx context.Context, planID string, today model.Date) ([]*RoleReport, error) {
	roles, err := b.store.ListPlanRoles(ctx, planID)
	if err != nil {
		return nil, err
	}
	out := make([]*RoleReport, 0, len(roles))
	for _, r := range roles {
		rr, err := b.RoleReport(ctx, planID, r.Role, today)
		if err != nil {
			if model.IsValidation(err) {
				// Role has no generated plan yet; skip rather than fail the
				// whole report.
				continue
			}
			return nil, err
		}
		out = append(out, rr)
	}
	return out, nil
}
