// Package store defines the persistence interface for the AlignOps engine
// and its Postgres and SQLite implementations. The calculation packages never
// see SQL; they consume data loaded through this interface.
package store

import (
	"context"
	"time"

	"github.com/greyamp/alignops/internal/model"
)

// CandidateFilter narrows candidate listings. Empty fields match everything.
type CandidateFilter struct {
	Client string `json:"client,omitempty"`
	Plan   string `json:"plan,omitempty"`
	Role   string `json:"role,omitempty"`
	Owner  string `json:"owner,omitempty"`
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// Override is a manually entered actual-count for a (plan, role, stage) key.
// It supersedes the computed occupancy until explicitly cleared.
type Override struct {
	PlanID    string    `json:"plan_id"`
	Role      string    `json:"role"`
	StageName string    `json:"stage_name"`
	Value     int       `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the persistence interface for pipelines, staffing plans,
// candidates and overrides.
type Store interface {
	// Pipelines
	CreatePipeline(ctx context.Context, p model.Pipeline) (int64, error)
	GetPipeline(ctx context.Context, id int64) (*model.Pipeline, error)
	ListPipelines(ctx context.Context, includeInactive bool) ([]model.Pipeline, error)
	UpdatePipeline(ctx context.Context, p model.Pipeline) error
	DeactivatePipeline(ctx context.Context, id int64) error

	// Stages
	AddStage(ctx context.Context, s model.Stage) (int64, error)
	GetStage(ctx context.Context, id int64) (*model.Stage, error)
	ListStages(ctx context.Context, pipelineID int64, includeSpecial bool) ([]model.Stage, error)
	UpdateStage(ctx context.Context, s model.Stage) error
	DeleteStage(ctx context.Context, id int64) error

	// Staffing plans
	CreatePlan(ctx context.Context, p model.StaffingPlan) error
	GetPlan(ctx context.Context, id string) (*model.StaffingPlan, error)
	ListPlans(ctx context.Context) ([]model.StaffingPlan, error)
	UpsertPlanRole(ctx context.Context, r model.PlanRole) error
	GetPlanRole(ctx context.Context, planID, role string) (*model.PlanRole, error)
	ListPlanRoles(ctx context.Context, planID string) ([]model.PlanRole, error)
	DeletePlanRole(ctx context.Context, planID, role string) error

	// Generated stage plans (calculator output, one JSON array per role)
	SaveGeneratedPlan(ctx context.Context, planID, role string, targets []model.StageTarget) error
	GetGeneratedPlan(ctx context.Context, planID, role string) ([]model.StageTarget, error)

	// Candidates
	UpsertCandidates(ctx context.Context, records []model.CandidateRecord) (int, error)
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]model.CandidateRecord, error)
	AppendStatusChange(ctx context.Context, ch model.StatusChange) error
	ListStatusHistory(ctx context.Context, candidateID string) ([]model.StatusChange, error)
	ListAllStatusHistory(ctx context.Context) ([]model.StatusChange, error)

	// Manual overrides
	SetOverride(ctx context.Context, o Override) error
	GetOverride(ctx context.Context, planID, role, stageName string) (*int, error)
	ClearOverride(ctx context.Context, planID, role, stageName string) error
	ListOverrides(ctx context.Context, planID string) ([]Override, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
