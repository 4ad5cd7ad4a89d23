// Package pipeline manages pipeline and stage configuration: the named,
// ordered stage definitions the calculator and aggregator run against.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greyamp/alignops/internal/model"
	"github.com/greyamp/alignops/internal/store"
)

// Service applies configuration policy on top of the store: range checks,
// special-stage normalization and order uniqueness.
type Service struct {
	store store.Store
}

// NewService creates a pipeline configuration service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// StageInput carries the caller-supplied fields for a new or updated stage.
type StageInput struct {
	Name           string           `json:"name"`
	Order          model.StageOrder `json:"order"`
	ConversionRate float64          `json:"conversion_rate"`
	TATDays        int              `json:"tat_days"`
	IsSpecial      bool             `json:"is_special"`
	MapsToStatus   string           `json:"maps_to_status,omitempty"`
	Flag           model.StatusFlag `json:"status_flag,omitempty"`
}

// CreatePipeline creates an active pipeline. clientRef is empty for
// org-internal pipelines.
func (s *Service) CreatePipeline(ctx context.Context, name, clientRef, description string) (int64, error) {
	if name == "" {
		return 0, model.NewValidation("pipeline name", "must not be empty")
	}
	id, err := s.store.CreatePipeline(ctx, model.Pipeline{
		Name:        name,
		ClientRef:   clientRef,
		Description: description,
		Active:      true,
	})
	if err != nil {
		return 0, eris.Wrap(err, "pipeline: create")
	}
	zap.L().Info("pipeline: created",
		zap.Int64("pipeline_id", id),
		zap.String("name", name),
		zap.String("client_ref", clientRef),
	)
	return id, nil
}

// AddStage validates and adds a stage. Special stages are normalized to zero
// conversion and zero TAT regardless of caller input; that is policy, not a
// validation failure. Order values must be unique among normal stages.
func (s *Service) AddStage(ctx context.Context, pipelineID int64, in StageInput) (int64, error) {
	if _, err := s.store.GetPipeline(ctx, pipelineID); err != nil {
		return 0, err
	}

	st := s.normalize(pipelineID, in)
	if err := st.Validate(); err != nil {
		return 0, err
	}
	if err := s.checkOrderFree(ctx, pipelineID, st, 0); err != nil {
		return 0, err
	}

	id, err := s.store.AddStage(ctx, st)
	if err != nil {
		return 0, eris.Wrap(err, "pipeline: add stage")
	}
	return id, nil
}

// UpdateStage validates and rewrites an existing stage, applying the same
// special-stage normalization as AddStage.
func (s *Service) UpdateStage(ctx context.Context, stageID int64, in StageInput) error {
	existing, err := s.store.GetStage(ctx, stageID)
	if err != nil {
		return err
	}

	st := s.normalize(existing.PipelineID, in)
	st.ID = stageID
	if err := st.Validate(); err != nil {
		return err
	}
	if err := s.checkOrderFree(ctx, existing.PipelineID, st, stageID); err != nil {
		return err
	}

	return s.store.UpdateStage(ctx, st)
}

// DeleteStage removes a stage from its pipeline.
func (s *Service) DeleteStage(ctx context.Context, stageID int64) error {
	return s.store.DeleteStage(ctx, stageID)
}

// ListStages returns a pipeline's stages in ascending order, special stages
// last (they all share the sentinel order).
func (s *Service) ListStages(ctx context.Context, pipelineID int64, includeSpecial bool) ([]model.Stage, error) {
	if _, err := s.store.GetPipeline(ctx, pipelineID); err != nil {
		return nil, err
	}
	return s.store.ListStages(ctx, pipelineID, includeSpecial)
}

// Deactivate soft-deletes a pipeline. Plans referencing it keep working
// against the stages it had.
func (s *Service) Deactivate(ctx context.Context, pipelineID int64) error {
	if err := s.store.DeactivatePipeline(ctx, pipelineID); err != nil {
		return err
	}
	zap.L().Info("pipeline: deactivated", zap.Int64("pipeline_id", pipelineID))
	return nil
}

func (s *Service) normalize(pipelineID int64, in StageInput) model.Stage {
	st := model.Stage{
		PipelineID:     pipelineID,
		Name:           in.Name,
		Order:          in.Order,
		ConversionRate: in.ConversionRate,
		TATDays:        in.TATDays,
		IsSpecial:      in.IsSpecial,
		MapsToStatus:   in.MapsToStatus,
		Flag:           in.Flag,
	}
	if st.Flag == "" {
		st.Flag = model.StatusFlagBoth
	}
	if st.IsSpecial {
		// Terminal states hold no forward math.
		st.ConversionRate = 0
		st.TATDays = 0
		if st.Order >= 1 {
			st.Order = model.OrderAny
		}
	}
	return st
}

// checkOrderFree rejects a normal stage whose order collides with another
// normal stage of the same pipeline. Special stages share the sentinel.
func (s *Service) checkOrderFree(ctx context.Context, pipelineID int64, st model.Stage, selfID int64) error {
	if st.IsSpecial {
		return nil
	}
	stages, err := s.store.ListStages(ctx, pipelineID, false)
	if err != nil {
		return eris.Wrap(err, "pipeline: list stages for order check")
	}
	for _, other := range stages {
		if other.ID != selfID && other.Order == st.Order {
			return model.NewValidation("stage order",
				"position %d is already held by stage %q", st.Order, other.Name)
		}
	}
	return nil
}
