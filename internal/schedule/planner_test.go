package schedule

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greyamp/alignops/internal/model"
	"github.com/greyamp/alignops/internal/store"
)

func plannerFixture(t *testing.T) (*Planner, store.Store, int64) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "alignops.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	require.NoError(t, st.Migrate(ctx))

	pipeID, err := st.CreatePipeline(ctx, model.Pipeline{Name: "Eng Hiring", ClientRef: "Acme", Active: true})
	require.NoError(t, err)
	for _, s := range engHiring() {
		s.PipelineID = pipeID
		_, err := st.AddStage(ctx, s)
		require.NoError(t, err)
	}

	require.NoError(t, st.CreatePlan(ctx, model.StaffingPlan{
		ID: "plan-1", Name: "Q3 Backend", Client: "Acme", Owner: "Priya", Status: "active",
	}))
	require.NoError(t, st.UpsertPlanRole(ctx, model.PlanRole{
		PlanID:          "plan-1",
		Role:            "Backend Engineer",
		TargetPositions: 4,
		StaffedByDate:   date("2025-09-01"),
		PipelineID:      pipeID,
		Owner:           "Priya",
	}))

	return NewPlanner(st), st, pipeID
}

func TestPlannerGenerate(t *testing.T) {
	p, st, _ := plannerFixture(t)
	ctx := context.Background()

	targets, err := p.Generate(ctx, "plan-1", "Backend Engineer")
	require.NoError(t, err)
	require.Len(t, targets, 3)
	assert.Equal(t, "Sourcing", targets[0].StageName)
	assert.Equal(t, 18, targets[0].ProfilesInPipeline)
	assert.Equal(t, date("2025-08-27"), targets[0].NeededByDate)

	// The generated plan is persisted round-trip intact.
	saved, err := st.GetGeneratedPlan(ctx, "plan-1", "Backend Engineer")
	require.NoError(t, err)
	assert.Equal(t, targets, saved)
}

func TestPlannerGenerateWithBuffer(t *testing.T) {
	p, _, _ := plannerFixture(t)
	p.BufferPct = 25

	targets, err := p.Generate(context.Background(), "plan-1", "Backend Engineer")
	require.NoError(t, err)
	assert.Equal(t, 5, targets[len(targets)-1].ProfilesConverted)
}

func TestPlannerGenerateUnknownRole(t *testing.T) {
	p, _, _ := plannerFixture(t)

	_, err := p.Generate(context.Background(), "plan-1", "Astronaut")
	assert.True(t, model.IsNotFound(err))
}

func TestPlannerGenerateEmptyPipeline(t *testing.T) {
	p, st, _ := plannerFixture(t)
	ctx := context.Background()

	bareID, err := st.CreatePipeline(ctx, model.Pipeline{Name: "Empty", Active: true})
	require.NoError(t, err)
	require.NoError(t, st.UpsertPlanRole(ctx, model.PlanRole{
		PlanID:          "plan-1",
		Role:            "Designer",
		TargetPositions: 2,
		StaffedByDate:   date("2025-09-01"),
		PipelineID:      bareID,
	}))

	// Soft outcome: nothing to compute, no error, nothing persisted.
	targets, err := p.Generate(ctx, "plan-1", "Designer")
	require.NoError(t, err)
	assert.Nil(t, targets)

	saved, err := st.GetGeneratedPlan(ctx, "plan-1", "Designer")
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestPlannerGenerateZeroPositions(t *testing.T) {
	p, st, pipeID := plannerFixture(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertPlanRole(ctx, model.PlanRole{
		PlanID:        "plan-1",
		Role:          "Intern",
		StaffedByDate: date("2025-09-01"),
		PipelineID:    pipeID,
	}))

	_, err := p.Generate(ctx, "plan-1", "Intern")
	assert.True(t, model.IsValidation(err))
}

func TestPlannerGenerateAll(t *testing.T) {
	p, st, pipeID := plannerFixture(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertPlanRole(ctx, model.PlanRole{
		PlanID:          "plan-1",
		Role:            "SRE",
		TargetPositions: 2,
		StaffedByDate:   date("2025-09-15"),
		PipelineID:      pipeID,
	}))

	out, err := p.GenerateAll(ctx, "plan-1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Contains(t, out, "Backend Engineer")
	assert.Contains(t, out, "SRE")
	assert.Equal(t, 2, out["SRE"][len(out["SRE"])-1].ProfilesConverted)
}
