package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greyamp/alignops/internal/model"
)

func acmeQuery() Query {
	return Query{Client: "Acme", Plan: "Q3 Backend", Role: "Backend Engineer", PlanOwner: "Priya"}
}

func cand(client, plan, role, owner, status string) model.CandidateRecord {
	return model.CandidateRecord{Client: client, Plan: plan, Role: role, Owner: owner, Status: status}
}

func TestCountAtStageExactNeverFallsThrough(t *testing.T) {
	a := NewAggregator(engStages())
	q := acmeQuery()

	cands := []model.CandidateRecord{
		// exact key
		cand("Acme", "Q3 Backend", "Backend Engineer", "Priya", "Screening"),
		// owner-tier and client_role-tier matches that must NOT be counted
		cand("Acme", "Other Plan", "Backend Engineer", "Priya", "Screening"),
		cand("Acme", "Other Plan", "Backend Engineer", "Sam", "Screening"),
	}

	occ := a.CountAtStage(cands, q, "Screening", false, nil)
	assert.Equal(t, model.MatchExact, occ.MatchLevel)
	assert.Equal(t, 1, occ.ActualCount)
	assert.Equal(t, map[string]int{"Screening": 1}, occ.Breakdown)
}

func TestCountAtStageTierRelaxation(t *testing.T) {
	a := NewAggregator(engStages())
	q := acmeQuery()

	tests := []struct {
		name  string
		cands []model.CandidateRecord
		count int
		level model.MatchLevel
	}{
		{
			"owner tier when plan name drifts",
			[]model.CandidateRecord{
				cand("Acme", "Q3 BE Hiring", "Backend Engineer", "Priya", "Screening"),
				cand("Acme", "Q3 BE Hiring", "Backend Engineer", "Priya", "screening"),
			},
			2, model.MatchOwner,
		},
		{
			"client_role tier when owner differs too",
			[]model.CandidateRecord{
				cand("Acme", "Q3 BE Hiring", "Backend Engineer", "Sam", "Screening"),
			},
			1, model.MatchClientRole,
		},
		{
			"none when nothing matches",
			[]model.CandidateRecord{
				cand("Globex", "Q3 Backend", "Backend Engineer", "Priya", "Screening"),
			},
			0, model.MatchNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ := a.CountAtStage(tt.cands, q, "Screening", false, nil)
			assert.Equal(t, tt.level, occ.MatchLevel)
			assert.Equal(t, tt.count, occ.ActualCount)
		})
	}
}

func TestCountAtStageCumulative(t *testing.T) {
	a := NewAggregator(engStages())
	q := acmeQuery()

	cands := []model.CandidateRecord{
		cand("Acme", "Q3 Backend", "Backend Engineer", "Priya", "Sourcing"),
		cand("Acme", "Q3 Backend", "Backend Engineer", "Priya", "Screening"),
		cand("Acme", "Q3 Backend", "Backend Engineer", "Priya", "Offer Extended"),
		cand("Acme", "Q3 Backend", "Backend Engineer", "Priya", "Rejected"),
	}

	// Non-cumulative: only the current stage.
	occ := a.CountAtStage(cands, q, "Screening", false, nil)
	assert.Equal(t, 1, occ.ActualCount)

	// Cumulative: Screening plus everything past it; terminal states never
	// count.
	occ = a.CountAtStage(cands, q, "Screening", true, nil)
	assert.Equal(t, 2, occ.ActualCount)
	assert.Equal(t, map[string]int{"Screening": 1, "Offer Extended": 1}, occ.Breakdown)

	occ = a.CountAtStage(cands, q, "Sourcing", true, nil)
	assert.Equal(t, 3, occ.ActualCount)
}

func TestCountAtStageManualOverride(t *testing.T) {
	a := NewAggregator(engStages())
	q := acmeQuery()

	cands := []model.CandidateRecord{
		cand("Acme", "Q3 Backend", "Backend Engineer", "Priya", "Screening"),
	}

	override := 7
	occ := a.CountAtStage(cands, q, "Screening", false, &override)
	assert.Equal(t, model.MatchManual, occ.MatchLevel)
	assert.Equal(t, 7, occ.ActualCount)
	assert.Nil(t, occ.Breakdown, "override hides the computed breakdown")

	// An override of zero still supersedes the data.
	zero := 0
	occ = a.CountAtStage(cands, q, "Screening", false, &zero)
	assert.Equal(t, model.MatchManual, occ.MatchLevel)
	assert.Equal(t, 0, occ.ActualCount)
}

func TestCountAtStageUnknownStage(t *testing.T) {
	a := NewAggregator(engStages())
	occ := a.CountAtStage(nil, acmeQuery(), "Onsite", false, nil)
	assert.Equal(t, model.MatchNone, occ.MatchLevel)
	assert.Zero(t, occ.ActualCount)
}

func TestExitedCount(t *testing.T) {
	a := NewAggregator(engStages())
	q := acmeQuery()

	cands := []model.CandidateRecord{
		cand("Acme", "Q3 Backend", "Backend Engineer", "Priya", "Rejected"),
		cand("Acme", "Q3 Backend", "Backend Engineer", "Priya", "rejected"),
		cand("Acme", "Q3 Backend", "Backend Engineer", "Priya", "On Hold"),
		cand("Acme", "Q3 Backend", "Backend Engineer", "Priya", "Screening"), // active, excluded
	}

	out := a.ExitedCount(cands, q)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, model.MatchExact, out.MatchLevel)
	assert.Equal(t, map[string]int{CategoryRejected: 2, CategoryOnHold: 1}, out.ByCategory)
	assert.Equal(t, map[string]int{"Rejected": 1, "rejected": 1, "On Hold": 1}, out.ByStatus)
}

func TestExitedCountFallsBackLikeOccupancy(t *testing.T) {
	a := NewAggregator(engStages())
	q := acmeQuery()

	cands := []model.CandidateRecord{
		cand("Acme", "Different Plan", "Backend Engineer", "Sam", "Rejected"),
	}
	out := a.ExitedCount(cands, q)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, model.MatchClientRole, out.MatchLevel)

	out = a.ExitedCount(nil, q)
	assert.Zero(t, out.Total)
	assert.Equal(t, model.MatchNone, out.MatchLevel)
}

func TestTerminalCategory(t *testing.T) {
	assert.Equal(t, CategoryRejected, terminalCategory("Screen Rejected"))
	assert.Equal(t, CategoryOnHold, terminalCategory("Requirement on hold"))
	assert.Equal(t, CategoryDropped, terminalCategory("Candidate RNR/Dropped"))
	assert.Equal(t, CategoryDropped, terminalCategory("Duplicate Profile"))
}

func TestQualityReport(t *testing.T) {
	a := NewAggregator(engStages())

	cands := []model.CandidateRecord{
		cand("Acme", "Q3 Backend", "Backend Engineer", "Priya", "Screening"),
		cand("", "Q3 Backend", "", "Priya", "Mystery Status"),
		cand("Acme", "", "Backend Engineer", "Priya", "Another Mystery"),
	}

	r := a.Quality(cands)
	require.Equal(t, 3, r.TotalCandidates)
	assert.Equal(t, 2, r.UnrecognizedStatuses)
	assert.Equal(t, 1, r.MissingClient)
	assert.Equal(t, 1, r.MissingRole)
	assert.Equal(t, 1, r.MissingPlan)
	assert.Equal(t, []string{"Another Mystery", "Mystery Status"}, r.UnknownStatusSamples)
}
