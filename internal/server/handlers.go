package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/greyamp/alignops/internal/cycletime"
	"github.com/greyamp/alignops/internal/funnel"
	"github.com/greyamp/alignops/internal/model"
	"github.com/greyamp/alignops/internal/pipeline"
	"github.com/greyamp/alignops/internal/report"
	"github.com/greyamp/alignops/internal/store"
)

func urlID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, model.NewValidation(name, "must be a numeric id")
	}
	return id, nil
}

func queryInt64(r *http.Request, name string) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, model.NewValidation(name, "query parameter is required")
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, model.NewValidation(name, "must be a numeric id")
	}
	return id, nil
}

func queryBool(r *http.Request, name string, def bool) bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// asOfDate resolves the as_of query parameter, defaulting to today.
func asOfDate(r *http.Request) (model.Date, error) {
	v := r.URL.Query().Get("as_of")
	if v == "" {
		return model.NewDate(time.Now().UTC()), nil
	}
	return model.ParseDate(v)
}

func (s *Server) handleListPipelines(w http.ResponseWriter, r *http.Request) {
	pipes, err := s.store.ListPipelines(r.Context(), queryBool(r, "all", false))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pipes)
}

func (s *Server) handleCreatePipeline(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		ClientRef   string `json:"client_ref"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := pipeline.NewService(s.store).CreatePipeline(r.Context(), req.Name, req.ClientRef, req.Description)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleGetPipeline(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "pipelineID")
	if err != nil {
		fail(w, err)
		return
	}
	p, err := s.store.GetPipeline(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListStages(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "pipelineID")
	if err != nil {
		fail(w, err)
		return
	}
	stages, err := s.store.ListStages(r.Context(), id, queryBool(r, "special", true))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stages)
}

func (s *Server) handleAddStage(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "pipelineID")
	if err != nil {
		fail(w, err)
		return
	}
	var in pipeline.StageInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	stageID, err := pipeline.NewService(s.store).AddStage(r.Context(), id, in)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": stageID})
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.ListPlans(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var p model.StaffingPlan
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.ID == "" || p.Name == "" {
		writeError(w, http.StatusBadRequest, "plan id and name are required")
		return
	}
	if err := s.store.CreatePlan(r.Context(), p); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPlan(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListPlanRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := s.store.ListPlanRoles(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

func (s *Server) handleUpsertPlanRole(w http.ResponseWriter, r *http.Request) {
	var role model.PlanRole
	if err := json.NewDecoder(r.Body).Decode(&role); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	role.PlanID = chi.URLParam(r, "planID")
	if role.Role == "" {
		writeError(w, http.StatusBadRequest, "role is required")
		return
	}
	if err := s.store.UpsertPlanRole(r.Context(), role); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

// handleGenerate runs the reverse calculator for one role (?role=) or every
// role of the plan. Roles whose pipeline has no normal stages come back with
// a null target list rather than an error.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planID")
	if role := r.URL.Query().Get("role"); role != "" {
		targets, err := s.planner.Generate(r.Context(), planID, role)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]model.StageTarget{role: targets})
		return
	}
	all, err := s.planner.GenerateAll(r.Context(), planID)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handlePlanReport(w http.ResponseWriter, r *http.Request) {
	today, err := asOfDate(r)
	if err != nil {
		fail(w, err)
		return
	}
	planID := chi.URLParam(r, "planID")
	if role := r.URL.Query().Get("role"); role != "" {
		rr, err := report.NewBuilder(s.store).RoleReport(r.Context(), planID, role, today)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rr)
		return
	}
	reports, err := report.NewBuilder(s.store).PlanReport(r.Context(), planID, today)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// loadFunnel builds an aggregator plus the candidate pool for the query's
// client, shared by the three funnel endpoints.
func (s *Server) loadFunnel(r *http.Request) (*funnel.Aggregator, []model.CandidateRecord, funnel.Query, error) {
	q := funnel.Query{
		Client:    r.URL.Query().Get("client"),
		Plan:      r.URL.Query().Get("plan"),
		Role:      r.URL.Query().Get("role"),
		PlanOwner: r.URL.Query().Get("owner"),
	}
	pipelineID, err := queryInt64(r, "pipeline")
	if err != nil {
		return nil, nil, q, err
	}
	stages, err := s.store.ListStages(r.Context(), pipelineID, true)
	if err != nil {
		return nil, nil, q, err
	}
	cands, err := s.store.ListCandidates(r.Context(), store.CandidateFilter{Client: q.Client})
	if err != nil {
		return nil, nil, q, err
	}
	return funnel.NewAggregator(stages), cands, q, nil
}

func (s *Server) handleFunnelCount(w http.ResponseWriter, r *http.Request) {
	stage := r.URL.Query().Get("stage")
	if stage == "" {
		fail(w, model.NewValidation("stage", "query parameter is required"))
		return
	}
	agg, cands, q, err := s.loadFunnel(r)
	if err != nil {
		fail(w, err)
		return
	}

	var override *int
	if planID := r.URL.Query().Get("plan_id"); planID != "" {
		override, err = s.store.GetOverride(r.Context(), planID, q.Role, stage)
		if err != nil {
			fail(w, err)
			return
		}
	}

	occ := agg.CountAtStage(cands, q, stage, queryBool(r, "cumulative", true), override)
	writeJSON(w, http.StatusOK, occ)
}

func (s *Server) handleFunnelExited(w http.ResponseWriter, r *http.Request) {
	agg, cands, q, err := s.loadFunnel(r)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agg.ExitedCount(cands, q))
}

func (s *Server) handleFunnelQuality(w http.ResponseWriter, r *http.Request) {
	pipelineID, err := queryInt64(r, "pipeline")
	if err != nil {
		fail(w, err)
		return
	}
	stages, err := s.store.ListStages(r.Context(), pipelineID, true)
	if err != nil {
		fail(w, err)
		return
	}
	cands, err := s.store.ListCandidates(r.Context(), store.CandidateFilter{})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, funnel.NewAggregator(stages).Quality(cands))
}

func (s *Server) handleTransitions(w http.ResponseWriter, r *http.Request) {
	pipelineID, err := queryInt64(r, "pipeline")
	if err != nil {
		fail(w, err)
		return
	}
	stages, err := s.store.ListStages(r.Context(), pipelineID, true)
	if err != nil {
		fail(w, err)
		return
	}
	history, err := s.store.ListAllStatusHistory(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cycletime.New(stages).Transitions(history))
}

func (s *Server) handleBottlenecks(w http.ResponseWriter, r *http.Request) {
	pipelineID, err := queryInt64(r, "pipeline")
	if err != nil {
		fail(w, err)
		return
	}
	stages, err := s.store.ListStages(r.Context(), pipelineID, true)
	if err != nil {
		fail(w, err)
		return
	}
	cands, err := s.store.ListCandidates(r.Context(), store.CandidateFilter{})
	if err != nil {
		fail(w, err)
		return
	}
	analyzer := cycletime.New(stages)
	writeJSON(w, http.StatusOK, analyzer.Bottlenecks(analyzer.WaitTimes(cands, time.Now().UTC())))
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	filter := store.CandidateFilter{
		Client: r.URL.Query().Get("client"),
		Plan:   r.URL.Query().Get("plan"),
		Role:   r.URL.Query().Get("role"),
		Owner:  r.URL.Query().Get("owner"),
		Status: r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail(w, model.NewValidation("limit", "must be an integer"))
			return
		}
		filter.Limit = n
	}
	cands, err := s.store.ListCandidates(r.Context(), filter)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cands)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	pipelineID, err := queryInt64(r, "pipeline")
	if err != nil {
		fail(w, err)
		return
	}
	stages, err := s.store.ListStages(r.Context(), pipelineID, true)
	if err != nil {
		fail(w, err)
		return
	}
	cands, err := s.store.ListCandidates(r.Context(), store.CandidateFilter{})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Summarize(stages, cands, time.Now().UTC()))
}
