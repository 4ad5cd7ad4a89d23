// Package cycletime computes stage-to-stage transition statistics and current
// wait times from candidate status history.
package cycletime

import (
	"sort"
	"time"

	"github.com/greyamp/alignops/internal/funnel"
	"github.com/greyamp/alignops/internal/model"
)

// minSampleSize is the smallest transition sample reported; a single
// observation is an anecdote, not a statistic.
const minSampleSize = 2

// criticalWaitDays flags a bottleneck stage: candidates sitting this long on
// average need intervention.
const criticalWaitDays = 10.0

// TransitionStat summarizes how long candidates took to move between two
// stages, over every candidate that made that exact transition.
type TransitionStat struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Count      int     `json:"count"`
	MeanDays   float64 `json:"mean_days"`
	MedianDays float64 `json:"median_days"`
}

// CandidateWait is the time an active candidate has spent in their current
// stage.
type CandidateWait struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Stage       string  `json:"stage"`
	WaitDays    float64 `json:"wait_days"`
}

// StageWait ranks a stage by how long its active candidates have been
// waiting.
type StageWait struct {
	Stage       string  `json:"stage"`
	Candidates  int     `json:"candidates"`
	AvgWaitDays float64 `json:"avg_wait_days"`
	MaxWaitDays float64 `json:"max_wait_days"`
	Critical    bool    `json:"critical"`
}

// Analyzer resolves raw statuses through a pipeline's status map before
// aggregating, so "screening" and "Screening" land in the same bucket.
type Analyzer struct {
	statuses *funnel.StatusMap
}

// New creates an analyzer for one pipeline's stages.
func New(stages []model.Stage) *Analyzer {
	return &Analyzer{statuses: funnel.NewStatusMap(stages)}
}

// Transitions aggregates mean and median transition days per (from, to) stage
// pair across the full history log. Pairs with fewer than two observations
// are dropped. Output is sorted by from then to for stable display.
func (a *Analyzer) Transitions(history []model.StatusChange) []TransitionStat {
	byCandidate := make(map[string][]model.StatusChange)
	for _, ch := range history {
		byCandidate[ch.CandidateID] = append(byCandidate[ch.CandidateID], ch)
	}

	type pair struct{ from, to string }
	samples := make(map[pair][]float64)

	for _, changes := range byCandidate {
		sort.Slice(changes, func(i, j int) bool {
			return changes[i].ChangedAt.Before(changes[j].ChangedAt)
		})
		for i := 1; i < len(changes); i++ {
			from := a.resolve(changes[i-1].New)
			to := a.resolve(changes[i].New)
			if from == "" || to == "" || from == to {
				continue
			}
			days := changes[i].ChangedAt.Sub(changes[i-1].ChangedAt).Hours() / 24
			if days < 0 {
				continue
			}
			samples[pair{from, to}] = append(samples[pair{from, to}], days)
		}
	}

	out := make([]TransitionStat, 0, len(samples))
	for p, obs := range samples {
		if len(obs) < minSampleSize {
			continue
		}
		out = append(out, TransitionStat{
			From:       p.from,
			To:         p.to,
			Count:      len(obs),
			MeanDays:   mean(obs),
			MedianDays: median(obs),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// WaitTimes returns, for each candidate whose current status resolves to a
// normal stage, the days since they entered it. Candidates in terminal states
// are not waiting; candidates with no status timestamp cannot be measured.
func (a *Analyzer) WaitTimes(cands []model.CandidateRecord, now time.Time) []CandidateWait {
	out := make([]CandidateWait, 0, len(cands))
	for _, c := range cands {
		stage, ok := a.statuses.Resolve(c.Status)
		if !ok || a.statuses.IsSpecial(stage) || c.StatusChangedAt.IsZero() {
			continue
		}
		out = append(out, CandidateWait{
			CandidateID: c.ID,
			Name:        c.Name,
			Stage:       stage,
			WaitDays:    now.Sub(c.StatusChangedAt).Hours() / 24,
		})
	}
	return out
}

// Bottlenecks groups current waits by stage and ranks stages by average wait,
// worst first.
func (a *Analyzer) Bottlenecks(waits []CandidateWait) []StageWait {
	byStage := make(map[string][]float64)
	for _, w := range waits {
		byStage[w.Stage] = append(byStage[w.Stage], w.WaitDays)
	}

	out := make([]StageWait, 0, len(byStage))
	for stage, obs := range byStage {
		avg := mean(obs)
		max := obs[0]
		for _, d := range obs[1:] {
			if d > max {
				max = d
			}
		}
		out = append(out, StageWait{
			Stage:       stage,
			Candidates:  len(obs),
			AvgWaitDays: avg,
			MaxWaitDays: max,
			Critical:    avg > criticalWaitDays,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgWaitDays != out[j].AvgWaitDays {
			return out[i].AvgWaitDays > out[j].AvgWaitDays
		}
		return out[i].Stage < out[j].Stage
	})
	return out
}

// resolve maps a status to its stage, or "" when unknown.
func (a *Analyzer) resolve(status string) string {
	stage, ok := a.statuses.Resolve(status)
	if !ok {
		return ""
	}
	return stage
}

func mean(obs []float64) float64 {
	sum := 0.0
	for _, v := range obs {
		sum += v
	}
	return sum / float64(len(obs))
}

func median(obs []float64) float64 {
	sorted := append([]float64(nil), obs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
