package funnel

import (
	"sort"

	"github.com/greyamp/alignops/internal/model"
)

// QualityReport summarizes how well candidate records line up with the
// pipeline configuration. High unrecognized-status or missing-key counts mean
// the tiered matching is doing more guessing than joining.
type QualityReport struct {
	TotalCandidates      int      `json:"total_candidates"`
	UnrecognizedStatuses int      `json:"unrecognized_statuses"`
	MissingClient        int      `json:"missing_client"`
	MissingRole          int      `json:"missing_role"`
	MissingPlan          int      `json:"missing_plan"`
	UnknownStatusSamples []string `json:"unknown_status_samples,omitempty"`
}

// maximum distinct unknown statuses echoed back in the report
const maxUnknownSamples = 10

// Quality scans a candidate set and reports mapping gaps against this
// aggregator's pipeline.
func (a *Aggregator) Quality(cands []model.CandidateRecord) QualityReport {
	r := QualityReport{TotalCandidates: len(cands)}
	unknown := make(map[string]struct{})
	for _, c := range cands {
		if _, ok := a.statuses.Resolve(c.Status); !ok {
			r.UnrecognizedStatuses++
			unknown[c.Status] = struct{}{}
		}
		if c.Client == "" {
			r.MissingClient++
		}
		if c.Role == "" {
			r.MissingRole++
		}
		if c.Plan == "" {
			r.MissingPlan++
		}
	}

	samples := make([]string, 0, len(unknown))
	for s := range unknown {
		samples = append(samples, s)
	}
	sort.Strings(samples)
	if len(samples) > maxUnknownSamples {
		samples = samples[:maxUnknownSamples]
	}
	r.UnknownStatusSamples = samples
	return r
}
