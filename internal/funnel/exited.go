package funnel

import (
	"strings"

	"github.com/greyamp/alignops/internal/model"
)

// Terminal categories for attrition reporting. Every special stage is binned
// into one of these by name.
const (
	CategoryRejected = "Rejected"
	CategoryOnHold   = "On-Hold"
	CategoryDropped  = "Dropped"
)

// ExitedCount is the attrition summary for one plan role: candidates whose
// current status landed on a special/terminal stage.
type ExitedCount struct {
	Total      int              `json:"total"`
	MatchLevel model.MatchLevel `json:"match_level"`
	ByCategory map[string]int   `json:"by_category,omitempty"`
	ByStatus   map[string]int   `json:"by_status,omitempty"`
}

// ExitedCount counts candidates that left the funnel permanently, using the
// same tiered key relaxation as stage occupancy. The category breakdown bins
// each terminal stage by name so "Screen Rejected" and "Internal Dropped"
// style variants still roll up usefully.
func (a *Aggregator) ExitedCount(cands []model.CandidateRecord, q Query) ExitedCount {
	count, level, byStatus := a.tieredCount(cands, q, func(c model.CandidateRecord) bool {
		stage, ok := a.statuses.Resolve(c.Status)
		return ok && a.statuses.IsSpecial(stage)
	})

	out := ExitedCount{Total: count, MatchLevel: level, ByStatus: byStatus}
	if count == 0 {
		return out
	}

	out.ByCategory = make(map[string]int)
	for status, n := range byStatus {
		stage, _ := a.statuses.Resolve(status)
		out.ByCategory[terminalCategory(stage)] += n
	}
	return out
}

// terminalCategory bins a terminal stage name into Rejected, On-Hold or
// Dropped.
func terminalCategory(stage string) string {
	s := normalizeStatus(stage)
	switch {
	case strings.Contains(s, "reject"):
		return CategoryRejected
	case strings.Contains(s, "hold"):
		return CategoryOnHold
	default:
		return CategoryDropped
	}
}
