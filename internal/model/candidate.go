package model

import "time"

// MatchLevel is the confidence tier of a candidate-count aggregation.
// Source data arrives from free-text entry, so exact joins frequently fail;
// the tier tells the dashboard how trustworthy a number is.
type MatchLevel string

const (
	MatchExact      MatchLevel = "exact"       // client + plan + role all matched
	MatchOwner      MatchLevel = "owner"       // relaxed to the plan owner's candidates
	MatchClientRole MatchLevel = "client_role" // relaxed to client + role, ignoring plan
	MatchNone       MatchLevel = "none"        // no tier matched; count is zero, not missing
	MatchManual     MatchLevel = "manual"      // operator override supersedes computed value
)

// CandidateRecord is a candidate as read from the candidate data store.
// Status is free text and resolved to a pipeline stage by the funnel mapper.
type CandidateRecord struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	Client          string    `json:"client"`
	Plan            string    `json:"plan,omitempty"` // staffing plan name, often missing on imports
	Owner           string    `json:"owner,omitempty"`
	Status          string    `json:"status"`
	Source          string    `json:"source,omitempty"`
	StatusChangedAt time.Time `json:"status_changed_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// StatusChange is one entry of a candidate's status history.
type StatusChange struct {
	CandidateID string    `json:"candidate_id"`
	Previous    string    `json:"previous_status"`
	New         string    `json:"new_status"`
	ChangedAt   time.Time `json:"changed_at"`
}

// StageOccupancy is the aggregator's answer for one stage of one plan role:
// how many candidates currently sit at (or beyond, in cumulative mode) the
// stage, how the number was keyed, and the per-status breakdown. The
// breakdown is empty when a manual override is in effect.
type StageOccupancy struct {
	StageName   string         `json:"stage_name"`
	ActualCount int            `json:"actual_count"`
	MatchLevel  MatchLevel     `json:"match_level"`
	Breakdown   map[string]int `json:"breakdown,omitempty"`
}
