// Package model holds the domain types shared across the AlignOps engine.
package model

import "time"

// StatusFlag marks which side of the engagement a stage is visible to.
type StatusFlag string

const (
	StatusFlagGreyamp StatusFlag = "Greyamp"
	StatusFlagClient  StatusFlag = "Client"
	StatusFlagBoth    StatusFlag = "Both"
)

// StageOrder is a stage's position in its pipeline. Normal stages carry a
// positive position; OrderAny marks special stages reachable from any other
// stage (Rejected, On Hold), which sit outside the conversion chain.
type StageOrder int

// OrderAny is the sentinel position for any-stage-reachable special stages.
const OrderAny StageOrder = -1

// IsAny reports whether the order is the any-stage sentinel.
func (o StageOrder) IsAny() bool { return o < 1 }

// Pipeline is a named recruitment funnel owning an ordered list of stages.
// ClientRef is empty for org-internal pipelines. Pipelines referenced by
// staffing plans are deactivated rather than deleted.
type Pipeline struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ClientRef   string    `json:"client_ref,omitempty"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Internal reports whether the pipeline belongs to the org rather than a client.
func (p Pipeline) Internal() bool { return p.ClientRef == "" }

// Stage is one step of a pipeline. Special stages (Rejected, On Hold,
// Dropped) always carry zero conversion and zero TAT and are excluded from
// the forward/backward conversion math, but still count for occupancy and
// attrition reporting.
type Stage struct {
	ID             int64      `json:"id"`
	PipelineID     int64      `json:"pipeline_id"`
	Name           string     `json:"name"`
	Order          StageOrder `json:"order"`
	ConversionRate float64    `json:"conversion_rate"` // percent, 0-100
	TATDays        int        `json:"tat_days"`
	IsSpecial      bool       `json:"is_special"`
	MapsToStatus   string     `json:"maps_to_status,omitempty"` // explicit external-status label
	Flag           StatusFlag `json:"status_flag,omitempty"`
}

// Validate checks configuration ranges for a non-special stage. Special
// stages are normalized by the pipeline service before they get here.
func (s Stage) Validate() error {
	if s.Name == "" {
		return NewValidation("stage name", "must not be empty")
	}
	if s.IsSpecial {
		return nil
	}
	if s.Order.IsAny() {
		return NewValidation("stage order", "must be >= 1 for a non-special stage (got %d)", s.Order)
	}
	if s.ConversionRate < 0 || s.ConversionRate > 100 {
		return NewValidation("conversion rate", "must be within [0, 100] (got %g)", s.ConversionRate)
	}
	if s.TATDays < 0 {
		return NewValidation("tat days", "must be >= 0 (got %d)", s.TATDays)
	}
	return nil
}
