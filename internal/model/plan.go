package model

import (
	"strings"
	"time"
)

// dateLayout is the wire format for calendar dates (ISO 8601, no time part).
const dateLayout = "2006-01-02"

// Date is a calendar day serialized as an ISO date string ("2006-01-02").
// Stage deadlines are whole days; carrying a time component only invites
// timezone drift between the store and the dashboard.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

func (d Date) String() string { return d.Time.Format(dateLayout) }

// MarshalJSON writes the date as a quoted ISO string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON reads a quoted ISO date string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// StaffingPlan groups the roles a client engagement must fill.
type StaffingPlan struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Client    string    `json:"client"`
	Owner     string    `json:"owner"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// PlanRole is one row of a staffing plan: a role to fill through a pipeline
// by a given date. The reverse calculator operates on these.
type PlanRole struct {
	PlanID          string `json:"plan_id"`
	Role            string `json:"role"`
	Skills          string `json:"skills,omitempty"`
	TargetPositions int    `json:"target_positions"`
	StaffedByDate   Date   `json:"staffed_by_date"`
	PipelineID      int64  `json:"pipeline_id"`
	Owner           string `json:"owner,omitempty"`
}

// StageTarget is one entry of a generated stage plan: the candidate volume a
// stage must hold and the date by which that volume must exist. Serialized
// as-is into the generated-plan JSON consumed by the dashboard.
type StageTarget struct {
	StageName          string  `json:"stage_name"`
	ProfilesInPipeline int     `json:"profiles_in_pipeline"`
	ProfilesConverted  int     `json:"profiles_converted"`
	ConversionRate     float64 `json:"conversion_rate"`
	TATDays            int     `json:"tat_days"`
	NeededByDate       Date    `json:"needed_by_date"`
}
