// Package report turns generated stage plans and live occupancy into
// plan-health assessments, performance summaries and exportable workbooks.
package report

import (
	"fmt"

	"github.com/greyamp/alignops/internal/model"
)

// Health is the red/amber/green status of one stage of a plan.
type Health string

const (
	HealthRed   Health = "Red"
	HealthAmber Health = "Amber"
	HealthGreen Health = "Green"
)

// RAG thresholds as a fraction of the required stage volume.
const (
	healthRedBelowPct  = 50.0
	healthAmberUpToPct = 80.0
)

// AssessHealth grades actual occupancy against the required stage volume and
// deadline. A stage past its needed-by date is Red unless the target is
// exactly met; otherwise the fill percentage decides.
func AssessHealth(actual, required int, neededBy, today model.Date) (Health, string) {
	if required == 0 {
		return HealthRed, "No profiles required"
	}

	pct := float64(actual) / float64(required) * 100
	pastDue := neededBy.Before(today.Time)

	if pastDue && actual != required {
		return HealthRed, fmt.Sprintf("Past due date (%s)", neededBy)
	}

	switch {
	case pct < healthRedBelowPct:
		return HealthRed, fmt.Sprintf("%.1f%% (<%.0f%%)", pct, healthRedBelowPct)
	case pct <= healthAmberUpToPct:
		return HealthAmber, fmt.Sprintf("%.1f%% (%.0f-%.0f%%)", pct, healthRedBelowPct, healthAmberUpToPct)
	case pastDue:
		return HealthGreen, fmt.Sprintf("%.1f%% (Target met)", pct)
	default:
		return HealthGreen, fmt.Sprintf("%.1f%% (>%.0f%%)", pct, healthAmberUpToPct)
	}
}
