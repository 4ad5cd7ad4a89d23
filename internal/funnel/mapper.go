// Package funnel aggregates live candidate records into per-stage occupancy,
// attrition counts and data-quality reports for a staffing plan role.
package funnel

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/greyamp/alignops/internal/model"
)

var fold = cases.Fold()

// normalizeStatus collapses whitespace and case so free-text statuses like
// " tech  round " still land on the "Tech Round" stage.
func normalizeStatus(s string) string {
	return fold.String(strings.Join(strings.Fields(s), " "))
}

// StatusMap resolves free-text candidate statuses to pipeline stages.
// Resolution priority: an explicit maps_to_status configured on a stage,
// then an exact case-sensitive name match, then a normalized match.
type StatusMap struct {
	explicit map[string]string // maps_to_status -> stage name
	exact    map[string]string // stage name -> stage name
	folded   map[string]string // normalized label -> stage name

	order   map[string]model.StageOrder
	special map[string]bool
}

// NewStatusMap builds the resolution table from a pipeline's full stage list
// (special stages included; attrition counting needs them).
func NewStatusMap(stages []model.Stage) *StatusMap {
	m := &StatusMap{
		explicit: make(map[string]string, len(stages)),
		exact:    make(map[string]string, len(stages)),
		folded:   make(map[string]string, len(stages)*2),
		order:    make(map[string]model.StageOrder, len(stages)),
		special:  make(map[string]bool, len(stages)),
	}
	for _, s := range stages {
		m.exact[s.Name] = s.Name
		m.folded[normalizeStatus(s.Name)] = s.Name
		if s.MapsToStatus != "" {
			m.explicit[s.MapsToStatus] = s.Name
			m.folded[normalizeStatus(s.MapsToStatus)] = s.Name
		}
		m.order[s.Name] = s.Order
		m.special[s.Name] = s.IsSpecial
	}
	return m
}

// Resolve maps a candidate status to a stage name.
func (m *StatusMap) Resolve(status string) (string, bool) {
	if stage, ok := m.explicit[status]; ok {
		return stage, true
	}
	if stage, ok := m.exact[status]; ok {
		return stage, true
	}
	stage, ok := m.folded[normalizeStatus(status)]
	return stage, ok
}

// Order returns a stage's pipeline position.
func (m *StatusMap) Order(stage string) (model.StageOrder, bool) {
	o, ok := m.order[stage]
	return o, ok
}

// IsSpecial reports whether the stage is a terminal/suspended state.
func (m *StatusMap) IsSpecial(stage string) bool {
	return m.special[stage]
}

// Known reports whether the stage exists in the pipeline at all.
func (m *StatusMap) Known(stage string) bool {
	_, ok := m.order[stage]
	return ok
}
