package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/greyamp/alignops/internal/model"
)

func engStages() []model.Stage {
	return []model.Stage{
		{Name: "Sourcing", Order: 1, ConversionRate: 50, TATDays: 5},
		{Name: "Screening", Order: 2, ConversionRate: 60, TATDays: 3},
		{Name: "Offer", Order: 3, ConversionRate: 80, TATDays: 2, MapsToStatus: "Offer Extended"},
		{Name: "Rejected", Order: model.OrderAny, IsSpecial: true},
		{Name: "On Hold", Order: model.OrderAny, IsSpecial: true},
	}
}

func TestStatusMapResolve(t *testing.T) {
	m := NewStatusMap(engStages())

	tests := []struct {
		name   string
		status string
		stage  string
		ok     bool
	}{
		{"exact", "Screening", "Screening", true},
		{"explicit maps_to_status", "Offer Extended", "Offer", true},
		{"case folded", "screening", "Screening", true},
		{"whitespace collapsed", "  on   hold ", "On Hold", true},
		{"special stage", "Rejected", "Rejected", true},
		{"unknown", "Telepathy Round", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage, ok := m.Resolve(tt.status)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.stage, stage)
		})
	}
}

func TestStatusMapExplicitWinsOverFolded(t *testing.T) {
	stages := []model.Stage{
		{Name: "Interview", Order: 1, ConversionRate: 50, TATDays: 2},
		{Name: "Final", Order: 2, ConversionRate: 80, TATDays: 1, MapsToStatus: "interview"},
	}
	m := NewStatusMap(stages)

	// "interview" is an explicit label on Final and a folded match for
	// Interview; explicit wins.
	stage, ok := m.Resolve("interview")
	assert.True(t, ok)
	assert.Equal(t, "Final", stage)

	// Exact case-sensitive name still beats the folded table.
	stage, ok = m.Resolve("Interview")
	assert.True(t, ok)
	assert.Equal(t, "Interview", stage)
}

func TestStatusMapMetadata(t *testing.T) {
	m := NewStatusMap(engStages())

	o, ok := m.Order("Screening")
	assert.True(t, ok)
	assert.Equal(t, model.StageOrder(2), o)

	assert.True(t, m.IsSpecial("Rejected"))
	assert.False(t, m.IsSpecial("Sourcing"))
	assert.True(t, m.Known("Offer"))
	assert.False(t, m.Known("Onsite"))
}
