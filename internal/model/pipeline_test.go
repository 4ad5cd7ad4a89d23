package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageOrderIsAny(t *testing.T) {
	t.Parallel()

	assert.True(t, OrderAny.IsAny())
	assert.True(t, StageOrder(0).IsAny())
	assert.False(t, StageOrder(1).IsAny())
	assert.False(t, StageOrder(7).IsAny())
}

func TestStageValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stage   Stage
		wantErr string
	}{
		{
			name:  "valid normal stage",
			stage: Stage{Name: "Screening", Order: 2, ConversionRate: 60, TATDays: 3},
		},
		{
			name:  "special stage skips range checks",
			stage: Stage{Name: "Rejected", Order: OrderAny, IsSpecial: true},
		},
		{
			name:    "empty name",
			stage:   Stage{Order: 1, ConversionRate: 50},
			wantErr: "stage name",
		},
		{
			name:    "sentinel order on normal stage",
			stage:   Stage{Name: "Sourcing", Order: OrderAny, ConversionRate: 50},
			wantErr: "stage order",
		},
		{
			name:    "conversion rate above 100",
			stage:   Stage{Name: "Offer", Order: 1, ConversionRate: 120},
			wantErr: "conversion rate",
		},
		{
			name:    "negative conversion rate",
			stage:   Stage{Name: "Offer", Order: 1, ConversionRate: -5},
			wantErr: "conversion rate",
		},
		{
			name:    "negative tat",
			stage:   Stage{Name: "Offer", Order: 1, ConversionRate: 50, TATDays: -1},
			wantErr: "tat days",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.stage.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPipelineInternal(t *testing.T) {
	t.Parallel()

	assert.True(t, Pipeline{Name: "Bench"}.Internal())
	assert.False(t, Pipeline{Name: "Acme Hiring", ClientRef: "acme"}.Internal())
}
