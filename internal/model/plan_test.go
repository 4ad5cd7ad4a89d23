package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSONRoundTrip(t *testing.T) {
	t.Parallel()

	d := NewDate(time.Date(2025, 9, 1, 15, 30, 0, 0, time.UTC))

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-09-01"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "2025-09-01", back.String())
}

func TestDateAddDays(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2025-08-30")
	require.NoError(t, err)

	assert.Equal(t, "2025-08-27", d.AddDays(-3).String())
	// Crosses a month boundary.
	assert.Equal(t, "2025-09-01", d.AddDays(2).String())
}

func TestStageTargetWireFormat(t *testing.T) {
	t.Parallel()

	// The dashboard reads these exact field names from the generated-plan
	// JSON; renaming any of them breaks the display layer.
	st := StageTarget{
		StageName:          "Offer",
		ProfilesInPipeline: 5,
		ProfilesConverted:  4,
		ConversionRate:     80,
		TATDays:            2,
		NeededByDate:       NewDate(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)),
	}

	b, err := json.Marshal(st)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{
		"stage_name", "profiles_in_pipeline", "profiles_converted",
		"conversion_rate", "tat_days", "needed_by_date",
	} {
		assert.Contains(t, m, key)
	}
	assert.Equal(t, "2025-09-01", m["needed_by_date"])
}
