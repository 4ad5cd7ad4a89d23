package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/greyamp/alignops/internal/model"
)

func date(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAssessHealth(t *testing.T) {
	today := date("2025-09-01")
	future := date("2025-09-10")
	past := date("2025-08-20")

	tests := []struct {
		name     string
		actual   int
		required int
		neededBy model.Date
		want     Health
	}{
		{"nothing required", 3, 0, future, HealthRed},
		{"under half filled", 4, 10, future, HealthRed},
		{"between half and eighty", 7, 10, future, HealthAmber},
		{"exactly eighty is amber", 8, 10, future, HealthAmber},
		{"above eighty", 9, 10, future, HealthGreen},
		{"fully staffed", 10, 10, future, HealthGreen},
		{"past due and short", 9, 10, past, HealthRed},
		{"past due but target met", 10, 10, past, HealthGreen},
		{"due today is not past due", 4, 10, today, HealthRed},
		{"overfilled", 12, 10, future, HealthGreen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := AssessHealth(tt.actual, tt.required, tt.neededBy, today)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, reason)
		})
	}
}

func TestAssessHealthReasons(t *testing.T) {
	today := date("2025-09-01")

	_, reason := AssessHealth(3, 10, date("2025-08-20"), today)
	assert.Equal(t, "Past due date (2025-08-20)", reason)

	_, reason = AssessHealth(10, 10, date("2025-08-20"), today)
	assert.Equal(t, "100.0% (Target met)", reason)

	_, reason = AssessHealth(4, 10, date("2025-09-10"), today)
	assert.Equal(t, "40.0% (<50%)", reason)
}
