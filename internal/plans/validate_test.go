package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_OK(t *testing.T) {
	require.NoError(t, sampleAssessment().Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Assessment)
		wantMsg string
	}{
		{"age zero", func(a *Assessment) { a.Age = 0 }, "age"},
		{"age too high", func(a *Assessment) { a.Age = 121 }, "age"},
		{"zero weight", func(a *Assessment) { a.WeightKg = 0 }, "weightKg"},
		{"negative height", func(a *Assessment) { a.HeightM = -1 }, "heightM"},
		{"unknown sex", func(a *Assessment) { a.UserSex = "X" }, "userSex"},
		{"bad wake time", func(a *Assessment) { a.WakeTime = "25:00" }, "wakeTime"},
		{"bad dinner time", func(a *Assessment) { a.DinnerTime = "evening" }, "dinnerTime"},
		{"stress out of scale", func(a *Assessment) { a.StressLevel = 11 }, "stressLevel"},
		{"wellbeing zero", func(a *Assessment) { a.WellbeingScore = 0 }, "wellbeingScore"},
		{"negative water", func(a *Assessment) { a.WaterCupsDay = -1 }, "waterCupsDay"},
		{"unknown activity", func(a *Assessment) { a.ActivityLevel = "COUCH" }, "activityLevel"},
		{"unknown feeling", func(a *Assessment) { a.EndOfDayFeeling = "MEH" }, "endOfDayFeeling"},
		{"drinker without frequency", func(a *Assessment) { a.DrinksAlcohol = true; a.AlcoholFrequency = "" }, "alcoholFrequency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := sampleAssessment()
			tt.mutate(&a)
			err := a.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_AlcoholFrequencyIgnoredForNonDrinkers(t *testing.T) {
	a := sampleAssessment()
	a.DrinksAlcohol = false
	a.AlcoholFrequency = ""
	assert.NoError(t, a.Validate())
}
