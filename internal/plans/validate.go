package plans

import (
	"fmt"
	"strconv"
	"strings"
)

var validSexes = map[string]bool{
	"MALE": true, "FEMALE": true, "OTHER": true,
}

var validActivityLevels = map[string]bool{
	"SEDENTARY": true, "LIGHTLY_ACTIVE": true, "MODERATELY_ACTIVE": true,
	"VERY_ACTIVE": true, "EXTREMELY_ACTIVE": true,
}

var validEndOfDayFeelings = map[string]bool{
	"EXHAUSTED": true, "TIRED": true, "NEUTRAL": true,
	"ENERGETIC": true, "VERY_ENERGETIC": true,
}

var validAlcoholFrequencies = map[string]bool{
	"NEVER": true, "RARELY": true, "OCCASIONALLY": true,
	"WEEKLY": true, "DAILY": true,
}

// Validate checks the assessment is complete and in range before it may
// enter the pipeline.
func (a Assessment) Validate() error {
	if a.Age < 1 || a.Age > 120 {
		return fmt.Errorf("age must be between 1 and 120, got %d", a.Age)
	}
	if a.WeightKg <= 0 {
		return fmt.Errorf("weightKg must be positive")
	}
	if a.HeightM <= 0 {
		return fmt.Errorf("heightM must be positive")
	}
	if !validSexes[a.UserSex] {
		return fmt.Errorf("unknown userSex %q", a.UserSex)
	}

	times := []struct {
		name, value string
	}{
		{"wakeTime", a.WakeTime},
		{"sleepTime", a.SleepTime},
		{"breakfastTime", a.BreakfastTime},
		{"lunchTime", a.LunchTime},
		{"dinnerTime", a.DinnerTime},
	}
	for _, t := range times {
		if _, err := parseClock(t.value); err != nil {
			return fmt.Errorf("%s: %v", t.name, err)
		}
	}

	scales := []struct {
		name  string
		value int
	}{
		{"wakeDifficulty", a.WakeDifficulty},
		{"sleepRepairScore", a.SleepRepairScore},
		{"sleepOnsetScore", a.SleepOnsetScore},
		{"stressLevel", a.StressLevel},
		{"wellbeingScore", a.WellbeingScore},
		{"readinessChange", a.ReadinessChange},
		{"confidenceChange", a.ConfidenceChange},
	}
	for _, s := range scales {
		if s.value < 1 || s.value > 10 {
			return fmt.Errorf("%s must be between 1 and 10, got %d", s.name, s.value)
		}
	}

	counts := []struct {
		name  string
		value int
	}{
		{"waterCupsDay", a.WaterCupsDay},
		{"nightAwakenings", a.NightAwakenings},
		{"exerciseFrequencyPerWeek", a.ExerciseFrequencyPerWeek},
		{"tobaccoUnitsPerDay", a.TobaccoUnitsPerDay},
		{"fruitServingsDay", a.FruitServingsDay},
		{"vegetableServingsDay", a.VegetableServingsDay},
		{"processedFoodWeek", a.ProcessedFoodWeek},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("%s must not be negative, got %d", c.name, c.value)
		}
	}

	if !validActivityLevels[a.ActivityLevel] {
		return fmt.Errorf("unknown activityLevel %q", a.ActivityLevel)
	}
	if !validEndOfDayFeelings[a.EndOfDayFeeling] {
		return fmt.Errorf("unknown endOfDayFeeling %q", a.EndOfDayFeeling)
	}
	if a.DrinksAlcohol && !validAlcoholFrequencies[a.AlcoholFrequency] {
		return fmt.Errorf("unknown alcoholFrequency %q", a.AlcoholFrequency)
	}

	return nil
}

// parseClock parses an HH:MM string into minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	return h*60 + m, nil
}
