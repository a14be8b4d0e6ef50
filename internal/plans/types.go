package plans

import "time"

// Assessment is the submitted health questionnaire. It is immutable once
// it enters the pipeline and is embedded verbatim in every saved plan so
// later evaluations can be compared against it.
type Assessment struct {
	Age      int     `json:"age"`
	WeightKg float64 `json:"weightKg"`
	HeightM  float64 `json:"heightM"`
	UserSex  string  `json:"userSex"` // MALE | FEMALE | OTHER

	WakeTime      string `json:"wakeTime"`      // HH:MM
	SleepTime     string `json:"sleepTime"`     // HH:MM
	BreakfastTime string `json:"breakfastTime"` // HH:MM
	LunchTime     string `json:"lunchTime"`     // HH:MM
	DinnerTime    string `json:"dinnerTime"`    // HH:MM

	WaterCupsDay     int `json:"waterCupsDay"`
	WakeDifficulty   int `json:"wakeDifficulty"` // 1-10, higher is worse
	NightAwakenings  int `json:"nightAwakenings"`
	SleepRepairScore int `json:"sleepRepairScore"` // 1-10
	SleepOnsetScore  int `json:"sleepOnsetScore"`  // 1-10

	ActivityLevel            string `json:"activityLevel"` // SEDENTARY..EXTREMELY_ACTIVE
	ExerciseFrequencyPerWeek int    `json:"exerciseFrequencyPerWeek"`

	StressLevel      int    `json:"stressLevel"` // 1-10
	EndOfDayFeeling  string `json:"endOfDayFeeling"`
	WellbeingScore   int    `json:"wellbeingScore"`   // 1-10
	ReadinessChange  int    `json:"readinessChange"`  // 1-10
	ConfidenceChange int    `json:"confidenceChange"` // 1-10

	DrinksAlcohol     bool   `json:"drinksAlcohol"`
	AlcoholFrequency  string `json:"alcoholFrequency"` // NEVER..DAILY
	SmokesTobacco     bool   `json:"smokesTobacco"`
	TobaccoUnitsPerDay int   `json:"tobaccoUnitsPerDay"`

	FruitServingsDay    int `json:"fruitServingsDay"`
	VegetableServingsDay int `json:"vegetableServingsDay"`
	ProcessedFoodWeek   int `json:"processedFoodWeek"`
}

// Habit is produced entirely by the model. The pipeline checks shape, not
// whether the advice is any good.
type Habit struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`  // sleep|nutrition|exercise|hydration|stress|wellbeing
	Frequency   string `json:"frequency"` // daily|weekly|monthly
	TimeOfDay   string `json:"timeOfDay,omitempty"`
	Priority    string `json:"priority"` // high|medium|low
	Reasoning   string `json:"reasoning"`
}

// HabitPlan is one successful pipeline run. Never mutated after save.
type HabitPlan struct {
	ID         string     `json:"id"`
	UserID     int        `json:"userId"`
	CreatedAt  time.Time  `json:"createdAt"`
	Assessment Assessment `json:"assessment"`
	Habits     []Habit    `json:"habits"`
	Summary    string     `json:"summary"`
}

// PlanPayload is the shape we require from the model output.
type PlanPayload struct {
	Summary string  `json:"summary"`
	Habits  []Habit `json:"habits"`
}
