package plans

import (
	"fmt"
	"strings"
)

const promptGlossary = `FIELD GLOSSARY AND INTERPRETATION (so you understand every key and what its value means):
- age: age in years. Older users usually need more gradual progression and injury prevention.
- weightKg: weight in kilograms. Use together with heightM to interpret BMI (bmi).
- heightM: height in meters.
- bmi: approximate indicator (kg/m²). Use it only as a signal; avoid clinical recommendations/diagnoses.

- userSex: reported sex. Possible values: MALE | FEMALE | OTHER. Use it to adjust language and examples, not to assume medical conditions.

- wakeTime / sleepTime / breakfastTime / lunchTime / dinnerTime: times in HH:MM format. Interpret consistency, sleep window and meal regularity.
- sleepHours: estimated total hours (derived from sleepTime and wakeTime). If low, prioritize sleep hygiene.

- wakeDifficulty (1-10): difficulty waking up. 1=very easy, 10=very hard. High suggests insufficient sleep, poor quality or irregular schedule.
- nightAwakenings: number of night awakenings. High suggests fragmentation; prioritize routine, environment and stimulus control.
- sleepRepairScore (1-10): restorative sleep. 1=not restorative at all, 10=very restorative. Low: focus on sleep habits.
- sleepOnsetScore (1-10): ease of falling asleep. 1=very hard, 10=very easy. Low: reduce stimulants, screens, stress.

- waterCupsDay: cups of water per day. Low: prioritize hydration with simple actions.
- fruitServingsDay / vegetableServingsDay: daily servings. Low: prioritize gradual increases and practical strategies.
- processedFoodWeek: weekly processed-food frequency. High: prioritize substitutions and planning.

- activityLevel: overall activity level. Values: SEDENTARY | LIGHTLY_ACTIVE | MODERATELY_ACTIVE | VERY_ACTIVE | EXTREMELY_ACTIVE.
  Interpret as: SEDENTARY=very low movement; LIGHTLY_ACTIVE=low; MODERATELY_ACTIVE=medium; VERY_ACTIVE=high; EXTREMELY_ACTIVE=very high.
- exerciseFrequencyPerWeek: exercise sessions per week (number). If 0-1, propose adherence habits and a "minimum viable" routine.

- stressLevel (1-10): perceived stress. 1=very low, 10=very high. High: prioritize regulation and anti-stress habits.
- endOfDayFeeling: how the user feels at the end of the day. Values: EXHAUSTED | TIRED | NEUTRAL | ENERGETIC | VERY_ENERGETIC.
  Treat EXHAUSTED/TIRED as a signal of overload or poor recovery.
- wellbeingScore (1-10): overall wellbeing. 1=very low, 10=very high. Low: prioritize the highest-impact habits.
- readinessChange (1-10): readiness to change. 1=not willing at all, 10=very willing.
- confidenceChange (1-10): confidence in being able to change. 1=not confident at all, 10=very confident.
  If readiness/confidence are low, reduce complexity, increase gradualism and lean on micro-habits.

- drinksAlcohol: boolean. true=drinks alcohol, false=does not.
- alcoholFrequency: if drinksAlcohol=true, how often. Values: NEVER | RARELY | OCCASIONALLY | WEEKLY | DAILY.
  Interpretation: RARELY/OCCASIONALLY = low; WEEKLY = medium; DAILY = high.
- smokesTobacco: boolean. true=smokes, false=does not.
- tobaccoUnitsPerDay: if smokesTobacco=true, daily units. High: prioritize gradual reduction and healthy substitutions.`

const promptOutputFormat = `REQUIRED OUTPUT:
Generate a plan in JSON format. Meaning of each output key:
- summary: brief summary (2-5 sentences) of the user analysis and the main areas to improve (no medical/diagnostic language).
- habits: list of actionable habits. Each habit must:
  - be specific, measurable and realistic;
  - include "reasoning" explicitly connecting it to the user's data;
  - avoid medical advice and clinical assumptions;
  - not repeat habits already suggested in the history verbatim (if there is history), unless you adjust the strategy and justify it.

GENERATE A HABIT PLAN in JSON format with EXACTLY this structure:
{
  "summary": "A brief summary of the user analysis and the main areas to improve",
  "habits": [
    {
      "id": "habit-1",
      "title": "Short habit title",
      "description": "Detailed description of the habit and how to implement it",
      "category": "sleep | nutrition | exercise | hydration | stress | wellbeing",
      "frequency": "daily | weekly | monthly",
      "timeOfDay": "morning | afternoon | evening | variable",
      "priority": "high | medium | low",
      "reasoning": "Why this habit matters for this specific user"
    }
  ]
}

INSTRUCTIONS:
1. Generate between 5 and 10 prioritized habits
2. Focus on the areas that most need improvement according to the data
3. Be specific and practical in the recommendations
4. Take the user's readiness to change into account
5. Prioritize high-impact, easy-to-implement habits
6. Reply ONLY with the JSON, no additional text`

// BuildAssessmentPrompt renders the assessment into the model instruction
// string. Pure function: same assessment and history always produce the
// same bytes.
func BuildAssessmentPrompt(a Assessment, historyContext string) string {
	bmi := a.WeightKg / (a.HeightM * a.HeightM)
	sleepHours := SleepHours(a.SleepTime, a.WakeTime)

	var b strings.Builder

	b.WriteString("You are a health and wellness expert. Analyze the following user assessment and generate a personalized plan of healthy habits.\n\n")
	b.WriteString(promptGlossary)
	b.WriteString("\n\n")

	b.WriteString("USER INFORMATION:\n")
	fmt.Fprintf(&b, "- Age: %d years\n", a.Age)
	fmt.Fprintf(&b, "- Sex: %s\n", a.UserSex)
	fmt.Fprintf(&b, "- Weight: %g kg\n", a.WeightKg)
	fmt.Fprintf(&b, "- Height: %g m\n", a.HeightM)
	fmt.Fprintf(&b, "- BMI: %.1f\n\n", bmi)

	b.WriteString("SLEEP PATTERNS:\n")
	fmt.Fprintf(&b, "- Wake time: %s\n", a.WakeTime)
	fmt.Fprintf(&b, "- Sleep time: %s\n", a.SleepTime)
	fmt.Fprintf(&b, "- Sleep hours: %.1f\n", sleepHours)
	fmt.Fprintf(&b, "- Wake difficulty (1-10): %d\n", a.WakeDifficulty)
	fmt.Fprintf(&b, "- Night awakenings: %d\n", a.NightAwakenings)
	fmt.Fprintf(&b, "- Restorative sleep score (1-10): %d\n", a.SleepRepairScore)
	fmt.Fprintf(&b, "- Sleep onset ease (1-10): %d\n\n", a.SleepOnsetScore)

	b.WriteString("NUTRITION:\n")
	fmt.Fprintf(&b, "- Breakfast: %s\n", a.BreakfastTime)
	fmt.Fprintf(&b, "- Lunch: %s\n", a.LunchTime)
	fmt.Fprintf(&b, "- Dinner: %s\n", a.DinnerTime)
	fmt.Fprintf(&b, "- Cups of water per day: %d\n", a.WaterCupsDay)
	fmt.Fprintf(&b, "- Fruit servings per day: %d\n", a.FruitServingsDay)
	fmt.Fprintf(&b, "- Vegetable servings per day: %d\n", a.VegetableServingsDay)
	fmt.Fprintf(&b, "- Processed food per week: %d\n\n", a.ProcessedFoodWeek)

	b.WriteString("PHYSICAL ACTIVITY:\n")
	fmt.Fprintf(&b, "- Activity level: %s\n", a.ActivityLevel)
	fmt.Fprintf(&b, "- Exercise sessions per week: %d\n\n", a.ExerciseFrequencyPerWeek)

	b.WriteString("GENERAL WELLBEING:\n")
	fmt.Fprintf(&b, "- Stress level (1-10): %d\n", a.StressLevel)
	fmt.Fprintf(&b, "- End-of-day feeling: %s\n", a.EndOfDayFeeling)
	fmt.Fprintf(&b, "- Wellbeing score (1-10): %d\n", a.WellbeingScore)
	fmt.Fprintf(&b, "- Readiness to change (1-10): %d\n", a.ReadinessChange)
	fmt.Fprintf(&b, "- Confidence to change (1-10): %d\n\n", a.ConfidenceChange)

	b.WriteString("HABITS:\n")
	fmt.Fprintf(&b, "- Drinks alcohol: %s\n", yesNo(a.DrinksAlcohol))
	if a.DrinksAlcohol {
		fmt.Fprintf(&b, "- Alcohol frequency: %s\n", a.AlcoholFrequency)
	}
	fmt.Fprintf(&b, "- Smokes tobacco: %s\n", yesNo(a.SmokesTobacco))
	if a.SmokesTobacco {
		fmt.Fprintf(&b, "- Tobacco units per day: %d\n", a.TobaccoUnitsPerDay)
	}
	b.WriteString("\n")

	if historyContext != "" {
		b.WriteString("USER HISTORY (premium only; use it as context to detect progress/regressions, avoid repeating recommendations that add no value, and propose more personalized improvements):\n")
		b.WriteString(historyContext)
		b.WriteString("\n\n")
	}

	b.WriteString(promptOutputFormat)

	return b.String()
}

// SleepHours computes the estimated sleep duration between two HH:MM times.
// A wake time numerically earlier than the sleep time crosses midnight.
func SleepHours(sleepTime, wakeTime string) float64 {
	sleepMin, err := parseClock(sleepTime)
	if err != nil {
		return 0
	}
	wakeMin, err := parseClock(wakeTime)
	if err != nil {
		return 0
	}

	if wakeMin < sleepMin {
		wakeMin += 24 * 60
	}

	return float64(wakeMin-sleepMin) / 60
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
