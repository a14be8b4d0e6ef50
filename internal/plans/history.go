package plans

import (
	"fmt"
	"strings"
)

// HistoryContextLimit caps how many prior plans are condensed into the
// prompt. Kept small to avoid token bloat.
const HistoryContextLimit = 3

// HistoryContext condenses prior plans (newest first) into one line each:
// date, a few trend scores, the summary and the top high-priority habits.
// Pure function of its input.
func HistoryContext(history []HabitPlan) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > HistoryContextLimit {
		history = history[:HistoryContextLimit]
	}

	lines := make([]string, 0, len(history))
	for _, p := range history {
		date := "no-date"
		if !p.CreatedAt.IsZero() {
			date = p.CreatedAt.UTC().Format("2006-01-02")
		}

		scores := fmt.Sprintf("wellbeing=%d, stress=%d, sleep=%d, exercise/wk=%d",
			p.Assessment.WellbeingScore,
			p.Assessment.StressLevel,
			p.Assessment.SleepRepairScore,
			p.Assessment.ExerciseFrequencyPerWeek,
		)

		var highPriority []string
		for _, h := range p.Habits {
			if h.Priority == "high" && h.Title != "" {
				highPriority = append(highPriority, h.Title)
				if len(highPriority) == 3 {
					break
				}
			}
		}

		line := fmt.Sprintf("- %s (%s): %s", date, scores, p.Summary)
		if len(highPriority) > 0 {
			line += " | High-priority habits: " + strings.Join(highPriority, "; ")
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
