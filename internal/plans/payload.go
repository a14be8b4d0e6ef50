package plans

import (
	"encoding/json"
	"fmt"
)

// ParsePlanPayload decodes the extracted model JSON into a PlanPayload and
// normalizes it. Shape mismatches are rejected instead of silently passed
// through: the model is untrusted input like any other.
func ParsePlanPayload(raw json.RawMessage) (PlanPayload, error) {
	var p PlanPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return PlanPayload{}, fmt.Errorf("decoding plan payload: %w", err)
	}

	if p.Summary == "" {
		return PlanPayload{}, fmt.Errorf("plan payload missing summary")
	}
	if len(p.Habits) == 0 {
		return PlanPayload{}, fmt.Errorf("plan payload has no habits")
	}

	for i := range p.Habits {
		h := &p.Habits[i]
		if h.Title == "" {
			return PlanPayload{}, fmt.Errorf("habit %d has no title", i+1)
		}
		if h.ID == "" {
			h.ID = fmt.Sprintf("habit-%d", i+1)
		}
		switch h.Priority {
		case "high", "medium", "low":
		default:
			h.Priority = "medium"
		}
	}

	return p, nil
}
