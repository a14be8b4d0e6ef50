package subscription

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"welth-backend/internal/auth"
)

// PlanCounter is the slice of the plan store this package needs.
type PlanCounter interface {
	CountForUser(ctx context.Context, userID int) (int, error)
}

// Tiers answers premium checks; satisfied by *Service.
type Tiers interface {
	Lookup(ctx context.Context, userID int) (*Subscription, error)
}

// MeHandler serves GET /api/me: tier plus evaluation usage.
func MeHandler(tiers Tiers, counter PlanCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		sub, err := tiers.Lookup(r.Context(), uid)
		if err != nil {
			// Missing subscription data never blocks the app: treat as free.
			log.Printf("[WARN] subscription lookup failed user_id=%d: %v", uid, err)
			sub = nil
		}
		isPremium := IsPremium(sub, time.Now())

		count, err := counter.CountForUser(r.Context(), uid)
		if err != nil {
			log.Printf("[WARN] counting plans failed user_id=%d: %v", uid, err)
			writeError(w, http.StatusInternalServerError, "failed to load usage")
			return
		}

		freeRemaining := FreeEvaluationLimit - count
		if freeRemaining < 0 {
			freeRemaining = 0
		}

		tier := "free"
		if isPremium {
			tier = "premium"
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"isPremium":       isPremium,
			"tier":            tier,
			"evaluationCount": count,
			"freeLimit":       FreeEvaluationLimit,
			"freeRemaining":   freeRemaining,
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
