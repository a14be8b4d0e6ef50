package plans

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"welth-backend/internal/ai"
	"welth-backend/internal/analytics"
	"welth-backend/internal/auth"
	"welth-backend/internal/subscription"
)

// Generator is the opaque text-generation collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Tiers answers subscription lookups; satisfied by *subscription.Service.
type Tiers interface {
	Lookup(ctx context.Context, userID int) (*subscription.Subscription, error)
}

// AssessmentHandler serves POST /api/assessment: the full pipeline from
// validated questionnaire to persisted habit plan.
func AssessmentHandler(dbx *sql.DB, store Store, tiers Tiers, gen Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
			return
		}

		sub, err := tiers.Lookup(r.Context(), uid)
		if err != nil {
			log.Printf("[WARN] subscription lookup failed user_id=%d: %v", uid, err)
			sub = nil // treat as free
		}
		isPremium := subscription.IsPremium(sub, time.Now())

		// Hard allow/deny gate, checked before the model call so refused
		// requests don't burn a generation.
		if !isPremium {
			count, err := store.CountForUser(r.Context(), uid)
			if err != nil {
				log.Printf("[WARN] counting plans failed user_id=%d: %v", uid, err)
				writeError(w, http.StatusInternalServerError, map[string]any{
					"error": "failed to validate plan limit",
				})
				return
			}
			if count >= subscription.FreeEvaluationLimit {
				logFreeLimitHit(r, dbx, uid, count)
				writeError(w, http.StatusForbidden, freeLimitBody())
				return
			}
		}

		var assessment Assessment
		if err := json.NewDecoder(r.Body).Decode(&assessment); err != nil {
			writeError(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
			return
		}
		if err := assessment.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, map[string]any{
				"error": "missing or invalid fields in assessment",
				"details": err.Error(),
			})
			return
		}

		{
			env := analytics.FromRequest(r)
			env.UserID = uid
			props := map[string]any{
				"premium":         isPremium,
				"wellbeing_score": assessment.WellbeingScore,
				"stress_level":    assessment.StressLevel,
			}
			_ = analytics.Log(r.Context(), dbx, env, "assessment_submitted", props, analytics.SourceEventKeyFromRequest(r))
		}

		// Premium only: condensed recent history feeds the prompt.
		historyContext := ""
		if isPremium {
			history, err := store.AllForUser(r.Context(), uid, HistoryContextLimit)
			if err != nil {
				log.Printf("[WARN] fetching history failed user_id=%d: %v", uid, err)
			} else {
				historyContext = HistoryContext(history)
			}
		}

		prompt := BuildAssessmentPrompt(assessment, historyContext)

		text, err := gen.Generate(r.Context(), prompt)
		if err != nil {
			if errors.Is(err, ai.ErrMissingAPIKey) {
				writeError(w, http.StatusInternalServerError, map[string]any{
					"error": "missing GOOGLE_GENERATIVE_AI_API_KEY configuration",
				})
				return
			}
			log.Printf("[WARN] generation failed user_id=%d: %v", uid, err)
			writeError(w, http.StatusInternalServerError, map[string]any{
				"error":   "failed to generate habit plan",
				"details": err.Error(),
			})
			return
		}

		raw, err := ai.ExtractJSON(text)
		if err != nil {
			// Surface the raw reply so the failure can be diagnosed.
			log.Printf("[WARN] unparsable AI response user_id=%d: %v\n%s", uid, err, text)
			writeError(w, http.StatusInternalServerError, map[string]any{
				"error":   "failed to parse AI response",
				"details": text,
			})
			return
		}

		payload, err := ParsePlanPayload(raw)
		if err != nil {
			log.Printf("[WARN] rejected AI payload user_id=%d: %v\n%s", uid, err, text)
			writeError(w, http.StatusInternalServerError, map[string]any{
				"error":   "failed to parse AI response",
				"details": err.Error(),
			})
			return
		}

		plan := &HabitPlan{
			UserID:     uid,
			Assessment: assessment,
			Habits:     payload.Habits,
			Summary:    payload.Summary,
		}

		// Free users get the quota re-checked inside the insert transaction:
		// the pre-check above races against concurrent submissions.
		maxPlans := 0
		if !isPremium {
			maxPlans = subscription.FreeEvaluationLimit
		}
		if err := store.Save(r.Context(), plan, maxPlans); err != nil {
			if errors.Is(err, ErrFreeLimitReached) {
				writeError(w, http.StatusForbidden, freeLimitBody())
				return
			}
			log.Printf("[WARN] saving plan failed user_id=%d: %v", uid, err)
			writeError(w, http.StatusInternalServerError, map[string]any{
				"error": "failed to persist habit plan",
			})
			return
		}

		{
			env := analytics.FromRequest(r)
			env.UserID = uid
			props := map[string]any{
				"plan_id":     plan.ID,
				"habit_count": len(plan.Habits),
				"premium":     isPremium,
				"had_history": historyContext != "",
			}
			_ = analytics.Log(r.Context(), dbx, env, "plan_generated", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(plan)
	}
}

// PlansHandler serves GET /api/plans: latest plan by default, the full
// history for premium users with ?all=1.
func PlansHandler(dbx *sql.DB, store Store, tiers Tiers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
			return
		}

		wantAll := r.URL.Query().Get("all") == "1"

		if wantAll {
			sub, err := tiers.Lookup(r.Context(), uid)
			if err != nil {
				log.Printf("[WARN] subscription lookup failed user_id=%d: %v", uid, err)
				sub = nil
			}
			if !subscription.IsPremium(sub, time.Now()) {
				writeError(w, http.StatusForbidden, map[string]any{
					"error": "full history requires a premium subscription",
					"code":  "PREMIUM_REQUIRED",
				})
				return
			}

			history, err := store.AllForUser(r.Context(), uid, 0)
			if err != nil {
				log.Printf("[WARN] fetching plans failed user_id=%d: %v", uid, err)
				writeError(w, http.StatusInternalServerError, map[string]any{"error": "failed to fetch plans"})
				return
			}
			if len(history) == 0 {
				writeError(w, http.StatusNotFound, map[string]any{"error": "no plan found for this user"})
				return
			}

			logPlanViewed(r, dbx, uid, len(history), true)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(history)
			return
		}

		plan, err := store.LatestForUser(r.Context(), uid)
		if errors.Is(err, ErrNoPlan) {
			writeError(w, http.StatusNotFound, map[string]any{"error": "no plan found for this user"})
			return
		}
		if err != nil {
			log.Printf("[WARN] fetching plan failed user_id=%d: %v", uid, err)
			writeError(w, http.StatusInternalServerError, map[string]any{"error": "failed to fetch plan"})
			return
		}

		logPlanViewed(r, dbx, uid, 1, false)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(plan)
	}
}

func freeLimitBody() map[string]any {
	return map[string]any{
		"error": "you have reached the free evaluation limit; upgrade to premium for unlimited evaluations and full history",
		"code":  "FREE_LIMIT_REACHED",
		"limit": subscription.FreeEvaluationLimit,
	}
}

func logFreeLimitHit(r *http.Request, dbx *sql.DB, uid, count int) {
	env := analytics.FromRequest(r)
	env.UserID = uid
	props := map[string]any{
		"evaluation_count": count,
		"limit":            subscription.FreeEvaluationLimit,
	}
	_ = analytics.Log(r.Context(), dbx, env, "free_limit_hit", props, analytics.SourceEventKeyFromRequest(r))
}

func logPlanViewed(r *http.Request, dbx *sql.DB, uid, planCount int, all bool) {
	env := analytics.FromRequest(r)
	env.UserID = uid
	props := map[string]any{
		"plan_count": planCount,
		"all":        all,
	}
	_ = analytics.Log(r.Context(), dbx, env, "plan_viewed", props, analytics.SourceEventKeyFromRequest(r))
}

func writeError(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
