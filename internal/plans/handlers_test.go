package plans

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"welth-backend/internal/ai"
	"welth-backend/internal/auth"
	"welth-backend/internal/subscription"
)

// ---- fakes ----

type fakeStore struct {
	plans   []HabitPlan // oldest first
	saveErr error
}

func (f *fakeStore) Save(ctx context.Context, plan *HabitPlan, maxPlans int) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if maxPlans > 0 && len(f.plans) >= maxPlans {
		return ErrFreeLimitReached
	}
	if plan.ID == "" {
		plan.ID = fmt.Sprintf("plan-%d", len(f.plans)+1)
	}
	plan.CreatedAt = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(len(f.plans)) * time.Hour)
	f.plans = append(f.plans, *plan)
	return nil
}

func (f *fakeStore) CountForUser(ctx context.Context, userID int) (int, error) {
	return len(f.plans), nil
}

func (f *fakeStore) LatestForUser(ctx context.Context, userID int) (*HabitPlan, error) {
	if len(f.plans) == 0 {
		return nil, ErrNoPlan
	}
	p := f.plans[len(f.plans)-1]
	return &p, nil
}

func (f *fakeStore) AllForUser(ctx context.Context, userID, limit int) ([]HabitPlan, error) {
	var out []HabitPlan
	for i := len(f.plans) - 1; i >= 0; i-- {
		out = append(out, f.plans[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeTiers struct {
	sub *subscription.Subscription
}

func (f *fakeTiers) Lookup(ctx context.Context, userID int) (*subscription.Subscription, error) {
	return f.sub, nil
}

type fakeGenerator struct {
	text    string
	err     error
	calls   int
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func premiumTiers() *fakeTiers {
	return &fakeTiers{sub: &subscription.Subscription{Tier: "premium"}}
}

func freeTiers() *fakeTiers {
	return &fakeTiers{sub: nil}
}

func modelReply(habitCount int) string {
	habits := make([]string, habitCount)
	for i := range habits {
		habits[i] = fmt.Sprintf(`{
			"id": "habit-%d",
			"title": "Habit %d",
			"description": "Do the thing",
			"category": "sleep",
			"frequency": "daily",
			"priority": "high",
			"reasoning": "wake difficulty is 5 and sleep hours are 8.0"
		}`, i+1, i+1)
	}
	return "Sure! Here is your plan:\n{\"summary\": \"focus on sleep\", \"habits\": [" +
		strings.Join(habits, ",") + "]}\nGood luck!"
}

func doAssessment(t *testing.T, store Store, tiers Tiers, gen Generator, uid int, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/assessment", strings.NewReader(string(data)))
	if uid != 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), uid))
	}

	rec := httptest.NewRecorder()
	AssessmentHandler(nil, store, tiers, gen)(rec, req)
	return rec
}

// ---- POST /api/assessment ----

func TestAssessmentHandler_Success(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGenerator{text: modelReply(6)}

	rec := doAssessment(t, store, freeTiers(), gen, 1, sampleAssessment())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var plan HabitPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, 1, plan.UserID)
	assert.Equal(t, "focus on sleep", plan.Summary)
	assert.GreaterOrEqual(t, len(plan.Habits), 5)
	assert.LessOrEqual(t, len(plan.Habits), 10)
	for _, h := range plan.Habits {
		assert.NotEmpty(t, h.Reasoning)
	}
	assert.Equal(t, sampleAssessment(), plan.Assessment)

	count, _ := store.CountForUser(context.Background(), 1)
	assert.Equal(t, 1, count)
}

func TestAssessmentHandler_Unauthenticated(t *testing.T) {
	rec := doAssessment(t, &fakeStore{}, freeTiers(), &fakeGenerator{}, 0, sampleAssessment())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAssessmentHandler_InvalidAssessment(t *testing.T) {
	a := sampleAssessment()
	a.Age = 0

	gen := &fakeGenerator{text: modelReply(5)}
	rec := doAssessment(t, &fakeStore{}, freeTiers(), gen, 1, a)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, gen.calls)
}

func TestAssessmentHandler_FreeLimitReached(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGenerator{text: modelReply(5)}
	for i := 0; i < subscription.FreeEvaluationLimit; i++ {
		require.NoError(t, store.Save(context.Background(), &HabitPlan{UserID: 1}, 0))
	}

	rec := doAssessment(t, store, freeTiers(), gen, 1, sampleAssessment())
	require.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "FREE_LIMIT_REACHED", body["code"])
	assert.Equal(t, float64(subscription.FreeEvaluationLimit), body["limit"])

	// the gate runs before the model call
	assert.Zero(t, gen.calls)
}

func TestAssessmentHandler_LastFreeSlotPermitted(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < subscription.FreeEvaluationLimit-1; i++ {
		require.NoError(t, store.Save(context.Background(), &HabitPlan{UserID: 1}, 0))
	}

	gen := &fakeGenerator{text: modelReply(5)}
	rec := doAssessment(t, store, freeTiers(), gen, 1, sampleAssessment())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	count, _ := store.CountForUser(context.Background(), 1)
	assert.Equal(t, subscription.FreeEvaluationLimit, count)
}

func TestAssessmentHandler_PremiumBeyondLimit(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < subscription.FreeEvaluationLimit; i++ {
		require.NoError(t, store.Save(context.Background(), &HabitPlan{UserID: 1}, 0))
	}

	gen := &fakeGenerator{text: modelReply(5)}
	rec := doAssessment(t, store, premiumTiers(), gen, 1, sampleAssessment())
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAssessmentHandler_PremiumGetsHistoryContext(t *testing.T) {
	store := &fakeStore{}
	prior := &HabitPlan{
		UserID:     1,
		Assessment: sampleAssessment(),
		Habits:     []Habit{{ID: "habit-1", Title: "Earlier bedtime", Priority: "high"}},
		Summary:    "previous summary",
	}
	require.NoError(t, store.Save(context.Background(), prior, 0))

	gen := &fakeGenerator{text: modelReply(5)}
	rec := doAssessment(t, store, premiumTiers(), gen, 1, sampleAssessment())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "USER HISTORY")
	assert.Contains(t, gen.prompts[0], "Earlier bedtime")
}

func TestAssessmentHandler_FreeNeverGetsHistoryContext(t *testing.T) {
	store := &fakeStore{}
	require.NoError(t, store.Save(context.Background(), &HabitPlan{UserID: 1, Summary: "old"}, 0))

	gen := &fakeGenerator{text: modelReply(5)}
	rec := doAssessment(t, store, freeTiers(), gen, 1, sampleAssessment())
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, gen.prompts, 1)
	assert.NotContains(t, gen.prompts[0], "USER HISTORY")
}

func TestAssessmentHandler_MissingAPIKey(t *testing.T) {
	gen := &fakeGenerator{err: ai.ErrMissingAPIKey}
	rec := doAssessment(t, &fakeStore{}, freeTiers(), gen, 1, sampleAssessment())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "GOOGLE_GENERATIVE_AI_API_KEY")
}

func TestAssessmentHandler_UnparsableModelOutput(t *testing.T) {
	gen := &fakeGenerator{text: "I cannot answer in JSON today."}
	rec := doAssessment(t, &fakeStore{}, freeTiers(), gen, 1, sampleAssessment())

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// raw text is surfaced for diagnosis
	assert.Equal(t, "I cannot answer in JSON today.", body["details"])
}

func TestAssessmentHandler_RejectedPayloadShape(t *testing.T) {
	gen := &fakeGenerator{text: `{"summary": "no habits here", "habits": []}`}
	rec := doAssessment(t, &fakeStore{}, freeTiers(), gen, 1, sampleAssessment())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ---- GET /api/plans ----

func doGetPlans(t *testing.T, store Store, tiers Tiers, uid int, query string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/plans"+query, nil)
	if uid != 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), uid))
	}

	rec := httptest.NewRecorder()
	PlansHandler(nil, store, tiers)(rec, req)
	return rec
}

func TestPlansHandler_Latest(t *testing.T) {
	store := &fakeStore{}
	require.NoError(t, store.Save(context.Background(), &HabitPlan{UserID: 1, Summary: "older"}, 0))
	require.NoError(t, store.Save(context.Background(), &HabitPlan{UserID: 1, Summary: "newest"}, 0))

	rec := doGetPlans(t, store, freeTiers(), 1, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var plan HabitPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, "newest", plan.Summary)
}

func TestPlansHandler_NotFound(t *testing.T) {
	rec := doGetPlans(t, &fakeStore{}, freeTiers(), 1, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlansHandler_AllRequiresPremium(t *testing.T) {
	store := &fakeStore{}
	require.NoError(t, store.Save(context.Background(), &HabitPlan{UserID: 1}, 0))

	rec := doGetPlans(t, store, freeTiers(), 1, "?all=1")
	require.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PREMIUM_REQUIRED", body["code"])
}

func TestPlansHandler_AllForPremium(t *testing.T) {
	store := &fakeStore{}
	require.NoError(t, store.Save(context.Background(), &HabitPlan{UserID: 1, Summary: "one"}, 0))
	require.NoError(t, store.Save(context.Background(), &HabitPlan{UserID: 1, Summary: "two"}, 0))

	rec := doGetPlans(t, store, premiumTiers(), 1, "?all=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var history []HabitPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, "two", history[0].Summary) // newest first
}

func TestPlansHandler_Unauthenticated(t *testing.T) {
	rec := doGetPlans(t, &fakeStore{}, freeTiers(), 0, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
