package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// FreeEvaluationLimit is the lifetime number of evaluations a free user gets.
const FreeEvaluationLimit = 10

// Subscription mirrors one row of the subscriptions table. Tier is derived,
// not stored: premium only counts while the period end (if any) is in the
// future.
type Subscription struct {
	Tier             string
	CurrentPeriodEnd *time.Time
}

// IsPremium reports whether sub grants premium at the given instant.
// A missing row means free.
func IsPremium(sub *Subscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	if sub.Tier != "premium" {
		return false
	}
	if sub.CurrentPeriodEnd == nil {
		return true
	}
	return sub.CurrentPeriodEnd.After(now)
}

type Service struct {
	DB *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Lookup fetches the user's subscription row. No row is not an error:
// the user is simply on the free tier.
func (s *Service) Lookup(ctx context.Context, userID int) (*Subscription, error) {
	var (
		tier string
		end  sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, `
		SELECT tier, current_period_end
		FROM subscriptions
		WHERE user_id=$1
	`, userID).Scan(&tier, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sub := &Subscription{Tier: tier}
	if end.Valid {
		t := end.Time
		sub.CurrentPeriodEnd = &t
	}
	return sub, nil
}

func (s *Service) IsPremium(ctx context.Context, userID int) (bool, error) {
	sub, err := s.Lookup(ctx, userID)
	if err != nil {
		return false, err
	}
	return IsPremium(sub, time.Now()), nil
}
