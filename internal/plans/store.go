package plans

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNoPlan indicates the user has no saved plan yet.
	ErrNoPlan = errors.New("no plan found")

	// ErrFreeLimitReached indicates the free-tier evaluation quota is used up.
	ErrFreeLimitReached = errors.New("free evaluation limit reached")
)

// Store persists habit plans. Orderable by creation time per user; the rest
// of the pipeline does not care what backs it.
type Store interface {
	// Save persists the plan, assigning ID and CreatedAt. When maxPlans > 0
	// the insert is refused with ErrFreeLimitReached if the user already has
	// that many plans; the check and the insert run in one transaction.
	Save(ctx context.Context, plan *HabitPlan, maxPlans int) error

	CountForUser(ctx context.Context, userID int) (int, error)
	LatestForUser(ctx context.Context, userID int) (*HabitPlan, error)
	AllForUser(ctx context.Context, userID, limit int) ([]HabitPlan, error)
}

type PostgresStore struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Save(ctx context.Context, plan *HabitPlan, maxPlans int) error {
	assessmentJSON, err := json.Marshal(plan.Assessment)
	if err != nil {
		return fmt.Errorf("marshaling assessment: %w", err)
	}
	habitsJSON, err := json.Marshal(plan.Habits)
	if err != nil {
		return fmt.Errorf("marshaling habits: %w", err)
	}

	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if maxPlans > 0 {
		// Lock the user row so two concurrent submissions can't both pass
		// the quota check.
		var locked int
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM users WHERE id=$1 FOR UPDATE`, plan.UserID,
		).Scan(&locked); err != nil {
			return fmt.Errorf("locking user row: %w", err)
		}

		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM habit_plans WHERE user_id=$1`, plan.UserID,
		).Scan(&count); err != nil {
			return fmt.Errorf("counting plans: %w", err)
		}
		if count >= maxPlans {
			return ErrFreeLimitReached
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO habit_plans (id, user_id, assessment, habits, summary)
		VALUES ($1, $2, $3::jsonb, $4::jsonb, $5)
		RETURNING created_at
	`, plan.ID, plan.UserID, string(assessmentJSON), string(habitsJSON), plan.Summary,
	).Scan(&plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	return tx.Commit()
}

func (s *PostgresStore) CountForUser(ctx context.Context, userID int) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM habit_plans WHERE user_id=$1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting plans: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) LatestForUser(ctx context.Context, userID int) (*HabitPlan, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, assessment, habits, summary
		FROM habit_plans
		WHERE user_id=$1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID)

	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPlan
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PostgresStore) AllForUser(ctx context.Context, userID, limit int) ([]HabitPlan, error) {
	query := `
		SELECT id, user_id, created_at, assessment, habits, summary
		FROM habit_plans
		WHERE user_id=$1
		ORDER BY created_at DESC, id DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var result []HabitPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *plan)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*HabitPlan, error) {
	var (
		p                HabitPlan
		assessmentJSON   []byte
		habitsJSON       []byte
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.CreatedAt, &assessmentJSON, &habitsJSON, &p.Summary); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(assessmentJSON, &p.Assessment); err != nil {
		return nil, fmt.Errorf("decoding stored assessment: %w", err)
	}
	if err := json.Unmarshal(habitsJSON, &p.Habits); err != nil {
		return nil, fmt.Errorf("decoding stored habits: %w", err)
	}
	return &p, nil
}
