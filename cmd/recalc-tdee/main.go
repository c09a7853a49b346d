// CLI tool to recompute adaptive TDEE and calorie goals for every user.
// Meant to run on a schedule (cron) so estimates stay current even for
// users who haven't triggered a recalculation through the API.
// Usage: go run ./cmd/recalc-tdee
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"lg/nutrition-go-api/internal/adaptive"
)

const numWorkers = 4

type result struct {
	userID int
	update *adaptive.GoalUpdate
	err    error
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	profiles, err := loadProfiles(ctx, pool)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profiles: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Recalculating goals for %d user(s)...\n", len(profiles))

	engine := adaptive.NewEngine()
	history := &dbHistory{pool: pool}
	store := &dbGoalStore{pool: pool}

	jobs := make(chan *adaptive.Profile)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				update, err := engine.RefreshUserGoals(ctx, history, store, p)
				results <- result{userID: p.UserID, update: update, err: err}
			}
		}()
	}
	go func() {
		for _, p := range profiles {
			jobs <- p
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var updated, skipped, failed int
	for r := range results {
		switch {
		case r.err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "  user %d: %v\n", r.userID, r.err)
		case r.update == nil:
			skipped++
		default:
			updated++
			fmt.Printf("  user %d: TDEE %.0f, target %.0f (confidence %.2f)\n",
				r.userID, r.update.NewTDEE, r.update.NewTargetCalories, r.update.Confidence)
		}
	}

	fmt.Printf("\nDone: %d updated, %d unchanged, %d failed.\n", updated, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func loadProfiles(ctx context.Context, pool *pgxpool.Pool) ([]*adaptive.Profile, error) {
	rows, err := pool.Query(ctx,
		`SELECT user_id, age, sex, height_cm, activity_level, goal,
		        estimated_tdee, COALESCE(tdee_confidence, 0),
		        target_calories, adaptive_calories
		 FROM user_profiles ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*adaptive.Profile
	for rows.Next() {
		p := &adaptive.Profile{}
		if err := rows.Scan(&p.UserID, &p.Age, &p.Sex, &p.HeightCM,
			&p.ActivityLevel, &p.Goal, &p.EstimatedTDEE, &p.TDEEConfidence,
			&p.TargetCalories, &p.AdaptiveCalories); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

/* ─── Port implementations over the pool ─────────────────────────────── */

type dbHistory struct {
	pool *pgxpool.Pool
}

func (h *dbHistory) RecentIntake(ctx context.Context, userID, limit int) ([]adaptive.IntakeRecord, error) {
	rows, err := h.pool.Query(ctx,
		`SELECT date, consumed_calories FROM (
			SELECT date, consumed_calories FROM daily_intake_log
			WHERE user_id = $1 ORDER BY date DESC LIMIT $2
		 ) recent ORDER BY date ASC`, userID, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (adaptive.IntakeRecord, error) {
		var r adaptive.IntakeRecord
		err := row.Scan(&r.Date, &r.ConsumedCalories)
		return r, err
	})
}

func (h *dbHistory) RecentWeights(ctx context.Context, userID, limit int) ([]adaptive.WeightObservation, error) {
	rows, err := h.pool.Query(ctx,
		`SELECT date, weight_kg FROM (
			SELECT date, weight_kg FROM weight_log
			WHERE user_id = $1 ORDER BY date DESC LIMIT $2
		 ) recent ORDER BY date ASC`, userID, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (adaptive.WeightObservation, error) {
		var o adaptive.WeightObservation
		err := row.Scan(&o.Date, &o.WeightKG)
		return o, err
	})
}

type dbGoalStore struct {
	pool *pgxpool.Pool
}

func (s *dbGoalStore) SaveGoals(ctx context.Context, userID int, goals adaptive.PersistedGoals) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE user_profiles SET
			estimated_tdee    = $1,
			tdee_confidence   = $2,
			adaptive_calories = $3,
			target_calories   = COALESCE($4, target_calories)
		 WHERE user_id = $5`,
		goals.EstimatedTDEE, goals.TDEEConfidence, goals.AdaptiveCalories,
		goals.TargetCalories, userID)
	return err
}
