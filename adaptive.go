package main

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lg/nutrition-go-api/internal/adaptive"
)

/* ─── Port implementations ───────────────────────────────────────────── */

// pgxHistoryProvider backs adaptive.HistoryProvider with the weight_log and
// daily_intake_log tables. Both queries return the most recent `limit` rows
// re-ordered date-ascending, which is the order the estimator expects.
type pgxHistoryProvider struct {
	db *pgxpool.Pool
}

func (p *pgxHistoryProvider) RecentIntake(ctx context.Context, userID, limit int) ([]adaptive.IntakeRecord, error) {
	entries, err := queryMany[intakeEntry](p.db, ctx,
		`SELECT * FROM (
			SELECT * FROM daily_intake_log
			WHERE user_id = @userID
			ORDER BY date DESC LIMIT @limit
		 ) recent ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("query intake history: %w", err)
	}
	return toIntakeRecords(entries), nil
}

func (p *pgxHistoryProvider) RecentWeights(ctx context.Context, userID, limit int) ([]adaptive.WeightObservation, error) {
	entries, err := queryMany[weightEntry](p.db, ctx,
		`SELECT * FROM (
			SELECT * FROM weight_log
			WHERE user_id = @userID
			ORDER BY date DESC LIMIT @limit
		 ) recent ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("query weight history: %w", err)
	}
	return toObservations(entries), nil
}

// pgxGoalStore backs adaptive.GoalStore. A nil TargetCalories leaves the
// user-visible target untouched (COALESCE keeps the current column value).
type pgxGoalStore struct {
	db *pgxpool.Pool
}

func (s *pgxGoalStore) SaveGoals(ctx context.Context, userID int, goals adaptive.PersistedGoals) error {
	_, err := s.db.Exec(ctx,
		`UPDATE user_profiles SET
			estimated_tdee    = @estimatedTDEE,
			tdee_confidence   = @tdeeConfidence,
			adaptive_calories = @adaptiveCalories,
			target_calories   = COALESCE(@targetCalories, target_calories)
		 WHERE user_id = @userID`,
		pgx.NamedArgs{
			"userID":           userID,
			"estimatedTDEE":    goals.EstimatedTDEE,
			"tdeeConfidence":   goals.TDEEConfidence,
			"adaptiveCalories": goals.AdaptiveCalories,
			"targetCalories":   goals.TargetCalories,
		})
	if err != nil {
		return fmt.Errorf("update user_profiles goals: %w", err)
	}
	return nil
}

// refreshAdaptiveGoals runs the full estimate-and-persist cycle for one user.
// Returns nil when the update gate rejects. Callers on the request path for
// the same user are serialized by the DB row update itself; concurrent
// refreshes for different users need no coordination.
func (h *Handler) refreshAdaptiveGoals(ctx context.Context, userID int) (*adaptive.GoalUpdate, error) {
	p, err := queryOne[userProfile](h.db, ctx,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("load profile for user %d: %w", userID, err)
	}

	history := &pgxHistoryProvider{db: h.db}
	store := &pgxGoalStore{db: h.db}
	return h.engine.RefreshUserGoals(ctx, history, store, p.adaptiveProfile())
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// getAdaptiveEstimate computes a TDEE estimate without persisting anything.
// GET /api/adaptive/estimate. The response includes the formula baseline so
// clients can show "formula says X, your data says Y".
func (h *Handler) getAdaptiveEstimate(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	history := &pgxHistoryProvider{db: h.db}
	intake, err := history.RecentIntake(c, userID, h.engine.AnalysisWindowDays)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch intake history")
		return
	}
	weights, err := history.RecentWeights(c, userID, h.engine.AnalysisWindowDays)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight history")
		return
	}

	profile := p.adaptiveProfile()
	est := h.engine.AdaptiveTDEE(profile, intake, weights)

	currentWeight := 70.0
	if len(weights) > 0 {
		currentWeight = weights[len(weights)-1].WeightKG
	}
	traditional := int(math.Round(h.engine.TraditionalTDEE(profile, currentWeight)))

	c.JSON(http.StatusOK, adaptiveEstimateResponse{
		Estimate:        est,
		TraditionalTDEE: traditional,
		IntakeDays:      len(intake),
		WeightDays:      len(weights),
	})
}

// recalculateGoals runs the estimate-and-persist cycle on demand.
// POST /api/adaptive/recalculate. Returns 200 with the GoalUpdate when the
// gate accepts, 204 when the current estimate isn't trustworthy or different
// enough to persist.
func (h *Handler) recalculateGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	update, err := h.refreshAdaptiveGoals(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to recalculate goals")
		return
	}
	if update == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, goalUpdateResponse{
		NewTDEE:           update.NewTDEE,
		NewTargetCalories: update.NewTargetCalories,
		Confidence:        update.Confidence,
		Rationale:         update.Rationale,
		EffectiveDate:     DateOnly{update.EffectiveDate},
	})
}
