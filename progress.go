package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getProgressSummary returns aggregate intake and weight stats for an
// arbitrary date range, including the fitted weekly weight trend.
// GET /api/progress/summary?start=YYYY-MM-DD&end=YYYY-MM-DD. Both required.
func (h *Handler) getProgressSummary(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	intake, err := queryMany[intakeEntry](h.db, c,
		`SELECT * FROM daily_intake_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch intake log")
		return
	}
	weights, err := queryMany[weightEntry](h.db, c,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}

	summary := progressSummary{
		Start:     start,
		End:       end,
		TotalDays: int(endDate.Sub(startDate).Hours()/24) + 1,
	}

	var totalCalories float64
	for _, e := range intake {
		if e.ConsumedCalories > 0 {
			summary.DaysLogged++
			totalCalories += e.ConsumedCalories
		}
	}
	if summary.DaysLogged > 0 {
		summary.AvgCalories = totalCalories / float64(summary.DaysLogged)
	}
	if summary.TotalDays > 0 {
		summary.LoggingConsistency = float64(summary.DaysLogged) / float64(summary.TotalDays)
	}

	if len(weights) > 0 {
		first := weights[0].WeightKG
		last := weights[len(weights)-1].WeightKG
		change := last - first
		summary.WeightStart = &first
		summary.WeightEnd = &last
		summary.WeightChangeKG = &change

		// Fit over the whole requested range, not just the estimator's
		// default window.
		summary.WeeklyTrendKG, summary.TrendConfidence =
			h.engine.WeightTrend(toObservations(weights), len(weights))
	}

	c.JSON(http.StatusOK, summary)
}
