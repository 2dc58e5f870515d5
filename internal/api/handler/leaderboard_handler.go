package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
)

// LeaderboardHandler serves the public ranking and ambassador profiles.
type LeaderboardHandler struct {
	ledger ports.LedgerService
}

func NewLeaderboardHandler(ledger ports.LedgerService) *LeaderboardHandler {
	return &LeaderboardHandler{ledger: ledger}
}

// Rank handles GET /v1/leaderboard.
//
// @Summary      Leaderboard
// @Tags         leaderboard
// @Produce      json
// @Param        period  query     string  false  "all-time (default), last-7-days or last-30-days"
// @Param        limit   query     int     false  "Rows to return, 1-100 (default 9)"
// @Success      200     {object}  leaderboardResponse
// @Failure      400     {object}  errorResponse
// @Router       /v1/leaderboard [get]
func (h *LeaderboardHandler) Rank(c echo.Context) error {
	var q leaderboardQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	period, err := domain.ParsePeriod(q.Period)
	if err != nil {
		return fail(c, err)
	}

	entries, err := h.ledger.RankLeaderboard(c.Request().Context(), period, q.Limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toLeaderboardResponse(period, entries))
}

// Ambassador handles GET /v1/ambassadors/:id.
//
// @Summary      Ambassador profile
// @Tags         leaderboard
// @Produce      json
// @Param        id   path      string  true  "Ambassador id"
// @Success      200  {object}  ambassadorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/ambassadors/{id} [get]
func (h *LeaderboardHandler) Ambassador(c echo.Context) error {
	amb, err := h.ledger.GetAmbassador(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toAmbassadorResponse(*amb))
}

// VerifyScores handles GET /v1/admin/scores/verify. Ambassadors only.
//
// @Summary      Replay scores and report drift
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  verifyResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/scores/verify [get]
func (h *LeaderboardHandler) VerifyScores(c echo.Context) error {
	drifts, err := h.ledger.VerifyScores(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toVerifyResponse(drifts))
}
