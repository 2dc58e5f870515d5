package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
)

// MeHandler serves the authenticated member's own profile.
type MeHandler struct {
	ledger ports.LedgerService
	tokens ports.AuthService
}

func NewMeHandler(ledger ports.LedgerService, tokens ports.AuthService) *MeHandler {
	return &MeHandler{ledger: ledger, tokens: tokens}
}

// Get handles GET /v1/me.
//
// @Summary      Current member
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/me [get]
func (h *MeHandler) Get(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	user, err := h.ledger.GetUser(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Rename handles PATCH /v1/me.
//
// @Summary      Change display name
// @Tags         me
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      renameRequest  true  "New display name"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/me [patch]
func (h *MeHandler) Rename(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req renameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.ledger.UpdateDisplayName(c.Request().Context(), userID, req.DisplayName)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// AttachWallet handles PUT /v1/me/wallet. The caller becomes an ambassador
// and receives a token carrying the new role.
//
// @Summary      Attach a wallet
// @Tags         me
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      walletRequest  true  "Wallet address"
// @Success      200   {object}  walletResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/me/wallet [put]
func (h *MeHandler) AttachWallet(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req walletRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	amb, err := h.ledger.AttachWallet(ctx, userID, req.Wallet)
	if err != nil {
		return fail(c, err)
	}
	user, err := h.ledger.GetUser(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	token, err := h.tokens.IssueToken(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, walletResponse{Token: token, Ambassador: toAmbassadorResponse(*amb)})
}

// Standing handles GET /v1/me/standing.
//
// @Summary      Ambassador dashboard summary
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  standingResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/me/standing [get]
func (h *MeHandler) Standing(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	st, err := h.ledger.Standing(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, standingResponse{
		AmbassadorID:   st.AmbassadorID,
		Rank:           st.Rank,
		Total:          st.Total,
		Score:          st.Score,
		PostsAuthored:  st.PostsAuthored,
		VotesReceived:  st.VotesReceived,
		CommentsPosted: st.CommentsPosted,
	})
}
