package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
)

type AuthHandler struct {
	ledger ports.LedgerService
	tokens ports.AuthService
}

func NewAuthHandler(ledger ports.LedgerService, tokens ports.AuthService) *AuthHandler {
	return &AuthHandler{ledger: ledger, tokens: tokens}
}

// Signup registers a member and returns a session token.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Member details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.ledger.Signup(c.Request().Context(), ports.SignupInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		PIN:         req.PIN,
	})
	if err != nil {
		return fail(c, err)
	}
	return h.respondWithToken(c, http.StatusCreated, user)
}

// Login authenticates a member and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.ledger.Login(c.Request().Context(), req.Email, req.PIN)
	if err != nil {
		return fail(c, err)
	}
	return h.respondWithToken(c, http.StatusOK, user)
}

// Logout closes the ledger session. Tokens are stateless and simply expire.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.ledger.Logout(c.Request().Context()); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Session returns the member holding the ledger session, if any.
//
// @Summary      Current ledger session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	user, err := h.ledger.CurrentUser(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) respondWithToken(c echo.Context, status int, user *domain.User) error {
	token, err := h.tokens.IssueToken(user)
	if err != nil {
		return err
	}
	return c.JSON(status, authResponse{Token: token, User: toUserResponse(user)})
}
