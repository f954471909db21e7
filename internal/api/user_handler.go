package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/andreivolkov/gatechat/internal/auth"
	"github.com/andreivolkov/gatechat/internal/service"
)

// UserHandler handles user profile endpoints.
type UserHandler struct {
	users *service.UserService
	gates *service.GateService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, gates *service.GateService) *UserHandler {
	return &UserHandler{users: users, gates: gates}
}

// GetMe handles GET /api/v1/users/@me.
func (h *UserHandler) GetMe(c echo.Context) error {
	userID := auth.GetUserID(c)

	user, err := h.users.Get(c.Request().Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetUser handles GET /api/v1/users/:id.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid user id")
	}

	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

type updateMeRequest struct {
	DisplayName   *string `json:"display_name,omitempty"`
	AvatarHash    *string `json:"avatar_hash,omitempty"`
	WalletAddress *string `json:"wallet_address,omitempty"`
}

// UpdateMe handles PATCH /api/v1/users/@me.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateMeRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	userID := auth.GetUserID(c)

	user, err := h.users.UpdateProfile(c.Request().Context(), userID, req.DisplayName, req.AvatarHash, req.WalletAddress)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

type recordBalanceRequest struct {
	TokenSymbol string `json:"token_symbol"`
	Amount      int64  `json:"amount"`
}

// RecordBalance handles PUT /api/v1/users/@me/balances.
func (h *UserHandler) RecordBalance(c echo.Context) error {
	var req recordBalanceRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	userID := auth.GetUserID(c)

	if err := h.gates.RecordBalance(c.Request().Context(), userID, req.TokenSymbol, req.Amount); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
