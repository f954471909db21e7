package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/andreivolkov/gatechat/internal/auth"
	"github.com/andreivolkov/gatechat/internal/service"
)

// InviteHandler handles invite endpoints.
type InviteHandler struct {
	invites *service.InviteService
}

// NewInviteHandler creates an InviteHandler.
func NewInviteHandler(invites *service.InviteService) *InviteHandler {
	return &InviteHandler{invites: invites}
}

type createInviteRequest struct {
	MaxUses   int        `json:"max_uses"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CreateInvite handles POST /api/v1/channels/:id/invites.
func (h *InviteHandler) CreateInvite(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	var req createInviteRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	invite, err := h.invites.Create(c.Request().Context(), channelID, auth.GetUserID(c), req.MaxUses, req.ExpiresAt)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, invite)
}

// ListInvites handles GET /api/v1/channels/:id/invites.
func (h *InviteHandler) ListInvites(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	invites, err := h.invites.List(c.Request().Context(), channelID, auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, invites)
}

// GetInvite handles GET /api/v1/invites/:code.
func (h *InviteHandler) GetInvite(c echo.Context) error {
	invite, err := h.invites.Get(c.Request().Context(), c.Param("code"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, invite)
}

// AcceptInvite handles POST /api/v1/invites/:code.
func (h *InviteHandler) AcceptInvite(c echo.Context) error {
	member, err := h.invites.Redeem(c.Request().Context(), c.Param("code"), auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, member)
}

// RevokeInvite handles DELETE /api/v1/invites/:code.
func (h *InviteHandler) RevokeInvite(c echo.Context) error {
	if err := h.invites.Delete(c.Request().Context(), c.Param("code"), auth.GetUserID(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
