package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/andreivolkov/gatechat/internal/auth"
	"github.com/andreivolkov/gatechat/internal/service"
)

// MemberHandler handles member listing and moderation endpoints.
type MemberHandler struct {
	members *service.MemberService
}

// NewMemberHandler creates a MemberHandler.
func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// ListMembers handles GET /api/v1/channels/:id/members.
func (h *MemberHandler) ListMembers(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	members, err := h.members.List(c.Request().Context(), channelID, auth.GetUserID(c), limit, offset)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, members)
}

// GetMember handles GET /api/v1/channels/:id/members/:user_id.
func (h *MemberHandler) GetMember(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid user id")
	}

	member, err := h.members.Get(c.Request().Context(), channelID, auth.GetUserID(c), userID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, member)
}

// KickMember handles DELETE /api/v1/channels/:id/members/:user_id.
func (h *MemberHandler) KickMember(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid user id")
	}

	if err := h.members.Kick(c.Request().Context(), channelID, auth.GetUserID(c), userID); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
