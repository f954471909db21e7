package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/andreivolkov/gatechat/internal/auth"
	"github.com/andreivolkov/gatechat/internal/permissions"
	"github.com/andreivolkov/gatechat/internal/service"
)

// RoleHandler handles role administration and the permission query endpoint.
type RoleHandler struct {
	roles *service.RoleService
	perms *service.PermissionChecker
}

// NewRoleHandler creates a RoleHandler.
func NewRoleHandler(roles *service.RoleService, perms *service.PermissionChecker) *RoleHandler {
	return &RoleHandler{roles: roles, perms: perms}
}

type createRoleRequest struct {
	Name        string                   `json:"name"`
	Description *string                  `json:"description,omitempty"`
	Permissions []permissions.Permission `json:"permissions"`
}

// CreateRole handles POST /api/v1/channels/:id/roles.
func (h *RoleHandler) CreateRole(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	actorID := auth.GetUserID(c)

	role, err := h.roles.CreateCustomRole(c.Request().Context(), channelID, actorID, req.Name, req.Permissions, req.Description)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, role)
}

// ListRoles handles GET /api/v1/channels/:id/roles.
func (h *RoleHandler) ListRoles(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	roles, err := h.roles.ListRoles(c.Request().Context(), channelID, auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, roles)
}

type updateRoleRequest struct {
	Name        *string                  `json:"name,omitempty"`
	Description *string                  `json:"description,omitempty"`
	Permissions []permissions.Permission `json:"permissions,omitempty"`
}

// UpdateRole handles PATCH /api/v1/channels/:id/roles/:role_id.
func (h *RoleHandler) UpdateRole(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}
	roleID, err := strconv.ParseInt(c.Param("role_id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid role id")
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	actorID := auth.GetUserID(c)

	role, err := h.roles.UpdateCustomRole(c.Request().Context(), channelID, actorID, roleID, req.Name, req.Permissions, req.Description)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, role)
}

// DeleteRole handles DELETE /api/v1/channels/:id/roles/:role_id.
func (h *RoleHandler) DeleteRole(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}
	roleID, err := strconv.ParseInt(c.Param("role_id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid role id")
	}

	if err := h.roles.DeleteCustomRole(c.Request().Context(), channelID, auth.GetUserID(c), roleID); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignRole handles PUT /api/v1/channels/:id/members/:user_id/roles/:role_id.
func (h *RoleHandler) AssignRole(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid user id")
	}
	roleID, err := strconv.ParseInt(c.Param("role_id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid role id")
	}

	if err := h.roles.AssignRole(c.Request().Context(), channelID, auth.GetUserID(c), userID, roleID); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveRole handles DELETE /api/v1/channels/:id/members/:user_id/roles/:role_id.
func (h *RoleHandler) RemoveRole(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid user id")
	}
	roleID, err := strconv.ParseInt(c.Param("role_id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid role id")
	}

	if err := h.roles.RemoveRole(c.Request().Context(), channelID, auth.GetUserID(c), userID, roleID); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type permissionsResponse struct {
	IsMember    bool            `json:"is_member"`
	IsAdmin     bool            `json:"is_admin"`
	IsModerator bool            `json:"is_moderator"`
	Permissions permissions.Set `json:"permissions"`
}

// GetMyPermissions handles GET /api/v1/channels/:id/members/@me/permissions.
// It reports the caller's resolved permission set in the channel; a
// non-member gets an empty set rather than an error.
func (h *RoleHandler) GetMyPermissions(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	q, err := h.perms.QueryFor(c.Request().Context(), channelID, auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, permissionsResponse{
		IsMember:    q.IsMember(),
		IsAdmin:     q.IsAdmin(),
		IsModerator: q.IsModerator(),
		Permissions: q.Permissions(),
	})
}
