package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/andreivolkov/gatechat/internal/auth"
	"github.com/andreivolkov/gatechat/internal/service"
)

// SubchannelHandler handles subchannel endpoints.
type SubchannelHandler struct {
	subchannels *service.SubchannelService
}

// NewSubchannelHandler creates a SubchannelHandler.
func NewSubchannelHandler(subchannels *service.SubchannelService) *SubchannelHandler {
	return &SubchannelHandler{subchannels: subchannels}
}

type createSubchannelRequest struct {
	Name     string  `json:"name"`
	Topic    *string `json:"topic,omitempty"`
	Position int     `json:"position"`
}

// CreateSubchannel handles POST /api/v1/channels/:id/subchannels.
func (h *SubchannelHandler) CreateSubchannel(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	var req createSubchannelRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	sub, err := h.subchannels.Create(c.Request().Context(), channelID, auth.GetUserID(c), req.Name, req.Topic, req.Position)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, sub)
}

// ListSubchannels handles GET /api/v1/channels/:id/subchannels.
func (h *SubchannelHandler) ListSubchannels(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	subs, err := h.subchannels.List(c.Request().Context(), channelID, auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, subs)
}

type updateSubchannelRequest struct {
	Name     *string `json:"name,omitempty"`
	Topic    *string `json:"topic,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// UpdateSubchannel handles PATCH /api/v1/subchannels/:id.
func (h *SubchannelHandler) UpdateSubchannel(c echo.Context) error {
	subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid subchannel id")
	}

	var req updateSubchannelRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	sub, err := h.subchannels.Update(c.Request().Context(), subID, auth.GetUserID(c), req.Name, req.Topic, req.Position)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sub)
}

// DeleteSubchannel handles DELETE /api/v1/subchannels/:id.
func (h *SubchannelHandler) DeleteSubchannel(c echo.Context) error {
	subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid subchannel id")
	}

	if err := h.subchannels.Delete(c.Request().Context(), subID, auth.GetUserID(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
