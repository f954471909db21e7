package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/andreivolkov/gatechat/internal/auth"
	"github.com/andreivolkov/gatechat/internal/service"
)

// ChannelHandler handles channel lifecycle and membership-entry endpoints.
type ChannelHandler struct {
	channels *service.ChannelService
	gates    *service.GateService
}

// NewChannelHandler creates a ChannelHandler.
func NewChannelHandler(channels *service.ChannelService, gates *service.GateService) *ChannelHandler {
	return &ChannelHandler{channels: channels, gates: gates}
}

func channelIDParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

type createChannelRequest struct {
	Name     string `json:"name"`
	MaxRoles int    `json:"max_roles"`
}

// CreateChannel handles POST /api/v1/channels.
func (h *ChannelHandler) CreateChannel(c echo.Context) error {
	var req createChannelRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	creatorID := auth.GetUserID(c)

	channel, err := h.channels.Create(c.Request().Context(), creatorID, req.Name, req.MaxRoles)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, channel)
}

// GetChannel handles GET /api/v1/channels/:id.
func (h *ChannelHandler) GetChannel(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	channel, err := h.channels.Get(c.Request().Context(), channelID, auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, channel)
}

// ListMyChannels handles GET /api/v1/users/@me/channels.
func (h *ChannelHandler) ListMyChannels(c echo.Context) error {
	channels, err := h.channels.ListMine(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, channels)
}

type updateChannelRequest struct {
	Name string `json:"name"`
}

// UpdateChannel handles PATCH /api/v1/channels/:id.
func (h *ChannelHandler) UpdateChannel(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	var req updateChannelRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	channel, err := h.channels.Update(c.Request().Context(), channelID, auth.GetUserID(c), req.Name)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, channel)
}

// DeleteChannel handles DELETE /api/v1/channels/:id.
func (h *ChannelHandler) DeleteChannel(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	if err := h.channels.Delete(c.Request().Context(), channelID, auth.GetUserID(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// JoinChannel handles PUT /api/v1/channels/:id/members/@me.
func (h *ChannelHandler) JoinChannel(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	member, err := h.channels.Join(c.Request().Context(), channelID, auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, member)
}

// LeaveChannel handles DELETE /api/v1/channels/:id/members/@me.
func (h *ChannelHandler) LeaveChannel(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	if err := h.channels.Leave(c.Request().Context(), channelID, auth.GetUserID(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type setGateRequest struct {
	TokenSymbol string `json:"token_symbol"`
	MinBalance  int64  `json:"min_balance,string"`
}

// SetGate handles PUT /api/v1/channels/:id/gate.
func (h *ChannelHandler) SetGate(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	var req setGateRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	gate, err := h.gates.SetGate(c.Request().Context(), channelID, auth.GetUserID(c), req.TokenSymbol, req.MinBalance)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, gate)
}

// GetGate handles GET /api/v1/channels/:id/gate.
func (h *ChannelHandler) GetGate(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	gate, err := h.gates.GetGate(c.Request().Context(), channelID, auth.GetUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	if gate == nil {
		return errorJSON(c, http.StatusNotFound, "NOT_FOUND", "channel has no token gate")
	}
	return c.JSON(http.StatusOK, gate)
}

// ClearGate handles DELETE /api/v1/channels/:id/gate.
func (h *ChannelHandler) ClearGate(c echo.Context) error {
	channelID, err := channelIDParam(c)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid channel id")
	}

	if err := h.gates.ClearGate(c.Request().Context(), channelID, auth.GetUserID(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
