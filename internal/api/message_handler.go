package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/andreivolkov/gatechat/internal/auth"
	"github.com/andreivolkov/gatechat/internal/service"
)

// MessageHandler handles message endpoints.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type sendMessageRequest struct {
	Content       string  `json:"content"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
}

// SendMessage handles POST /api/v1/subchannels/:id/messages.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid subchannel id")
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	msg, err := h.messages.Send(c.Request().Context(), subID, auth.GetUserID(c), req.Content, req.AttachmentURL)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// GetMessages handles GET /api/v1/subchannels/:id/messages.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	subID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid subchannel id")
	}

	var before *int64
	if s := c.QueryParam("before"); s != "" {
		b, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "INVALID_CURSOR", "invalid before cursor")
		}
		before = &b
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	msgs, err := h.messages.List(c.Request().Context(), subID, auth.GetUserID(c), before, limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, msgs)
}

type editMessageRequest struct {
	Content string `json:"content"`
}

// EditMessage handles PATCH /api/v1/messages/:id.
func (h *MessageHandler) EditMessage(c echo.Context) error {
	msgID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid message id")
	}

	var req editMessageRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	msg, err := h.messages.Edit(c.Request().Context(), msgID, auth.GetUserID(c), req.Content)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, msg)
}

// DeleteMessage handles DELETE /api/v1/messages/:id.
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	msgID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid message id")
	}

	if err := h.messages.Delete(c.Request().Context(), msgID, auth.GetUserID(c)); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PinMessage handles PUT /api/v1/messages/:id/pin.
func (h *MessageHandler) PinMessage(c echo.Context) error {
	return h.setPinned(c, true)
}

// UnpinMessage handles DELETE /api/v1/messages/:id/pin.
func (h *MessageHandler) UnpinMessage(c echo.Context) error {
	return h.setPinned(c, false)
}

func (h *MessageHandler) setPinned(c echo.Context, pinned bool) error {
	msgID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "INVALID_ID", "invalid message id")
	}

	if err := h.messages.SetPinned(c.Request().Context(), msgID, auth.GetUserID(c), pinned); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
