package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusconnect/alumni-api/internal/core/ports"
)

// MessageHandler exposes chat send and history.
type MessageHandler struct {
	messages ports.MessageService
}

func NewMessageHandler(messages ports.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type sendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// Send handles POST /api/messages/send/:id.
func (h *MessageHandler) Send(c echo.Context) error {
	self, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.messages.Send(c.Request().Context(), self, c.Param("id"), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// History handles GET /api/messages/:id — the conversation between the
// caller and :id, oldest first. A pair that has never talked gets [].
func (h *MessageHandler) History(c echo.Context) error {
	self, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	views, err := h.messages.History(c.Request().Context(), self, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}
