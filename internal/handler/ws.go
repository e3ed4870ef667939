package handler

import (
	"github.com/gin-gonic/gin"

	"studentcab/internal/middleware"
	"studentcab/internal/realtime"
)

// WSHandler upgrades authenticated clients to a realtime event stream.
type WSHandler struct {
	hub *realtime.Hub
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect handles GET /v1/ws
func (h *WSHandler) Connect(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)
	role := c.GetString(middleware.ContextRole)
	h.hub.Serve(c.Writer, c.Request, accountID, role)
}
