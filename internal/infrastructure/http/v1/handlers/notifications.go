package handlers

import (
	"github.com/gin-gonic/gin"

	"vistapos/internal/domain/alerts"
	"vistapos/internal/infrastructure/http/v1/dto"
)

// NotificationHandler handles low-stock notification endpoints.
type NotificationHandler struct {
	*BaseHandler
	engine *alerts.Engine
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(base *BaseHandler, engine *alerts.Engine) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler: base,
		engine:      engine,
	}
}

// RegisterRoutes wires notification endpoints into the router group.
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/count", h.CountActive)
		notifications.POST("/:id/read", h.MarkRead)
		notifications.POST("/:id/remove-item", h.RemoveItem)
	}
}

// List handles GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	var req dto.NotificationListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.engine.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromListResult(result))
}

// CountActive handles GET /notifications/count
func (h *NotificationHandler) CountActive(c *gin.Context) {
	count, err := h.engine.CountActive(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ActiveCountResponse{Count: count})
}

// MarkRead handles POST /notifications/:id/read
// Keeps the item in the assortment, the alert goes away until stock changes again.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.engine.MarkRead(c.Request.Context(), notificationID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RemoveItem handles POST /notifications/:id/remove-item
// Marks the referenced item for deletion and archives the notification.
func (h *NotificationHandler) RemoveItem(c *gin.Context) {
	notificationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.engine.RemoveItem(c.Request.Context(), notificationID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
