package handlers

import (
	"github.com/gin-gonic/gin"

	"vistapos/internal/domain"
	"vistapos/internal/domain/catalogs/client"
	"vistapos/internal/domain/sales"
	"vistapos/internal/infrastructure/http/v1/dto"
)

// ClientHandler handles client catalog endpoints.
type ClientHandler struct {
	*BaseHandler
	service  *client.Service
	payments *sales.PaymentService
}

// NewClientHandler creates a new client handler.
func NewClientHandler(base *BaseHandler, service *client.Service, payments *sales.PaymentService) *ClientHandler {
	return &ClientHandler{
		BaseHandler: base,
		service:     service,
		payments:    payments,
	}
}

// RegisterRoutes wires client endpoints into the router group.
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.POST("", h.Create)
		clients.GET("", h.List)
		clients.GET("/:id", h.GetByID)
		clients.PUT("/:id", h.Update)
		clients.POST("/:id/deletion-mark", h.SetDeletionMark)
		clients.GET("/:id/payments", h.ListPayments)
	}
}

// Create handles POST /clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, created)
}

// GetByID handles GET /clients/:id
func (h *ClientHandler) GetByID(c *gin.Context) {
	clientID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), clientID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, found)
}

// Update handles PUT /clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	clientID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), clientID, input)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, updated)
}

// SetDeletionMark handles POST /clients/:id/deletion-mark
func (h *ClientHandler) SetDeletionMark(c *gin.Context) {
	clientID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SetDeletionMarkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetDeletionMark(c.Request.Context(), clientID, req.Marked); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /clients
func (h *ClientHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromListResult(result))
}

// ListPayments handles GET /clients/:id/payments
func (h *ClientHandler) ListPayments(c *gin.Context) {
	clientID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	// ListByClient orders by payment date; only paging is configurable.
	filter := domain.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.payments.ListByClient(c.Request.Context(), clientID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromListResult(result))
}
