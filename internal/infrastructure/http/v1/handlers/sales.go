package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"vistapos/internal/domain/sales"
	"vistapos/internal/infrastructure/http/v1/dto"
	"vistapos/internal/infrastructure/http/v1/middleware"
	"vistapos/internal/infrastructure/storage/postgres"
)

// SaleHandler handles sale document endpoints.
type SaleHandler struct {
	*BaseHandler
	service  *sales.Service
	payments *sales.PaymentService
	audit    *postgres.AuditService
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sales.Service, payments *sales.PaymentService, audit *postgres.AuditService) *SaleHandler {
	return &SaleHandler{
		BaseHandler: base,
		service:     service,
		payments:    payments,
		audit:       audit,
	}
}

// RegisterRoutes wires sale endpoints into the router group.
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	salesGroup := rg.Group("/sales")
	{
		salesGroup.POST("", h.Create)
		salesGroup.GET("", h.List)
		salesGroup.GET("/:id", h.GetByID)
		salesGroup.POST("/:id/cancel", h.Cancel)
		salesGroup.GET("/:id/balance", h.Balance)
		salesGroup.GET("/:id/payments", h.ListPayments)
		salesGroup.POST("/:id/payments", h.RecordPayment)
		salesGroup.POST("/:id/deposits", h.RecordDeposit)
		salesGroup.GET("/:id/history", middleware.RequireAdmin(), h.History)
	}
}

// Create handles POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	sale, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, sale)
}

// GetByID handles GET /sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	sale, balance, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.SaleResponse{Sale: sale, Balance: balance})
}

// Cancel handles POST /sales/:id/cancel
func (h *SaleHandler) Cancel(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	sale, err := h.service.Cancel(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sale)
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	var req dto.SaleListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromListResult(result))
}

// Balance handles GET /sales/:id/balance
func (h *SaleHandler) Balance(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	balance, err := h.payments.Balance(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, balance)
}

// ListPayments handles GET /sales/:id/payments
func (h *SaleHandler) ListPayments(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entries, err := h.payments.ListBySale(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": entries})
}

// RecordPayment handles POST /sales/:id/payments
func (h *SaleHandler) RecordPayment(c *gin.Context) {
	h.record(c, h.payments.RecordPayment)
}

// RecordDeposit handles POST /sales/:id/deposits
func (h *SaleHandler) RecordDeposit(c *gin.Context) {
	h.record(c, h.payments.RecordDeposit)
}

func (h *SaleHandler) record(c *gin.Context, fn func(ctx context.Context, input sales.RecordInput) (*sales.PaymentEntry, sales.Balance, error)) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, balance, err := fn(c.Request.Context(), req.ToInput(saleID))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.PaymentResponse{Entry: entry, Balance: balance})
}

// History handles GET /sales/:id/history
func (h *SaleHandler) History(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	entries, err := h.audit.GetEntityHistory(c.Request.Context(), sales.AuditEntitySale, saleID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": entries})
}
