package handlers

import (
	"github.com/gin-gonic/gin"

	"vistapos/internal/domain/catalogs/item"
	"vistapos/internal/domain/stock"
	"vistapos/internal/infrastructure/http/v1/dto"
)

// ItemHandler handles stock item endpoints.
type ItemHandler struct {
	*BaseHandler
	service *item.Service
	stock   *stock.Service
}

// NewItemHandler creates a new item handler.
func NewItemHandler(base *BaseHandler, service *item.Service, stockService *stock.Service) *ItemHandler {
	return &ItemHandler{
		BaseHandler: base,
		service:     service,
		stock:       stockService,
	}
}

// RegisterRoutes wires item endpoints into the router group.
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.POST("", h.Create)
		items.GET("", h.List)
		items.GET("/:id", h.GetByID)
		items.PUT("/:id", h.Update)
		items.POST("/:id/deletion-mark", h.SetDeletionMark)
		items.GET("/:id/stock", h.StockLevel)
		items.POST("/:id/restock", h.Restock)
		items.POST("/:id/adjust-stock", h.AdjustStock)
	}
}

// Create handles POST /items
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, created)
}

// GetByID handles GET /items/:id
func (h *ItemHandler) GetByID(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, found)
}

// Update handles PUT /items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), itemID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, updated)
}

// SetDeletionMark handles POST /items/:id/deletion-mark
func (h *ItemHandler) SetDeletionMark(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SetDeletionMarkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetDeletionMark(c.Request.Context(), itemID, req.Marked); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /items
func (h *ItemHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := item.ListFilter{ListFilter: req.ToFilter()}
	if itemType := c.Query("itemType"); itemType != "" {
		t := item.Type(itemType)
		filter.Type = &t
	}
	filter.LowStockOnly = c.Query("lowStockOnly") == "true"

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromListResult(result))
}

// StockLevel handles GET /items/:id/stock
func (h *ItemHandler) StockLevel(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	level, err := h.stock.Level(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.StockLevelResponse{ItemID: itemID.String(), Stock: level})
}

// Restock handles POST /items/:id/restock
func (h *ItemHandler) Restock(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.RestockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	level, err := h.stock.Restock(c.Request.Context(), itemID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.StockLevelResponse{ItemID: itemID.String(), Stock: level})
}

// AdjustStock handles POST /items/:id/adjust-stock
func (h *ItemHandler) AdjustStock(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	level, err := h.stock.Adjust(c.Request.Context(), itemID, req.Delta)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.StockLevelResponse{ItemID: itemID.String(), Stock: level})
}
