package dto

import (
	"vistapos/internal/domain/catalogs/item"
)

// --- Request DTOs ---

// CreateItemRequest is the request body for registering a stock item.
type CreateItemRequest struct {
	Type          item.Type `json:"itemType" binding:"required"`
	Code          string    `json:"code"`
	Name          string    `json:"name" binding:"required"`
	Price         string    `json:"price"`
	Stock         int       `json:"stock" binding:"omitempty,min=0"`
	StockMinimum  int       `json:"stockMinimum" binding:"omitempty,min=0"`
	StockCritical int       `json:"stockCritical" binding:"omitempty,min=0"`
	Description   *string   `json:"description"`
}

// ToInput converts DTO to service input.
func (r *CreateItemRequest) ToInput() item.CreateInput {
	return item.CreateInput{
		Type:          r.Type,
		Code:          r.Code,
		Name:          r.Name,
		Price:         r.Price,
		Stock:         r.Stock,
		StockMinimum:  r.StockMinimum,
		StockCritical: r.StockCritical,
		Description:   r.Description,
	}
}

// UpdateItemRequest is the request body for updating a stock item.
// Omitted fields keep their current value.
type UpdateItemRequest struct {
	Name          *string `json:"name"`
	Price         *string `json:"price"`
	StockMinimum  *int    `json:"stockMinimum" binding:"omitempty,min=0"`
	StockCritical *int    `json:"stockCritical" binding:"omitempty,min=0"`
	Description   *string `json:"description"`
	Version       int     `json:"version" binding:"required,min=1"`
}

// ToInput converts DTO to service input.
func (r *UpdateItemRequest) ToInput() item.UpdateInput {
	return item.UpdateInput{
		Name:          r.Name,
		Price:         r.Price,
		StockMinimum:  r.StockMinimum,
		StockCritical: r.StockCritical,
		Description:   r.Description,
		Version:       r.Version,
	}
}

// --- Stock adjustment DTOs ---

// RestockRequest adds stock for an item.
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// AdjustStockRequest applies a signed stock correction.
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// StockLevelResponse reports the on-hand quantity after an operation.
type StockLevelResponse struct {
	ItemID string `json:"itemId"`
	Stock  int    `json:"stock"`
}
