package client

import (
	"context"

	"vistapos/internal/core/id"
	"vistapos/internal/domain"
)

// Repository defines persistence operations for the client catalog.
type Repository interface {
	Create(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, clientID id.ID) (*Client, error)
	GetByCode(ctx context.Context, code string) (*Client, error)
	Update(ctx context.Context, client *Client) error
	SetDeletionMark(ctx context.Context, clientID id.ID, marked bool) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Client], error)
	Exists(ctx context.Context, clientID id.ID) (bool, error)
}
