// Package stock implements the stock ledger: atomic decrements that clamp
// at zero, restocks, and a transactional outbox of stock-changed events.
package stock

import (
	"context"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/id"
	"vistapos/internal/core/tx"
	"vistapos/pkg/logger"
)

// Service is the stock ledger. All mutations emit a stock-changed event
// in the same transaction.
type Service struct {
	repo      Repository
	events    EventRepository
	txManager tx.Manager
}

func NewService(repo Repository, events EventRepository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		events:    events,
		txManager: txManager,
	}
}

// Decrement reduces an item's stock by qty, clamping at zero. It never
// fails for insufficient stock: selling the last unit to two customers is
// a business reality the alert engine surfaces, not an error.
func (s *Service) Decrement(ctx context.Context, itemID id.ID, qty int, reason ChangeReason) (int, error) {
	if qty <= 0 {
		return 0, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", qty)
	}

	var stockAfter int
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		after, itemType, err := s.repo.Decrement(ctx, itemID, qty)
		if err != nil {
			return err
		}
		stockAfter = after

		return s.events.Enqueue(ctx, NewEvent(itemID, itemType, -qty, after, reason))
	})
	if err != nil {
		return 0, err
	}

	logger.Debug(ctx, "stock decremented",
		"item_id", itemID,
		"qty", qty,
		"stock_after", stockAfter,
		"reason", reason,
	)
	return stockAfter, nil
}

// Restock raises an item's stock by qty.
func (s *Service) Restock(ctx context.Context, itemID id.ID, qty int) (int, error) {
	return s.increment(ctx, itemID, qty, ReasonRestock)
}

// Adjust applies a signed correction to an item's stock level.
func (s *Service) Adjust(ctx context.Context, itemID id.ID, delta int) (int, error) {
	if delta == 0 {
		return 0, apperror.NewValidation("adjustment delta cannot be zero").
			WithDetail("field", "delta")
	}
	if delta > 0 {
		return s.increment(ctx, itemID, delta, ReasonAdjustment)
	}

	var stockAfter int
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		after, itemType, err := s.repo.Decrement(ctx, itemID, -delta)
		if err != nil {
			return err
		}
		stockAfter = after
		return s.events.Enqueue(ctx, NewEvent(itemID, itemType, delta, after, ReasonAdjustment))
	})
	if err != nil {
		return 0, err
	}
	return stockAfter, nil
}

// Level returns the current stock level.
func (s *Service) Level(ctx context.Context, itemID id.ID) (int, error) {
	return s.repo.GetLevel(ctx, itemID)
}

func (s *Service) increment(ctx context.Context, itemID id.ID, qty int, reason ChangeReason) (int, error) {
	if qty <= 0 {
		return 0, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", qty)
	}

	var stockAfter int
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		after, itemType, err := s.repo.Increment(ctx, itemID, qty)
		if err != nil {
			return err
		}
		stockAfter = after
		return s.events.Enqueue(ctx, NewEvent(itemID, itemType, qty, after, reason))
	})
	if err != nil {
		return 0, err
	}

	logger.Debug(ctx, "stock incremented",
		"item_id", itemID,
		"qty", qty,
		"stock_after", stockAfter,
		"reason", reason,
	)
	return stockAfter, nil
}
