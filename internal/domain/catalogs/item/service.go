package item

import (
	"context"
	"fmt"
	"time"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/id"
	"vistapos/internal/core/tx"
	"vistapos/internal/core/types"
	"vistapos/internal/domain"
	"vistapos/pkg/logger"
	"vistapos/pkg/numerator"
)

// Service provides business operations for the stock item catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	numerator *numerator.Service
}

func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		numerator: num,
	}
}

// CreateInput carries the fields accepted when registering a new item.
type CreateInput struct {
	Type          Type
	Code          string
	Name          string
	Price         string
	Stock         int
	StockMinimum  int
	StockCritical int
	Description   *string
}

// Create registers a new stock item. When no code is supplied one is
// generated from the item sequence.
func (s *Service) Create(ctx context.Context, input CreateInput) (*StockItem, error) {
	it := New(input.Type, input.Code, input.Name)
	it.Stock = input.Stock
	it.StockMinimum = input.StockMinimum
	it.StockCritical = input.StockCritical
	it.Description = input.Description

	if input.Price != "" {
		price, err := types.NewMoneyFromString(input.Price)
		if err != nil {
			return nil, apperror.NewValidation("invalid price").
				WithDetail("field", "price").
				WithDetail("value", input.Price)
		}
		it.Price = price
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if it.Code == "" {
			cfg := numerator.Config{
				Prefix:      codePrefix(input.Type),
				IncludeYear: false,
				PadWidth:    5,
			}
			code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
			if err != nil {
				return fmt.Errorf("generate item code: %w", err)
			}
			it.Code = code
		}

		if err := it.Validate(ctx); err != nil {
			return err
		}

		if existing, err := s.repo.GetByCode(ctx, it.Code); err == nil && existing != nil {
			return apperror.NewDuplicate("item", "code", it.Code)
		} else if err != nil && !apperror.IsNotFound(err) {
			return err
		}

		return s.repo.Create(ctx, it)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "item created",
		"item_id", it.ID,
		"item_type", it.Type,
		"code", it.Code,
	)
	return it, nil
}

func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*StockItem, error) {
	return s.repo.GetByID(ctx, itemID)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*StockItem, error) {
	if code == "" {
		return nil, apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	return s.repo.GetByCode(ctx, code)
}

// UpdateInput carries the mutable fields of an item. Nil pointers leave
// the current value unchanged.
type UpdateInput struct {
	Name          *string
	Price         *string
	StockMinimum  *int
	StockCritical *int
	Description   *string
	Version       int
}

func (s *Service) Update(ctx context.Context, itemID id.ID, input UpdateInput) (*StockItem, error) {
	var updated *StockItem

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.repo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}

		if it.Version != input.Version {
			return apperror.NewConcurrencyConflict("item", itemID.String())
		}

		if input.Name != nil {
			it.Name = *input.Name
		}
		if input.Price != nil {
			price, err := types.NewMoneyFromString(*input.Price)
			if err != nil {
				return apperror.NewValidation("invalid price").
					WithDetail("field", "price").
					WithDetail("value", *input.Price)
			}
			it.Price = price
		}
		if input.StockMinimum != nil {
			it.StockMinimum = *input.StockMinimum
		}
		if input.StockCritical != nil {
			it.StockCritical = *input.StockCritical
		}
		if input.Description != nil {
			it.Description = input.Description
		}

		if err := it.Validate(ctx); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, it); err != nil {
			return err
		}
		updated = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) SetDeletionMark(ctx context.Context, itemID id.ID, marked bool) error {
	return s.repo.SetDeletionMark(ctx, itemID, marked)
}

func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockItem], error) {
	return s.repo.List(ctx, filter)
}

func codePrefix(t Type) string {
	if t == TypeFrame {
		return "FRM"
	}
	return "PRD"
}
