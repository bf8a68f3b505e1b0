package client

import (
	"context"
	"fmt"
	"time"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/id"
	"vistapos/internal/core/tx"
	"vistapos/internal/domain"
	"vistapos/pkg/logger"
	"vistapos/pkg/numerator"
)

// Service provides business operations for the client catalog.
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

type CreateInput struct {
	Code               string
	Name               string
	Phone              string
	Email              *string
	Agreement          bool
	AgreementCompanyID *id.ID
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Client, error) {
	cl := New(input.Code, input.Name)
	cl.Phone = input.Phone
	cl.Email = input.Email
	cl.Agreement = input.Agreement
	cl.AgreementCompanyID = input.AgreementCompanyID

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if cl.Code == "" {
			code, err := s.numerator.GetNextNumber(ctx, numerator.Config{
				Prefix:   "CLI",
				PadWidth: 5,
			}, nil, time.Now())
			if err != nil {
				return fmt.Errorf("generate client code: %w", err)
			}
			cl.Code = code
		}

		if err := cl.Validate(ctx); err != nil {
			return err
		}

		if existing, err := s.repo.GetByCode(ctx, cl.Code); err == nil && existing != nil {
			return apperror.NewDuplicate("client", "code", cl.Code)
		} else if err != nil && !apperror.IsNotFound(err) {
			return err
		}

		return s.repo.Create(ctx, cl)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "client created", "client_id", cl.ID, "code", cl.Code)
	return cl, nil
}

func (s *Service) GetByID(ctx context.Context, clientID id.ID) (*Client, error) {
	return s.repo.GetByID(ctx, clientID)
}

type UpdateInput struct {
	Name               *string
	Phone              *string
	Email              *string
	Agreement          *bool
	AgreementCompanyID *id.ID
	Version            int
}

func (s *Service) Update(ctx context.Context, clientID id.ID, input UpdateInput) (*Client, error) {
	var updated *Client

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		cl, err := s.repo.GetByID(ctx, clientID)
		if err != nil {
			return err
		}

		if cl.Version != input.Version {
			return apperror.NewConcurrencyConflict("client", clientID.String())
		}

		if input.Name != nil {
			cl.Name = *input.Name
		}
		if input.Phone != nil {
			cl.Phone = *input.Phone
		}
		if input.Email != nil {
			cl.Email = input.Email
		}
		if input.Agreement != nil {
			cl.Agreement = *input.Agreement
		}
		if input.AgreementCompanyID != nil {
			cl.AgreementCompanyID = input.AgreementCompanyID
		}

		if err := cl.Validate(ctx); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, cl); err != nil {
			return err
		}
		updated = cl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) SetDeletionMark(ctx context.Context, clientID id.ID, marked bool) error {
	return s.repo.SetDeletionMark(ctx, clientID, marked)
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Client], error) {
	return s.repo.List(ctx, filter)
}
