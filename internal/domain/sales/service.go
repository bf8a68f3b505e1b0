package sales

import (
	"context"
	"fmt"
	"time"

	"vistapos/internal/core/apperror"
	appctx "vistapos/internal/core/context"
	"vistapos/internal/core/id"
	"vistapos/internal/core/tx"
	"vistapos/internal/core/types"
	"vistapos/internal/domain"
	"vistapos/internal/domain/catalogs/client"
	"vistapos/internal/domain/catalogs/item"
	"vistapos/internal/domain/stock"
	"vistapos/pkg/logger"
	"vistapos/pkg/numerator"
)

// Auditor records document snapshots for the sale history endpoint.
type Auditor interface {
	LogChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}

// AuditEntitySale is the entity type under which sale snapshots are logged.
const AuditEntitySale = "sale"

// Service is the sale ledger. CreateSale bundles the sale insert, the
// stock decrements, and the initial deposit into one transaction.
type Service struct {
	repo       Repository
	payments   PaymentRepository
	items      item.Repository
	clients    client.Repository
	stock      *stock.Service
	reconciler *Reconciler
	txManager  tx.Manager
	numerator  *numerator.Service
	audit      Auditor
}

func NewService(
	repo Repository,
	payments PaymentRepository,
	items item.Repository,
	clients client.Repository,
	stockSvc *stock.Service,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	return &Service{
		repo:       repo,
		payments:   payments,
		items:      items,
		clients:    clients,
		stock:      stockSvc,
		reconciler: NewReconciler(),
		txManager:  txManager,
		numerator:  num,
	}
}

// SetAuditor attaches an audit log. Without one, sale changes are not
// snapshotted.
func (s *Service) SetAuditor(a Auditor) {
	s.audit = a
}

// LineInput is one requested sale position. UnitPrice defaults to the
// item's catalog price when empty.
type LineInput struct {
	ItemID          id.ID
	Quantity        int
	UnitPrice       *string
	DiscountPercent string
}

// CreateInput carries the fields of a new sale.
type CreateInput struct {
	ClientID       *id.ID
	Date           time.Time
	Lines          []LineInput
	InitialDeposit string
	Notes          string
}

// Create validates and persists a sale. The sale insert, every stock
// decrement, and the initial deposit entry commit or roll back together.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Sale, error) {
	if len(input.Lines) == 0 {
		return nil, apperror.NewValidation("sale requires at least one line item").
			WithDetail("field", "lineItems")
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	sale := New(date, input.ClientID)
	sale.Notes = input.Notes
	if user := appctx.GetUser(ctx); user != nil {
		sale.CreatedBy = user.Email
		sale.UpdatedBy = user.Email
	}

	deposit := types.Zero()
	if input.InitialDeposit != "" {
		var err error
		deposit, err = types.NewMoneyFromString(input.InitialDeposit)
		if err != nil {
			return nil, apperror.NewValidation("invalid initial deposit").
				WithDetail("field", "initialDeposit").
				WithDetail("value", input.InitialDeposit)
		}
	}
	sale.InitialDeposit = deposit

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if !sale.IsWalkIn() {
			cl, err := s.clients.GetByID(ctx, *sale.ClientID)
			if err != nil {
				return err
			}
			sale.ClientName = cl.Name
			sale.AgreementFlag = cl.Agreement
			sale.AgreementCompanyID = cl.AgreementCompanyID
		} else {
			sale.ClientName = "Walk-in"
		}

		lines, err := s.buildLines(ctx, input.Lines)
		if err != nil {
			return err
		}
		sale.Lines = lines
		sale.ComputeTotal()

		if err := sale.Validate(ctx); err != nil {
			return err
		}

		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("SALE"), nil, sale.Date)
		if err != nil {
			return fmt.Errorf("generate sale number: %w", err)
		}
		sale.Number = number

		// Status before any ledger entry exists: derived from the
		// initial deposit alone.
		sale.Status = s.reconciler.DerivedStatus(sale, nil)

		if err := s.repo.Create(ctx, sale); err != nil {
			return err
		}

		for _, line := range sale.Lines {
			if _, err := s.stock.Decrement(ctx, line.ItemID, line.Quantity, stock.ReasonSale); err != nil {
				return fmt.Errorf("decrement stock for item %s: %w", line.ItemID, err)
			}
		}

		if sale.InitialDeposit.IsPositive() {
			entry := NewEntry(KindDeposit, sale.ID, sale.InitialDeposit)
			entry.ClientID = sale.ClientID
			entry.Description = InitialDepositDescription
			entry.Date = sale.Date
			entry.CreatedBy = sale.CreatedBy
			if err := entry.Validate(); err != nil {
				return err
			}
			if err := s.payments.Create(ctx, entry); err != nil {
				return err
			}
		}

		if s.audit != nil {
			if err := s.audit.LogChange(ctx, AuditEntitySale, sale.ID, "create", map[string]any{"snapshot": sale}); err != nil {
				return fmt.Errorf("audit sale create: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale created",
		"sale_id", sale.ID,
		"number", sale.Number,
		"total", sale.Total.String(),
		"status", sale.Status,
		"lines", len(sale.Lines),
	)
	return sale, nil
}

// buildLines resolves items, snapshots names and prices, and checks the
// requested quantity against stock as read now. The check is advisory:
// the decrement itself floors at zero and never fails.
func (s *Service) buildLines(ctx context.Context, inputs []LineInput) ([]LineItem, error) {
	lines := make([]LineItem, 0, len(inputs))

	for i, in := range inputs {
		if in.Quantity < 1 {
			return nil, apperror.NewValidation("line item quantity must be at least 1").
				WithDetail("line", i+1).
				WithDetail("quantity", in.Quantity)
		}

		it, err := s.items.GetByID(ctx, in.ItemID)
		if err != nil {
			return nil, err
		}

		if in.Quantity > it.Stock {
			return nil, apperror.NewValidation("requested quantity exceeds available stock").
				WithDetail("line", i+1).
				WithDetail("item", it.Name).
				WithDetail("available", it.Stock).
				WithDetail("requested", in.Quantity)
		}

		price := it.Price
		if in.UnitPrice != nil {
			price, err = types.NewMoneyFromString(*in.UnitPrice)
			if err != nil {
				return nil, apperror.NewValidation("invalid unit price").
					WithDetail("line", i+1).
					WithDetail("value", *in.UnitPrice)
			}
		}

		discount := types.Zero()
		if in.DiscountPercent != "" {
			discount, err = types.NewMoneyFromString(in.DiscountPercent)
			if err != nil {
				return nil, apperror.NewValidation("invalid discount").
					WithDetail("line", i+1).
					WithDetail("value", in.DiscountPercent)
			}
		}

		lines = append(lines, LineItem{
			LineNumber:      i + 1,
			ItemType:        it.Type,
			ItemID:          it.ID,
			ItemName:        it.Name,
			Quantity:        in.Quantity,
			UnitPrice:       price,
			DiscountPercent: discount,
		})
	}

	return lines, nil
}

// Cancel flips the sale into its terminal status. Stock is not restored
// and ledger entries are untouched; refunds are a separate process.
func (s *Service) Cancel(ctx context.Context, saleID id.ID) (*Sale, error) {
	var cancelled *Sale

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.repo.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		if sale.Status == StatusCancelled {
			cancelled = sale
			return nil
		}

		// Paid is terminal. Reconcile against the ledger first so a
		// stale status cache cannot let a settled sale slip through.
		entries, err := s.payments.ListBySale(ctx, saleID)
		if err != nil {
			return err
		}
		if s.reconciler.DerivedStatus(sale, entries) == StatusPaid {
			return apperror.NewConflict("paid sale cannot be cancelled").
				WithDetail("sale_id", saleID.String()).
				WithDetail("number", sale.Number)
		}

		if err := s.repo.UpdateStatus(ctx, saleID, StatusCancelled); err != nil {
			return err
		}
		sale.Status = StatusCancelled
		cancelled = sale

		if s.audit != nil {
			if err := s.audit.LogChange(ctx, AuditEntitySale, sale.ID, "cancel", map[string]any{
				"number": sale.Number,
				"status": string(StatusCancelled),
			}); err != nil {
				return fmt.Errorf("audit sale cancel: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale cancelled", "sale_id", saleID)
	return cancelled, nil
}

// GetByID returns the sale with its lines and a freshly reconciled
// balance. The stored status column is never trusted on reads.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, Balance, error) {
	sale, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		return nil, Balance{}, err
	}

	entries, err := s.payments.ListBySale(ctx, saleID)
	if err != nil {
		return nil, Balance{}, err
	}

	return sale, s.reconciler.Reconcile(sale, entries), nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}
