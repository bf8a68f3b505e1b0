package sales

import (
	"context"
	"time"

	"vistapos/internal/core/apperror"
	appctx "vistapos/internal/core/context"
	"vistapos/internal/core/id"
	"vistapos/internal/core/tx"
	"vistapos/internal/core/types"
	"vistapos/internal/domain"
	"vistapos/pkg/logger"
)

// PaymentService is the payment ledger. Writes against one sale are
// serialized through a row lock on the sale header, so two concurrent
// payments can never jointly overpay: the second one re-reads the ledger
// after the first commits and fails the overpayment check.
type PaymentService struct {
	sales      Repository
	payments   PaymentRepository
	reconciler *Reconciler
	txManager  tx.Manager
}

func NewPaymentService(salesRepo Repository, payments PaymentRepository, txManager tx.Manager) *PaymentService {
	return &PaymentService{
		sales:      salesRepo,
		payments:   payments,
		reconciler: NewReconciler(),
		txManager:  txManager,
	}
}

// RecordInput carries the fields of a deposit or payment.
type RecordInput struct {
	SaleID      id.ID
	Amount      string
	Description string
	Method      Method
	Date        time.Time
}

// RecordDeposit appends a deposit to the ledger and refreshes the sale
// status from the reconciler.
func (s *PaymentService) RecordDeposit(ctx context.Context, input RecordInput) (*PaymentEntry, Balance, error) {
	return s.record(ctx, KindDeposit, input)
}

// RecordPayment appends a payment to the ledger and refreshes the sale
// status from the reconciler.
func (s *PaymentService) RecordPayment(ctx context.Context, input RecordInput) (*PaymentEntry, Balance, error) {
	return s.record(ctx, KindPayment, input)
}

func (s *PaymentService) record(ctx context.Context, kind EntryKind, input RecordInput) (*PaymentEntry, Balance, error) {
	amount, err := types.NewMoneyFromString(input.Amount)
	if err != nil {
		return nil, Balance{}, apperror.NewValidation("invalid amount").
			WithDetail("field", "amount").
			WithDetail("value", input.Amount)
	}
	if !amount.IsPositive() {
		return nil, Balance{}, apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", amount.String())
	}
	if input.Description == InitialDepositDescription {
		// Reserved for the entry the sale ledger writes at creation;
		// accepting it here would make the reconciler skip this amount.
		return nil, Balance{}, apperror.NewValidation("description is reserved").
			WithDetail("field", "description")
	}

	var (
		entry   *PaymentEntry
		balance Balance
	)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Row lock on the sale header serializes concurrent payments.
		sale, err := s.sales.GetForUpdate(ctx, input.SaleID)
		if err != nil {
			return err
		}

		if sale.Status == StatusCancelled {
			return apperror.NewBusinessRule(apperror.CodeSaleCancelled, "cannot record payments against a cancelled sale").
				WithDetail("saleId", sale.ID.String())
		}

		entries, err := s.payments.ListBySale(ctx, sale.ID)
		if err != nil {
			return err
		}

		outstanding := s.reconciler.Outstanding(sale, entries)
		if amount.GreaterThan(outstanding) {
			return apperror.NewOverpayment(sale.ID.String(), amount.String(), outstanding.String())
		}

		entry = NewEntry(kind, sale.ID, amount)
		entry.ClientID = sale.ClientID
		entry.Description = input.Description
		if input.Method != "" {
			entry.Method = input.Method
		}
		if !input.Date.IsZero() {
			entry.Date = input.Date
		}
		if user := appctx.GetUser(ctx); user != nil {
			entry.CreatedBy = user.Email
		}

		if err := entry.Validate(); err != nil {
			return err
		}
		if err := s.payments.Create(ctx, entry); err != nil {
			return err
		}

		// Recompute with the new entry included and persist the
		// refreshed status cache.
		entries = append(entries, entry)
		balance = s.reconciler.Reconcile(sale, entries)
		if balance.Status != sale.Status {
			if err := s.sales.UpdateStatus(ctx, sale.ID, balance.Status); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, Balance{}, err
	}

	logger.Info(ctx, "payment recorded",
		"sale_id", input.SaleID,
		"kind", kind,
		"amount", amount.String(),
		"outstanding", balance.Outstanding.String(),
		"status", balance.Status,
	)
	return entry, balance, nil
}

// ListBySale returns a sale's ledger entries, oldest first.
func (s *PaymentService) ListBySale(ctx context.Context, saleID id.ID) ([]*PaymentEntry, error) {
	return s.payments.ListBySale(ctx, saleID)
}

// ListByClient returns ledger entries across a client's sales.
func (s *PaymentService) ListByClient(ctx context.Context, clientID id.ID, filter domain.ListFilter) (domain.ListResult[*PaymentEntry], error) {
	return s.payments.ListByClient(ctx, clientID, filter)
}

// Balance reconciles a sale on demand without taking locks.
func (s *PaymentService) Balance(ctx context.Context, saleID id.ID) (Balance, error) {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return Balance{}, err
	}
	entries, err := s.payments.ListBySale(ctx, saleID)
	if err != nil {
		return Balance{}, err
	}
	return s.reconciler.Reconcile(sale, entries), nil
}
