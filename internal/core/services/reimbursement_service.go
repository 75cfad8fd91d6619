package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthsplit/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthsplit/household_ledger_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

var (
	ErrExceedsRemaining = errors.New("reimbursement exceeds the remaining reimbursable amount")
	ErrNotAnExpense     = errors.New("linked transaction is not an expense")
)

// reimbursementService enforces the cap on reimbursements linked to an
// expense: the sum of linked reimbursements never exceeds the expense amount.
// Unlinked reimbursements are unconstrained.
type reimbursementService struct {
	txnRepo portsrepo.TransactionReaderRepository
}

// NewReimbursementService creates a new ReimbursementService.
func NewReimbursementService(txnRepo portsrepo.TransactionReaderRepository) portssvc.ReimbursementSvc {
	return &reimbursementService{txnRepo: txnRepo}
}

var _ portssvc.ReimbursementSvc = (*reimbursementService)(nil)

// ExistingReimbursements sums reimbursements linked to expenseID, optionally
// excluding one transaction so an edit can be validated against itself.
func (s *reimbursementService) ExistingReimbursements(ctx context.Context, expenseID string, excludeTransactionID *string) (decimal.Decimal, error) {
	return s.txnRepo.SumLinkedReimbursements(ctx, expenseID, excludeTransactionID)
}

// RemainingReimbursable returns how much of the expense can still be
// reimbursed. Never negative, even if stored data over-reimburses.
func (s *reimbursementService) RemainingReimbursable(ctx context.Context, expense domain.Transaction, excludeTransactionID *string) (decimal.Decimal, error) {
	if expense.Type != domain.Expense {
		return decimal.Zero, fmt.Errorf("%w: transaction %s is %s", ErrNotAnExpense, expense.TransactionID, expense.Type)
	}
	existing, err := s.ExistingReimbursements(ctx, expense.TransactionID, excludeTransactionID)
	if err != nil {
		return decimal.Zero, err
	}
	remaining := expense.Amount.Sub(existing)
	if remaining.IsNegative() {
		return decimal.Zero, nil
	}
	return remaining, nil
}

// ValidateReimbursement fails when amount exceeds remaining.
func (s *reimbursementService) ValidateReimbursement(amount, remaining decimal.Decimal) error {
	if amount.GreaterThan(remaining) {
		return fmt.Errorf("%w: requested %s, remaining %s", ErrExceedsRemaining, amount.StringFixed(2), remaining.StringFixed(2))
	}
	return nil
}
