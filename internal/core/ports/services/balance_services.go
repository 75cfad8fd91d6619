package services

import (
	"context"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceAggregatorSvc folds a transaction and split history into per-member
// net positions.
type BalanceAggregatorSvc interface {
	// AggregateBalances is pure: it assumes upstream validation already ran
	// and produces a best-effort result on inconsistent input. Output is
	// ordered by member ID.
	AggregateBalances(transactions []domain.Transaction, splitsByTransaction map[string][]domain.MemberSplit) []domain.MemberBalance

	// GetHouseholdBalances loads the household's history and aggregates it.
	GetHouseholdBalances(ctx context.Context, householdID string) ([]domain.MemberBalance, error)

	// CrossCheckBalances compares the local projection against a reference
	// snapshot and returns the IDs of members whose net position differs by
	// more than $0.01. Members absent from one side count as zero there.
	CrossCheckBalances(local, reference []domain.MemberBalance) []string
}

// ReimbursementSvc enforces the cannot-reimburse-more-than-remains rule.
type ReimbursementSvc interface {
	// ExistingReimbursements sums reimbursements linked to the expense,
	// optionally excluding the transaction being edited.
	ExistingReimbursements(ctx context.Context, expenseID string, excludeTransactionID *string) (decimal.Decimal, error)

	// RemainingReimbursable returns expense.Amount minus existing linked
	// reimbursements, floored at zero.
	RemainingReimbursable(ctx context.Context, expense domain.Transaction, excludeTransactionID *string) (decimal.Decimal, error)

	// ValidateReimbursement fails with ErrExceedsRemaining when amount is
	// greater than remaining.
	ValidateReimbursement(amount, remaining decimal.Decimal) error
}

// SettlementPlannerSvc proposes transfers that zero out net balances.
type SettlementPlannerSvc interface {
	// PlanSettlements is pure and deterministic. Applying every suggestion
	// to the input balances yields all-zero positions given a zero-sum
	// input; the transfer count is a greedy heuristic, not a proven minimum.
	// Inactive members with a real balance are still planned for; settled
	// members (|net| < $0.01) are skipped.
	PlanSettlements(balances []domain.MemberBalance) []domain.SettlementSuggestion

	// GetSettlementSuggestions aggregates the household's balances and plans
	// transfers for them.
	GetSettlementSuggestions(ctx context.Context, householdID string) ([]domain.SettlementSuggestion, error)
}

// BalanceSvcFacade combines balance aggregation and settlement planning.
type BalanceSvcFacade interface {
	BalanceAggregatorSvc
	SettlementPlannerSvc
}
