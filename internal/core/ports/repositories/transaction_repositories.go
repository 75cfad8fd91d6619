package repositories

import (
	"context"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReaderRepository defines read operations for transactions and
// their split rows.
type TransactionReaderRepository interface {
	FindTransactionByID(ctx context.Context, householdID, transactionID string) (*domain.Transaction, error)
	// ListTransactionsByHousehold returns transactions ordered by date
	// descending, then transaction ID.
	ListTransactionsByHousehold(ctx context.Context, householdID string, limit, offset int) ([]domain.Transaction, error)
	FindSplitsByTransactionID(ctx context.Context, transactionID string) ([]domain.MemberSplit, error)
	FindSplitsByTransactionIDs(ctx context.Context, transactionIDs []string) (map[string][]domain.MemberSplit, error)
	// SumLinkedReimbursements totals reimbursement transactions linked to the
	// given expense, optionally excluding one transaction (self-exclusion
	// while editing).
	SumLinkedReimbursements(ctx context.Context, expenseID string, excludeTransactionID *string) (decimal.Decimal, error)
}

// TransactionWriterRepository defines write operations. Transaction and split
// rows are persisted atomically.
type TransactionWriterRepository interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction, splits []domain.MemberSplit) error
	UpdateTransaction(ctx context.Context, txn domain.Transaction, splits []domain.MemberSplit) error
	DeleteTransaction(ctx context.Context, householdID, transactionID string) error
}

// TransactionRepositoryFacade combines transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReaderRepository
	TransactionWriterRepository
}
