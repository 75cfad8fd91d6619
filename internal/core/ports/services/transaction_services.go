package services

import (
	"context"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/hearthsplit/household_ledger_app/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions.
type TransactionReaderSvc interface {
	// GetTransactionByID returns the transaction with its splits and, for
	// expenses, the recognized presentation-level modes.
	GetTransactionByID(ctx context.Context, householdID, transactionID, requestingMemberID string) (*dto.TransactionResponse, error)
	ListTransactions(ctx context.Context, householdID, requestingMemberID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines write operations for transactions. Split rows
// are recomputed and persisted whenever amount, mode, or participants change.
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, householdID string, req dto.CreateTransactionRequest, creatorMemberID string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, householdID, transactionID string, req dto.UpdateTransactionRequest, requestingMemberID string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, householdID, transactionID, requestingMemberID string) error
}

// TransactionSvcFacade combines transaction service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
