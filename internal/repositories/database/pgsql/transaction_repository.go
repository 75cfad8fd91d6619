package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hearthsplit/household_ledger_app/internal/apperrors"
	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthsplit/household_ledger_app/internal/core/ports/repositories"
	"github.com/hearthsplit/household_ledger_app/internal/models"
	"github.com/hearthsplit/household_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, household_id, type, amount, date, description, category_id,
       payer_id, payee_id, linked_expense_id, split_type, split_member_id, paid_by_type, paid_by_member_id,
       created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.HouseholdID,
		&m.Type,
		&m.Amount,
		&m.Date,
		&m.Description,
		&m.CategoryID,
		&m.PayerID,
		&m.PayeeID,
		&m.LinkedExpenseID,
		&m.SplitType,
		&m.SplitMemberID,
		&m.PaidByType,
		&m.PaidByMemberID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, householdID, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE household_id = $1 AND transaction_id = $2;
	`
	modelTxn, err := scanTransaction(r.Pool.QueryRow(ctx, query, householdID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	domainTxn := mapping.ToDomainTransaction(modelTxn)
	return &domainTxn, nil
}

func (r *PgxTransactionRepository) ListTransactionsByHousehold(ctx context.Context, householdID string, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `
        SELECT ` + transactionColumns + `
        FROM transactions
        WHERE household_id = $1
        ORDER BY date DESC, transaction_id
        LIMIT $2 OFFSET $3;
    `
	rows, err := r.Pool.Query(ctx, query, householdID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	domainTxns := []domain.Transaction{}
	for rows.Next() {
		modelTxn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		domainTxns = append(domainTxns, mapping.ToDomainTransaction(modelTxn))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}
	return domainTxns, nil
}

const splitColumns = `transaction_id, member_id, owed_amount, owed_percentage, paid_amount, paid_percentage,
       created_at, created_by, last_updated_at, last_updated_by`

func scanSplit(row pgx.Row) (models.MemberSplit, error) {
	var m models.MemberSplit
	err := row.Scan(
		&m.TransactionID,
		&m.MemberID,
		&m.OwedAmount,
		&m.OwedPercentage,
		&m.PaidAmount,
		&m.PaidPercentage,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxTransactionRepository) FindSplitsByTransactionID(ctx context.Context, transactionID string) ([]domain.MemberSplit, error) {
	query := `
		SELECT ` + splitColumns + `
		FROM member_splits
		WHERE transaction_id = $1
		ORDER BY member_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query splits for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	splits := []domain.MemberSplit{}
	for rows.Next() {
		modelSplit, err := scanSplit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split row: %w", err)
		}
		splits = append(splits, mapping.ToDomainMemberSplit(modelSplit))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating split rows: %w", rows.Err())
	}
	return splits, nil
}

func (r *PgxTransactionRepository) FindSplitsByTransactionIDs(ctx context.Context, transactionIDs []string) (map[string][]domain.MemberSplit, error) {
	result := make(map[string][]domain.MemberSplit, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT ` + splitColumns + `
		FROM member_splits
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, member_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query splits for transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		modelSplit, err := scanSplit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split row: %w", err)
		}
		result[modelSplit.TransactionID] = append(result[modelSplit.TransactionID], mapping.ToDomainMemberSplit(modelSplit))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating split rows: %w", rows.Err())
	}
	return result, nil
}

func (r *PgxTransactionRepository) SumLinkedReimbursements(ctx context.Context, expenseID string, excludeTransactionID *string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE type = 'REIMBURSEMENT'
		  AND linked_expense_id = $1
		  AND ($2::text IS NULL OR transaction_id <> $2);
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, expenseID, excludeTransactionID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum reimbursements for expense %s: %w", expenseID, err)
	}
	return total, nil
}

const insertTransactionQuery = `
	INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
`

const insertSplitQuery = `
	INSERT INTO member_splits (` + splitColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

// SaveTransaction inserts a transaction and its split rows within a DB transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, splits []domain.MemberSplit) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelTxn := mapping.ToModelTransaction(txn)
	_, err = tx.Exec(ctx, insertTransactionQuery,
		modelTxn.TransactionID,
		modelTxn.HouseholdID,
		modelTxn.Type,
		modelTxn.Amount,
		modelTxn.Date,
		modelTxn.Description,
		modelTxn.CategoryID,
		modelTxn.PayerID,
		modelTxn.PayeeID,
		modelTxn.LinkedExpenseID,
		modelTxn.SplitType,
		modelTxn.SplitMemberID,
		modelTxn.PaidByType,
		modelTxn.PaidByMemberID,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+modelTxn.TransactionID, err)
	}

	if err := r.insertSplitsInTx(ctx, tx, splits); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateTransaction rewrites the transaction row and replaces its split rows
// within a DB transaction.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, splits []domain.MemberSplit) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelTxn := mapping.ToModelTransaction(txn)
	updateQuery := `
        UPDATE transactions
        SET amount = $1, date = $2, description = $3, category_id = $4,
            payer_id = $5, payee_id = $6, linked_expense_id = $7,
            split_type = $8, split_member_id = $9, paid_by_type = $10, paid_by_member_id = $11,
            last_updated_at = $12, last_updated_by = $13
        WHERE household_id = $14 AND transaction_id = $15;
    `
	cmdTag, err := tx.Exec(ctx, updateQuery,
		modelTxn.Amount,
		modelTxn.Date,
		modelTxn.Description,
		modelTxn.CategoryID,
		modelTxn.PayerID,
		modelTxn.PayeeID,
		modelTxn.LinkedExpenseID,
		modelTxn.SplitType,
		modelTxn.SplitMemberID,
		modelTxn.PaidByType,
		modelTxn.PaidByMemberID,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
		modelTxn.HouseholdID,
		modelTxn.TransactionID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update transaction "+modelTxn.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM member_splits WHERE transaction_id = $1;`, modelTxn.TransactionID); err != nil {
		return apperrors.NewAppError(500, "failed to clear splits for transaction "+modelTxn.TransactionID, err)
	}
	if err := r.insertSplitsInTx(ctx, tx, splits); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) insertSplitsInTx(ctx context.Context, tx pgx.Tx, splits []domain.MemberSplit) error {
	if len(splits) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, split := range splits {
		modelSplit := mapping.ToModelMemberSplit(split)
		batch.Queue(insertSplitQuery,
			modelSplit.TransactionID,
			modelSplit.MemberID,
			modelSplit.OwedAmount,
			modelSplit.OwedPercentage,
			modelSplit.PaidAmount,
			modelSplit.PaidPercentage,
			modelSplit.CreatedAt,
			modelSplit.CreatedBy,
			modelSplit.LastUpdatedAt,
			modelSplit.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute split insert batch", err)
	}
	return nil
}

// DeleteTransaction removes the transaction and its split rows within a DB
// transaction. Split rows also cascade at the schema level.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, householdID, transactionID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM member_splits WHERE transaction_id = $1;`, transactionID); err != nil {
		return apperrors.NewAppError(500, "failed to delete splits for transaction "+transactionID, err)
	}
	cmdTag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE household_id = $1 AND transaction_id = $2;`, householdID, transactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete transaction "+transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.Commit(ctx, tx)
}
