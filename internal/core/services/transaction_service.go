package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hearthsplit/household_ledger_app/internal/apperrors"
	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthsplit/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthsplit/household_ledger_app/internal/core/ports/services"
	"github.com/hearthsplit/household_ledger_app/internal/dto"
	"github.com/hearthsplit/household_ledger_app/internal/middleware"
	"github.com/hearthsplit/household_ledger_app/internal/utils/allocation"
	"github.com/shopspring/decimal"
)

var (
	ErrLinkedExpenseNotFound  = errors.New("linked expense not found")
	ErrReimbursementsAttached = errors.New("expense still has linked reimbursements")
)

// transactionService orchestrates transaction writes: structural validation,
// split computation, reimbursement caps, and persistence. Split rows are
// recomputed whenever amount, mode, or participants change and stored as
// concrete per-member amounts.
type transactionService struct {
	txnRepo          portsrepo.TransactionRepositoryFacade
	memberSvc        portssvc.MemberSvcFacade
	splitSvc         portssvc.SplitSvcFacade
	reimbursementSvc portssvc.ReimbursementSvc
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, memberSvc portssvc.MemberSvcFacade, splitSvc portssvc.SplitSvcFacade, reimbursementSvc portssvc.ReimbursementSvc) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:          txnRepo,
		memberSvc:        memberSvc,
		splitSvc:         splitSvc,
		reimbursementSvc: reimbursementSvc,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction validates and persists a new transaction with its splits.
func (s *transactionService) CreateTransaction(ctx context.Context, householdID string, req dto.CreateTransactionRequest, creatorMemberID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.memberSvc.AuthorizeMemberAction(ctx, creatorMemberID, householdID); err != nil {
		return nil, err
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		HouseholdID:     householdID,
		Type:            domain.TransactionType(req.Type),
		Amount:          req.Amount,
		Date:            req.Date,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		PayerID:         req.PayerID,
		PayeeID:         req.PayeeID,
		LinkedExpenseID: req.LinkedExpenseID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorMemberID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorMemberID,
		},
	}
	s.applyModes(&txn, req.SplitMode, req.PaidByMode)

	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var splits []domain.MemberSplit
	if txn.Type == domain.Expense {
		var err error
		splits, err = s.buildExpenseSplits(ctx, householdID, &txn, req.ParticipantMemberIDs, req.CustomSplits)
		if err != nil {
			return nil, err
		}
	}

	if err := s.validateLinkedReimbursement(ctx, householdID, txn, nil); err != nil {
		return nil, err
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn, splits); err != nil {
		logger.Error("Failed to save transaction", slog.String("transaction_id", txn.TransactionID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", txn.Amount.StringFixed(2)),
	)
	return &txn, nil
}

// UpdateTransaction replaces the mutable fields of a transaction and
// recomputes its splits. The transaction type is immutable.
func (s *transactionService) UpdateTransaction(ctx context.Context, householdID, transactionID string, req dto.UpdateTransactionRequest, requestingMemberID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.memberSvc.AuthorizeMemberAction(ctx, requestingMemberID, householdID); err != nil {
		return nil, err
	}

	existing, err := s.txnRepo.FindTransactionByID(ctx, householdID, transactionID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}

	txn := *existing
	txn.Amount = req.Amount
	txn.Date = req.Date
	txn.Description = req.Description
	txn.CategoryID = req.CategoryID
	txn.PayerID = req.PayerID
	txn.PayeeID = req.PayeeID
	txn.LinkedExpenseID = req.LinkedExpenseID
	txn.LastUpdatedAt = time.Now()
	txn.LastUpdatedBy = requestingMemberID
	s.applyModes(&txn, req.SplitMode, req.PaidByMode)

	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var splits []domain.MemberSplit
	if txn.Type == domain.Expense {
		splits, err = s.buildExpenseSplits(ctx, householdID, &txn, req.ParticipantMemberIDs, req.CustomSplits)
		if err != nil {
			return nil, err
		}
	}

	// A reimbursement being edited is validated against the remaining amount
	// excluding itself.
	if err := s.validateLinkedReimbursement(ctx, householdID, txn, &transactionID); err != nil {
		return nil, err
	}

	if err := s.txnRepo.UpdateTransaction(ctx, txn, splits); err != nil {
		logger.Error("Failed to update transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Transaction updated", slog.String("transaction_id", transactionID))
	return &txn, nil
}

// GetTransactionByID returns the transaction with its splits and, for
// expenses, the recognized presentation-level modes.
func (s *transactionService) GetTransactionByID(ctx context.Context, householdID, transactionID, requestingMemberID string) (*dto.TransactionResponse, error) {
	if err := s.memberSvc.AuthorizeMemberAction(ctx, requestingMemberID, householdID); err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, householdID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}

	var splits []domain.MemberSplit
	if txn.Type == domain.Expense {
		splits, err = s.txnRepo.FindSplitsByTransactionID(ctx, transactionID)
		if err != nil {
			return nil, err
		}
	}

	resp := toTransactionResponse(*txn, splits)
	if len(splits) > 0 {
		recognized := s.splitSvc.RecognizeSplitPattern(splits, txn.Amount)
		resp.Recognized = &recognized
	}
	return &resp, nil
}

// ListTransactions returns a page of transactions with their splits.
func (s *transactionService) ListTransactions(ctx context.Context, householdID, requestingMemberID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if err := s.memberSvc.AuthorizeMemberAction(ctx, requestingMemberID, householdID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	transactions, err := s.txnRepo.ListTransactionsByHousehold(ctx, householdID, limit, offset)
	if err != nil {
		return nil, err
	}

	expenseIDs := make([]string, 0, len(transactions))
	for _, txn := range transactions {
		if txn.Type == domain.Expense {
			expenseIDs = append(expenseIDs, txn.TransactionID)
		}
	}
	splitsByTxn := map[string][]domain.MemberSplit{}
	if len(expenseIDs) > 0 {
		splitsByTxn, err = s.txnRepo.FindSplitsByTransactionIDs(ctx, expenseIDs)
		if err != nil {
			return nil, err
		}
	}

	resp := &dto.ListTransactionsResponse{Transactions: make([]dto.TransactionResponse, 0, len(transactions))}
	for _, txn := range transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(txn, splitsByTxn[txn.TransactionID]))
	}
	return resp, nil
}

// DeleteTransaction removes a transaction. An expense with linked
// reimbursements cannot be deleted while those reimbursements exist.
func (s *transactionService) DeleteTransaction(ctx context.Context, householdID, transactionID, requestingMemberID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.memberSvc.AuthorizeMemberAction(ctx, requestingMemberID, householdID); err != nil {
		return err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, householdID, transactionID)
	if err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}

	if txn.Type == domain.Expense {
		linked, err := s.reimbursementSvc.ExistingReimbursements(ctx, transactionID, nil)
		if err != nil {
			return err
		}
		if linked.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: %s linked", ErrReimbursementsAttached, linked.StringFixed(2))
		}
	}

	if err := s.txnRepo.DeleteTransaction(ctx, householdID, transactionID); err != nil {
		return err
	}
	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// applyModes resolves the split/paid-by modes for the transaction, applying
// defaults and normalizing the legacy PAYER_ONLY value.
func (s *transactionService) applyModes(txn *domain.Transaction, splitMode, paidByMode *dto.SplitModeInput) {
	if txn.Type != domain.Expense {
		txn.SplitMode = domain.SplitMode{}
		txn.PaidByMode = domain.SplitMode{}
		return
	}

	txn.SplitMode = toDomainMode(splitMode, domain.SplitMode{Kind: domain.SplitEqual})

	paidDefault := domain.SplitMode{Kind: domain.SplitEqual}
	if txn.PayerID != nil && *txn.PayerID != "" {
		paidDefault = domain.SplitMode{Kind: domain.SplitMemberOnly, MemberID: *txn.PayerID}
	}
	txn.PaidByMode = toDomainMode(paidByMode, paidDefault)
}

// buildExpenseSplits computes the split rows for an expense. Participants are
// the household's active members; an EQUAL split restricted to a subset is
// allocated over the subset and stored as CUSTOM rows. Validation against the
// transaction amount only runs for explicitly custom sides; system-computed
// sides are generated to satisfy the sum invariant already.
func (s *transactionService) buildExpenseSplits(ctx context.Context, householdID string, txn *domain.Transaction, subsetIDs []string, customRows []dto.SplitRowInput) ([]domain.MemberSplit, error) {
	participants, err := s.memberSvc.ListMembers(ctx, householdID, true)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: household %s has no active members", allocation.ErrNoParticipants, householdID)
	}

	prior := priorRowsFromInput(customRows)
	owedCustom := txn.SplitMode.Kind == domain.SplitCustom
	paidCustom := txn.PaidByMode.Kind == domain.SplitCustom

	var owedRows []domain.MemberSplit
	if txn.SplitMode.Kind == domain.SplitEqual && len(subsetIDs) > 0 {
		owedRows, err = s.splitSvc.BuildEqualSubset(txn.Amount, participants, subsetIDs, portssvc.OwedSide)
		if err != nil {
			return nil, err
		}
		// Subset-equal is not a persisted mode.
		txn.SplitMode = domain.SplitMode{Kind: domain.SplitCustom}
	} else {
		owedRows, err = s.splitSvc.BuildSplitSide(txn.Amount, participants, txn.SplitMode, portssvc.OwedSide, prior)
		if err != nil {
			return nil, err
		}
	}

	paidRows, err := s.splitSvc.BuildSplitSide(txn.Amount, participants, txn.PaidByMode, portssvc.PaidSide, prior)
	if err != nil {
		return nil, err
	}

	rows, err := s.splitSvc.CombineSides(owedRows, paidRows)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].TransactionID = txn.TransactionID
		rows[i].AuditFields = txn.AuditFields
	}

	if owedCustom {
		if err := s.splitSvc.ValidateSplit(rows, txn.Amount); err != nil {
			return nil, err
		}
	}
	if paidCustom {
		if err := s.splitSvc.ValidatePaidBy(rows, txn.Amount); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// validateLinkedReimbursement enforces the remaining-reimbursable cap for
// linked reimbursements. Unlinked reimbursements are unconstrained.
func (s *transactionService) validateLinkedReimbursement(ctx context.Context, householdID string, txn domain.Transaction, excludeTransactionID *string) error {
	if !txn.IsLinkedReimbursement() {
		return nil
	}

	expense, err := s.txnRepo.FindTransactionByID(ctx, householdID, *txn.LinkedExpenseID)
	if err != nil {
		return err
	}
	if expense == nil {
		return fmt.Errorf("%w: %s", ErrLinkedExpenseNotFound, *txn.LinkedExpenseID)
	}

	remaining, err := s.reimbursementSvc.RemainingReimbursable(ctx, *expense, excludeTransactionID)
	if err != nil {
		return err
	}
	return s.reimbursementSvc.ValidateReimbursement(txn.Amount, remaining)
}

func toDomainMode(in *dto.SplitModeInput, fallback domain.SplitMode) domain.SplitMode {
	if in == nil {
		return fallback.Normalize()
	}
	return domain.SplitMode{Kind: domain.SplitKind(in.Kind), MemberID: in.MemberID}.Normalize()
}

func priorRowsFromInput(rows []dto.SplitRowInput) []domain.MemberSplit {
	out := make([]domain.MemberSplit, 0, len(rows))
	for _, r := range rows {
		row := domain.MemberSplit{MemberID: r.MemberID}
		if r.OwedPercentage != nil {
			row.OwedPercentage = *r.OwedPercentage
		}
		if r.PaidPercentage != nil {
			row.PaidPercentage = *r.PaidPercentage
		}
		out = append(out, row)
	}
	return out
}

func toTransactionResponse(txn domain.Transaction, splits []domain.MemberSplit) dto.TransactionResponse {
	return dto.TransactionResponse{
		TransactionID:   txn.TransactionID,
		HouseholdID:     txn.HouseholdID,
		Type:            string(txn.Type),
		Amount:          txn.Amount,
		Date:            txn.Date,
		Description:     txn.Description,
		CategoryID:      txn.CategoryID,
		PayerID:         txn.PayerID,
		PayeeID:         txn.PayeeID,
		LinkedExpenseID: txn.LinkedExpenseID,
		SplitMode:       txn.SplitMode,
		PaidByMode:      txn.PaidByMode,
		Splits:          dto.ToSplitResponses(splits),
		CreatedAt:       txn.CreatedAt,
	}
}
