package services

import (
	"context"
	"sort"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthsplit/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthsplit/household_ledger_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// aggregationPageSize is the page size used when loading a household's full
// transaction history for balance aggregation.
const aggregationPageSize = 500

// balanceService derives per-member net positions from the transaction and
// split history, and plans settlements over them. The computed balances are a
// client-side projection; the backend of record may differ slightly for
// reimbursements (see AggregateBalances).
type balanceService struct {
	txnRepo portsrepo.TransactionRepositoryFacade
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(txnRepo portsrepo.TransactionRepositoryFacade) portssvc.BalanceSvcFacade {
	return &balanceService{txnRepo: txnRepo}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// AggregateBalances folds transactions into per-member net balances.
//
// Folding rules by transaction type:
//   - expense: net += paid - owed per split row; totals accumulate.
//   - income: no balance effect (external inflow, not shared debt).
//   - settlement: payer net += amount, payee net -= amount.
//   - reimbursement: receiver net -= amount. This is a simplified local
//     projection; the authoritative computation also reduces the linked
//     expense's effective cost.
//
// The fold assumes upstream validation already ran and never fails: an
// inconsistent history produces a best-effort result. Output is ordered by
// member ID and sums to zero whenever every expense's owed/paid sides
// balance.
func (s *balanceService) AggregateBalances(transactions []domain.Transaction, splitsByTransaction map[string][]domain.MemberSplit) []domain.MemberBalance {
	acc := make(map[string]*domain.MemberBalance)
	touch := func(memberID string) *domain.MemberBalance {
		if b, ok := acc[memberID]; ok {
			return b
		}
		b := &domain.MemberBalance{
			MemberID:   memberID,
			NetBalance: decimal.Zero,
			TotalPaid:  decimal.Zero,
			TotalOwed:  decimal.Zero,
		}
		acc[memberID] = b
		return b
	}

	for _, txn := range transactions {
		switch txn.Type {
		case domain.Expense:
			for _, row := range splitsByTransaction[txn.TransactionID] {
				b := touch(row.MemberID)
				b.NetBalance = b.NetBalance.Add(row.PaidAmount).Sub(row.OwedAmount)
				b.TotalPaid = b.TotalPaid.Add(row.PaidAmount)
				b.TotalOwed = b.TotalOwed.Add(row.OwedAmount)
			}

		case domain.Income:
			// External inflow attributed to its receiver; no shared debt.

		case domain.Settlement:
			if txn.PayerID == nil || txn.PayeeID == nil {
				continue
			}
			payer := touch(*txn.PayerID)
			payer.NetBalance = payer.NetBalance.Add(txn.Amount)
			payee := touch(*txn.PayeeID)
			payee.NetBalance = payee.NetBalance.Sub(txn.Amount)

		case domain.Reimbursement:
			if txn.PayeeID == nil {
				continue
			}
			receiver := touch(*txn.PayeeID)
			receiver.NetBalance = receiver.NetBalance.Sub(txn.Amount)
		}
	}

	balances := make([]domain.MemberBalance, 0, len(acc))
	for _, b := range acc {
		balances = append(balances, *b)
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].MemberID < balances[j].MemberID })
	return balances
}

// balanceCheckTolerance bounds acceptable drift between the local projection
// and a reference snapshot. Matches the split validation tolerance.
var balanceCheckTolerance = decimal.New(1, -2)

// CrossCheckBalances returns the IDs of members whose net position differs
// between the local projection and a reference snapshot by more than $0.01.
// A member missing from either side is treated as holding zero there.
func (s *balanceService) CrossCheckBalances(local, reference []domain.MemberBalance) []string {
	nets := make(map[string]decimal.Decimal)
	for _, b := range local {
		nets[b.MemberID] = b.NetBalance
	}
	for _, b := range reference {
		nets[b.MemberID] = nets[b.MemberID].Sub(b.NetBalance)
	}

	var divergent []string
	for memberID, diff := range nets {
		if diff.Abs().GreaterThan(balanceCheckTolerance) {
			divergent = append(divergent, memberID)
		}
	}
	sort.Strings(divergent)
	return divergent
}

// GetHouseholdBalances loads the household's full history and aggregates it.
func (s *balanceService) GetHouseholdBalances(ctx context.Context, householdID string) ([]domain.MemberBalance, error) {
	var transactions []domain.Transaction
	offset := 0
	for {
		page, err := s.txnRepo.ListTransactionsByHousehold(ctx, householdID, aggregationPageSize, offset)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, page...)
		if len(page) < aggregationPageSize {
			break
		}
		offset += len(page)
	}

	expenseIDs := make([]string, 0, len(transactions))
	for _, txn := range transactions {
		if txn.Type == domain.Expense {
			expenseIDs = append(expenseIDs, txn.TransactionID)
		}
	}

	splitsByTxn := map[string][]domain.MemberSplit{}
	if len(expenseIDs) > 0 {
		var err error
		splitsByTxn, err = s.txnRepo.FindSplitsByTransactionIDs(ctx, expenseIDs)
		if err != nil {
			return nil, err
		}
	}

	return s.AggregateBalances(transactions, splitsByTxn), nil
}
