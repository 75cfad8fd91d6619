package services

import (
	"context"
	"sort"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// settleTolerance is the threshold ($0.01) below which a balance or transfer
// is treated as settled.
var settleTolerance = decimal.New(1, -2)

type settlementParty struct {
	memberID  string
	remaining decimal.Decimal
}

// PlanSettlements proposes pairwise transfers that zero out the given
// balances.
//
// Members within $0.01 of zero are dropped up front; that also removes
// inactive members who are fully settled, while inactive members holding a
// real balance stay plannable (debts with departed members must still be
// settleable). The remaining members are split into creditors (descending)
// and debtors (most negative first) and matched greedily with two pointers.
//
// Applying every suggestion to the input yields all-zero balances given a
// zero-sum input. The transfer count is a deterministic heuristic, not a
// proven minimum.
func (s *balanceService) PlanSettlements(balances []domain.MemberBalance) []domain.SettlementSuggestion {
	var creditors, debtors []settlementParty
	for _, b := range balances {
		switch {
		case b.NetBalance.GreaterThan(settleTolerance):
			creditors = append(creditors, settlementParty{b.MemberID, b.NetBalance})
		case b.NetBalance.LessThan(settleTolerance.Neg()):
			debtors = append(debtors, settlementParty{b.MemberID, b.NetBalance})
		}
	}

	sort.Slice(creditors, func(i, j int) bool {
		if !creditors[i].remaining.Equal(creditors[j].remaining) {
			return creditors[i].remaining.GreaterThan(creditors[j].remaining)
		}
		return creditors[i].memberID < creditors[j].memberID
	})
	sort.Slice(debtors, func(i, j int) bool {
		if !debtors[i].remaining.Equal(debtors[j].remaining) {
			return debtors[i].remaining.LessThan(debtors[j].remaining)
		}
		return debtors[i].memberID < debtors[j].memberID
	})

	var suggestions []domain.SettlementSuggestion
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		transfer := decimal.Min(debtors[i].remaining.Neg(), creditors[j].remaining)
		if transfer.LessThan(settleTolerance) {
			break
		}
		suggestions = append(suggestions, domain.SettlementSuggestion{
			FromMemberID: debtors[i].memberID,
			ToMemberID:   creditors[j].memberID,
			Amount:       transfer,
		})
		debtors[i].remaining = debtors[i].remaining.Add(transfer)
		creditors[j].remaining = creditors[j].remaining.Sub(transfer)

		if debtors[i].remaining.Neg().LessThan(settleTolerance) {
			i++
		}
		if creditors[j].remaining.LessThan(settleTolerance) {
			j++
		}
	}
	return suggestions
}

// GetSettlementSuggestions aggregates the household's balances and plans
// transfers over them.
func (s *balanceService) GetSettlementSuggestions(ctx context.Context, householdID string) ([]domain.SettlementSuggestion, error) {
	balances, err := s.GetHouseholdBalances(ctx, householdID)
	if err != nil {
		return nil, err
	}
	return s.PlanSettlements(balances), nil
}
