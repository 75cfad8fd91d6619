package dto

import (
	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MemberBalanceResponse is the API shape of one member's net position.
type MemberBalanceResponse struct {
	MemberID   string          `json:"memberID"`
	NetBalance decimal.Decimal `json:"netBalance"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	TotalOwed  decimal.Decimal `json:"totalOwed"`
}

// BalancesResponse is returned for GET .../balances.
type BalancesResponse struct {
	HouseholdID string                  `json:"householdID"`
	Balances    []MemberBalanceResponse `json:"balances"`
}

// SettlementSuggestionResponse is one proposed transfer.
type SettlementSuggestionResponse struct {
	FromMemberID string          `json:"fromMemberID"`
	ToMemberID   string          `json:"toMemberID"`
	Amount       decimal.Decimal `json:"amount"`
}

// SettlementPlanResponse is returned for GET .../settlements/suggestions.
type SettlementPlanResponse struct {
	HouseholdID string                         `json:"householdID"`
	Suggestions []SettlementSuggestionResponse `json:"suggestions"`
}

// ToBalanceResponses maps domain balances to their API shape.
func ToBalanceResponses(balances []domain.MemberBalance) []MemberBalanceResponse {
	out := make([]MemberBalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, MemberBalanceResponse{
			MemberID:   b.MemberID,
			NetBalance: b.NetBalance,
			TotalPaid:  b.TotalPaid,
			TotalOwed:  b.TotalOwed,
		})
	}
	return out
}

// ToSettlementResponses maps domain suggestions to their API shape.
func ToSettlementResponses(suggestions []domain.SettlementSuggestion) []SettlementSuggestionResponse {
	out := make([]SettlementSuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, SettlementSuggestionResponse{
			FromMemberID: s.FromMemberID,
			ToMemberID:   s.ToMemberID,
			Amount:       s.Amount,
		})
	}
	return out
}
