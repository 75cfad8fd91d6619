package domain

import "github.com/shopspring/decimal"

// MemberBalance is a member's derived net position. Positive NetBalance means
// the household owes the member; negative means the member owes the household.
// Never persisted by this service; recomputed from the transaction stream.
type MemberBalance struct {
	MemberID   string          `json:"memberID"`
	NetBalance decimal.Decimal `json:"netBalance"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	TotalOwed  decimal.Decimal `json:"totalOwed"`
}

// SettlementSuggestion is one proposed transfer toward zeroing all balances.
type SettlementSuggestion struct {
	FromMemberID string          `json:"fromMemberID"`
	ToMemberID   string          `json:"toMemberID"`
	Amount       decimal.Decimal `json:"amount"`
}
