package dto

import (
	"time"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitModeInput selects how one side of an expense is distributed.
// PAYER_ONLY is accepted for backward compatibility and normalized to CUSTOM.
type SplitModeInput struct {
	Kind     string `json:"kind" binding:"required,oneof=EQUAL MEMBER_ONLY CUSTOM PAYER_ONLY"`
	MemberID string `json:"memberID,omitempty"`
}

// SplitRowInput carries the authoritative percentages for CUSTOM modes.
type SplitRowInput struct {
	MemberID       string           `json:"memberID" binding:"required"`
	OwedPercentage *decimal.Decimal `json:"owedPercentage,omitempty"`
	PaidPercentage *decimal.Decimal `json:"paidPercentage,omitempty"`
}

// CreateTransactionRequest creates a transaction. For expenses, SplitMode and
// PaidByMode drive split computation; ParticipantMemberIDs restricts an EQUAL
// split to a subset (written as CUSTOM rows); CustomSplits supply percentages
// for CUSTOM modes.
type CreateTransactionRequest struct {
	Type                 string          `json:"type" binding:"required,oneof=EXPENSE INCOME SETTLEMENT REIMBURSEMENT"`
	Amount               decimal.Decimal `json:"amount" binding:"required,decimalgt0"`
	Date                 time.Time       `json:"date" binding:"required"`
	Description          string          `json:"description" binding:"max=500"`
	CategoryID           *string         `json:"categoryID,omitempty"`
	PayerID              *string         `json:"payerID,omitempty"`
	PayeeID              *string         `json:"payeeID,omitempty"`
	LinkedExpenseID      *string         `json:"linkedExpenseID,omitempty"`
	SplitMode            *SplitModeInput `json:"splitMode,omitempty"`
	PaidByMode           *SplitModeInput `json:"paidByMode,omitempty"`
	ParticipantMemberIDs []string        `json:"participantMemberIDs,omitempty"`
	CustomSplits         []SplitRowInput `json:"customSplits,omitempty"`
}

// UpdateTransactionRequest replaces a transaction's mutable fields; splits
// are recomputed from the request.
type UpdateTransactionRequest struct {
	Amount               decimal.Decimal `json:"amount" binding:"required,decimalgt0"`
	Date                 time.Time       `json:"date" binding:"required"`
	Description          string          `json:"description" binding:"max=500"`
	CategoryID           *string         `json:"categoryID,omitempty"`
	PayerID              *string         `json:"payerID,omitempty"`
	PayeeID              *string         `json:"payeeID,omitempty"`
	LinkedExpenseID      *string         `json:"linkedExpenseID,omitempty"`
	SplitMode            *SplitModeInput `json:"splitMode,omitempty"`
	PaidByMode           *SplitModeInput `json:"paidByMode,omitempty"`
	ParticipantMemberIDs []string        `json:"participantMemberIDs,omitempty"`
	CustomSplits         []SplitRowInput `json:"customSplits,omitempty"`
}

// MemberSplitResponse is the API shape of one split row.
type MemberSplitResponse struct {
	MemberID       string          `json:"memberID"`
	OwedAmount     decimal.Decimal `json:"owedAmount"`
	OwedPercentage decimal.Decimal `json:"owedPercentage"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	PaidPercentage decimal.Decimal `json:"paidPercentage"`
}

// TransactionResponse is the API shape of a transaction with its splits and
// the recognized presentation-level modes.
type TransactionResponse struct {
	TransactionID   string                    `json:"transactionID"`
	HouseholdID     string                    `json:"householdID"`
	Type            string                    `json:"type"`
	Amount          decimal.Decimal           `json:"amount"`
	Date            time.Time                 `json:"date"`
	Description     string                    `json:"description"`
	CategoryID      *string                   `json:"categoryID,omitempty"`
	PayerID         *string                   `json:"payerID,omitempty"`
	PayeeID         *string                   `json:"payeeID,omitempty"`
	LinkedExpenseID *string                   `json:"linkedExpenseID,omitempty"`
	SplitMode       domain.SplitMode          `json:"splitMode"`
	PaidByMode      domain.SplitMode          `json:"paidByMode"`
	Splits          []MemberSplitResponse     `json:"splits,omitempty"`
	Recognized      *domain.RecognizedPattern `json:"recognized,omitempty"`
	CreatedAt       time.Time                 `json:"createdAt"`
}

// ListTransactionsParams controls transaction listing.
type ListTransactionsParams struct {
	Limit  int `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// ToSplitResponses maps split rows to their API shape.
func ToSplitResponses(rows []domain.MemberSplit) []MemberSplitResponse {
	out := make([]MemberSplitResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, MemberSplitResponse{
			MemberID:       r.MemberID,
			OwedAmount:     r.OwedAmount,
			OwedPercentage: r.OwedPercentage,
			PaidAmount:     r.PaidAmount,
			PaidPercentage: r.PaidPercentage,
		})
	}
	return out
}
