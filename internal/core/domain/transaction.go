package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a household transaction.
type TransactionType string

const (
	Expense       TransactionType = "EXPENSE"
	Income        TransactionType = "INCOME"
	Settlement    TransactionType = "SETTLEMENT"
	Reimbursement TransactionType = "REIMBURSEMENT"
)

// Transaction represents a single financial event in a household.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (UUID)
	HouseholdID   string          `json:"householdID"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"` // Positive value
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	CategoryID    *string         `json:"categoryID,omitempty"`
	// PayerID is the member who pays: the single payer of an expense, the
	// debtor of a settlement, the receiver of an income.
	PayerID *string `json:"payerID,omitempty"`
	// PayeeID is the member who receives: the creditor of a settlement, the
	// member being reimbursed.
	PayeeID *string `json:"payeeID,omitempty"`
	// LinkedExpenseID ties a reimbursement to the expense it offsets.
	// A reimbursement without it behaves like external income.
	LinkedExpenseID *string `json:"linkedExpenseID,omitempty"`
	// SplitMode and PaidByMode record the presentation-level distribution of
	// the owed and paid sides for expenses. Stored splits remain concrete
	// amounts regardless of mode.
	SplitMode  SplitMode `json:"splitMode"`
	PaidByMode SplitMode `json:"paidByMode"`
	AuditFields
}

// IsLinkedReimbursement reports whether the transaction is a reimbursement
// tied to a source expense.
func (t Transaction) IsLinkedReimbursement() bool {
	return t.Type == Reimbursement && t.LinkedExpenseID != nil && *t.LinkedExpenseID != ""
}

// Validate checks the structural invariants of a transaction.
func (t Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("transaction amount must be positive, got %s", t.Amount.String())
	}
	switch t.Type {
	case Expense:
		// Split rows carry payer/owed detail; nothing more to check here.
	case Income:
		if t.PayerID == nil || *t.PayerID == "" {
			return fmt.Errorf("income requires a receiving member")
		}
	case Settlement:
		if t.PayerID == nil || *t.PayerID == "" || t.PayeeID == nil || *t.PayeeID == "" {
			return fmt.Errorf("settlement requires both payer and payee")
		}
		if *t.PayerID == *t.PayeeID {
			return fmt.Errorf("settlement payer and payee must differ")
		}
	case Reimbursement:
		if t.PayeeID == nil || *t.PayeeID == "" {
			return fmt.Errorf("reimbursement requires a receiving member")
		}
	default:
		return fmt.Errorf("unknown transaction type %q", t.Type)
	}
	return nil
}
