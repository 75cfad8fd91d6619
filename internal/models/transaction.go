package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the transactions table row. SplitType/PaidByType are stored
// as strings and may still carry the legacy PAYER_ONLY value in old rows.
type Transaction struct {
	TransactionID   string
	HouseholdID     string
	Type            string
	Amount          decimal.Decimal
	Date            time.Time
	Description     string
	CategoryID      *string
	PayerID         *string
	PayeeID         *string
	LinkedExpenseID *string
	SplitType       string
	SplitMemberID   *string
	PaidByType      string
	PaidByMemberID  *string
	AuditFields
}
