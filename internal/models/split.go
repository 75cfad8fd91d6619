package models

import "github.com/shopspring/decimal"

// MemberSplit is the member_splits table row: one row per
// (transaction, member), concrete amounts only.
type MemberSplit struct {
	TransactionID  string
	MemberID       string
	OwedAmount     decimal.Decimal
	OwedPercentage decimal.Decimal
	PaidAmount     decimal.Decimal
	PaidPercentage decimal.Decimal
	AuditFields
}
