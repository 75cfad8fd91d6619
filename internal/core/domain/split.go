package domain

import "github.com/shopspring/decimal"

// SplitKind enumerates how a transaction's cost (or payment) is distributed
// across household members.
type SplitKind string

const (
	// SplitEqual divides the amount equally among all active participants.
	SplitEqual SplitKind = "EQUAL"
	// SplitMemberOnly assigns the full amount to a single member.
	SplitMemberOnly SplitKind = "MEMBER_ONLY"
	// SplitCustom uses caller-supplied percentages as the source of truth.
	SplitCustom SplitKind = "CUSTOM"
	// SplitPayerOnly is a legacy value still present in stored rows.
	// It is normalized to SplitCustom on read and never written.
	SplitPayerOnly SplitKind = "PAYER_ONLY"
)

// SplitMode is a tagged union: Kind selects the variant, MemberID is only
// meaningful for SplitMemberOnly.
type SplitMode struct {
	Kind     SplitKind `json:"kind"`
	MemberID string    `json:"memberID,omitempty"`
}

// Normalize maps the legacy PAYER_ONLY variant to CUSTOM. All read paths go
// through this so the legacy value never survives past the storage boundary.
func (m SplitMode) Normalize() SplitMode {
	if m.Kind == SplitPayerOnly {
		return SplitMode{Kind: SplitCustom}
	}
	return m
}

// IsValid reports whether the mode is one of the known variants with its
// required fields set.
func (m SplitMode) IsValid() bool {
	switch m.Kind {
	case SplitEqual, SplitCustom, SplitPayerOnly:
		return true
	case SplitMemberOnly:
		return m.MemberID != ""
	}
	return false
}

// RecognizedSide is the presentation-level classification of one side (owed
// or paid) of persisted split rows: the inferred mode plus the members it
// covers. It is a display heuristic, never a source of truth.
type RecognizedSide struct {
	Mode      SplitMode `json:"mode"`
	MemberIDs []string  `json:"memberIDs"`
}

// RecognizedPattern is the recognizer's result for both sides of a split.
type RecognizedPattern struct {
	Split  RecognizedSide `json:"split"`
	PaidBy RecognizedSide `json:"paidBy"`
}

// MemberSplit is one member's share of a single expense transaction: how much
// of the cost they owe and how much of the payment they made. Rows are stored
// as concrete amounts; presentation-level modes are reconstructed from them.
type MemberSplit struct {
	TransactionID  string          `json:"transactionID"`
	MemberID       string          `json:"memberID"`
	OwedAmount     decimal.Decimal `json:"owedAmount"`
	OwedPercentage decimal.Decimal `json:"owedPercentage"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	PaidPercentage decimal.Decimal `json:"paidPercentage"`
	AuditFields
}
