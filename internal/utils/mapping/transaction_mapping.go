package mapping

import (
	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/hearthsplit/household_ledger_app/internal/models"
)

// toModelMode flattens a split mode into its (type, member) column pair.
func toModelMode(m domain.SplitMode) (string, *string) {
	if m.Kind == "" {
		return "", nil
	}
	if m.Kind == domain.SplitMemberOnly && m.MemberID != "" {
		id := m.MemberID
		return string(m.Kind), &id
	}
	return string(m.Kind), nil
}

// toDomainMode rebuilds a split mode from its column pair, normalizing the
// legacy PAYER_ONLY value so it never crosses the storage boundary.
func toDomainMode(kind string, memberID *string) domain.SplitMode {
	mode := domain.SplitMode{Kind: domain.SplitKind(kind)}
	if memberID != nil {
		mode.MemberID = *memberID
	}
	return mode.Normalize()
}

// ToModelTransaction converts a domain Transaction to its row shape.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	splitType, splitMemberID := toModelMode(d.SplitMode)
	paidByType, paidByMemberID := toModelMode(d.PaidByMode)
	return models.Transaction{
		TransactionID:   d.TransactionID,
		HouseholdID:     d.HouseholdID,
		Type:            string(d.Type),
		Amount:          d.Amount,
		Date:            d.Date,
		Description:     d.Description,
		CategoryID:      d.CategoryID,
		PayerID:         d.PayerID,
		PayeeID:         d.PayeeID,
		LinkedExpenseID: d.LinkedExpenseID,
		SplitType:       splitType,
		SplitMemberID:   splitMemberID,
		PaidByType:      paidByType,
		PaidByMemberID:  paidByMemberID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a transaction row to its domain shape.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		HouseholdID:     m.HouseholdID,
		Type:            domain.TransactionType(m.Type),
		Amount:          m.Amount,
		Date:            m.Date,
		Description:     m.Description,
		CategoryID:      m.CategoryID,
		PayerID:         m.PayerID,
		PayeeID:         m.PayeeID,
		LinkedExpenseID: m.LinkedExpenseID,
		SplitMode:       toDomainMode(m.SplitType, m.SplitMemberID),
		PaidByMode:      toDomainMode(m.PaidByType, m.PaidByMemberID),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
