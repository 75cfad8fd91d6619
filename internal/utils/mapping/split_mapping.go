package mapping

import (
	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/hearthsplit/household_ledger_app/internal/models"
)

// ToModelMemberSplit converts a domain MemberSplit to its row shape.
func ToModelMemberSplit(d domain.MemberSplit) models.MemberSplit {
	return models.MemberSplit{
		TransactionID:  d.TransactionID,
		MemberID:       d.MemberID,
		OwedAmount:     d.OwedAmount,
		OwedPercentage: d.OwedPercentage,
		PaidAmount:     d.PaidAmount,
		PaidPercentage: d.PaidPercentage,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMemberSplit converts a split row to its domain shape.
func ToDomainMemberSplit(m models.MemberSplit) domain.MemberSplit {
	return domain.MemberSplit{
		TransactionID:  m.TransactionID,
		MemberID:       m.MemberID,
		OwedAmount:     m.OwedAmount,
		OwedPercentage: m.OwedPercentage,
		PaidAmount:     m.PaidAmount,
		PaidPercentage: m.PaidPercentage,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
