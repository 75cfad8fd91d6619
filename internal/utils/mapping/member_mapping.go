package mapping

import (
	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/hearthsplit/household_ledger_app/internal/models"
)

// ToModelHousehold converts a domain Household to a model Household.
func ToModelHousehold(d domain.Household) models.Household {
	return models.Household{
		HouseholdID: d.HouseholdID,
		Name:        d.Name,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainHousehold converts a model Household to a domain Household.
func ToDomainHousehold(m models.Household) domain.Household {
	return domain.Household{
		HouseholdID: m.HouseholdID,
		Name:        m.Name,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelMember converts a domain Member to a model Member.
func ToModelMember(d domain.Member) models.Member {
	return models.Member{
		MemberID:     d.MemberID,
		HouseholdID:  d.HouseholdID,
		DisplayName:  d.DisplayName,
		Email:        d.Email,
		IsActive:     d.IsActive,
		PasswordHash: d.PasswordHash,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMember converts a model Member to a domain Member.
func ToDomainMember(m models.Member) domain.Member {
	return domain.Member{
		MemberID:     m.MemberID,
		HouseholdID:  m.HouseholdID,
		DisplayName:  m.DisplayName,
		Email:        m.Email,
		IsActive:     m.IsActive,
		PasswordHash: m.PasswordHash,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
