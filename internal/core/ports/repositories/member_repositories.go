package repositories

import (
	"context"
	"time"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
)

// HouseholdRepository defines persistence operations for households.
type HouseholdRepository interface {
	SaveHousehold(ctx context.Context, household domain.Household) error
	FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error)
}

// MemberReaderRepository defines read operations for member data.
type MemberReaderRepository interface {
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)
	FindMemberByEmail(ctx context.Context, email string) (*domain.Member, error)
	// ListMembersByHousehold returns members ordered by member ID. When
	// activeOnly is set, inactive members are excluded.
	ListMembersByHousehold(ctx context.Context, householdID string, activeOnly bool) ([]domain.Member, error)
}

// MemberWriterRepository defines write operations for member data.
type MemberWriterRepository interface {
	SaveMember(ctx context.Context, member domain.Member) error
	UpdateMember(ctx context.Context, member domain.Member) error
	// SetMemberActive toggles the active flag without touching other fields.
	SetMemberActive(ctx context.Context, memberID string, active bool, updatedBy string, updatedAt time.Time) error
}

// MemberRepositoryFacade combines all member-related repository interfaces.
type MemberRepositoryFacade interface {
	HouseholdRepository
	MemberReaderRepository
	MemberWriterRepository
}
