package services

import (
	"context"

	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	"github.com/hearthsplit/household_ledger_app/internal/dto"
)

// MemberReaderSvc defines read operations for the member roster.
type MemberReaderSvc interface {
	GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error)
	// ListMembers returns household members ordered by member ID.
	ListMembers(ctx context.Context, householdID string, activeOnly bool) ([]domain.Member, error)
	GetHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error)
}

// MemberWriterSvc defines write operations for households and members.
type MemberWriterSvc interface {
	CreateHousehold(ctx context.Context, req dto.CreateHouseholdRequest) (*domain.Household, *domain.Member, error)
	AddMember(ctx context.Context, householdID string, req dto.CreateMemberRequest, creatorMemberID string) (*domain.Member, error)
	UpdateMember(ctx context.Context, householdID, memberID string, req dto.UpdateMemberRequest, requestingMemberID string) (*domain.Member, error)
	// DeactivateMember marks the member inactive. Historical splits keep
	// referencing it; settlement planning still sees its open balance.
	DeactivateMember(ctx context.Context, householdID, memberID string, requestingMemberID string) error
}

// MemberAuthorizerSvc checks that a member belongs to a household.
type MemberAuthorizerSvc interface {
	AuthorizeMemberAction(ctx context.Context, memberID, householdID string) error
}

// MemberSvcFacade combines all member-related service interfaces.
type MemberSvcFacade interface {
	MemberReaderSvc
	MemberWriterSvc
	MemberAuthorizerSvc
}

// AuthSvcFacade authenticates members and issues tokens.
type AuthSvcFacade interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
