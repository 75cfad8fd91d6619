package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hearthsplit/household_ledger_app/internal/apperrors"
	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthsplit/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthsplit/household_ledger_app/internal/core/ports/services"
	"github.com/hearthsplit/household_ledger_app/internal/dto"
	"github.com/hearthsplit/household_ledger_app/internal/middleware"
	"github.com/hearthsplit/household_ledger_app/internal/utils"
)

// memberService manages the household roster. It exists to serve the engine's
// roster boundary; household administration beyond that is out of scope.
type memberService struct {
	memberRepo portsrepo.MemberRepositoryFacade
}

// NewMemberService creates a new MemberService.
func NewMemberService(memberRepo portsrepo.MemberRepositoryFacade) portssvc.MemberSvcFacade {
	return &memberService{memberRepo: memberRepo}
}

var _ portssvc.MemberSvcFacade = (*memberService)(nil)

// CreateHousehold creates a household together with its first member.
func (s *memberService) CreateHousehold(ctx context.Context, req dto.CreateHouseholdRequest) (*domain.Household, *domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.memberRepo.FindMemberByEmail(ctx, req.CreatorEmail)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	}

	hash, err := utils.HashPassword(req.CreatorPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	memberID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     memberID,
		LastUpdatedAt: now,
		LastUpdatedBy: memberID,
	}
	household := domain.Household{
		HouseholdID: uuid.NewString(),
		Name:        req.Name,
		AuditFields: audit,
	}
	member := domain.Member{
		MemberID:     memberID,
		HouseholdID:  household.HouseholdID,
		DisplayName:  req.CreatorDisplayName,
		Email:        req.CreatorEmail,
		IsActive:     true,
		PasswordHash: hash,
		AuditFields:  audit,
	}

	if err := s.memberRepo.SaveHousehold(ctx, household); err != nil {
		return nil, nil, err
	}
	if err := s.memberRepo.SaveMember(ctx, member); err != nil {
		return nil, nil, err
	}

	logger.Info("Household created", slog.String("household_id", household.HouseholdID))
	return &household, &member, nil
}

// AddMember adds a member to an existing household.
func (s *memberService) AddMember(ctx context.Context, householdID string, req dto.CreateMemberRequest, creatorMemberID string) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeMemberAction(ctx, creatorMemberID, householdID); err != nil {
		return nil, err
	}

	existing, err := s.memberRepo.FindMemberByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	member := domain.Member{
		MemberID:     uuid.NewString(),
		HouseholdID:  householdID,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		IsActive:     true,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorMemberID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorMemberID,
		},
	}
	if err := s.memberRepo.SaveMember(ctx, member); err != nil {
		return nil, err
	}

	logger.Info("Member added", slog.String("member_id", member.MemberID), slog.String("household_id", householdID))
	return &member, nil
}

// UpdateMember updates mutable member fields.
func (s *memberService) UpdateMember(ctx context.Context, householdID, memberID string, req dto.UpdateMemberRequest, requestingMemberID string) (*domain.Member, error) {
	if err := s.AuthorizeMemberAction(ctx, requestingMemberID, householdID); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.HouseholdID != householdID {
		return nil, fmt.Errorf("%w: member %s", apperrors.ErrNotFound, memberID)
	}

	if req.DisplayName != nil {
		member.DisplayName = *req.DisplayName
	}
	member.LastUpdatedAt = time.Now()
	member.LastUpdatedBy = requestingMemberID

	if err := s.memberRepo.UpdateMember(ctx, *member); err != nil {
		return nil, err
	}
	return member, nil
}

// DeactivateMember marks a member inactive. The member stays addressable in
// historical splits and keeps any open balance.
func (s *memberService) DeactivateMember(ctx context.Context, householdID, memberID string, requestingMemberID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeMemberAction(ctx, requestingMemberID, householdID); err != nil {
		return err
	}

	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member == nil || member.HouseholdID != householdID {
		return fmt.Errorf("%w: member %s", apperrors.ErrNotFound, memberID)
	}

	if err := s.memberRepo.SetMemberActive(ctx, memberID, false, requestingMemberID, time.Now()); err != nil {
		return err
	}
	logger.Info("Member deactivated", slog.String("member_id", memberID))
	return nil
}

// GetMemberByID returns a member by ID.
func (s *memberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("%w: member %s", apperrors.ErrNotFound, memberID)
	}
	return member, nil
}

// ListMembers returns household members ordered by member ID.
func (s *memberService) ListMembers(ctx context.Context, householdID string, activeOnly bool) ([]domain.Member, error) {
	return s.memberRepo.ListMembersByHousehold(ctx, householdID, activeOnly)
}

// GetHouseholdByID returns a household by ID.
func (s *memberService) GetHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error) {
	household, err := s.memberRepo.FindHouseholdByID(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if household == nil {
		return nil, fmt.Errorf("%w: household %s", apperrors.ErrNotFound, householdID)
	}
	return household, nil
}

// AuthorizeMemberAction verifies the member belongs to the household.
func (s *memberService) AuthorizeMemberAction(ctx context.Context, memberID, householdID string) error {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("%w: member %s", apperrors.ErrNotFound, memberID)
	}
	if member.HouseholdID != householdID {
		return fmt.Errorf("%w: member %s is not part of household %s", apperrors.ErrForbidden, memberID, householdID)
	}
	return nil
}
