package dto

import (
	"github.com/hearthsplit/household_ledger_app/internal/core/domain"
)

// CreateHouseholdRequest creates a household together with its first member.
type CreateHouseholdRequest struct {
	Name               string `json:"name" binding:"required,max=100"`
	CreatorDisplayName string `json:"creatorDisplayName" binding:"required,max=100"`
	CreatorEmail       string `json:"creatorEmail" binding:"required,email"`
	CreatorPassword    string `json:"creatorPassword" binding:"required,min=8"`
}

// CreateMemberRequest adds a member to an existing household.
type CreateMemberRequest struct {
	DisplayName string `json:"displayName" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
}

// UpdateMemberRequest updates mutable member fields.
type UpdateMemberRequest struct {
	DisplayName *string `json:"displayName,omitempty" binding:"omitempty,max=100"`
}

// MemberResponse is the API shape of a member.
type MemberResponse struct {
	MemberID    string `json:"memberID"`
	HouseholdID string `json:"householdID"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	IsActive    bool   `json:"isActive"`
}

// HouseholdResponse is the API shape of a household.
type HouseholdResponse struct {
	HouseholdID string           `json:"householdID"`
	Name        string           `json:"name"`
	Members     []MemberResponse `json:"members,omitempty"`
}

// ToMemberResponse maps a domain member to its API shape.
func ToMemberResponse(m domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:    m.MemberID,
		HouseholdID: m.HouseholdID,
		DisplayName: m.DisplayName,
		Email:       m.Email,
		IsActive:    m.IsActive,
	}
}

// ToMemberResponses maps a slice of domain members.
func ToMemberResponses(members []domain.Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, ToMemberResponse(m))
	}
	return out
}
