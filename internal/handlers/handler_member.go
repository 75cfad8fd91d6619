package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hearthsplit/household_ledger_app/internal/apperrors"
	portssvc "github.com/hearthsplit/household_ledger_app/internal/core/ports/services"
	"github.com/hearthsplit/household_ledger_app/internal/dto"
	"github.com/hearthsplit/household_ledger_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// memberHandler handles HTTP requests for households and their members.
type memberHandler struct {
	memberService portssvc.MemberSvcFacade
}

func newMemberHandler(ms portssvc.MemberSvcFacade) *memberHandler {
	return &memberHandler{memberService: ms}
}

// registerHouseholdCreationRoute exposes household creation publicly: it is
// the registration flow, there is no member to authenticate yet.
func registerHouseholdCreationRoute(r *gin.Engine, memberService portssvc.MemberSvcFacade, rateLimit gin.HandlerFunc) {
	h := newMemberHandler(memberService)
	r.POST("/api/v1/households", rateLimit, h.createHousehold)
}

// registerMemberRoutes registers the authenticated household and member routes.
func registerMemberRoutes(rg *gin.RouterGroup, memberService portssvc.MemberSvcFacade) {
	h := newMemberHandler(memberService)

	households := rg.Group("/households/:householdID")
	{
		households.GET("", h.getHousehold)
		households.POST("/members", h.addMember)
		households.GET("/members", h.listMembers)
		households.GET("/members/:memberID", h.getMember)
		households.PUT("/members/:memberID", h.updateMember)
		households.DELETE("/members/:memberID", h.deactivateMember)
	}
}

// createHousehold godoc
// @Summary Create a household
// @Description Creates a household together with its first (creator) member.
// @Tags households
// @Accept json
// @Produce json
// @Param household body dto.CreateHouseholdRequest true "Household and creator details"
// @Success 201 {object} dto.HouseholdResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse "Failed to create household"
// @Router /households [post]
func (h *memberHandler) createHousehold(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create household request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	household, creator, err := h.memberService.CreateHousehold(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Household creation rejected, email already registered")
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already registered"})
			return
		}
		logger.Error("Failed to create household in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create household"})
		return
	}

	logger.Info("Household created successfully", slog.String("household_id", household.HouseholdID))
	c.JSON(http.StatusCreated, dto.HouseholdResponse{
		HouseholdID: household.HouseholdID,
		Name:        household.Name,
		Members:     []dto.MemberResponse{dto.ToMemberResponse(*creator)},
	})
}

// getHousehold godoc
// @Summary Get a household
// @Description Retrieves a household with its member roster.
// @Tags households
// @Produce json
// @Param householdID path string true "Household ID"
// @Success 200 {object} dto.HouseholdResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member of this household"
// @Failure 404 {object} ErrorResponse "Household not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve household"
// @Security BearerAuth
// @Router /households/{householdID} [get]
func (h *memberHandler) getHousehold(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")

	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	if !h.authorize(c, requesterID, householdID) {
		return
	}

	household, err := h.memberService.GetHouseholdByID(c.Request.Context(), householdID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Household not found"})
			return
		}
		logger.Error("Failed to get household from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve household"})
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context(), householdID, false)
	if err != nil {
		logger.Error("Failed to list household members", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve household"})
		return
	}

	c.JSON(http.StatusOK, dto.HouseholdResponse{
		HouseholdID: household.HouseholdID,
		Name:        household.Name,
		Members:     dto.ToMemberResponses(members),
	})
}

// addMember godoc
// @Summary Add a member
// @Description Adds a new member to the household.
// @Tags members
// @Accept json
// @Produce json
// @Param householdID path string true "Household ID"
// @Param member body dto.CreateMemberRequest true "Member details"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member of this household"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse "Failed to add member"
// @Security BearerAuth
// @Router /households/{householdID}/members [post]
func (h *memberHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")

	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for add member request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	member, err := h.memberService.AddMember(c.Request.Context(), householdID, req, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not a member of this household"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Household not found"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already registered"})
		default:
			logger.Error("Failed to add member in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to add member"})
		}
		return
	}

	logger.Info("Member added successfully", slog.String("new_member_id", member.MemberID))
	c.JSON(http.StatusCreated, dto.ToMemberResponse(*member))
}

// listMembers godoc
// @Summary List household members
// @Description Retrieves the household's member roster ordered by member ID.
// @Tags members
// @Produce json
// @Param householdID path string true "Household ID"
// @Param activeOnly query bool false "Exclude deactivated members" default(false)
// @Success 200 {array} dto.MemberResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member of this household"
// @Failure 500 {object} ErrorResponse "Failed to list members"
// @Security BearerAuth
// @Router /households/{householdID}/members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")

	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	if !h.authorize(c, requesterID, householdID) {
		return
	}

	activeOnly := c.Query("activeOnly") == "true"
	members, err := h.memberService.ListMembers(c.Request.Context(), householdID, activeOnly)
	if err != nil {
		logger.Error("Failed to list members from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list members"})
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponses(members))
}

// getMember godoc
// @Summary Get a member by ID
// @Description Retrieves details for a single household member.
// @Tags members
// @Produce json
// @Param householdID path string true "Household ID"
// @Param memberID path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member of this household"
// @Failure 404 {object} ErrorResponse "Member not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve member"
// @Security BearerAuth
// @Router /households/{householdID}/members/{memberID} [get]
func (h *memberHandler) getMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")
	memberID := c.Param("memberID")

	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	if !h.authorize(c, requesterID, householdID) {
		return
	}

	member, err := h.memberService.GetMemberByID(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
			return
		}
		logger.Error("Failed to get member from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve member"})
		return
	}
	if member.HouseholdID != householdID {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponse(*member))
}

// updateMember godoc
// @Summary Update a member
// @Description Updates a member's mutable details.
// @Tags members
// @Accept json
// @Produce json
// @Param householdID path string true "Household ID"
// @Param memberID path string true "Member ID"
// @Param member body dto.UpdateMemberRequest true "Member details to update"
// @Success 200 {object} dto.MemberResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member of this household"
// @Failure 404 {object} ErrorResponse "Member not found"
// @Failure 500 {object} ErrorResponse "Failed to update member"
// @Security BearerAuth
// @Router /households/{householdID}/members/{memberID} [put]
func (h *memberHandler) updateMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")
	memberID := c.Param("memberID")

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update member request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), householdID, memberID, req, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not a member of this household"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		default:
			logger.Error("Failed to update member in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update member"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponse(*member))
}

// deactivateMember godoc
// @Summary Deactivate a member
// @Description Marks a member inactive. The member stays addressable in historical splits and settlement planning.
// @Tags members
// @Produce json
// @Param householdID path string true "Household ID"
// @Param memberID path string true "Member ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member of this household"
// @Failure 404 {object} ErrorResponse "Member not found"
// @Failure 500 {object} ErrorResponse "Failed to deactivate member"
// @Security BearerAuth
// @Router /households/{householdID}/members/{memberID} [delete]
func (h *memberHandler) deactivateMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")
	memberID := c.Param("memberID")

	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.memberService.DeactivateMember(c.Request.Context(), householdID, memberID, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not a member of this household"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		default:
			logger.Error("Failed to deactivate member in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to deactivate member"})
		}
		return
	}

	logger.Info("Member deactivated", slog.String("member_id", memberID))
	c.Status(http.StatusNoContent)
}

// authorize rejects requesters that do not belong to the household. It writes
// the error response itself and reports whether the request may proceed.
func (h *memberHandler) authorize(c *gin.Context, requesterID, householdID string) bool {
	err := h.memberService.AuthorizeMemberAction(c.Request.Context(), requesterID, householdID)
	if err == nil {
		return true
	}
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not a member of this household"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Authorization check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Authorization check failed"})
	}
	return false
}
