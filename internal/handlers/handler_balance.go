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

// balanceHandler serves aggregated balances and settlement suggestions.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
	memberService  portssvc.MemberAuthorizerSvc
}

func newBalanceHandler(bs portssvc.BalanceSvcFacade, ms portssvc.MemberAuthorizerSvc) *balanceHandler {
	return &balanceHandler{balanceService: bs, memberService: ms}
}

// RegisterBalanceRoutes registers balance and settlement routes.
func RegisterBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade, memberService portssvc.MemberAuthorizerSvc) {
	h := newBalanceHandler(balanceService, memberService)

	households := rg.Group("/households/:householdID")
	{
		households.GET("/balances", h.getBalances)
		households.GET("/settlements/suggestions", h.getSettlementSuggestions)
	}
}

// getBalances godoc
// @Summary Get household balances
// @Description Aggregates the household's full transaction history into per-member net positions.
// @Tags balances
// @Produce json
// @Param householdID path string true "Household ID"
// @Success 200 {object} dto.BalancesResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member of this household"
// @Failure 500 {object} ErrorResponse "Failed to aggregate balances"
// @Security BearerAuth
// @Router /households/{householdID}/balances [get]
func (h *balanceHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")

	if !h.authorize(c, householdID) {
		return
	}

	balances, err := h.balanceService.GetHouseholdBalances(c.Request.Context(), householdID)
	if err != nil {
		logger.Error("Failed to aggregate household balances", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to aggregate balances"})
		return
	}

	c.JSON(http.StatusOK, dto.BalancesResponse{
		HouseholdID: householdID,
		Balances:    dto.ToBalanceResponses(balances),
	})
}

// getSettlementSuggestions godoc
// @Summary Get settlement suggestions
// @Description Proposes transfers that bring every member's net balance to zero.
// @Tags balances
// @Produce json
// @Param householdID path string true "Household ID"
// @Success 200 {object} dto.SettlementPlanResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member of this household"
// @Failure 500 {object} ErrorResponse "Failed to plan settlements"
// @Security BearerAuth
// @Router /households/{householdID}/settlements/suggestions [get]
func (h *balanceHandler) getSettlementSuggestions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")

	if !h.authorize(c, householdID) {
		return
	}

	suggestions, err := h.balanceService.GetSettlementSuggestions(c.Request.Context(), householdID)
	if err != nil {
		logger.Error("Failed to plan settlements", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to plan settlements"})
		return
	}

	c.JSON(http.StatusOK, dto.SettlementPlanResponse{
		HouseholdID: householdID,
		Suggestions: dto.ToSettlementResponses(suggestions),
	})
}

func (h *balanceHandler) authorize(c *gin.Context, householdID string) bool {
	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return false
	}
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
