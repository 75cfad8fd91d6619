package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hearthsplit/household_ledger_app/internal/apperrors"
	portssvc "github.com/hearthsplit/household_ledger_app/internal/core/ports/services"
	coresvc "github.com/hearthsplit/household_ledger_app/internal/core/services"
	"github.com/hearthsplit/household_ledger_app/internal/dto"
	"github.com/hearthsplit/household_ledger_app/internal/middleware"
	"github.com/hearthsplit/household_ledger_app/internal/utils/allocation"

	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for household transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers all transaction routes.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/households/:householdID/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transactionID", h.getTransaction)
		transactions.PUT("/:transactionID", h.updateTransaction)
		transactions.DELETE("/:transactionID", h.deleteTransaction)
	}
}

// createTransaction godoc
// @Summary Create a transaction
// @Description Creates a transaction. Expense splits are computed from the requested modes and persisted as concrete amounts.
// @Tags transactions
// @Accept json
// @Produce json
// @Param householdID path string true "Household ID"
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid input or split mismatch"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member of this household"
// @Failure 500 {object} ErrorResponse "Failed to create transaction"
// @Security BearerAuth
// @Router /households/{householdID}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create transaction request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), householdID, req, requesterID)
	if err != nil {
		h.respondWriteError(c, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", txn.TransactionID))

	resp, err := h.transactionService.GetTransactionByID(c.Request.Context(), householdID, txn.TransactionID, requesterID)
	if err != nil {
		logger.Error("Failed to load created transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load created transaction"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Description Retrieves a transaction with its splits and the recognized split pattern.
// @Tags transactions
// @Produce json
// @Param householdID path string true "Household ID"
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member of this household"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /households/{householdID}/transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")
	transactionID := c.Param("transactionID")

	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.transactionService.GetTransactionByID(c.Request.Context(), householdID, transactionID, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not a member of this household"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
		default:
			logger.Error("Failed to get transaction from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves household transactions ordered by date descending.
// @Tags transactions
// @Produce json
// @Param householdID path string true "Household ID"
// @Param limit query int false "Limit number of results" default(50)
// @Param offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member of this household"
// @Failure 500 {object} ErrorResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /households/{householdID}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), householdID, requesterID, params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not a member of this household"})
		default:
			logger.Error("Failed to list transactions from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Replaces a transaction's mutable fields and recomputes its splits. The transaction type cannot change.
// @Tags transactions
// @Accept json
// @Produce json
// @Param householdID path string true "Household ID"
// @Param transactionID path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "Transaction details"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid input or split mismatch"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member of this household"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to update transaction"
// @Security BearerAuth
// @Router /households/{householdID}/transactions/{transactionID} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")
	transactionID := c.Param("transactionID")

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update transaction request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), householdID, transactionID, req, requesterID)
	if err != nil {
		h.respondWriteError(c, err, "Failed to update transaction")
		return
	}

	resp, err := h.transactionService.GetTransactionByID(c.Request.Context(), householdID, txn.TransactionID, requesterID)
	if err != nil {
		logger.Error("Failed to load updated transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load updated transaction"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Deletes a transaction and its splits. An expense with linked reimbursements cannot be deleted.
// @Tags transactions
// @Produce json
// @Param householdID path string true "Household ID"
// @Param transactionID path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member of this household"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 409 {object} ErrorResponse "Expense still has linked reimbursements"
// @Failure 500 {object} ErrorResponse "Failed to delete transaction"
// @Security BearerAuth
// @Router /households/{householdID}/transactions/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")
	transactionID := c.Param("transactionID")

	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.transactionService.DeleteTransaction(c.Request.Context(), householdID, transactionID, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not a member of this household"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
		case errors.Is(err, coresvc.ErrReimbursementsAttached):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Expense still has linked reimbursements"})
		default:
			logger.Error("Failed to delete transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete transaction"})
		}
		return
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}

// respondWriteError maps create/update failures onto HTTP statuses.
func (h *transactionHandler) respondWriteError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Not a member of this household"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, coresvc.ErrAmountMismatch),
		errors.Is(err, coresvc.ErrUnknownSplitMode),
		errors.Is(err, coresvc.ErrNotParticipant),
		errors.Is(err, coresvc.ErrSideMismatch),
		errors.Is(err, coresvc.ErrExceedsRemaining),
		errors.Is(err, coresvc.ErrNotAnExpense),
		errors.Is(err, coresvc.ErrLinkedExpenseNotFound),
		errors.Is(err, allocation.ErrNoParticipants):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}
