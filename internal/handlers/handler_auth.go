package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	portssvc "github.com/hearthsplit/household_ledger_app/internal/core/ports/services"
	coresvc "github.com/hearthsplit/household_ledger_app/internal/core/services"
	"github.com/hearthsplit/household_ledger_app/internal/dto"
	"github.com/hearthsplit/household_ledger_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// authHandler handles authentication related requests.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes sets up the public authentication routes. The rate limit
// middleware is applied per-route so only credential endpoints are throttled.
func registerAuthRoutes(rg *gin.Engine, authService portssvc.AuthSvcFacade, rateLimit gin.HandlerFunc) {
	h := newAuthHandler(authService)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", rateLimit, h.login)
	}
}

// login godoc
// @Summary Member login
// @Description Authenticates a member by email and password and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, coresvc.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
