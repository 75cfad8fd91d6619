package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hearthsplit/household_ledger_app/internal/apperrors"
	"github.com/hearthsplit/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthsplit/household_ledger_app/internal/core/ports/services"
	"github.com/hearthsplit/household_ledger_app/internal/dto"
	"github.com/hearthsplit/household_ledger_app/internal/middleware"
	"github.com/hearthsplit/household_ledger_app/internal/platform/config"
	"github.com/hearthsplit/household_ledger_app/internal/utils"
)

// ErrInvalidCredentials covers unknown email, wrong password, and inactive
// members. Deliberately indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid credentials")

type authService struct {
	cfg        *config.Config
	memberRepo repositories.MemberReaderRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, memberRepo repositories.MemberReaderRepository) portssvc.AuthSvcFacade {
	return &authService{cfg: cfg, memberRepo: memberRepo}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login authenticates a member by email and password and issues a JWT.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	member, err := s.memberRepo.FindMemberByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if member == nil || !member.IsActive || !utils.CheckPasswordHash(req.Password, member.PasswordHash) {
		logger.Warn("Login rejected", slog.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateJWT(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.JWTExpiryDuration, member.MemberID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Member:    dto.ToMemberResponse(*member),
	}, nil
}
