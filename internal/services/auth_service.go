package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/crypto/bcrypt"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"github.com/luckyseats/lottery-backend/pkg/token"
)

// AuthServiceImpl implements AuthService.
type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	tokens   *token.Service
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repositories.UserRepository, tokens *token.Service, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

var _ AuthService = (*AuthServiceImpl)(nil)

// Register creates a new player account. Email, phone number and the public
// userId must each be unused.
func (s *AuthServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	for _, identifier := range []string{req.Email, req.PhoneNumber, req.UserID} {
		_, err := s.userRepo.FindByIdentifier(ctx, identifier)
		if err == nil {
			return nil, apperrors.New(apperrors.Conflict, "an account with %q already exists", identifier)
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.Internal, err, "failed to check existing accounts")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to hash password")
	}

	now := time.Now()
	user := &models.User{
		UserName:    req.UserName,
		UserID:      req.UserID,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    string(hash),
		City:        req.City,
		State:       req.State,
		Role:        models.RoleUser,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to create user")
	}
	s.logger.Info("user registered", "userId", user.ID.Hex(), "publicUserId", user.UserID)
	return user, nil
}

// Login authenticates by any identifier and issues an access token. Wrong
// identifier and wrong password produce the same error so the endpoint does
// not leak which accounts exist.
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.userRepo.FindByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.New(apperrors.Unauthorized, "invalid credentials")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to look up user")
	}
	if !user.IsActive {
		return nil, apperrors.New(apperrors.Unauthorized, "account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.New(apperrors.Unauthorized, "invalid credentials")
	}

	accessToken, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to issue token")
	}
	return &models.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.tokens.Expiry().Seconds()),
		User:        user,
	}, nil
}
