package services

import (
	"context"
	"errors"
	"time"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserServiceImpl implements UserService.
type UserServiceImpl struct {
	userRepo        repositories.UserRepository
	bankDetailsRepo repositories.BankDetailsRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repositories.UserRepository, bankDetailsRepo repositories.BankDetailsRepository) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo:        userRepo,
		bankDetailsRepo: bankDetailsRepo,
	}
}

var _ UserService = (*UserServiceImpl)(nil)

// Profile fetches the caller's account.
func (s *UserServiceImpl) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch user")
	}
	return user, nil
}

// AddBankDetails stores a new payout destination. New records start
// unverified; the first completed withdrawal against them flips the flag.
func (s *UserServiceImpl) AddBankDetails(ctx context.Context, userID primitive.ObjectID, details *models.BankDetails) (*models.BankDetails, error) {
	if details.AccountNumber == "" && details.UPIID == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "either an account number or a UPI id is required")
	}
	if details.AccountNumber != "" && details.IFSCCode == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "IFSC code is required with an account number")
	}
	now := time.Now()
	details.ID = primitive.NilObjectID
	details.UserID = userID
	details.IsVerified = false
	details.CreatedAt = now
	details.UpdatedAt = now
	if err := s.bankDetailsRepo.Create(ctx, details); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to store bank details")
	}
	return details, nil
}

// BankDetails lists the caller's payout destinations.
func (s *UserServiceImpl) BankDetails(ctx context.Context, userID primitive.ObjectID) ([]*models.BankDetails, error) {
	details, err := s.bankDetailsRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch bank details")
	}
	return details, nil
}

// DeleteBankDetails removes one of the caller's payout destinations.
func (s *UserServiceImpl) DeleteBankDetails(ctx context.Context, userID, detailsID primitive.ObjectID) error {
	details, err := s.bankDetailsRepo.FindByID(ctx, detailsID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.Wrap(apperrors.NotFound, err, "bank details not found")
		}
		return apperrors.Wrap(apperrors.Internal, err, "failed to fetch bank details")
	}
	if details.UserID != userID {
		return apperrors.New(apperrors.NotFound, "bank details not found")
	}
	if err := s.bankDetailsRepo.Delete(ctx, detailsID); err != nil {
		return apperrors.Wrap(apperrors.Internal, err, "failed to delete bank details")
	}
	return nil
}
