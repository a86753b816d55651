package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithdrawalServiceImpl implements WithdrawalService. The requested amount
// is debited from the wallet when the request is created (a reservation);
// cancel and reject refund it, complete keeps the debit.
type WithdrawalServiceImpl struct {
	withdrawalRepo  repositories.WithdrawalRepository
	bankDetailsRepo repositories.BankDetailsRepository
	walletTxnRepo   repositories.WalletTransactionRepository
	userRepo        repositories.UserRepository
	wallet          WalletService
	minAmount       float64
	logger          *slog.Logger
}

// NewWithdrawalService creates a new withdrawal service.
func NewWithdrawalService(withdrawalRepo repositories.WithdrawalRepository, bankDetailsRepo repositories.BankDetailsRepository, walletTxnRepo repositories.WalletTransactionRepository, userRepo repositories.UserRepository, wallet WalletService, minAmount float64, logger *slog.Logger) *WithdrawalServiceImpl {
	return &WithdrawalServiceImpl{
		withdrawalRepo:  withdrawalRepo,
		bankDetailsRepo: bankDetailsRepo,
		walletTxnRepo:   walletTxnRepo,
		userRepo:        userRepo,
		wallet:          wallet,
		minAmount:       minAmount,
		logger:          logger,
	}
}

var _ WithdrawalService = (*WithdrawalServiceImpl)(nil)

// Request creates a pending withdrawal and reserves the amount by debiting
// the wallet. A failed debit removes the request again, so a rejected
// request leaves no trace in the ledger.
func (s *WithdrawalServiceImpl) Request(ctx context.Context, userID primitive.ObjectID, amount float64, bankDetailsID primitive.ObjectID, method string) (*models.Withdrawal, error) {
	if amount <= 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "amount must be positive")
	}
	if amount < s.minAmount {
		return nil, apperrors.New(apperrors.InvalidInput, "minimum withdrawal amount is %.2f", s.minAmount)
	}
	if method != models.WithdrawalMethodBankTransfer && method != models.WithdrawalMethodUPI {
		return nil, apperrors.New(apperrors.InvalidInput, "unknown withdrawal method %q", method)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch user")
	}
	if user.WalletBalance < amount {
		return nil, apperrors.New(apperrors.InsufficientFunds, "wallet balance %.2f is less than the requested %.2f", user.WalletBalance, amount)
	}

	details, err := s.bankDetailsRepo.FindByID(ctx, bankDetailsID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "bank details not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch bank details")
	}
	if details.UserID != userID {
		return nil, apperrors.New(apperrors.NotFound, "bank details not found")
	}
	if !details.IsVerified {
		return nil, apperrors.New(apperrors.PreconditionFailed, "bank details are not verified yet")
	}

	if _, err := s.withdrawalRepo.FindOutstandingByUser(ctx, userID); err == nil {
		return nil, apperrors.New(apperrors.Conflict, "an earlier withdrawal is still being processed")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to check outstanding withdrawals")
	}

	now := time.Now()
	withdrawal := &models.Withdrawal{
		UserID:           userID,
		Amount:           amount,
		BankDetailsID:    bankDetailsID,
		WithdrawalMethod: method,
		Status:           models.WithdrawalStatusPending,
		RequestDate:      now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to create withdrawal request")
	}

	txn, err := s.wallet.ApplyEntry(ctx, LedgerEntry{
		UserID:      userID,
		Amount:      amount,
		Direction:   models.TransactionTypeDebit,
		Category:    models.TransactionCategoryWithdrawal,
		Description: fmt.Sprintf("Withdrawal request for %.2f", amount),
		ReferenceID: withdrawal.ID.Hex(),
	})
	if err != nil {
		if delErr := s.withdrawalRepo.Delete(ctx, withdrawal.ID); delErr != nil {
			s.logger.Error("failed to remove withdrawal after debit failure, manual reconciliation required",
				"withdrawalId", withdrawal.ID.Hex(), "error", delErr)
		}
		if apperrors.Is(err, apperrors.InsufficientFunds) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to reserve withdrawal amount")
	}

	withdrawal.DebitTxnID = txn.TransactionID
	withdrawal.UpdatedAt = time.Now()
	if err := s.withdrawalRepo.Update(ctx, withdrawal); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to record withdrawal debit")
	}
	return withdrawal, nil
}

// Cancel lets the owner withdraw a still-pending request. The reserved
// amount is refunded before the status flips; the idempotency probe makes a
// retried cancel safe after a crash between refund and update.
func (s *WithdrawalServiceImpl) Cancel(ctx context.Context, userID, withdrawalID primitive.ObjectID) (*models.Withdrawal, error) {
	withdrawal, err := s.ownedWithdrawal(ctx, userID, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != models.WithdrawalStatusPending {
		return nil, apperrors.New(apperrors.PreconditionFailed, "only pending withdrawals can be cancelled, this one is %s", withdrawal.Status)
	}
	refundTxnID, err := s.refundOnce(ctx, withdrawal)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	withdrawal.Status = models.WithdrawalStatusCancelled
	withdrawal.RefundTxnID = refundTxnID
	withdrawal.ProcessedDate = &now
	withdrawal.UpdatedAt = now
	if err := s.withdrawalRepo.Update(ctx, withdrawal); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to update withdrawal")
	}
	return withdrawal, nil
}

// MarkProcessing moves a pending withdrawal into processing.
func (s *WithdrawalServiceImpl) MarkProcessing(ctx context.Context, withdrawalID primitive.ObjectID, notes string) (*models.Withdrawal, error) {
	withdrawal, err := s.findWithdrawal(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal.Status != models.WithdrawalStatusPending {
		return nil, apperrors.New(apperrors.PreconditionFailed, "only pending withdrawals can move to processing, this one is %s", withdrawal.Status)
	}
	withdrawal.Status = models.WithdrawalStatusProcessing
	withdrawal.AdminNotes = notes
	withdrawal.UpdatedAt = time.Now()
	if err := s.withdrawalRepo.Update(ctx, withdrawal); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to update withdrawal")
	}
	return withdrawal, nil
}

// Complete finalizes a payout. The reservation debit already happened at
// request time, so completion only records the bank transfer.
func (s *WithdrawalServiceImpl) Complete(ctx context.Context, withdrawalID primitive.ObjectID, bankTransactionID, notes string) (*models.Withdrawal, error) {
	withdrawal, err := s.findWithdrawal(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal.IsTerminal() {
		return nil, apperrors.New(apperrors.PreconditionFailed, "withdrawal is already %s", withdrawal.Status)
	}
	now := time.Now()
	withdrawal.Status = models.WithdrawalStatusCompleted
	withdrawal.BankTransactionID = bankTransactionID
	withdrawal.AdminNotes = notes
	withdrawal.ProcessedDate = &now
	withdrawal.UpdatedAt = now
	if err := s.withdrawalRepo.Update(ctx, withdrawal); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to update withdrawal")
	}
	// A completed payout proves the destination works.
	if details, err := s.bankDetailsRepo.FindByID(ctx, withdrawal.BankDetailsID); err == nil && !details.IsVerified {
		details.IsVerified = true
		details.UpdatedAt = now
		if err := s.bankDetailsRepo.Update(ctx, details); err != nil {
			s.logger.Warn("failed to mark bank details verified", "bankDetailsId", details.ID.Hex(), "error", err)
		}
	}
	return withdrawal, nil
}

// Reject declines a withdrawal and refunds the reserved amount exactly once.
func (s *WithdrawalServiceImpl) Reject(ctx context.Context, withdrawalID primitive.ObjectID, reason string) (*models.Withdrawal, error) {
	withdrawal, err := s.findWithdrawal(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal.IsTerminal() {
		return nil, apperrors.New(apperrors.PreconditionFailed, "withdrawal is already %s", withdrawal.Status)
	}
	refundTxnID, err := s.refundOnce(ctx, withdrawal)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	withdrawal.Status = models.WithdrawalStatusRejected
	withdrawal.RejectionReason = reason
	withdrawal.RefundTxnID = refundTxnID
	withdrawal.ProcessedDate = &now
	withdrawal.UpdatedAt = now
	if err := s.withdrawalRepo.Update(ctx, withdrawal); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to update withdrawal")
	}
	return withdrawal, nil
}

// refundOnce credits the reserved amount back to the wallet, skipping the
// credit when a refund row referencing this withdrawal already exists.
func (s *WithdrawalServiceImpl) refundOnce(ctx context.Context, withdrawal *models.Withdrawal) (string, error) {
	prior, err := s.walletTxnRepo.FindByReference(ctx, withdrawal.UserID, models.TransactionCategoryRefund, withdrawal.ID.Hex())
	if err == nil {
		return prior.TransactionID, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return "", apperrors.Wrap(apperrors.Internal, err, "failed to check for earlier refund")
	}
	txn, err := s.wallet.ApplyEntry(ctx, LedgerEntry{
		UserID:      withdrawal.UserID,
		Amount:      withdrawal.Amount,
		Direction:   models.TransactionTypeCredit,
		Category:    models.TransactionCategoryRefund,
		Description: fmt.Sprintf("Refund of withdrawal %.2f", withdrawal.Amount),
		ReferenceID: withdrawal.ID.Hex(),
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.Internal, err, "failed to refund withdrawal amount")
	}
	return txn.TransactionID, nil
}

// UserWithdrawals pages through the caller's withdrawal history.
func (s *WithdrawalServiceImpl) UserWithdrawals(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Withdrawal, error) {
	withdrawals, err := s.withdrawalRepo.FindByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch withdrawals")
	}
	return withdrawals, nil
}

// Withdrawal fetches one withdrawal owned by the caller.
func (s *WithdrawalServiceImpl) Withdrawal(ctx context.Context, userID, withdrawalID primitive.ObjectID) (*models.Withdrawal, error) {
	return s.ownedWithdrawal(ctx, userID, withdrawalID)
}

// ListByStatus is the admin review queue; an empty status lists everything.
func (s *WithdrawalServiceImpl) ListByStatus(ctx context.Context, status string, page, limit int) ([]*models.Withdrawal, error) {
	withdrawals, err := s.withdrawalRepo.FindByStatus(ctx, status, page, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch withdrawals")
	}
	return withdrawals, nil
}

func (s *WithdrawalServiceImpl) findWithdrawal(ctx context.Context, withdrawalID primitive.ObjectID) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.FindByID(ctx, withdrawalID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "withdrawal not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch withdrawal")
	}
	return withdrawal, nil
}

func (s *WithdrawalServiceImpl) ownedWithdrawal(ctx context.Context, userID, withdrawalID primitive.ObjectID) (*models.Withdrawal, error) {
	withdrawal, err := s.findWithdrawal(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal.UserID != userID {
		return nil, apperrors.New(apperrors.NotFound, "withdrawal not found")
	}
	return withdrawal, nil
}
