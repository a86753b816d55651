package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"github.com/luckyseats/lottery-backend/pkg/paymentgateway"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentServiceImpl implements PaymentService.
type PaymentServiceImpl struct {
	gateway       *paymentgateway.Client
	walletTxnRepo repositories.WalletTransactionRepository
	wallet        WalletService
	logger        *slog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(gateway *paymentgateway.Client, walletTxnRepo repositories.WalletTransactionRepository, wallet WalletService, logger *slog.Logger) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		gateway:       gateway,
		walletTxnRepo: walletTxnRepo,
		wallet:        wallet,
		logger:        logger,
	}
}

var _ PaymentService = (*PaymentServiceImpl)(nil)

// CreateDepositOrder registers a deposit order with the payment gateway.
func (s *PaymentServiceImpl) CreateDepositOrder(ctx context.Context, userID primitive.ObjectID, amount float64) (*DepositOrder, error) {
	if amount <= 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "amount must be positive")
	}
	receipt := fmt.Sprintf("dep_%s", userID.Hex())
	order, err := s.gateway.CreateOrder(ctx, amount, receipt)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to create payment order")
	}
	s.logger.Info("deposit order created", "userId", userID.Hex(), "orderId", order.OrderID, "amount", amount)
	return &DepositOrder{
		OrderID:  order.OrderID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID,
	}, nil
}

// ConfirmDeposit verifies the callback signature and credits the wallet. The
// ledger is probed by order id first so a replayed callback never credits
// twice.
func (s *PaymentServiceImpl) ConfirmDeposit(ctx context.Context, userID primitive.ObjectID, orderID, paymentID, signature string) (*models.WalletTransaction, error) {
	if orderID == "" || paymentID == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "order id and payment id are required")
	}
	if !s.gateway.MockAPI && !s.gateway.VerifySignature(orderID, paymentID, signature) {
		return nil, apperrors.New(apperrors.Unauthorized, "payment signature verification failed")
	}

	prior, err := s.walletTxnRepo.FindByReference(ctx, userID, models.TransactionCategoryDeposit, orderID)
	if err == nil {
		s.logger.Warn("deposit callback replayed", "userId", userID.Hex(), "orderId", orderID)
		return prior, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to check for earlier deposit")
	}

	amount, err := s.depositAmount(ctx, orderID)
	if err != nil {
		return nil, err
	}
	txn, err := s.wallet.Deposit(ctx, userID, amount, fmt.Sprintf("Deposit via payment %s", paymentID), orderID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("deposit credited", "userId", userID.Hex(), "orderId", orderID, "amount", amount)
	return txn, nil
}

// depositAmount fetches the authoritative amount for an order from the
// gateway, so a tampered client cannot credit more than it paid.
func (s *PaymentServiceImpl) depositAmount(ctx context.Context, orderID string) (float64, error) {
	order, err := s.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.Internal, err, "failed to fetch payment order")
	}
	if order.Status != "paid" {
		return 0, apperrors.New(apperrors.PreconditionFailed, "order %s is %s, not paid", orderID, order.Status)
	}
	return order.Amount, nil
}
