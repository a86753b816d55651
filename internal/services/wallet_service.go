package services

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"github.com/luckyseats/lottery-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// walletLockStripes bounds the number of per-user mutexes. Two users may
// share a stripe; that only costs a little contention, never correctness.
const walletLockStripes = 64

// WalletServiceImpl implements WalletService on top of the user and
// wallet-transaction repositories. Every balance mutation in the system
// funnels through ApplyEntry so the ledger stays a complete audit trail.
type WalletServiceImpl struct {
	userRepo      repositories.UserRepository
	walletTxnRepo repositories.WalletTransactionRepository
	logger        *slog.Logger
	locks         [walletLockStripes]sync.Mutex
}

// NewWalletService creates a new wallet service.
func NewWalletService(userRepo repositories.UserRepository, walletTxnRepo repositories.WalletTransactionRepository, logger *slog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{
		userRepo:      userRepo,
		walletTxnRepo: walletTxnRepo,
		logger:        logger,
	}
}

var _ WalletService = (*WalletServiceImpl)(nil)

// lockFor serializes ledger entries per user so the before/after snapshots
// of concurrent mutations form an unbroken chain.
func (s *WalletServiceImpl) lockFor(userID primitive.ObjectID) *sync.Mutex {
	h := fnv.New32a()
	h.Write(userID[:])
	return &s.locks[h.Sum32()%walletLockStripes]
}

// txnPrefixes maps a ledger category to its transaction-id prefix.
var txnPrefixes = map[string]string{
	models.TransactionCategoryTicketPurchase: "TICKET",
	models.TransactionCategoryPrizeCredit:    "PRIZE",
	models.TransactionCategoryDeposit:        "DEP",
	models.TransactionCategoryWithdrawal:     "WDR",
	models.TransactionCategoryRefund:         "REF",
	models.TransactionCategoryCashback:       "CB",
}

// ApplyEntry applies one balance mutation and appends the matching ledger
// row. The balance update is atomic at the storage layer; the per-user lock
// keeps the row's before/after snapshots consistent with the update.
func (s *WalletServiceImpl) ApplyEntry(ctx context.Context, entry LedgerEntry) (*models.WalletTransaction, error) {
	if entry.Amount <= 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "amount must be positive")
	}
	if entry.Direction != models.TransactionTypeCredit && entry.Direction != models.TransactionTypeDebit {
		return nil, apperrors.New(apperrors.InvalidInput, "unknown transaction direction %q", entry.Direction)
	}
	prefix, ok := txnPrefixes[entry.Category]
	if !ok {
		return nil, apperrors.New(apperrors.InvalidInput, "unknown transaction category %q", entry.Category)
	}

	delta := entry.Amount
	enforceFunds := false
	if entry.Direction == models.TransactionTypeDebit {
		delta = -entry.Amount
		enforceFunds = !entry.AllowOverdraft
	}

	lock := s.lockFor(entry.UserID)
	lock.Lock()
	defer lock.Unlock()

	before, after, err := s.userRepo.AdjustWalletBalance(ctx, entry.UserID, delta, enforceFunds)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrInsufficientFunds):
			return nil, apperrors.Wrap(apperrors.InsufficientFunds, err, "insufficient wallet balance")
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.Wrap(apperrors.NotFound, err, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to adjust wallet balance")
	}

	transactionID := entry.TransactionID
	if transactionID == "" {
		transactionID = utils.NewTransactionID(prefix)
	}
	txn := &models.WalletTransaction{
		UserID:          entry.UserID,
		TransactionID:   transactionID,
		TransactionType: entry.Direction,
		Amount:          entry.Amount,
		Description:     entry.Description,
		Category:        entry.Category,
		BalanceBefore:   before,
		BalanceAfter:    after,
		Status:          models.TransactionStatusCompleted,
		ReferenceID:     entry.ReferenceID,
		CreatedAt:       time.Now(),
	}
	if err := s.walletTxnRepo.Create(ctx, txn); err != nil {
		// Reverse the balance so the cached balance and the ledger agree. If
		// even the reversal fails the account needs manual reconciliation.
		if _, _, revErr := s.userRepo.AdjustWalletBalance(ctx, entry.UserID, -delta, false); revErr != nil {
			s.logger.Error("wallet ledger write and reversal both failed, balance needs reconciliation",
				"userId", entry.UserID.Hex(), "transactionId", transactionID,
				"delta", delta, "writeError", err, "reversalError", revErr)
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to record wallet transaction")
	}
	return txn, nil
}

// Deposit credits external money into the wallet.
func (s *WalletServiceImpl) Deposit(ctx context.Context, userID primitive.ObjectID, amount float64, description, referenceID string) (*models.WalletTransaction, error) {
	if description == "" {
		description = "Wallet deposit"
	}
	return s.ApplyEntry(ctx, LedgerEntry{
		UserID:      userID,
		Amount:      amount,
		Direction:   models.TransactionTypeCredit,
		Category:    models.TransactionCategoryDeposit,
		Description: description,
		ReferenceID: referenceID,
	})
}

// Balance returns the cached current balance.
func (s *WalletServiceImpl) Balance(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, apperrors.Wrap(apperrors.NotFound, err, "user not found")
		}
		return 0, apperrors.Wrap(apperrors.Internal, err, "failed to fetch user")
	}
	return user.WalletBalance, nil
}

// Transactions pages through the user's ledger, newest first, optionally
// filtered by category.
func (s *WalletServiceImpl) Transactions(ctx context.Context, userID primitive.ObjectID, category string, page, limit int) ([]*models.WalletTransaction, error) {
	txns, err := s.walletTxnRepo.FindByUser(ctx, userID, category, page, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch transactions")
	}
	return txns, nil
}

// Summary aggregates the user's ledger over the trailing period.
func (s *WalletServiceImpl) Summary(ctx context.Context, userID primitive.ObjectID, days int) (*models.WalletSummary, error) {
	if days <= 0 {
		days = 30
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch user")
	}
	since := time.Now().AddDate(0, 0, -days)
	credit, debit, count, err := s.walletTxnRepo.Summary(ctx, userID, since)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to summarize transactions")
	}
	return &models.WalletSummary{
		UserID:         userID.Hex(),
		CurrentBalance: user.WalletBalance,
		Days:           days,
		TotalCredit:    credit,
		TotalDebit:     debit,
		NetChange:      credit - debit,
		Transactions:   count,
	}, nil
}
