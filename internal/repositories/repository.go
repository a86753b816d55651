package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luckyseats/lottery-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors shared by every implementation.
var (
	// ErrNotFound is returned when no document matches, including when a
	// conditional update's guard filter matched nothing.
	ErrNotFound = errors.New("document not found")
	// ErrInsufficientFunds is returned by AdjustWalletBalance when a debit
	// exceeds the current balance and overdraft is not allowed.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

// SeatConflictError is returned by SeatRepository.CreateMany when the
// unique (contestId, seatNumber) index rejects part of the batch.
type SeatConflictError struct {
	SeatNumbers []int
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already purchased: %v", e.SeatNumbers)
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// FindByIdentifier matches email, phone number or the public userId.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// AdjustWalletBalance atomically applies delta to the wallet balance and
	// returns the balance before and after the adjustment. With enforceFunds
	// set, a debit that would overdraw returns ErrInsufficientFunds and
	// leaves the balance untouched.
	AdjustWalletBalance(ctx context.Context, id primitive.ObjectID, delta float64, enforceFunds bool) (before, after float64, err error)
	Count(ctx context.Context) (int64, error)
}

// ContestRepository defines the interface for contest data operations.
type ContestRepository interface {
	Create(ctx context.Context, contest *models.Contest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Contest, error)
	FindByStatus(ctx context.Context, status string, page, limit int) ([]*models.Contest, error)
	Update(ctx context.Context, contest *models.Contest) error
	// ApplySeatCounters increments the purchased counters and decrements the
	// available counters at contest level and for every category in
	// perCategory, in one update per key. Negative counts reverse a
	// purchase.
	ApplySeatCounters(ctx context.Context, id primitive.ObjectID, total int, perCategory map[int]int) error
	// MarkDrawCompleted atomically flips isDrawCompleted from false to true
	// and sets the status to completed. Returns ErrNotFound when the guard
	// does not match, i.e. the draw was already claimed.
	MarkDrawCompleted(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, status string) (int64, error)
}

// SeatRepository defines the interface for purchased-seat data operations.
type SeatRepository interface {
	// CreateMany inserts the batch; a duplicate (contestId, seatNumber)
	// aborts the whole batch with a *SeatConflictError naming the seats.
	CreateMany(ctx context.Context, seats []*models.PurchasedSeat) error
	// DeleteByTransactionID removes the seats inserted under one purchase
	// transaction id (compensating cleanup).
	DeleteByTransactionID(ctx context.Context, contestID primitive.ObjectID, transactionID string) error
	// FindPurchased returns purchased-status seats; categoryID 0 means all.
	FindPurchased(ctx context.Context, contestID primitive.ObjectID, categoryID int) ([]*models.PurchasedSeat, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID, contestID *primitive.ObjectID) ([]*models.PurchasedSeat, error)
	// MarkWinner stamps the winner flag and prize amount on a seat that has
	// not been stamped yet. Returns false when the seat was already a
	// winner, making the draw's apply step re-entrant.
	MarkWinner(ctx context.Context, contestID primitive.ObjectID, seatNumber int, prizeAmount float64) (bool, error)
	CountPurchased(ctx context.Context, contestID primitive.ObjectID) (int64, error)
}

// PrizeStructureRepository defines the interface for prize-table operations.
type PrizeStructureRepository interface {
	CreateMany(ctx context.Context, prizes []*models.PrizeStructure) error
	// FindByContest returns the prize table sorted ascending by rank.
	FindByContest(ctx context.Context, contestID primitive.ObjectID) ([]*models.PrizeStructure, error)
	DeleteByContest(ctx context.Context, contestID primitive.ObjectID) error
}

// WinnerRepository defines the interface for winner data operations.
type WinnerRepository interface {
	CreateMany(ctx context.Context, winners []*models.Winner) error
	FindByContest(ctx context.Context, contestID primitive.ObjectID) ([]*models.Winner, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error)
	CountByContest(ctx context.Context, contestID primitive.ObjectID) (int64, error)
	PrizeDistribution(ctx context.Context, contestID primitive.ObjectID) ([]models.PrizeDistribution, error)
	MarkClaimed(ctx context.Context, id primitive.ObjectID, claimedAt time.Time) error
}

// WalletTransactionRepository defines the interface for ledger rows.
type WalletTransactionRepository interface {
	Create(ctx context.Context, txn *models.WalletTransaction) error
	FindByUser(ctx context.Context, userID primitive.ObjectID, category string, page, limit int) ([]*models.WalletTransaction, error)
	// FindByReference looks up a prior row by category and reference id,
	// the idempotency probe for refunds and deposit confirmations.
	FindByReference(ctx context.Context, userID primitive.ObjectID, category, referenceID string) (*models.WalletTransaction, error)
	Summary(ctx context.Context, userID primitive.ObjectID, since time.Time) (credit, debit float64, count int, err error)
}

// WithdrawalRepository defines the interface for withdrawal requests.
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *models.Withdrawal) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error)
	Update(ctx context.Context, withdrawal *models.Withdrawal) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// FindOutstandingByUser returns a pending or processing withdrawal for
	// the user, or ErrNotFound.
	FindOutstandingByUser(ctx context.Context, userID primitive.ObjectID) (*models.Withdrawal, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Withdrawal, error)
	FindByStatus(ctx context.Context, status string, page, limit int) ([]*models.Withdrawal, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// BankDetailsRepository defines the interface for payout destinations.
type BankDetailsRepository interface {
	Create(ctx context.Context, details *models.BankDetails) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.BankDetails, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.BankDetails, error)
	Update(ctx context.Context, details *models.BankDetails) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// NotificationRepository defines the interface for notification rows.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID, readAt time.Time) error
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
}
