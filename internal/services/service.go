package services

import (
	"context"

	"github.com/luckyseats/lottery-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerEntry describes one balance mutation to apply through the wallet
// ledger. TransactionID is optional; when empty a fresh id is generated.
// AllowOverdraft is reserved for internal flows that deliberately reserve
// funds (none today push the balance negative, since the withdrawal path
// validates first, but the flag keeps the contract explicit).
type LedgerEntry struct {
	UserID         primitive.ObjectID
	Amount         float64
	Direction      string
	Category       string
	Description    string
	ReferenceID    string
	TransactionID  string
	AllowOverdraft bool
}

// WalletService is the ledger primitive plus the user-facing wallet surface.
type WalletService interface {
	// ApplyEntry atomically mutates the user's balance and appends exactly
	// one ledger row whose before/after snapshots match the mutation.
	ApplyEntry(ctx context.Context, entry LedgerEntry) (*models.WalletTransaction, error)
	Deposit(ctx context.Context, userID primitive.ObjectID, amount float64, description, referenceID string) (*models.WalletTransaction, error)
	Balance(ctx context.Context, userID primitive.ObjectID) (float64, error)
	Transactions(ctx context.Context, userID primitive.ObjectID, category string, page, limit int) ([]*models.WalletTransaction, error)
	Summary(ctx context.Context, userID primitive.ObjectID, days int) (*models.WalletSummary, error)
}

// SeatService covers seat inventory and the purchase operation.
type SeatService interface {
	Purchase(ctx context.Context, userID, contestID primitive.ObjectID, seatNumbers []int, paymentMethod string) (*models.PurchaseResult, error)
	AvailableSeats(ctx context.Context, contestID primitive.ObjectID, categoryID, limit int) ([]int, error)
	PurchasedSeats(ctx context.Context, contestID primitive.ObjectID, categoryID int) ([]*models.PurchasedSeat, error)
	CategorySeatMap(ctx context.Context, contestID primitive.ObjectID, categoryID int) (*CategorySeatMap, error)
	UserSeats(ctx context.Context, userID primitive.ObjectID, contestID *primitive.ObjectID) ([]*models.PurchasedSeat, error)
}

// SeatStatus is one seat's occupancy in a category seat map.
type SeatStatus struct {
	SeatNumber  int  `json:"seatNumber"`
	IsPurchased bool `json:"isPurchased"`
}

// CategorySeatMap is the per-seat status projection for one category.
type CategorySeatMap struct {
	ContestID      string       `json:"contestId"`
	CategoryID     int          `json:"categoryId"`
	CategoryName   string       `json:"categoryName"`
	SeatRangeStart int          `json:"seatRangeStart"`
	SeatRangeEnd   int          `json:"seatRangeEnd"`
	Seats          []SeatStatus `json:"seats"`
	TotalSeats     int          `json:"totalSeats"`
	PurchasedSeats int          `json:"purchasedSeats"`
	AvailableSeats int          `json:"availableSeats"`
}

// DrawService conducts draws and serves their read-only projections.
type DrawService interface {
	ConductDraw(ctx context.Context, contestID primitive.ObjectID) (*models.DrawResult, error)
	ContestStatistics(ctx context.Context, contestID primitive.ObjectID) (*models.ContestStatistics, error)
	Winners(ctx context.Context, contestID primitive.ObjectID) ([]*models.Winner, error)
	UserWins(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error)
	ClaimPrize(ctx context.Context, userID, winnerID primitive.ObjectID) error
}

// WithdrawalService drives the withdrawal state machine.
type WithdrawalService interface {
	Request(ctx context.Context, userID primitive.ObjectID, amount float64, bankDetailsID primitive.ObjectID, method string) (*models.Withdrawal, error)
	Cancel(ctx context.Context, userID, withdrawalID primitive.ObjectID) (*models.Withdrawal, error)
	MarkProcessing(ctx context.Context, withdrawalID primitive.ObjectID, notes string) (*models.Withdrawal, error)
	Complete(ctx context.Context, withdrawalID primitive.ObjectID, bankTransactionID, notes string) (*models.Withdrawal, error)
	Reject(ctx context.Context, withdrawalID primitive.ObjectID, reason string) (*models.Withdrawal, error)
	UserWithdrawals(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Withdrawal, error)
	Withdrawal(ctx context.Context, userID, withdrawalID primitive.ObjectID) (*models.Withdrawal, error)
	ListByStatus(ctx context.Context, status string, page, limit int) ([]*models.Withdrawal, error)
}

// ContestService covers contest administration and browsing.
type ContestService interface {
	CreateContest(ctx context.Context, req *CreateContestRequest) (*models.Contest, error)
	GetContest(ctx context.Context, contestID primitive.ObjectID) (*models.Contest, error)
	ListContests(ctx context.Context, status string, page, limit int) ([]*models.Contest, error)
	SetPrizeStructure(ctx context.Context, contestID primitive.ObjectID, ranks []PrizeRankInput) ([]*models.PrizeStructure, error)
	PrizeStructure(ctx context.Context, contestID primitive.ObjectID) ([]*models.PrizeStructure, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

// CreateContestRequest is the admin payload for a new contest.
type CreateContestRequest struct {
	ContestName      string  `json:"contestName" binding:"required"`
	TotalPrizeMoney  float64 `json:"totalPrizeMoney" binding:"required"`
	TicketPrice      float64 `json:"ticketPrice" binding:"required"`
	TotalSeats       int     `json:"totalSeats"`
	TotalWinners     int     `json:"totalWinners"`
	ContestStartDate string  `json:"contestStartDate" binding:"required"`
	ContestEndDate   string  `json:"contestEndDate" binding:"required"`
	DrawDate         string  `json:"drawDate" binding:"required"`
}

// PrizeRankInput is one rank of a prize-structure payload.
type PrizeRankInput struct {
	PrizeRank         int     `json:"prizeRank" binding:"required"`
	PrizeAmount       float64 `json:"prizeAmount" binding:"required"`
	NumberOfWinners   int     `json:"numberOfWinners" binding:"required"`
	PrizeDescription  string  `json:"prizeDescription"`
	WinnerSeatNumbers []int   `json:"winnerSeatNumbers"`
}

// DashboardStats is the admin dashboard projection.
type DashboardStats struct {
	TotalUsers         int64 `json:"totalUsers"`
	ActiveContests     int64 `json:"activeContests"`
	CompletedContests  int64 `json:"completedContests"`
	PendingWithdrawals int64 `json:"pendingWithdrawals"`
}

// PaymentService bridges the external payment gateway and wallet deposits.
type PaymentService interface {
	// CreateDepositOrder registers an order with the gateway for the user to
	// pay against.
	CreateDepositOrder(ctx context.Context, userID primitive.ObjectID, amount float64) (*DepositOrder, error)
	// ConfirmDeposit verifies the gateway callback signature and credits the
	// wallet exactly once per order.
	ConfirmDeposit(ctx context.Context, userID primitive.ObjectID, orderID, paymentID, signature string) (*models.WalletTransaction, error)
}

// DepositOrder is a gateway order awaiting payment.
type DepositOrder struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"keyId"`
}

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
}

// UserService serves profiles and payout destinations.
type UserService interface {
	Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	AddBankDetails(ctx context.Context, userID primitive.ObjectID, details *models.BankDetails) (*models.BankDetails, error)
	BankDetails(ctx context.Context, userID primitive.ObjectID) ([]*models.BankDetails, error)
	DeleteBankDetails(ctx context.Context, userID, detailsID primitive.ObjectID) error
}

// NotificationService persists and delivers in-app notifications.
type NotificationService interface {
	Notify(ctx context.Context, userID primitive.ObjectID, title, message, notificationType string) error
	UserNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
}
