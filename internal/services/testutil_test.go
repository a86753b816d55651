package services

import (
	"context"
	"io"
	"testing"
	"time"

	"golang.org/x/exp/slog"

	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories/memory"
	"github.com/luckyseats/lottery-backend/pkg/mailgateway"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testEnv wires every service against in-memory repositories.
type testEnv struct {
	userRepo         *memory.UserRepository
	contestRepo      *memory.ContestRepository
	seatRepo         *memory.SeatRepository
	prizeRepo        *memory.PrizeStructureRepository
	winnerRepo       *memory.WinnerRepository
	walletTxnRepo    *memory.WalletTransactionRepository
	withdrawalRepo   *memory.WithdrawalRepository
	bankDetailsRepo  *memory.BankDetailsRepository
	notificationRepo *memory.NotificationRepository

	wallet       *WalletServiceImpl
	seats        *SeatServiceImpl
	withdrawals  *WithdrawalServiceImpl
	contests     *ContestServiceImpl
	notification *NotificationServiceImpl
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		userRepo:         memory.NewUserRepository(),
		contestRepo:      memory.NewContestRepository(),
		seatRepo:         memory.NewSeatRepository(),
		prizeRepo:        memory.NewPrizeStructureRepository(),
		winnerRepo:       memory.NewWinnerRepository(),
		walletTxnRepo:    memory.NewWalletTransactionRepository(),
		withdrawalRepo:   memory.NewWithdrawalRepository(),
		bankDetailsRepo:  memory.NewBankDetailsRepository(),
		notificationRepo: memory.NewNotificationRepository(),
	}
	env.wallet = NewWalletService(env.userRepo, env.walletTxnRepo, logger)
	env.notification = NewNotificationService(env.notificationRepo, env.userRepo, &mailgateway.MockGateway{}, logger)
	env.seats = NewSeatService(env.seatRepo, env.contestRepo, env.userRepo, env.wallet, logger)
	env.withdrawals = NewWithdrawalService(env.withdrawalRepo, env.bankDetailsRepo, env.walletTxnRepo, env.userRepo, env.wallet, 100, logger)
	env.contests = NewContestService(env.contestRepo, env.prizeRepo, env.userRepo, env.withdrawalRepo, logger)
	return env
}

// newDrawService builds a draw service over the env with the given rng.
func (env *testEnv) newDrawService(rng Rand) *DrawServiceImpl {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDrawService(env.contestRepo, env.seatRepo, env.prizeRepo, env.winnerRepo, env.wallet, env.notification, rng, logger)
}

// createUser stores a user with the given wallet balance and returns it.
func (env *testEnv) createUser(t *testing.T, balance float64) *models.User {
	t.Helper()
	user := &models.User{
		UserName:      "Test User",
		UserID:        primitive.NewObjectID().Hex(),
		Email:         primitive.NewObjectID().Hex() + "@example.com",
		PhoneNumber:   primitive.NewObjectID().Hex(),
		WalletBalance: balance,
		Role:          models.RoleUser,
		IsActive:      true,
		CreatedAt:     time.Now(),
	}
	if err := env.userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// createContest stores an active contest with the conventional category
// split and returns it.
func (env *testEnv) createContest(t *testing.T, totalSeats int, ticketPrice float64) *models.Contest {
	t.Helper()
	categories, err := models.DefaultCategories(totalSeats)
	if err != nil {
		t.Fatalf("default categories: %v", err)
	}
	now := time.Now()
	contest := &models.Contest{
		ContestName:      "Mega Contest",
		TotalPrizeMoney:  100000,
		TicketPrice:      ticketPrice,
		TotalSeats:       totalSeats,
		AvailableSeats:   totalSeats,
		Status:           models.ContestStatusActive,
		ContestStartDate: now.Add(-time.Hour),
		ContestEndDate:   now.Add(24 * time.Hour),
		DrawDate:         now.Add(48 * time.Hour),
		Categories:       categories,
		CreatedAt:        now,
	}
	if err := env.contestRepo.Create(context.Background(), contest); err != nil {
		t.Fatalf("create contest: %v", err)
	}
	return contest
}

// addPrizes stores a prize table for the contest.
func (env *testEnv) addPrizes(t *testing.T, contestID primitive.ObjectID, prizes []*models.PrizeStructure) {
	t.Helper()
	for _, p := range prizes {
		p.ContestID = contestID
	}
	if err := env.prizeRepo.CreateMany(context.Background(), prizes); err != nil {
		t.Fatalf("create prizes: %v", err)
	}
}

// buySeats purchases seats for the user via the seat service.
func (env *testEnv) buySeats(t *testing.T, userID, contestID primitive.ObjectID, seatNumbers []int) *models.PurchaseResult {
	t.Helper()
	result, err := env.seats.Purchase(context.Background(), userID, contestID, seatNumbers, models.PaymentMethodWallet)
	if err != nil {
		t.Fatalf("purchase seats %v: %v", seatNumbers, err)
	}
	return result
}

// addVerifiedBankDetails stores a verified payout destination for the user.
func (env *testEnv) addVerifiedBankDetails(t *testing.T, userID primitive.ObjectID) *models.BankDetails {
	t.Helper()
	details := &models.BankDetails{
		UserID:            userID,
		AccountNumber:     "123456789012",
		IFSCCode:          "TEST0000001",
		BankName:          "Test Bank",
		AccountHolderName: "Test User",
		IsVerified:        true,
		CreatedAt:         time.Now(),
	}
	if err := env.bankDetailsRepo.Create(context.Background(), details); err != nil {
		t.Fatalf("create bank details: %v", err)
	}
	return details
}

// balanceOf fetches the user's current wallet balance.
func (env *testEnv) balanceOf(t *testing.T, userID primitive.ObjectID) float64 {
	t.Helper()
	balance, err := env.wallet.Balance(context.Background(), userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return balance
}
