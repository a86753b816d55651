package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/exp/slog"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"github.com/luckyseats/lottery-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxSeatsPerPurchase bounds one purchase request.
const maxSeatsPerPurchase = 50

// SeatServiceImpl implements SeatService.
type SeatServiceImpl struct {
	seatRepo    repositories.SeatRepository
	contestRepo repositories.ContestRepository
	userRepo    repositories.UserRepository
	wallet      WalletService
	logger      *slog.Logger
}

// NewSeatService creates a new seat service.
func NewSeatService(seatRepo repositories.SeatRepository, contestRepo repositories.ContestRepository, userRepo repositories.UserRepository, wallet WalletService, logger *slog.Logger) *SeatServiceImpl {
	return &SeatServiceImpl{
		seatRepo:    seatRepo,
		contestRepo: contestRepo,
		userRepo:    userRepo,
		wallet:      wallet,
		logger:      logger,
	}
}

var _ SeatService = (*SeatServiceImpl)(nil)

// Purchase buys the named seats in one batch under a single transaction id.
// Uniqueness of (contest, seat) is enforced by the storage layer, so two
// concurrent requests for the same seat resolve to exactly one owner. The
// wallet debit happens after the insert; if it fails, the inserted seats are
// deleted and the counters reversed.
func (s *SeatServiceImpl) Purchase(ctx context.Context, userID, contestID primitive.ObjectID, seatNumbers []int, paymentMethod string) (*models.PurchaseResult, error) {
	if len(seatNumbers) == 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "no seat numbers provided")
	}
	if len(seatNumbers) > maxSeatsPerPurchase {
		return nil, apperrors.New(apperrors.InvalidInput, "at most %d seats per purchase", maxSeatsPerPurchase)
	}
	switch paymentMethod {
	case models.PaymentMethodWallet, models.PaymentMethodUPI, models.PaymentMethodCard, models.PaymentMethodNetBanking:
	default:
		return nil, apperrors.New(apperrors.InvalidInput, "unknown payment method %q", paymentMethod)
	}
	seen := make(map[int]bool, len(seatNumbers))
	for _, n := range seatNumbers {
		if seen[n] {
			return nil, apperrors.New(apperrors.InvalidInput, "duplicate seat number %d in request", n)
		}
		seen[n] = true
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch user")
	}
	contest, err := s.contestRepo.FindByID(ctx, contestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "contest not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch contest")
	}
	if contest.Status != models.ContestStatusActive {
		return nil, apperrors.New(apperrors.PreconditionFailed, "contest is %s, seats can only be purchased while it is active", contest.Status)
	}

	totalAmount := float64(len(seatNumbers)) * contest.TicketPrice
	if paymentMethod == models.PaymentMethodWallet && user.WalletBalance < totalAmount {
		// Early check for a friendly error; the ledger enforces it again
		// atomically at debit time.
		return nil, apperrors.New(apperrors.InsufficientFunds, "wallet balance %.2f is less than the purchase total %.2f", user.WalletBalance, totalAmount)
	}

	transactionID := utils.NewTransactionID("TICKET")
	now := time.Now()
	seats := make([]*models.PurchasedSeat, 0, len(seatNumbers))
	perCategory := make(map[int]int)
	for _, n := range seatNumbers {
		if n < 1 || n > contest.TotalSeats {
			return nil, apperrors.New(apperrors.InvalidInput, "seat number %d is outside the range 1..%d", n, contest.TotalSeats)
		}
		category, err := contest.CategoryForSeat(n)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.InvalidInput, err, "invalid seat number %d", n)
		}
		perCategory[category.CategoryID]++
		seats = append(seats, &models.PurchasedSeat{
			ContestID:     contestID,
			UserID:        userID,
			SeatNumber:    n,
			CategoryID:    category.CategoryID,
			CategoryName:  category.CategoryName,
			TicketPrice:   contest.TicketPrice,
			PurchaseDate:  now,
			TransactionID: transactionID,
			PaymentMethod: paymentMethod,
			Status:        models.PurchaseStatusPurchased,
			CreatedAt:     now,
		})
	}

	if err := s.seatRepo.CreateMany(ctx, seats); err != nil {
		var conflict *repositories.SeatConflictError
		if errors.As(err, &conflict) {
			return nil, apperrors.Wrap(apperrors.Conflict, err, "seats %v are already purchased", conflict.SeatNumbers)
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to record seats")
	}

	if err := s.contestRepo.ApplySeatCounters(ctx, contestID, len(seats), perCategory); err != nil {
		s.rollbackSeats(ctx, contestID, transactionID, nil)
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to update contest seat counters")
	}

	if paymentMethod == models.PaymentMethodWallet {
		_, err := s.wallet.ApplyEntry(ctx, LedgerEntry{
			UserID:        userID,
			Amount:        totalAmount,
			Direction:     models.TransactionTypeDebit,
			Category:      models.TransactionCategoryTicketPurchase,
			Description:   fmt.Sprintf("Purchase of %d seat(s) in %s", len(seats), contest.ContestName),
			ReferenceID:   contestID.Hex(),
			TransactionID: transactionID,
		})
		if err != nil {
			s.rollbackSeats(ctx, contestID, transactionID, negate(perCategory))
			if apperrors.Is(err, apperrors.InsufficientFunds) {
				return nil, err
			}
			return nil, apperrors.Wrap(apperrors.Internal, err, "failed to debit wallet for purchase %s", transactionID)
		}
	}

	purchased := make([]int, len(seatNumbers))
	copy(purchased, seatNumbers)
	sort.Ints(purchased)
	return &models.PurchaseResult{
		TransactionID:  transactionID,
		TotalAmount:    totalAmount,
		PurchasedSeats: purchased,
		ContestName:    contest.ContestName,
	}, nil
}

// rollbackSeats is the compensating cleanup for a purchase that failed after
// its seats were inserted. counters, when non-nil, is applied to reverse the
// contest counters. Failures here leave orphans for reconciliation and are
// logged loudly.
func (s *SeatServiceImpl) rollbackSeats(ctx context.Context, contestID primitive.ObjectID, transactionID string, counters map[int]int) {
	if err := s.seatRepo.DeleteByTransactionID(ctx, contestID, transactionID); err != nil {
		s.logger.Error("purchase rollback failed to delete seats, manual reconciliation required",
			"contestId", contestID.Hex(), "transactionId", transactionID, "error", err)
		return
	}
	if counters == nil {
		return
	}
	total := 0
	for _, n := range counters {
		total += n
	}
	if err := s.contestRepo.ApplySeatCounters(ctx, contestID, total, counters); err != nil {
		s.logger.Error("purchase rollback failed to reverse seat counters, manual reconciliation required",
			"contestId", contestID.Hex(), "transactionId", transactionID, "error", err)
	}
}

func negate(counters map[int]int) map[int]int {
	out := make(map[int]int, len(counters))
	for k, v := range counters {
		out[k] = -v
	}
	return out
}

// AvailableSeats lists unsold seat numbers, ascending, optionally scoped to
// one category. limit 0 means no limit.
func (s *SeatServiceImpl) AvailableSeats(ctx context.Context, contestID primitive.ObjectID, categoryID, limit int) ([]int, error) {
	contest, err := s.contestRepo.FindByID(ctx, contestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "contest not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch contest")
	}
	start, end := 1, contest.TotalSeats
	if categoryID != 0 {
		category, err := contest.CategoryByID(categoryID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "category not found")
		}
		start, end = category.SeatRangeStart, category.SeatRangeEnd
	}

	purchased, err := s.seatRepo.FindPurchased(ctx, contestID, categoryID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch purchased seats")
	}
	taken := make(map[int]bool, len(purchased))
	for _, seat := range purchased {
		taken[seat.SeatNumber] = true
	}

	available := make([]int, 0, end-start+1-len(taken))
	for n := start; n <= end; n++ {
		if !taken[n] {
			available = append(available, n)
			if limit > 0 && len(available) >= limit {
				break
			}
		}
	}
	return available, nil
}

// PurchasedSeats lists the sold seats of a contest; categoryID 0 means all.
func (s *SeatServiceImpl) PurchasedSeats(ctx context.Context, contestID primitive.ObjectID, categoryID int) ([]*models.PurchasedSeat, error) {
	seats, err := s.seatRepo.FindPurchased(ctx, contestID, categoryID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch purchased seats")
	}
	return seats, nil
}

// CategorySeatMap returns the per-seat occupancy of one category.
func (s *SeatServiceImpl) CategorySeatMap(ctx context.Context, contestID primitive.ObjectID, categoryID int) (*CategorySeatMap, error) {
	contest, err := s.contestRepo.FindByID(ctx, contestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "contest not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch contest")
	}
	category, err := contest.CategoryByID(categoryID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.NotFound, err, "category not found")
	}

	purchased, err := s.seatRepo.FindPurchased(ctx, contestID, categoryID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch purchased seats")
	}
	taken := make(map[int]bool, len(purchased))
	for _, seat := range purchased {
		taken[seat.SeatNumber] = true
	}

	seatMap := &CategorySeatMap{
		ContestID:      contestID.Hex(),
		CategoryID:     category.CategoryID,
		CategoryName:   category.CategoryName,
		SeatRangeStart: category.SeatRangeStart,
		SeatRangeEnd:   category.SeatRangeEnd,
		TotalSeats:     category.TotalSeats,
		PurchasedSeats: len(purchased),
		AvailableSeats: category.TotalSeats - len(purchased),
		Seats:          make([]SeatStatus, 0, category.TotalSeats),
	}
	for n := category.SeatRangeStart; n <= category.SeatRangeEnd; n++ {
		seatMap.Seats = append(seatMap.Seats, SeatStatus{SeatNumber: n, IsPurchased: taken[n]})
	}
	return seatMap, nil
}

// UserSeats lists the caller's seats, optionally scoped to one contest.
func (s *SeatServiceImpl) UserSeats(ctx context.Context, userID primitive.ObjectID, contestID *primitive.ObjectID) ([]*models.PurchasedSeat, error) {
	seats, err := s.seatRepo.FindByUser(ctx, userID, contestID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch user seats")
	}
	return seats, nil
}
