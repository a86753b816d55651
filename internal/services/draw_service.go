package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/exp/slog"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rand is the randomness source used by winner selection. *rand.Rand
// satisfies it; tests inject a seeded source for deterministic draws.
type Rand interface {
	Intn(n int) int
}

// globalRand delegates to math/rand's locked global source.
type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

// PrizeAssignment pairs one selected seat with the prize tier it won.
type PrizeAssignment struct {
	Seat  *models.PurchasedSeat
	Prize *models.PrizeStructure
}

// SelectWinners selects winners for every prize tier from the pool of
// purchased seats. Tiers are processed in ascending rank order; each tier
// first honors its pinned seat numbers (when present in the remaining pool)
// and then fills the rest by uniform sampling without replacement. A seat
// wins at most once across the whole draw. When the pool runs dry the
// remaining tiers stay unawarded.
//
// The function is pure: it never touches storage and all randomness comes
// from rng, so the same pool, prize table and seed produce the same winners.
func SelectWinners(pool []*models.PurchasedSeat, prizes []*models.PrizeStructure, rng Rand) []PrizeAssignment {
	remaining := make([]*models.PurchasedSeat, len(pool))
	copy(remaining, pool)
	bySeat := make(map[int]int, len(remaining))
	for i, seat := range remaining {
		bySeat[seat.SeatNumber] = i
	}

	// take removes index i from the remaining pool in O(1), keeping the
	// seat-number index consistent.
	take := func(i int) *models.PurchasedSeat {
		seat := remaining[i]
		last := len(remaining) - 1
		remaining[i] = remaining[last]
		bySeat[remaining[i].SeatNumber] = i
		remaining = remaining[:last]
		delete(bySeat, seat.SeatNumber)
		return seat
	}

	var assignments []PrizeAssignment
	for _, prize := range prizes {
		count := prize.NumberOfWinners
		for _, pinned := range prize.WinnerSeatNumbers {
			if count == 0 {
				break
			}
			if i, ok := bySeat[pinned]; ok {
				assignments = append(assignments, PrizeAssignment{Seat: take(i), Prize: prize})
				count--
			}
		}
		for count > 0 && len(remaining) > 0 {
			assignments = append(assignments, PrizeAssignment{Seat: take(rng.Intn(len(remaining))), Prize: prize})
			count--
		}
	}
	return assignments
}

// DrawServiceImpl implements DrawService.
type DrawServiceImpl struct {
	contestRepo  repositories.ContestRepository
	seatRepo     repositories.SeatRepository
	prizeRepo    repositories.PrizeStructureRepository
	winnerRepo   repositories.WinnerRepository
	wallet       WalletService
	notification NotificationService
	rng          Rand
	logger       *slog.Logger
}

// NewDrawService creates a new draw service. A nil rng falls back to the
// global math/rand source.
func NewDrawService(contestRepo repositories.ContestRepository, seatRepo repositories.SeatRepository, prizeRepo repositories.PrizeStructureRepository, winnerRepo repositories.WinnerRepository, wallet WalletService, notification NotificationService, rng Rand, logger *slog.Logger) *DrawServiceImpl {
	if rng == nil {
		rng = globalRand{}
	}
	return &DrawServiceImpl{
		contestRepo:  contestRepo,
		seatRepo:     seatRepo,
		prizeRepo:    prizeRepo,
		winnerRepo:   winnerRepo,
		wallet:       wallet,
		notification: notification,
		rng:          rng,
		logger:       logger,
	}
}

var _ DrawService = (*DrawServiceImpl)(nil)

// ConductDraw runs the draw for a contest. The contest's isDrawCompleted
// flag is claimed atomically before any prize is applied, so two concurrent
// draws for the same contest are mutually exclusive. The apply step is
// re-entrant at seat granularity: a seat already stamped as a winner is
// skipped without crediting again.
func (s *DrawServiceImpl) ConductDraw(ctx context.Context, contestID primitive.ObjectID) (*models.DrawResult, error) {
	contest, err := s.contestRepo.FindByID(ctx, contestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "contest not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch contest")
	}
	if contest.IsDrawCompleted {
		return nil, apperrors.New(apperrors.Conflict, "draw already completed for contest %s", contest.ContestName)
	}

	prizes, err := s.prizeRepo.FindByContest(ctx, contestID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch prize structure")
	}
	if len(prizes) == 0 {
		return nil, apperrors.New(apperrors.PreconditionFailed, "contest has no prize structure")
	}

	pool, err := s.seatRepo.FindPurchased(ctx, contestID, 0)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch purchased seats")
	}
	if len(pool) == 0 {
		return nil, apperrors.New(apperrors.PreconditionFailed, "contest has no purchased seats")
	}

	if err := s.contestRepo.MarkDrawCompleted(ctx, contestID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.Conflict, err, "draw already completed for contest %s", contest.ContestName)
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to claim draw")
	}

	assignments := SelectWinners(pool, prizes, s.rng)
	wanted := 0
	for _, prize := range prizes {
		wanted += prize.NumberOfWinners
	}
	if len(assignments) < wanted {
		s.logger.Warn("purchased-seat pool exhausted before all prizes were awarded",
			"contestId", contestID.Hex(), "awarded", len(assignments), "wanted", wanted)
	}

	drawDate := time.Now()
	winners := make([]*models.Winner, 0, len(assignments))
	for _, a := range assignments {
		stamped, err := s.seatRepo.MarkWinner(ctx, contestID, a.Seat.SeatNumber, a.Prize.PrizeAmount)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.Internal, err, "failed to stamp winner on seat %d", a.Seat.SeatNumber)
		}
		if !stamped {
			// Seat was already credited by an earlier attempt.
			continue
		}
		if _, err := s.wallet.ApplyEntry(ctx, LedgerEntry{
			UserID:      a.Seat.UserID,
			Amount:      a.Prize.PrizeAmount,
			Direction:   models.TransactionTypeCredit,
			Category:    models.TransactionCategoryPrizeCredit,
			Description: fmt.Sprintf("Prize for seat %d (rank %d) in %s", a.Seat.SeatNumber, a.Prize.PrizeRank, contest.ContestName),
			ReferenceID: contestID.Hex(),
		}); err != nil {
			return nil, apperrors.Wrap(apperrors.Internal, err, "failed to credit prize for seat %d", a.Seat.SeatNumber)
		}
		winners = append(winners, &models.Winner{
			ContestID:        contestID,
			UserID:           a.Seat.UserID,
			SeatNumber:       a.Seat.SeatNumber,
			CategoryName:     a.Seat.CategoryName,
			PrizeRank:        a.Prize.PrizeRank,
			PrizeAmount:      a.Prize.PrizeAmount,
			PrizeDescription: a.Prize.PrizeDescription,
			DrawDate:         drawDate,
			CreatedAt:        drawDate,
		})
	}

	if len(winners) > 0 {
		if err := s.winnerRepo.CreateMany(ctx, winners); err != nil {
			return nil, apperrors.Wrap(apperrors.Internal, err, "failed to record winners")
		}
	}

	go s.notifyWinners(contest, winners)

	s.logger.Info("draw completed", "contestId", contestID.Hex(), "winners", len(winners))
	return &models.DrawResult{
		ContestID:    contestID.Hex(),
		TotalWinners: len(winners),
		Winners:      winners,
		DrawDate:     drawDate,
	}, nil
}

// notifyWinners delivers winner notifications off the draw's critical path.
// Delivery failures are logged and never affect the draw outcome.
func (s *DrawServiceImpl) notifyWinners(contest *models.Contest, winners []*models.Winner) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, w := range winners {
		title := fmt.Sprintf("You won in %s!", contest.ContestName)
		message := fmt.Sprintf("Seat %d won rank %d: %.2f credited to your wallet.", w.SeatNumber, w.PrizeRank, w.PrizeAmount)
		if err := s.notification.Notify(ctx, w.UserID, title, message, models.NotificationTypeWinner); err != nil {
			s.logger.Error("winner notification failed", "userId", w.UserID.Hex(), "seatNumber", w.SeatNumber, "error", err)
		}
	}
}

// ContestStatistics builds the read-only statistics projection.
func (s *DrawServiceImpl) ContestStatistics(ctx context.Context, contestID primitive.ObjectID) (*models.ContestStatistics, error) {
	contest, err := s.contestRepo.FindByID(ctx, contestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "contest not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch contest")
	}
	purchased, err := s.seatRepo.CountPurchased(ctx, contestID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to count purchased seats")
	}
	winnerCount, err := s.winnerRepo.CountByContest(ctx, contestID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to count winners")
	}
	distribution, err := s.winnerRepo.PrizeDistribution(ctx, contestID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to aggregate prize distribution")
	}
	return &models.ContestStatistics{
		ContestID:         contestID.Hex(),
		ContestName:       contest.ContestName,
		TotalSeats:        contest.TotalSeats,
		PurchasedSeats:    int(purchased),
		AvailableSeats:    contest.TotalSeats - int(purchased),
		TotalWinners:      int(winnerCount),
		IsDrawCompleted:   contest.IsDrawCompleted,
		PrizeDistribution: distribution,
	}, nil
}

// Winners lists a contest's winners.
func (s *DrawServiceImpl) Winners(ctx context.Context, contestID primitive.ObjectID) ([]*models.Winner, error) {
	winners, err := s.winnerRepo.FindByContest(ctx, contestID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch winners")
	}
	return winners, nil
}

// UserWins lists every prize a user has won.
func (s *DrawServiceImpl) UserWins(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error) {
	winners, err := s.winnerRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch user wins")
	}
	return winners, nil
}

// ClaimPrize marks one of the user's winner records as claimed. A winner id
// belonging to another user reads as not found.
func (s *DrawServiceImpl) ClaimPrize(ctx context.Context, userID, winnerID primitive.ObjectID) error {
	wins, err := s.winnerRepo.FindByUser(ctx, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, err, "failed to fetch user wins")
	}
	owned := false
	for _, w := range wins {
		if w.ID == winnerID {
			owned = true
			break
		}
	}
	if !owned {
		return apperrors.New(apperrors.NotFound, "winner record not found")
	}
	if err := s.winnerRepo.MarkClaimed(ctx, winnerID, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.Wrap(apperrors.NotFound, err, "winner record not found or already claimed")
		}
		return apperrors.Wrap(apperrors.Internal, err, "failed to mark prize claimed")
	}
	return nil
}
