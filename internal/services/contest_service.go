package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/exp/slog"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultTotalSeats is used when a contest is created without an explicit
// seat count.
const defaultTotalSeats = 10000

// ContestServiceImpl implements ContestService.
type ContestServiceImpl struct {
	contestRepo    repositories.ContestRepository
	prizeRepo      repositories.PrizeStructureRepository
	userRepo       repositories.UserRepository
	withdrawalRepo repositories.WithdrawalRepository
	logger         *slog.Logger
}

// NewContestService creates a new contest service.
func NewContestService(contestRepo repositories.ContestRepository, prizeRepo repositories.PrizeStructureRepository, userRepo repositories.UserRepository, withdrawalRepo repositories.WithdrawalRepository, logger *slog.Logger) *ContestServiceImpl {
	return &ContestServiceImpl{
		contestRepo:    contestRepo,
		prizeRepo:      prizeRepo,
		userRepo:       userRepo,
		withdrawalRepo: withdrawalRepo,
		logger:         logger,
	}
}

var _ ContestService = (*ContestServiceImpl)(nil)

// CreateContest creates a contest with the conventional category split over
// its seat range.
func (s *ContestServiceImpl) CreateContest(ctx context.Context, req *CreateContestRequest) (*models.Contest, error) {
	if req.TicketPrice <= 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "ticket price must be positive")
	}
	if req.TotalPrizeMoney <= 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "total prize money must be positive")
	}
	totalSeats := req.TotalSeats
	if totalSeats == 0 {
		totalSeats = defaultTotalSeats
	}
	categories, err := models.DefaultCategories(totalSeats)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidInput, err, "invalid seat count")
	}
	startDate, err := time.Parse(time.RFC3339, req.ContestStartDate)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidInput, err, "invalid contest start date")
	}
	endDate, err := time.Parse(time.RFC3339, req.ContestEndDate)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidInput, err, "invalid contest end date")
	}
	drawDate, err := time.Parse(time.RFC3339, req.DrawDate)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidInput, err, "invalid draw date")
	}
	if !endDate.After(startDate) {
		return nil, apperrors.New(apperrors.InvalidInput, "contest end date must be after the start date")
	}
	if drawDate.Before(endDate) {
		return nil, apperrors.New(apperrors.InvalidInput, "draw date must not be before the contest end date")
	}

	now := time.Now()
	status := models.ContestStatusUpcoming
	if !startDate.After(now) {
		status = models.ContestStatusActive
	}
	contest := &models.Contest{
		ContestName:      req.ContestName,
		TotalPrizeMoney:  req.TotalPrizeMoney,
		TicketPrice:      req.TicketPrice,
		TotalSeats:       totalSeats,
		AvailableSeats:   totalSeats,
		TotalWinners:     req.TotalWinners,
		Status:           status,
		ContestStartDate: startDate,
		ContestEndDate:   endDate,
		DrawDate:         drawDate,
		Categories:       categories,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := contest.ValidateCategories(); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "category split is inconsistent")
	}
	if err := s.contestRepo.Create(ctx, contest); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to create contest")
	}
	s.logger.Info("contest created", "contestId", contest.ID.Hex(), "name", contest.ContestName, "totalSeats", totalSeats)
	return contest, nil
}

// GetContest fetches one contest.
func (s *ContestServiceImpl) GetContest(ctx context.Context, contestID primitive.ObjectID) (*models.Contest, error) {
	contest, err := s.contestRepo.FindByID(ctx, contestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.NotFound, err, "contest not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch contest")
	}
	return contest, nil
}

// ListContests pages through contests; an empty status lists everything.
func (s *ContestServiceImpl) ListContests(ctx context.Context, status string, page, limit int) ([]*models.Contest, error) {
	contests, err := s.contestRepo.FindByStatus(ctx, status, page, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch contests")
	}
	return contests, nil
}

// SetPrizeStructure replaces the contest's prize table. The table is frozen
// once the draw has run.
func (s *ContestServiceImpl) SetPrizeStructure(ctx context.Context, contestID primitive.ObjectID, ranks []PrizeRankInput) ([]*models.PrizeStructure, error) {
	if len(ranks) == 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "prize structure must have at least one rank")
	}
	contest, err := s.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if contest.IsDrawCompleted {
		return nil, apperrors.New(apperrors.Conflict, "prize structure cannot change after the draw")
	}

	seenRanks := make(map[int]bool, len(ranks))
	seenSeats := make(map[int]bool)
	now := time.Now()
	prizes := make([]*models.PrizeStructure, 0, len(ranks))
	for _, r := range ranks {
		if r.PrizeRank <= 0 {
			return nil, apperrors.New(apperrors.InvalidInput, "prize rank must be positive")
		}
		if seenRanks[r.PrizeRank] {
			return nil, apperrors.New(apperrors.InvalidInput, "duplicate prize rank %d", r.PrizeRank)
		}
		seenRanks[r.PrizeRank] = true
		if r.PrizeAmount <= 0 {
			return nil, apperrors.New(apperrors.InvalidInput, "prize amount for rank %d must be positive", r.PrizeRank)
		}
		if r.NumberOfWinners <= 0 {
			return nil, apperrors.New(apperrors.InvalidInput, "number of winners for rank %d must be positive", r.PrizeRank)
		}
		if len(r.WinnerSeatNumbers) > r.NumberOfWinners {
			return nil, apperrors.New(apperrors.InvalidInput, "rank %d pins more seats than it has winners", r.PrizeRank)
		}
		for _, seat := range r.WinnerSeatNumbers {
			if seat < 1 || seat > contest.TotalSeats {
				return nil, apperrors.New(apperrors.InvalidInput, "pinned seat %d is outside the range 1..%d", seat, contest.TotalSeats)
			}
			if seenSeats[seat] {
				return nil, apperrors.New(apperrors.InvalidInput, "seat %d is pinned in more than one rank", seat)
			}
			seenSeats[seat] = true
		}
		prizes = append(prizes, &models.PrizeStructure{
			ContestID:         contestID,
			PrizeRank:         r.PrizeRank,
			PrizeAmount:       r.PrizeAmount,
			NumberOfWinners:   r.NumberOfWinners,
			PrizeDescription:  r.PrizeDescription,
			WinnerSeatNumbers: r.WinnerSeatNumbers,
			CreatedAt:         now,
		})
	}

	if err := s.prizeRepo.DeleteByContest(ctx, contestID); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to clear existing prize structure")
	}
	if err := s.prizeRepo.CreateMany(ctx, prizes); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to store prize structure")
	}
	return prizes, nil
}

// PrizeStructure returns the contest's prize table, ascending by rank.
func (s *ContestServiceImpl) PrizeStructure(ctx context.Context, contestID primitive.ObjectID) ([]*models.PrizeStructure, error) {
	prizes, err := s.prizeRepo.FindByContest(ctx, contestID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch prize structure")
	}
	return prizes, nil
}

// Dashboard builds the admin dashboard counters.
func (s *ContestServiceImpl) Dashboard(ctx context.Context) (*DashboardStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to count users")
	}
	active, err := s.contestRepo.Count(ctx, models.ContestStatusActive)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to count active contests")
	}
	completed, err := s.contestRepo.Count(ctx, models.ContestStatusCompleted)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to count completed contests")
	}
	pending, err := s.withdrawalRepo.CountByStatus(ctx, models.WithdrawalStatusPending)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to count pending withdrawals")
	}
	return &DashboardStats{
		TotalUsers:         users,
		ActiveContests:     active,
		CompletedContests:  completed,
		PendingWithdrawals: pending,
	}, nil
}
