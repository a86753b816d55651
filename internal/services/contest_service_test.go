package services

import (
	"context"
	"testing"
	"time"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
)

func contestRequest(totalSeats int) *CreateContestRequest {
	now := time.Now()
	return &CreateContestRequest{
		ContestName:      "Grand Draw",
		TotalPrizeMoney:  50000,
		TicketPrice:      25,
		TotalSeats:       totalSeats,
		ContestStartDate: now.Add(-time.Hour).Format(time.RFC3339),
		ContestEndDate:   now.Add(24 * time.Hour).Format(time.RFC3339),
		DrawDate:         now.Add(48 * time.Hour).Format(time.RFC3339),
	}
}

func TestCreateContest(t *testing.T) {
	ctx := context.Background()

	t.Run("splits the seat range into ten categories", func(t *testing.T) {
		env := newTestEnv(t)
		contest, err := env.contests.CreateContest(ctx, contestRequest(1000))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if len(contest.Categories) != 10 {
			t.Fatalf("categories = %d, want 10", len(contest.Categories))
		}
		if contest.Categories[0].SeatRangeStart != 1 || contest.Categories[9].SeatRangeEnd != 1000 {
			t.Fatalf("range = %d..%d, want 1..1000", contest.Categories[0].SeatRangeStart, contest.Categories[9].SeatRangeEnd)
		}
		if contest.Status != models.ContestStatusActive {
			t.Fatalf("status = %s, want active", contest.Status)
		}
		if contest.AvailableSeats != 1000 || contest.PurchasedSeats != 0 {
			t.Fatalf("counters = %d/%d, want 1000/0", contest.AvailableSeats, contest.PurchasedSeats)
		}
	})

	t.Run("rejects seat counts that do not split evenly", func(t *testing.T) {
		env := newTestEnv(t)
		if _, err := env.contests.CreateContest(ctx, contestRequest(1234)); !apperrors.Is(err, apperrors.InvalidInput) {
			t.Fatalf("err = %v, want InvalidInput", err)
		}
	})

	t.Run("rejects inverted date ranges", func(t *testing.T) {
		env := newTestEnv(t)
		req := contestRequest(100)
		req.ContestEndDate = time.Now().Add(-2 * time.Hour).Format(time.RFC3339)
		if _, err := env.contests.CreateContest(ctx, req); !apperrors.Is(err, apperrors.InvalidInput) {
			t.Fatalf("err = %v, want InvalidInput", err)
		}
	})
}

func TestSetPrizeStructure(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and replaces the prize table", func(t *testing.T) {
		env := newTestEnv(t)
		contest, err := env.contests.CreateContest(ctx, contestRequest(100))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		first := []PrizeRankInput{
			{PrizeRank: 1, PrizeAmount: 1000, NumberOfWinners: 1},
			{PrizeRank: 2, PrizeAmount: 100, NumberOfWinners: 5},
		}
		if _, err := env.contests.SetPrizeStructure(ctx, contest.ID, first); err != nil {
			t.Fatalf("set prizes: %v", err)
		}

		replacement := []PrizeRankInput{{PrizeRank: 1, PrizeAmount: 5000, NumberOfWinners: 2}}
		if _, err := env.contests.SetPrizeStructure(ctx, contest.ID, replacement); err != nil {
			t.Fatalf("replace prizes: %v", err)
		}

		prizes, err := env.contests.PrizeStructure(ctx, contest.ID)
		if err != nil {
			t.Fatalf("fetch prizes: %v", err)
		}
		if len(prizes) != 1 || prizes[0].PrizeAmount != 5000 {
			t.Fatalf("prizes = %+v, want single rank of 5000", prizes)
		}
	})

	t.Run("validates ranks, amounts and pinned seats", func(t *testing.T) {
		env := newTestEnv(t)
		contest, err := env.contests.CreateContest(ctx, contestRequest(100))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		bad := [][]PrizeRankInput{
			{},
			{{PrizeRank: 0, PrizeAmount: 100, NumberOfWinners: 1}},
			{{PrizeRank: 1, PrizeAmount: 0, NumberOfWinners: 1}},
			{{PrizeRank: 1, PrizeAmount: 100, NumberOfWinners: 0}},
			{{PrizeRank: 1, PrizeAmount: 100, NumberOfWinners: 1}, {PrizeRank: 1, PrizeAmount: 50, NumberOfWinners: 1}},
			{{PrizeRank: 1, PrizeAmount: 100, NumberOfWinners: 1, WinnerSeatNumbers: []int{5, 6}}},
			{{PrizeRank: 1, PrizeAmount: 100, NumberOfWinners: 1, WinnerSeatNumbers: []int{500}}},
			{{PrizeRank: 1, PrizeAmount: 100, NumberOfWinners: 1, WinnerSeatNumbers: []int{5}}, {PrizeRank: 2, PrizeAmount: 50, NumberOfWinners: 1, WinnerSeatNumbers: []int{5}}},
		}
		for i, ranks := range bad {
			if _, err := env.contests.SetPrizeStructure(ctx, contest.ID, ranks); !apperrors.Is(err, apperrors.InvalidInput) {
				t.Errorf("case %d: err = %v, want InvalidInput", i, err)
			}
		}
	})

	t.Run("freezes after the draw", func(t *testing.T) {
		env := newTestEnv(t)
		contest, err := env.contests.CreateContest(ctx, contestRequest(100))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := env.contestRepo.MarkDrawCompleted(ctx, contest.ID); err != nil {
			t.Fatalf("mark draw: %v", err)
		}

		ranks := []PrizeRankInput{{PrizeRank: 1, PrizeAmount: 100, NumberOfWinners: 1}}
		if _, err := env.contests.SetPrizeStructure(ctx, contest.ID, ranks); !apperrors.Is(err, apperrors.Conflict) {
			t.Fatalf("err = %v, want Conflict", err)
		}
	})
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createUser(t, 0)
	env.createUser(t, 0)
	if _, err := env.contests.CreateContest(ctx, contestRequest(100)); err != nil {
		t.Fatalf("create: %v", err)
	}

	stats, err := env.contests.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalUsers != 2 || stats.ActiveContests != 1 || stats.PendingWithdrawals != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}
