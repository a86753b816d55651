package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seatPool(numbers ...int) []*models.PurchasedSeat {
	pool := make([]*models.PurchasedSeat, 0, len(numbers))
	for _, n := range numbers {
		pool = append(pool, &models.PurchasedSeat{
			UserID:     primitive.NewObjectID(),
			SeatNumber: n,
			Status:     models.PurchaseStatusPurchased,
		})
	}
	return pool
}

func TestSelectWinners(t *testing.T) {
	t.Run("same seed produces the same winners", func(t *testing.T) {
		prizes := []*models.PrizeStructure{
			{PrizeRank: 1, PrizeAmount: 1000, NumberOfWinners: 2},
			{PrizeRank: 2, PrizeAmount: 500, NumberOfWinners: 3},
		}
		first := SelectWinners(seatPool(1, 2, 3, 4, 5, 6, 7, 8), prizes, rand.New(rand.NewSource(42)))
		second := SelectWinners(seatPool(1, 2, 3, 4, 5, 6, 7, 8), prizes, rand.New(rand.NewSource(42)))

		if len(first) != len(second) {
			t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i].Seat.SeatNumber != second[i].Seat.SeatNumber || first[i].Prize.PrizeRank != second[i].Prize.PrizeRank {
				t.Fatalf("selection %d differs: seat %d rank %d vs seat %d rank %d",
					i, first[i].Seat.SeatNumber, first[i].Prize.PrizeRank,
					second[i].Seat.SeatNumber, second[i].Prize.PrizeRank)
			}
		}
	})

	t.Run("a seat never wins more than once", func(t *testing.T) {
		prizes := []*models.PrizeStructure{
			{PrizeRank: 1, PrizeAmount: 1000, NumberOfWinners: 3},
			{PrizeRank: 2, PrizeAmount: 500, NumberOfWinners: 3},
			{PrizeRank: 3, PrizeAmount: 100, NumberOfWinners: 4},
		}
		for seed := int64(0); seed < 25; seed++ {
			assignments := SelectWinners(seatPool(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12), prizes, rand.New(rand.NewSource(seed)))
			seen := make(map[int]bool)
			for _, a := range assignments {
				if seen[a.Seat.SeatNumber] {
					t.Fatalf("seed %d: seat %d selected twice", seed, a.Seat.SeatNumber)
				}
				seen[a.Seat.SeatNumber] = true
			}
			if len(assignments) != 10 {
				t.Fatalf("seed %d: assignments = %d, want 10", seed, len(assignments))
			}
		}
	})

	t.Run("pool exhaustion leaves later ranks unawarded", func(t *testing.T) {
		prizes := []*models.PrizeStructure{
			{PrizeRank: 1, PrizeAmount: 1000, NumberOfWinners: 2},
			{PrizeRank: 2, PrizeAmount: 500, NumberOfWinners: 5},
		}
		assignments := SelectWinners(seatPool(5, 17, 42), prizes, rand.New(rand.NewSource(1)))

		if len(assignments) != 3 {
			t.Fatalf("assignments = %d, want 3", len(assignments))
		}
		rankCounts := map[int]int{}
		for _, a := range assignments {
			rankCounts[a.Prize.PrizeRank]++
		}
		// Rank 1 fills completely before rank 2 sees the pool.
		if rankCounts[1] != 2 || rankCounts[2] != 1 {
			t.Fatalf("rank counts = %v, want map[1:2 2:1]", rankCounts)
		}
	})

	t.Run("pinned seats win their rank when present in the pool", func(t *testing.T) {
		prizes := []*models.PrizeStructure{
			{PrizeRank: 1, PrizeAmount: 1000, NumberOfWinners: 2, WinnerSeatNumbers: []int{42, 99}},
			{PrizeRank: 2, PrizeAmount: 500, NumberOfWinners: 1},
		}
		assignments := SelectWinners(seatPool(5, 17, 42), prizes, rand.New(rand.NewSource(7)))

		if len(assignments) != 3 {
			t.Fatalf("assignments = %d, want 3", len(assignments))
		}
		// 42 is pinned and present; 99 was never sold, so the second rank-1
		// slot falls back to random fill.
		if assignments[0].Seat.SeatNumber != 42 || assignments[0].Prize.PrizeRank != 1 {
			t.Fatalf("first assignment = seat %d rank %d, want seat 42 rank 1",
				assignments[0].Seat.SeatNumber, assignments[0].Prize.PrizeRank)
		}
	})

	t.Run("empty pool awards nothing", func(t *testing.T) {
		prizes := []*models.PrizeStructure{{PrizeRank: 1, PrizeAmount: 1000, NumberOfWinners: 1}}
		if got := SelectWinners(nil, prizes, rand.New(rand.NewSource(1))); len(got) != 0 {
			t.Fatalf("assignments = %d, want 0", len(got))
		}
	})
}

func TestConductDraw(t *testing.T) {
	ctx := context.Background()

	t.Run("credits each winner exactly once", func(t *testing.T) {
		env := newTestEnv(t)
		draws := env.newDrawService(rand.New(rand.NewSource(3)))
		user := env.createUser(t, 1000)
		contest := env.createContest(t, 100, 50)
		env.buySeats(t, user.ID, contest.ID, []int{5, 17, 42})
		env.addPrizes(t, contest.ID, []*models.PrizeStructure{
			{PrizeRank: 1, PrizeAmount: 500, NumberOfWinners: 2},
		})
		balanceBefore := env.balanceOf(t, user.ID)

		result, err := draws.ConductDraw(ctx, contest.ID)
		if err != nil {
			t.Fatalf("conduct draw: %v", err)
		}
		if result.TotalWinners != 2 {
			t.Fatalf("winners = %d, want 2", result.TotalWinners)
		}
		if got := env.balanceOf(t, user.ID); got != balanceBefore+1000 {
			t.Fatalf("balance = %v, want %v", got, balanceBefore+1000)
		}

		winners, err := env.winnerRepo.FindByContest(ctx, contest.ID)
		if err != nil {
			t.Fatalf("find winners: %v", err)
		}
		if len(winners) != 2 {
			t.Fatalf("winner rows = %d, want 2", len(winners))
		}
		seen := make(map[int]bool)
		for _, w := range winners {
			if w.PrizeAmount != 500 || w.PrizeRank != 1 {
				t.Fatalf("winner %+v has wrong prize", w)
			}
			if seen[w.SeatNumber] {
				t.Fatalf("seat %d recorded twice", w.SeatNumber)
			}
			seen[w.SeatNumber] = true
		}

		updated, _ := env.contestRepo.FindByID(ctx, contest.ID)
		if !updated.IsDrawCompleted || updated.Status != models.ContestStatusCompleted {
			t.Fatalf("contest not marked completed: %+v", updated)
		}
	})

	t.Run("prize claims are scoped to the owner", func(t *testing.T) {
		env := newTestEnv(t)
		draws := env.newDrawService(rand.New(rand.NewSource(3)))
		winner := env.createUser(t, 1000)
		stranger := env.createUser(t, 1000)
		contest := env.createContest(t, 100, 50)
		env.buySeats(t, winner.ID, contest.ID, []int{5})
		env.addPrizes(t, contest.ID, []*models.PrizeStructure{
			{PrizeRank: 1, PrizeAmount: 500, NumberOfWinners: 1},
		})
		if _, err := draws.ConductDraw(ctx, contest.ID); err != nil {
			t.Fatalf("conduct draw: %v", err)
		}
		wins, _ := env.winnerRepo.FindByUser(ctx, winner.ID)
		if len(wins) != 1 {
			t.Fatalf("wins = %d, want 1", len(wins))
		}

		if err := draws.ClaimPrize(ctx, stranger.ID, wins[0].ID); !apperrors.Is(err, apperrors.NotFound) {
			t.Fatalf("stranger claim err = %v, want NotFound", err)
		}
		if err := draws.ClaimPrize(ctx, winner.ID, wins[0].ID); err != nil {
			t.Fatalf("owner claim: %v", err)
		}
		if err := draws.ClaimPrize(ctx, winner.ID, wins[0].ID); !apperrors.Is(err, apperrors.NotFound) {
			t.Fatalf("double claim err = %v, want NotFound", err)
		}
	})

	t.Run("second draw attempt conflicts", func(t *testing.T) {
		env := newTestEnv(t)
		draws := env.newDrawService(rand.New(rand.NewSource(3)))
		user := env.createUser(t, 1000)
		contest := env.createContest(t, 100, 50)
		env.buySeats(t, user.ID, contest.ID, []int{1, 2})
		env.addPrizes(t, contest.ID, []*models.PrizeStructure{
			{PrizeRank: 1, PrizeAmount: 100, NumberOfWinners: 1},
		})

		if _, err := draws.ConductDraw(ctx, contest.ID); err != nil {
			t.Fatalf("first draw: %v", err)
		}
		balance := env.balanceOf(t, user.ID)

		if _, err := draws.ConductDraw(ctx, contest.ID); !apperrors.Is(err, apperrors.Conflict) {
			t.Fatalf("err = %v, want Conflict", err)
		}
		if got := env.balanceOf(t, user.ID); got != balance {
			t.Fatalf("balance changed on rejected redraw: %v -> %v", balance, got)
		}
	})

	t.Run("requires a prize structure and purchased seats", func(t *testing.T) {
		env := newTestEnv(t)
		draws := env.newDrawService(rand.New(rand.NewSource(3)))
		user := env.createUser(t, 1000)
		contest := env.createContest(t, 100, 50)

		if _, err := draws.ConductDraw(ctx, contest.ID); !apperrors.Is(err, apperrors.PreconditionFailed) {
			t.Fatalf("no prizes: err = %v, want PreconditionFailed", err)
		}
		env.addPrizes(t, contest.ID, []*models.PrizeStructure{
			{PrizeRank: 1, PrizeAmount: 100, NumberOfWinners: 1},
		})
		if _, err := draws.ConductDraw(ctx, contest.ID); !apperrors.Is(err, apperrors.PreconditionFailed) {
			t.Fatalf("no seats: err = %v, want PreconditionFailed", err)
		}
		env.buySeats(t, user.ID, contest.ID, []int{9})
		if _, err := draws.ConductDraw(ctx, contest.ID); err != nil {
			t.Fatalf("draw: %v", err)
		}
	})

	t.Run("already-stamped seats are skipped on re-apply", func(t *testing.T) {
		env := newTestEnv(t)
		draws := env.newDrawService(rand.New(rand.NewSource(3)))
		user := env.createUser(t, 1000)
		contest := env.createContest(t, 100, 50)
		env.buySeats(t, user.ID, contest.ID, []int{5, 17})
		env.addPrizes(t, contest.ID, []*models.PrizeStructure{
			{PrizeRank: 1, PrizeAmount: 250, NumberOfWinners: 2},
		})

		// Pre-stamp seat 5 as if a crashed earlier attempt had applied it.
		if stamped, err := env.seatRepo.MarkWinner(ctx, contest.ID, 5, 250); err != nil || !stamped {
			t.Fatalf("pre-stamp: stamped=%v err=%v", stamped, err)
		}
		balanceBefore := env.balanceOf(t, user.ID)

		result, err := draws.ConductDraw(ctx, contest.ID)
		if err != nil {
			t.Fatalf("conduct draw: %v", err)
		}
		// Only seat 17 can be credited; seat 5 was already applied.
		if result.TotalWinners != 1 {
			t.Fatalf("winners = %d, want 1", result.TotalWinners)
		}
		if got := env.balanceOf(t, user.ID); got != balanceBefore+250 {
			t.Fatalf("balance = %v, want %v", got, balanceBefore+250)
		}
	})
}

func TestContestStatistics(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	draws := env.newDrawService(rand.New(rand.NewSource(11)))
	user := env.createUser(t, 10000)
	contest := env.createContest(t, 100, 10)
	env.buySeats(t, user.ID, contest.ID, []int{1, 2, 3, 4, 5})
	env.addPrizes(t, contest.ID, []*models.PrizeStructure{
		{PrizeRank: 1, PrizeAmount: 1000, NumberOfWinners: 1},
		{PrizeRank: 2, PrizeAmount: 200, NumberOfWinners: 2},
	})

	if _, err := draws.ConductDraw(ctx, contest.ID); err != nil {
		t.Fatalf("draw: %v", err)
	}

	stats, err := draws.ContestStatistics(ctx, contest.ID)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.PurchasedSeats != 5 || stats.AvailableSeats != 95 {
		t.Fatalf("seats = %d/%d, want 5/95", stats.PurchasedSeats, stats.AvailableSeats)
	}
	if stats.TotalWinners != 3 || !stats.IsDrawCompleted {
		t.Fatalf("winners = %d completed = %v, want 3 true", stats.TotalWinners, stats.IsDrawCompleted)
	}
	var total float64
	for _, d := range stats.PrizeDistribution {
		total += d.TotalAmount
	}
	if total != 1400 {
		t.Fatalf("distributed total = %v, want 1400", total)
	}
}
