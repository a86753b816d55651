package services

import (
	"context"
	"sync"
	"testing"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
)

func TestSeatPurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("successful purchase debits the wallet and updates counters", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, 1000)
		contest := env.createContest(t, 100, 50)

		result := env.buySeats(t, user.ID, contest.ID, []int{5, 17, 42})

		if result.TotalAmount != 150 {
			t.Fatalf("total = %v, want 150", result.TotalAmount)
		}
		if got := env.balanceOf(t, user.ID); got != 850 {
			t.Fatalf("balance = %v, want 850", got)
		}
		txns := env.walletTxnRepo.All(user.ID)
		if len(txns) != 1 {
			t.Fatalf("ledger rows = %d, want 1", len(txns))
		}
		if txns[0].TransactionID != result.TransactionID {
			t.Fatalf("ledger txn id %s does not match purchase %s", txns[0].TransactionID, result.TransactionID)
		}

		updated, err := env.contestRepo.FindByID(ctx, contest.ID)
		if err != nil {
			t.Fatalf("find contest: %v", err)
		}
		if updated.PurchasedSeats != 3 || updated.AvailableSeats != 97 {
			t.Fatalf("contest counters = %d/%d, want 3/97", updated.PurchasedSeats, updated.AvailableSeats)
		}
		// With 100 seats the categories are 10 wide: 5 -> cat 1,
		// 17 -> cat 2, 42 -> cat 5.
		cat1, _ := updated.CategoryByID(1)
		cat2, _ := updated.CategoryByID(2)
		cat5, _ := updated.CategoryByID(5)
		if cat1.PurchasedSeats != 1 || cat2.PurchasedSeats != 1 || cat5.PurchasedSeats != 1 {
			t.Fatalf("category counters = %d/%d/%d, want 1/1/1", cat1.PurchasedSeats, cat2.PurchasedSeats, cat5.PurchasedSeats)
		}
	})

	t.Run("already-sold seats are rejected with a conflict", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, 1000)
		bob := env.createUser(t, 1000)
		contest := env.createContest(t, 100, 50)

		env.buySeats(t, alice.ID, contest.ID, []int{7})
		_, err := env.seats.Purchase(ctx, bob.ID, contest.ID, []int{7, 8}, models.PaymentMethodWallet)
		if !apperrors.Is(err, apperrors.Conflict) {
			t.Fatalf("err = %v, want Conflict", err)
		}
		// Bob's wallet and the contest counters are untouched.
		if got := env.balanceOf(t, bob.ID); got != 1000 {
			t.Fatalf("bob balance = %v, want 1000", got)
		}
		updated, _ := env.contestRepo.FindByID(ctx, contest.ID)
		if updated.PurchasedSeats != 1 {
			t.Fatalf("contest purchased = %d, want 1", updated.PurchasedSeats)
		}
		// Seat 8 stays available for a retry.
		if _, err := env.seats.Purchase(ctx, bob.ID, contest.ID, []int{8}, models.PaymentMethodWallet); err != nil {
			t.Fatalf("retry seat 8: %v", err)
		}
	})

	t.Run("insufficient funds rolls the inserted seats back", func(t *testing.T) {
		env := newTestEnv(t)
		rich := env.createUser(t, 1000)
		poor := env.createUser(t, 40)
		contest := env.createContest(t, 100, 50)

		_, err := env.seats.Purchase(ctx, poor.ID, contest.ID, []int{3}, models.PaymentMethodWallet)
		if !apperrors.Is(err, apperrors.InsufficientFunds) {
			t.Fatalf("err = %v, want InsufficientFunds", err)
		}
		if rows := env.walletTxnRepo.All(poor.ID); len(rows) != 0 {
			t.Fatalf("ledger rows = %d, want 0", len(rows))
		}
		// The seat must be free again.
		if _, err := env.seats.Purchase(ctx, rich.ID, contest.ID, []int{3}, models.PaymentMethodWallet); err != nil {
			t.Fatalf("seat 3 not released: %v", err)
		}
	})

	t.Run("validates seat numbers against the contest range", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, 1000)
		contest := env.createContest(t, 100, 50)

		for _, seats := range [][]int{{0}, {101}, {-3}, {1, 1}, {}} {
			if _, err := env.seats.Purchase(ctx, user.ID, contest.ID, seats, models.PaymentMethodWallet); !apperrors.Is(err, apperrors.InvalidInput) {
				t.Errorf("seats %v: err = %v, want InvalidInput", seats, err)
			}
		}
	})

	t.Run("purchases are rejected once the contest is not active", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, 1000)
		contest := env.createContest(t, 100, 50)
		contest.Status = models.ContestStatusCompleted
		if err := env.contestRepo.Update(ctx, contest); err != nil {
			t.Fatalf("update contest: %v", err)
		}

		_, err := env.seats.Purchase(ctx, user.ID, contest.ID, []int{1}, models.PaymentMethodWallet)
		if !apperrors.Is(err, apperrors.PreconditionFailed) {
			t.Fatalf("err = %v, want PreconditionFailed", err)
		}
	})

	t.Run("concurrent requests for the same seat produce one owner", func(t *testing.T) {
		env := newTestEnv(t)
		contest := env.createContest(t, 100, 50)

		const racers = 8
		users := make([]*models.User, racers)
		for i := range users {
			users[i] = env.createUser(t, 1000)
		}

		var wg sync.WaitGroup
		errs := make([]error, racers)
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = env.seats.Purchase(ctx, users[i].ID, contest.ID, []int{55}, models.PaymentMethodWallet)
			}(i)
		}
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else if !apperrors.Is(err, apperrors.Conflict) {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if winners != 1 {
			t.Fatalf("winners = %d, want exactly 1", winners)
		}
	})
}

func TestAvailableSeats(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.createUser(t, 1000)
	contest := env.createContest(t, 100, 10)

	env.buySeats(t, user.ID, contest.ID, []int{1, 2, 3})

	t.Run("whole contest", func(t *testing.T) {
		available, err := env.seats.AvailableSeats(ctx, contest.ID, 0, 5)
		if err != nil {
			t.Fatalf("available: %v", err)
		}
		want := []int{4, 5, 6, 7, 8}
		if len(available) != len(want) {
			t.Fatalf("available = %v, want %v", available, want)
		}
		for i := range want {
			if available[i] != want[i] {
				t.Fatalf("available = %v, want %v", available, want)
			}
		}
	})

	t.Run("single category", func(t *testing.T) {
		available, err := env.seats.AvailableSeats(ctx, contest.ID, 1, 0)
		if err != nil {
			t.Fatalf("available: %v", err)
		}
		if len(available) != 7 {
			t.Fatalf("category 1 available = %d, want 7", len(available))
		}
	})

	t.Run("seat map counts occupancy", func(t *testing.T) {
		seatMap, err := env.seats.CategorySeatMap(ctx, contest.ID, 1)
		if err != nil {
			t.Fatalf("seat map: %v", err)
		}
		if seatMap.PurchasedSeats != 3 || seatMap.AvailableSeats != 7 {
			t.Fatalf("seat map counters = %d/%d, want 3/7", seatMap.PurchasedSeats, seatMap.AvailableSeats)
		}
		if len(seatMap.Seats) != 10 {
			t.Fatalf("seat map entries = %d, want 10", len(seatMap.Seats))
		}
		if !seatMap.Seats[0].IsPurchased || seatMap.Seats[9].IsPurchased {
			t.Fatalf("seat map occupancy wrong: %+v", seatMap.Seats)
		}
	})
}
