package services

import (
	"context"
	"sync"
	"testing"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
)

func TestWalletApplyEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("credit and debit keep the ledger chain unbroken", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, 0)

		if _, err := env.wallet.Deposit(ctx, user.ID, 500, "", "order-1"); err != nil {
			t.Fatalf("deposit: %v", err)
		}
		if _, err := env.wallet.ApplyEntry(ctx, LedgerEntry{
			UserID:    user.ID,
			Amount:    200,
			Direction: models.TransactionTypeDebit,
			Category:  models.TransactionCategoryTicketPurchase,
		}); err != nil {
			t.Fatalf("debit: %v", err)
		}

		if got := env.balanceOf(t, user.ID); got != 300 {
			t.Fatalf("balance = %v, want 300", got)
		}
		txns := env.walletTxnRepo.All(user.ID)
		if len(txns) != 2 {
			t.Fatalf("ledger rows = %d, want 2", len(txns))
		}
		for _, txn := range txns {
			want := txn.BalanceBefore + txn.Amount
			if txn.TransactionType == models.TransactionTypeDebit {
				want = txn.BalanceBefore - txn.Amount
			}
			if txn.BalanceAfter != want {
				t.Errorf("txn %s: balanceAfter = %v, want %v", txn.TransactionID, txn.BalanceAfter, want)
			}
		}
	})

	t.Run("debit beyond the balance leaves no ledger row", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, 100)

		_, err := env.wallet.ApplyEntry(ctx, LedgerEntry{
			UserID:    user.ID,
			Amount:    150,
			Direction: models.TransactionTypeDebit,
			Category:  models.TransactionCategoryWithdrawal,
		})
		if !apperrors.Is(err, apperrors.InsufficientFunds) {
			t.Fatalf("err = %v, want InsufficientFunds", err)
		}
		if got := env.balanceOf(t, user.ID); got != 100 {
			t.Fatalf("balance = %v, want 100", got)
		}
		if rows := env.walletTxnRepo.All(user.ID); len(rows) != 0 {
			t.Fatalf("ledger rows = %d, want 0", len(rows))
		}
	})

	t.Run("rejects non-positive amounts and unknown categories", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, 100)

		cases := []LedgerEntry{
			{UserID: user.ID, Amount: 0, Direction: models.TransactionTypeCredit, Category: models.TransactionCategoryDeposit},
			{UserID: user.ID, Amount: -5, Direction: models.TransactionTypeCredit, Category: models.TransactionCategoryDeposit},
			{UserID: user.ID, Amount: 10, Direction: "sideways", Category: models.TransactionCategoryDeposit},
			{UserID: user.ID, Amount: 10, Direction: models.TransactionTypeCredit, Category: "mystery"},
		}
		for _, entry := range cases {
			if _, err := env.wallet.ApplyEntry(ctx, entry); !apperrors.Is(err, apperrors.InvalidInput) {
				t.Errorf("entry %+v: err = %v, want InvalidInput", entry, err)
			}
		}
	})

	t.Run("concurrent entries serialize per user", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, 0)

		const workers = 20
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := env.wallet.Deposit(ctx, user.ID, 10, "", ""); err != nil {
					t.Errorf("deposit: %v", err)
				}
			}()
		}
		wg.Wait()

		if got := env.balanceOf(t, user.ID); got != workers*10 {
			t.Fatalf("balance = %v, want %v", got, workers*10)
		}
		// Every before/after pair must chain: sorting rows by balanceBefore
		// should give a strictly increasing sequence of steps of 10.
		seen := make(map[float64]bool)
		for _, txn := range env.walletTxnRepo.All(user.ID) {
			if txn.BalanceAfter != txn.BalanceBefore+10 {
				t.Fatalf("txn %s: before %v after %v", txn.TransactionID, txn.BalanceBefore, txn.BalanceAfter)
			}
			if seen[txn.BalanceBefore] {
				t.Fatalf("two ledger rows share balanceBefore %v", txn.BalanceBefore)
			}
			seen[txn.BalanceBefore] = true
		}
	})
}

func TestWalletSummary(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.createUser(t, 0)

	if _, err := env.wallet.Deposit(ctx, user.ID, 1000, "", ""); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := env.wallet.ApplyEntry(ctx, LedgerEntry{
		UserID:    user.ID,
		Amount:    400,
		Direction: models.TransactionTypeDebit,
		Category:  models.TransactionCategoryTicketPurchase,
	}); err != nil {
		t.Fatalf("debit: %v", err)
	}

	summary, err := env.wallet.Summary(ctx, user.ID, 30)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalCredit != 1000 || summary.TotalDebit != 400 {
		t.Fatalf("credit/debit = %v/%v, want 1000/400", summary.TotalCredit, summary.TotalDebit)
	}
	if summary.NetChange != 600 || summary.CurrentBalance != 600 {
		t.Fatalf("net/current = %v/%v, want 600/600", summary.NetChange, summary.CurrentBalance)
	}
	if summary.Transactions != 2 {
		t.Fatalf("transactions = %d, want 2", summary.Transactions)
	}
}
