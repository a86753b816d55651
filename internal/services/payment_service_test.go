package services

import (
	"context"
	"io"
	"testing"

	"golang.org/x/exp/slog"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/pkg/paymentgateway"
)

func newPaymentEnv(t *testing.T) (*testEnv, *PaymentServiceImpl) {
	t.Helper()
	env := newTestEnv(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gateway := paymentgateway.NewClient("", "key", "secret", true)
	payments := NewPaymentService(gateway, env.walletTxnRepo, env.wallet, logger)
	return env, payments
}

func TestDepositFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("order then confirm credits the wallet once", func(t *testing.T) {
		env, payments := newPaymentEnv(t)
		user := env.createUser(t, 0)

		order, err := payments.CreateDepositOrder(ctx, user.ID, 750)
		if err != nil {
			t.Fatalf("create order: %v", err)
		}
		if order.OrderID == "" || order.Amount != 750 {
			t.Fatalf("order = %+v", order)
		}

		txn, err := payments.ConfirmDeposit(ctx, user.ID, order.OrderID, "pay_1", "sig")
		if err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if txn.Amount != 750 {
			t.Fatalf("credited = %v, want 750", txn.Amount)
		}
		if got := env.balanceOf(t, user.ID); got != 750 {
			t.Fatalf("balance = %v, want 750", got)
		}

		// A replayed callback returns the original row, no double credit.
		again, err := payments.ConfirmDeposit(ctx, user.ID, order.OrderID, "pay_1", "sig")
		if err != nil {
			t.Fatalf("replay: %v", err)
		}
		if again.TransactionID != txn.TransactionID {
			t.Fatalf("replay returned a different row: %s vs %s", again.TransactionID, txn.TransactionID)
		}
		if got := env.balanceOf(t, user.ID); got != 750 {
			t.Fatalf("balance after replay = %v, want 750", got)
		}
	})

	t.Run("rejects non-positive amounts and unknown orders", func(t *testing.T) {
		env, payments := newPaymentEnv(t)
		user := env.createUser(t, 0)

		if _, err := payments.CreateDepositOrder(ctx, user.ID, 0); !apperrors.Is(err, apperrors.InvalidInput) {
			t.Fatalf("zero amount: err = %v, want InvalidInput", err)
		}
		if _, err := payments.ConfirmDeposit(ctx, user.ID, "order_missing", "pay_1", "sig"); !apperrors.Is(err, apperrors.Internal) {
			t.Fatalf("unknown order: err = %v, want Internal", err)
		}
		if _, err := payments.ConfirmDeposit(ctx, user.ID, "", "", ""); !apperrors.Is(err, apperrors.InvalidInput) {
			t.Fatalf("empty ids: err = %v, want InvalidInput", err)
		}
	})
}
