package services

import (
	"context"
	"io"
	"testing"

	"golang.org/x/exp/slog"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/pkg/token"
)

func newAuthEnv(t *testing.T) (*testEnv, *AuthServiceImpl) {
	t.Helper()
	env := newTestEnv(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth := NewAuthService(env.userRepo, token.NewService("test-secret", 1), logger)
	return env, auth
}

func registerRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		UserName:    "Asha",
		UserID:      "asha01",
		Email:       "asha@example.com",
		PhoneNumber: "9876543210",
		Password:    "s3cret pass",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a player with a hashed password", func(t *testing.T) {
		_, auth := newAuthEnv(t)
		user, err := auth.Register(ctx, registerRequest())
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if user.Password == "s3cret pass" {
			t.Fatal("password stored in plain text")
		}
		if user.Role != models.RoleUser || !user.IsActive {
			t.Fatalf("user = %+v", user)
		}
		if user.WalletBalance != 0 {
			t.Fatalf("wallet balance = %v, want 0", user.WalletBalance)
		}
	})

	t.Run("rejects duplicate identifiers", func(t *testing.T) {
		_, auth := newAuthEnv(t)
		if _, err := auth.Register(ctx, registerRequest()); err != nil {
			t.Fatalf("register: %v", err)
		}

		dupEmail := registerRequest()
		dupEmail.UserID = "other"
		dupEmail.PhoneNumber = "1111111111"
		if _, err := auth.Register(ctx, dupEmail); !apperrors.Is(err, apperrors.Conflict) {
			t.Fatalf("duplicate email: err = %v, want Conflict", err)
		}

		dupPhone := registerRequest()
		dupPhone.UserID = "other"
		dupPhone.Email = "other@example.com"
		if _, err := auth.Register(ctx, dupPhone); !apperrors.Is(err, apperrors.Conflict) {
			t.Fatalf("duplicate phone: err = %v, want Conflict", err)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts any identifier", func(t *testing.T) {
		_, auth := newAuthEnv(t)
		if _, err := auth.Register(ctx, registerRequest()); err != nil {
			t.Fatalf("register: %v", err)
		}

		for _, identifier := range []string{"asha@example.com", "9876543210", "asha01"} {
			resp, err := auth.Login(ctx, &models.LoginRequest{Identifier: identifier, Password: "s3cret pass"})
			if err != nil {
				t.Fatalf("login with %s: %v", identifier, err)
			}
			if resp.AccessToken == "" || resp.TokenType != "Bearer" {
				t.Fatalf("token response = %+v", resp)
			}
		}
	})

	t.Run("wrong password and unknown user fail identically", func(t *testing.T) {
		_, auth := newAuthEnv(t)
		if _, err := auth.Register(ctx, registerRequest()); err != nil {
			t.Fatalf("register: %v", err)
		}

		_, errWrongPass := auth.Login(ctx, &models.LoginRequest{Identifier: "asha01", Password: "nope"})
		_, errUnknown := auth.Login(ctx, &models.LoginRequest{Identifier: "ghost", Password: "nope"})
		if !apperrors.Is(errWrongPass, apperrors.Unauthorized) || !apperrors.Is(errUnknown, apperrors.Unauthorized) {
			t.Fatalf("errs = %v / %v, want Unauthorized for both", errWrongPass, errUnknown)
		}
		if errWrongPass.Error() != errUnknown.Error() {
			t.Fatalf("error messages differ: %q vs %q", errWrongPass.Error(), errUnknown.Error())
		}
	})

	t.Run("deactivated accounts cannot log in", func(t *testing.T) {
		env, auth := newAuthEnv(t)
		user, err := auth.Register(ctx, registerRequest())
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		user.IsActive = false
		if err := env.userRepo.Update(ctx, user); err != nil {
			t.Fatalf("update: %v", err)
		}

		if _, err := auth.Login(ctx, &models.LoginRequest{Identifier: "asha01", Password: "s3cret pass"}); !apperrors.Is(err, apperrors.Unauthorized) {
			t.Fatalf("err = %v, want Unauthorized", err)
		}
	})
}
