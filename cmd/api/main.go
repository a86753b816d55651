package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"github.com/luckyseats/lottery-backend/api/routes"
	"github.com/luckyseats/lottery-backend/internal/config"
	"github.com/luckyseats/lottery-backend/internal/handlers"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	mongorepo "github.com/luckyseats/lottery-backend/internal/repositories/mongodb"
	"github.com/luckyseats/lottery-backend/internal/services"
	"github.com/luckyseats/lottery-backend/pkg/mailgateway"
	"github.com/luckyseats/lottery-backend/pkg/mongodb"
	"github.com/luckyseats/lottery-backend/pkg/paymentgateway"
	"github.com/luckyseats/lottery-backend/pkg/token"
)

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := newLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)
	if err := mongorepo.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	// Repositories
	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var contestRepo repositories.ContestRepository = mongorepo.NewContestRepository(db)
	var seatRepo repositories.SeatRepository = mongorepo.NewSeatRepository(db)
	var prizeRepo repositories.PrizeStructureRepository = mongorepo.NewPrizeStructureRepository(db)
	var winnerRepo repositories.WinnerRepository = mongorepo.NewWinnerRepository(db)
	var walletTxnRepo repositories.WalletTransactionRepository = mongorepo.NewWalletTransactionRepository(db)
	var withdrawalRepo repositories.WithdrawalRepository = mongorepo.NewWithdrawalRepository(db)
	var bankDetailsRepo repositories.BankDetailsRepository = mongorepo.NewBankDetailsRepository(db)
	var notificationRepo repositories.NotificationRepository = mongorepo.NewNotificationRepository(db)

	// Gateways
	tokens := token.NewService(cfg.JWT.Secret, cfg.JWT.ExpiresHours)
	payments := paymentgateway.NewClient(cfg.Payment.BaseURL, cfg.Payment.KeyID, cfg.Payment.KeySecret, cfg.Payment.MockAPI)
	var mail mailgateway.Gateway
	if cfg.Mail.MockMail {
		mail = &mailgateway.MockGateway{}
	} else {
		mail = mailgateway.NewHTTPGateway(cfg.Mail.BaseURL, cfg.Mail.APIKey, cfg.Mail.FromAddress)
	}

	// Services
	walletService := services.NewWalletService(userRepo, walletTxnRepo, logger)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, mail, logger)
	seatService := services.NewSeatService(seatRepo, contestRepo, userRepo, walletService, logger)
	// nil rng selects the locked global source, safe under concurrent draws
	drawService := services.NewDrawService(contestRepo, seatRepo, prizeRepo, winnerRepo, walletService, notificationService, nil, logger)
	withdrawalService := services.NewWithdrawalService(withdrawalRepo, bankDetailsRepo, walletTxnRepo, userRepo, walletService, cfg.Wallet.MinWithdrawalAmount, logger)
	contestService := services.NewContestService(contestRepo, prizeRepo, userRepo, withdrawalRepo, logger)
	authService := services.NewAuthService(userRepo, tokens, logger)
	userService := services.NewUserService(userRepo, bankDetailsRepo)
	paymentService := services.NewPaymentService(payments, walletTxnRepo, walletService, logger)

	// Handlers
	deps := &routes.HandlerDependencies{
		Auth:         handlers.NewAuthHandler(authService),
		User:         handlers.NewUserHandler(userService, drawService),
		Contest:      handlers.NewContestHandler(contestService, drawService),
		Seat:         handlers.NewSeatHandler(seatService),
		Wallet:       handlers.NewWalletHandler(walletService, paymentService),
		Withdrawal:   handlers.NewWithdrawalHandler(withdrawalService),
		Notification: handlers.NewNotificationHandler(notificationService),
	}

	router := routes.SetupRouter(cfg, tokens, logger, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited")
}
