package routes

import (
	"golang.org/x/exp/slog"

	"github.com/gin-gonic/gin"
	"github.com/luckyseats/lottery-backend/internal/config"
	"github.com/luckyseats/lottery-backend/internal/handlers"
	"github.com/luckyseats/lottery-backend/internal/middleware"
	"github.com/luckyseats/lottery-backend/pkg/token"
)

// HandlerDependencies carries the wired handlers into the router.
type HandlerDependencies struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Contest      *handlers.ContestHandler
	Seat         *handlers.SeatHandler
	Wallet       *handlers.WalletHandler
	Withdrawal   *handlers.WithdrawalHandler
	Notification *handlers.NotificationHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, tokens *token.Service, logger *slog.Logger, deps *HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.Auth.Register)
			auth.POST("/login", deps.Auth.Login)
		}

		contests := public.Group("/contests")
		{
			contests.GET("", deps.Contest.ListContests)
			contests.GET("/:id", deps.Contest.GetContest)
			contests.GET("/:id/prizes", deps.Contest.GetPrizeStructure)
			contests.GET("/:id/statistics", deps.Contest.GetStatistics)
			contests.GET("/:id/winners", deps.Contest.GetWinners)
			contests.GET("/:id/seats/available", deps.Seat.GetAvailableSeats)
			contests.GET("/:id/seats/map/:categoryId", deps.Seat.GetSeatMap)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(tokens))
	{
		users := protected.Group("/users")
		{
			users.GET("/me", deps.User.GetMe)
			users.GET("/me/wins", deps.User.GetMyWins)
			users.POST("/me/wins/:id/claim", deps.User.ClaimPrize)
			users.GET("/me/bank-details", deps.User.GetBankDetails)
			users.POST("/me/bank-details", deps.User.AddBankDetails)
			users.DELETE("/me/bank-details/:id", deps.User.DeleteBankDetails)
		}

		seats := protected.Group("/seats")
		{
			seats.POST("/purchase", deps.Seat.Purchase)
			seats.GET("/mine", deps.Seat.GetMySeats)
		}

		wallet := protected.Group("/wallet")
		{
			wallet.GET("/balance", deps.Wallet.GetBalance)
			wallet.GET("/transactions", deps.Wallet.GetTransactions)
			wallet.GET("/summary", deps.Wallet.GetSummary)
			wallet.POST("/deposit/order", deps.Wallet.CreateDepositOrder)
			wallet.POST("/deposit/confirm", deps.Wallet.ConfirmDeposit)
		}

		withdrawals := protected.Group("/withdrawals")
		{
			withdrawals.POST("", deps.Withdrawal.Request)
			withdrawals.GET("", deps.Withdrawal.GetMine)
			withdrawals.GET("/:id", deps.Withdrawal.Get)
			withdrawals.POST("/:id/cancel", deps.Withdrawal.Cancel)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", deps.Notification.GetMine)
			notifications.GET("/unread-count", deps.Notification.GetUnreadCount)
			notifications.POST("/:id/read", deps.Notification.MarkRead)
		}
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(tokens), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", deps.Contest.GetDashboard)

		contests := admin.Group("/contests")
		{
			contests.POST("", deps.Contest.CreateContest)
			contests.PUT("/:id/prizes", deps.Contest.SetPrizeStructure)
			contests.POST("/:id/draw", deps.Contest.ConductDraw)
			contests.GET("/:id/seats", deps.Seat.GetPurchasedSeats)
		}

		withdrawals := admin.Group("/withdrawals")
		{
			withdrawals.GET("", deps.Withdrawal.ListByStatus)
			withdrawals.POST("/:id/processing", deps.Withdrawal.MarkProcessing)
			withdrawals.POST("/:id/complete", deps.Withdrawal.Complete)
			withdrawals.POST("/:id/reject", deps.Withdrawal.Reject)
		}
	}

	return router
}
