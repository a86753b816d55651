package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/luckyseats/lottery-backend/internal/services"
)

// WalletHandler handles wallet and deposit HTTP requests
type WalletHandler struct {
	walletService  services.WalletService
	paymentService services.PaymentService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService services.WalletService, paymentService services.PaymentService) *WalletHandler {
	return &WalletHandler{
		walletService:  walletService,
		paymentService: paymentService,
	}
}

// GetBalance handles GET /wallet/balance
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	balance, err := h.walletService.Balance(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GetTransactions handles GET /wallet/transactions
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	category := c.Query("category")

	txns, err := h.walletService.Transactions(c, userID, category, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txns)
}

// GetSummary handles GET /wallet/summary
func (h *WalletHandler) GetSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	summary, err := h.walletService.Summary(c, userID, days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DepositOrderRequest is the payload for creating a deposit order.
type DepositOrderRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// CreateDepositOrder handles POST /wallet/deposit/order
func (h *WalletHandler) CreateDepositOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req DepositOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	order, err := h.paymentService.CreateDepositOrder(c, userID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ConfirmDepositRequest is the payment gateway callback payload.
type ConfirmDepositRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature"`
}

// ConfirmDeposit handles POST /wallet/deposit/confirm
func (h *WalletHandler) ConfirmDeposit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ConfirmDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	txn, err := h.paymentService.ConfirmDeposit(c, userID, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txn)
}
