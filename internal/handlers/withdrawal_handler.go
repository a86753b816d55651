package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/luckyseats/lottery-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithdrawalHandler handles withdrawal HTTP requests
type WithdrawalHandler struct {
	withdrawalService services.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler
func NewWithdrawalHandler(withdrawalService services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

// WithdrawalRequest is the payload for requesting a withdrawal.
type WithdrawalRequest struct {
	Amount        float64 `json:"amount" binding:"required"`
	BankDetailsID string  `json:"bankDetailsId" binding:"required"`
	Method        string  `json:"method" binding:"required"`
}

// Request handles POST /withdrawals
func (h *WithdrawalHandler) Request(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	bankDetailsID, err := primitive.ObjectIDFromHex(req.BankDetailsID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bank details id format"})
		return
	}

	withdrawal, err := h.withdrawalService.Request(c, userID, req.Amount, bankDetailsID, req.Method)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, withdrawal)
}

// GetMine handles GET /withdrawals
func (h *WithdrawalHandler) GetMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	withdrawals, err := h.withdrawalService.UserWithdrawals(c, userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, withdrawals)
}

// Get handles GET /withdrawals/:id
func (h *WithdrawalHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	withdrawal, err := h.withdrawalService.Withdrawal(c, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, withdrawal)
}

// Cancel handles POST /withdrawals/:id/cancel
func (h *WithdrawalHandler) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	withdrawal, err := h.withdrawalService.Cancel(c, userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, withdrawal)
}

// ListByStatus handles GET /admin/withdrawals
func (h *WithdrawalHandler) ListByStatus(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := c.Query("status")

	withdrawals, err := h.withdrawalService.ListByStatus(c, status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, withdrawals)
}

// AdminActionRequest carries the optional fields of an admin transition.
type AdminActionRequest struct {
	BankTransactionID string `json:"bankTransactionId"`
	Reason            string `json:"reason"`
	Notes             string `json:"notes"`
}

// MarkProcessing handles POST /admin/withdrawals/:id/processing
func (h *WithdrawalHandler) MarkProcessing(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req AdminActionRequest
	_ = c.ShouldBindJSON(&req)

	withdrawal, err := h.withdrawalService.MarkProcessing(c, id, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, withdrawal)
}

// Complete handles POST /admin/withdrawals/:id/complete
func (h *WithdrawalHandler) Complete(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req AdminActionRequest
	_ = c.ShouldBindJSON(&req)

	withdrawal, err := h.withdrawalService.Complete(c, id, req.BankTransactionID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, withdrawal)
}

// Reject handles POST /admin/withdrawals/:id/reject
func (h *WithdrawalHandler) Reject(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req AdminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required"})
		return
	}

	withdrawal, err := h.withdrawalService.Reject(c, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, withdrawal)
}
