package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/services"
)

// UserHandler handles user profile and payout-destination HTTP requests
type UserHandler struct {
	userService services.UserService
	drawService services.DrawService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserService, drawService services.DrawService) *UserHandler {
	return &UserHandler{
		userService: userService,
		drawService: drawService,
	}
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.Profile(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetMyWins handles GET /users/me/wins
func (h *UserHandler) GetMyWins(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	wins, err := h.drawService.UserWins(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, wins)
}

// ClaimPrize handles POST /users/me/wins/:id/claim
func (h *UserHandler) ClaimPrize(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.drawService.ClaimPrize(c, userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prize claimed"})
}

// AddBankDetails handles POST /users/me/bank-details
func (h *UserHandler) AddBankDetails(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var details models.BankDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	created, err := h.userService.AddBankDetails(c, userID, &details)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetBankDetails handles GET /users/me/bank-details
func (h *UserHandler) GetBankDetails(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	details, err := h.userService.BankDetails(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// DeleteBankDetails handles DELETE /users/me/bank-details/:id
func (h *UserHandler) DeleteBankDetails(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteBankDetails(c, userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bank details deleted"})
}
