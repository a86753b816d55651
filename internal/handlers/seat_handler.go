package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/luckyseats/lottery-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SeatHandler handles seat-related HTTP requests
type SeatHandler struct {
	seatService services.SeatService
}

// NewSeatHandler creates a new SeatHandler
func NewSeatHandler(seatService services.SeatService) *SeatHandler {
	return &SeatHandler{seatService: seatService}
}

// PurchaseRequest is the payload for a seat purchase.
type PurchaseRequest struct {
	ContestID     string `json:"contestId" binding:"required"`
	SeatNumbers   []int  `json:"seatNumbers" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

// Purchase handles POST /seats/purchase
func (h *SeatHandler) Purchase(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	contestID, err := primitive.ObjectIDFromHex(req.ContestID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contest id format"})
		return
	}

	result, err := h.seatService.Purchase(c, userID, contestID, req.SeatNumbers, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetAvailableSeats handles GET /contests/:id/seats/available
func (h *SeatHandler) GetAvailableSeats(c *gin.Context) {
	contestID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	categoryID, _ := strconv.Atoi(c.DefaultQuery("categoryId", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	seats, err := h.seatService.AvailableSeats(c, contestID, categoryID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"availableSeats": seats, "count": len(seats)})
}

// GetSeatMap handles GET /contests/:id/seats/map/:categoryId
func (h *SeatHandler) GetSeatMap(c *gin.Context) {
	contestID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	categoryID, err := strconv.Atoi(c.Param("categoryId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id format"})
		return
	}

	seatMap, err := h.seatService.CategorySeatMap(c, contestID, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, seatMap)
}

// GetMySeats handles GET /seats/mine
func (h *SeatHandler) GetMySeats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var contestID *primitive.ObjectID
	if hex := c.Query("contestId"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contest id format"})
			return
		}
		contestID = &id
	}

	seats, err := h.seatService.UserSeats(c, userID, contestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, seats)
}

// GetPurchasedSeats handles GET /admin/contests/:id/seats
func (h *SeatHandler) GetPurchasedSeats(c *gin.Context) {
	contestID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	categoryID, _ := strconv.Atoi(c.DefaultQuery("categoryId", "0"))

	seats, err := h.seatService.PurchasedSeats(c, contestID, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, seats)
}
