package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/luckyseats/lottery-backend/internal/services"
)

// ContestHandler handles contest-related HTTP requests
type ContestHandler struct {
	contestService services.ContestService
	drawService    services.DrawService
}

// NewContestHandler creates a new ContestHandler
func NewContestHandler(contestService services.ContestService, drawService services.DrawService) *ContestHandler {
	return &ContestHandler{
		contestService: contestService,
		drawService:    drawService,
	}
}

// ListContests handles GET /contests
func (h *ContestHandler) ListContests(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := c.Query("status")

	contests, err := h.contestService.ListContests(c, status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contests)
}

// GetContest handles GET /contests/:id
func (h *ContestHandler) GetContest(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	contest, err := h.contestService.GetContest(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contest)
}

// GetPrizeStructure handles GET /contests/:id/prizes
func (h *ContestHandler) GetPrizeStructure(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	prizes, err := h.contestService.PrizeStructure(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, prizes)
}

// GetStatistics handles GET /contests/:id/statistics
func (h *ContestHandler) GetStatistics(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	stats, err := h.drawService.ContestStatistics(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetWinners handles GET /contests/:id/winners
func (h *ContestHandler) GetWinners(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	winners, err := h.drawService.Winners(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, winners)
}

// CreateContest handles POST /admin/contests
func (h *ContestHandler) CreateContest(c *gin.Context) {
	var req services.CreateContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	contest, err := h.contestService.CreateContest(c, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contest)
}

// SetPrizeStructure handles PUT /admin/contests/:id/prizes
func (h *ContestHandler) SetPrizeStructure(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Prizes []services.PrizeRankInput `json:"prizes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	prizes, err := h.contestService.SetPrizeStructure(c, id, req.Prizes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, prizes)
}

// ConductDraw handles POST /admin/contests/:id/draw
func (h *ContestHandler) ConductDraw(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	result, err := h.drawService.ConductDraw(c, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDashboard handles GET /admin/dashboard
func (h *ContestHandler) GetDashboard(c *gin.Context) {
	stats, err := h.contestService.Dashboard(c)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
