package handlers

import (
	"log"
	"net/http"

	"github.com/cindyyylam/mj-quizarium/internal/services"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// GetLeaderboard returns the cumulative leaderboard, highest points first.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.leaderboardService.GetAll(c.Request.Context())
	if err != nil {
		log.Printf("[api] leaderboard: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
