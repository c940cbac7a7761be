package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blackjack-table-backend/internal/models"
	"blackjack-table-backend/internal/services"
)

const defaultHistoryLimit = 20

type PlayerHandler struct {
	ledger     services.PlayerLedger
	gameEngine *services.GameEngine
}

func NewPlayerHandler(ledger services.PlayerLedger, gameEngine *services.GameEngine) *PlayerHandler {
	return &PlayerHandler{ledger: ledger, gameEngine: gameEngine}
}

// GetCurrentPlayer returns the caller's identity and live session summary.
func (h *PlayerHandler) GetCurrentPlayer(c *gin.Context) {
	playerID := c.GetString("player_id")

	session, err := h.gameEngine.Session(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player_id":      playerID,
		"session_id":     session.SessionID,
		"bankroll_cents": session.BankrollCents,
		"round_open":     session.RoundState != nil && session.RoundState.Outcome == nil,
	})
}

func (h *PlayerHandler) GetStats(c *gin.Context) {
	playerID := c.GetString("player_id")

	stats, err := h.ledger.PlayerStats(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	if stats == nil {
		stats = &models.PlayerRecord{ID: playerID}
	}

	history, err := h.ledger.HandHistory(c.Request.Context(), playerID, defaultHistoryLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player_id":           stats.ID,
		"display_name":        stats.AnonymousName(),
		"bankroll_cents":      stats.BankrollCents,
		"hands_played":        stats.HandsPlayed,
		"hands_won":           stats.HandsWon,
		"win_rate":            stats.WinRate(),
		"total_wagered_cents": stats.TotalWageredCents,
		"biggest_win_cents":   stats.BiggestWinCents,
		"biggest_win":         models.FormatCurrency(stats.BiggestWinCents),
		"history":             history,
	})
}

func (h *PlayerHandler) GetLeaderboard(c *gin.Context) {
	raw := c.DefaultQuery("category", string(models.LeaderboardBiggestWin))
	category, ok := models.ParseLeaderboardCategory(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown leaderboard category: " + raw})
		return
	}

	entries, err := h.ledger.Leaderboard(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard"})
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"entries":  entries,
	})
}
