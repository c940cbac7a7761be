package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blackjack-table-backend/internal/engine"
	"blackjack-table-backend/internal/models"
	"blackjack-table-backend/internal/services"
)

type GameHandler struct {
	gameEngine *services.GameEngine
}

func NewGameHandler(gameEngine *services.GameEngine) *GameHandler {
	return &GameHandler{gameEngine: gameEngine}
}

func (h *GameHandler) Deal(c *gin.Context) {
	playerID := c.GetString("player_id")

	var req models.DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	session, err := h.gameEngine.Deal(c.Request.Context(), playerID, req.BetCents)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionView(session))
}

func (h *GameHandler) Action(c *gin.Context) {
	playerID := c.GetString("player_id")

	var req models.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	action, ok := engine.ParseAction(req.Action)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action: " + req.Action})
		return
	}

	session, err := h.gameEngine.ApplyAction(c.Request.Context(), playerID, action, req.HandIndex)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionView(session))
}

func (h *GameHandler) State(c *gin.Context) {
	playerID := c.GetString("player_id")

	session, err := h.gameEngine.Session(c.Request.Context(), playerID)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionView(session))
}

func (h *GameHandler) Reset(c *gin.Context) {
	playerID := c.GetString("player_id")

	session, err := h.gameEngine.Reset(c.Request.Context(), playerID)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionView(session))
}

func respondGameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidBet),
		errors.Is(err, services.ErrInsufficientBankroll),
		errors.Is(err, services.ErrIllegalAction),
		errors.Is(err, services.ErrWrongHand):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrWrongPhase),
		errors.Is(err, services.ErrNoActiveRound):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

func sessionView(session *models.Session) gin.H {
	return gin.H{
		"session_id":     session.SessionID,
		"bankroll_cents": session.BankrollCents,
		"rules":          session.Rules,
		"shoe": gin.H{
			"remaining": session.Shoe.Remaining(),
			"size":      session.Shoe.Size(),
		},
		"round": RoundView(session.RoundState),
	}
}

// RoundView renders a round for clients. While the hole card is hidden
// only the upcard ships; totals and the full dealer hand appear once the
// dealer turn reveals it.
func RoundView(rs *engine.RoundState) gin.H {
	if rs == nil {
		return nil
	}

	dealer := gin.H{"hole_revealed": rs.Dealer.HoleRevealed}
	if rs.Dealer.HoleRevealed {
		dealer["cards"] = rs.Dealer.Cards
		dealer["total"] = rs.Dealer.Total
	} else {
		dealer["cards"] = []engine.Card{rs.Dealer.Upcard()}
		dealer["upcard_value"] = rs.Dealer.Upcard().Value()
	}

	view := gin.H{
		"phase":             rs.Phase,
		"player_hands":      rs.PlayerHands,
		"active_hand_index": rs.ActiveHandIndex,
		"dealer":            dealer,
		"legal_actions":     rs.LegalActions,
		"base_bet_cents":    rs.BaseBetCents,
	}
	if rs.Outcome != nil {
		view["outcome"] = rs.Outcome
	}
	return view
}
