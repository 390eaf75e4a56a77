package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feltedge/tablehouse/pkg/craps"
	"github.com/feltedge/tablehouse/pkg/ledger"
	"github.com/feltedge/tablehouse/pkg/money"
	"github.com/feltedge/tablehouse/pkg/runtime"
)

type placeBetRequest struct {
	Kind   string       `json:"kind" binding:"required"`
	Amount money.Amount `json:"amount"`
}

// registerCrapsRoutes mounts CRABS's authenticated endpoints: the
// public /rules, /table/state, /activity, /player/:wallet routes are
// registered separately by NewCrapsRouter on its unauthenticated query
// group.
func registerCrapsRoutes(r gin.IRouter, rt *runtime.CrapsRuntime, ldg *ledger.Ledger) {
	r.GET("/player/me", func(c *gin.Context) {
		wallet := walletFromContext(c)
		state := rt.State()
		var mine []*craps.Bet
		for _, b := range state.Bets {
			if b.Owner == wallet {
				mine = append(mine, b)
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"wallet":  wallet,
			"balance": ldg.Balance(wallet),
			"bets":    mine,
		})
	})

	r.POST("/cashout", handleCashout(rt.CashoutRequest))

	r.POST("/table/join", func(c *gin.Context) {
		wallet := walletFromContext(c)
		if err := rt.Join(wallet); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.POST("/table/leave", func(c *gin.Context) {
		wallet := walletFromContext(c)
		if err := rt.Leave(wallet); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.POST("/bet/place", func(c *gin.Context) {
		wallet := walletFromContext(c)
		var req placeBetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorEnvelope{Error: err.Error(), Code: "missing_field"})
			return
		}
		bet, err := rt.PlaceBet(wallet, craps.Kind(req.Kind), req.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, bet)
	})

	r.POST("/shooter/roll", func(c *gin.Context) {
		wallet := walletFromContext(c)
		result, err := rt.Roll(wallet)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	r.POST("/chat", func(c *gin.Context) {
		wallet := walletFromContext(c)
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorEnvelope{Error: err.Error(), Code: "missing_field"})
			return
		}
		if err := rt.Chat(wallet, req.Message); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}
