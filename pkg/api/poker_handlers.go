package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feltedge/tablehouse/pkg/ledger"
	"github.com/feltedge/tablehouse/pkg/money"
	"github.com/feltedge/tablehouse/pkg/poker"
	"github.com/feltedge/tablehouse/pkg/runtime"
)

type sitRequest struct {
	Seat  int          `json:"seat"`
	BuyIn money.Amount `json:"buyIn"`
}

type actionRequest struct {
	Action string       `json:"action" binding:"required"`
	Amount money.Amount `json:"amount,omitempty"`
}

// registerPokerRoutes mounts Molt'em's authenticated endpoints. The
// public /rules, /table/state, /activity, /player/:wallet routes are
// registered separately by NewPokerRouter on its unauthenticated query
// group.
func registerPokerRoutes(r gin.IRouter, rt *runtime.PokerRuntime, ldg *ledger.Ledger) {
	r.GET("/player/me", func(c *gin.Context) {
		wallet := walletFromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"wallet":  wallet,
			"balance": ldg.Balance(wallet),
			"table":   rt.State(wallet, false),
		})
	})

	r.POST("/cashout", handleCashout(rt.CashoutRequest))

	r.POST("/table/sit", func(c *gin.Context) {
		wallet := walletFromContext(c)
		var req sitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorEnvelope{Error: err.Error(), Code: "missing_field"})
			return
		}
		if err := rt.Sit(wallet, req.Seat, req.BuyIn); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.POST("/table/stand", func(c *gin.Context) {
		wallet := walletFromContext(c)
		if err := rt.Stand(wallet); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.POST("/action", func(c *gin.Context) {
		wallet := walletFromContext(c)
		var req actionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorEnvelope{Error: err.Error(), Code: "missing_field"})
			return
		}
		res, err := rt.Act(wallet, poker.Action(req.Action), req.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
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
