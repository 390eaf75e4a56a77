package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/feltedge/tablehouse/pkg/ledger"
	"github.com/feltedge/tablehouse/pkg/money"
)

type cashoutRequest struct {
	Amount money.Amount `json:"amount"`
}

// cashoutFunc delegates a cashout request to the game-specific runtime,
// which enforces its own "must not be at the table" precondition before
// handing off to the ledger.
type cashoutFunc func(wallet string, amount money.Amount, toAddress string) (*ledger.CashoutRecord, error)

func handleCashout(cashout cashoutFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		wallet := walletFromContext(c)
		var req cashoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorEnvelope{Error: err.Error(), Code: "missing_field"})
			return
		}
		rec, err := cashout(wallet, req.Amount, wallet)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func handlePlayerBalance(ldg *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		wallet := c.Param("wallet")
		c.JSON(http.StatusOK, gin.H{
			"wallet":  wallet,
			"balance": ldg.Balance(wallet),
			"stats":   ldg.Summary(wallet),
		})
	}
}

func parseActivityLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return 50
	}
	return limit
}
