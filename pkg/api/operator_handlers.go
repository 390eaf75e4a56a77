package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feltedge/tablehouse/pkg/ledger"
	"github.com/feltedge/tablehouse/pkg/money"
)

type operatorDepositRequest struct {
	Wallet string       `json:"wallet" binding:"required"`
	Amount money.Amount `json:"amount"`
	TxRef  string       `json:"txRef" binding:"required"`
}

type operatorCompleteCashoutRequest struct {
	ID    string `json:"id" binding:"required"`
	TxRef string `json:"txRef" binding:"required"`
}

// registerOperatorRoutes mounts the shared-key-gated endpoints an
// operator uses to reconcile the ledger against on-chain activity.
// Identical for both games since the ledger itself is per-process, not
// per-game.
func registerOperatorRoutes(r gin.IRouter, ldg *ledger.Ledger, operatorKey string) {
	op := r.Group("/operator")
	op.Use(operatorMiddleware(operatorKey))

	op.POST("/deposit", func(c *gin.Context) {
		var req operatorDepositRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorEnvelope{Error: err.Error(), Code: "missing_field"})
			return
		}
		rec, err := ldg.ConfirmDeposit(req.Wallet, req.TxRef, req.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	})

	op.POST("/cashout/complete", func(c *gin.Context) {
		var req operatorCompleteCashoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorEnvelope{Error: err.Error(), Code: "missing_field"})
			return
		}
		if err := ldg.CompleteCashout(req.ID, req.TxRef); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	op.GET("/cashouts", func(c *gin.Context) {
		c.JSON(http.StatusOK, ldg.ListPending())
	})

	op.GET("/house", func(c *gin.Context) {
		c.JSON(http.StatusOK, ldg.HousePnL())
	})

	op.GET("/ledger", func(c *gin.Context) {
		wallet := c.Query("wallet")
		limit := 0
		c.JSON(http.StatusOK, ldg.Journal(wallet, limit))
	})
}
