package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feltedge/tablehouse/pkg/auth"
)

type verifyRequest struct {
	Wallet    string `json:"wallet" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	Nonce     string `json:"nonce" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// registerAuthRoutes mounts the two wallet-signature endpoints shared by
// both games: issuing a one-shot challenge and exchanging a signed
// challenge for a session bearer token.
func registerAuthRoutes(r gin.IRouter, a *auth.Auth) {
	r.GET("/auth/challenge", func(c *gin.Context) {
		wallet := c.Query("wallet")
		if wallet == "" {
			c.JSON(http.StatusBadRequest, errorEnvelope{Error: "wallet query parameter required", Code: "missing_field"})
			return
		}
		ch, err := a.IssueChallenge(wallet)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ch)
	})

	r.POST("/auth/verify", func(c *gin.Context) {
		var req verifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorEnvelope{Error: err.Error(), Code: "missing_field"})
			return
		}
		session, err := a.VerifyChallenge(req.Wallet, req.Signature, req.Nonce, req.Message)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	})
}
