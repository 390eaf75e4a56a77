package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/feltedge/tablehouse/pkg/auth"
)

const walletContextKey = "wallet"

// corsMiddleware mirrors the pack's permissive-by-default, configurable
// CORS middleware: wide open unless allowedOrigins names specific hosts.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if len(allowedOrigins) == 0 {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range allowedOrigins {
				if allowed == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// authMiddleware validates the bearer token and stashes the normalized
// wallet in the request context for handlers to read.
func authMiddleware(a *auth.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, errorEnvelope{Error: "missing bearer token", Code: "bad_token"})
			c.Abort()
			return
		}
		wallet, err := a.VerifyToken(parts[1])
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(walletContextKey, wallet)
		c.Next()
	}
}

func walletFromContext(c *gin.Context) string {
	w, _ := c.Get(walletContextKey)
	s, _ := w.(string)
	return s
}

// rateLimitMiddleware enforces auth's per-(IP, wallet, class) token
// bucket, returning the spec's 429-equivalent with a retry-after hint on
// overage.
func rateLimitMiddleware(rl *auth.RateLimiter, class auth.Class) gin.HandlerFunc {
	return func(c *gin.Context) {
		wallet := walletFromContext(c)
		ok, retryAfter := rl.Allow(c.ClientIP(), wallet, class)
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			c.JSON(http.StatusTooManyRequests, errorEnvelope{
				Error: fmt.Sprintf("rate limit exceeded, retry after %s", retryAfter),
				Code:  "rate_limited",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// operatorMiddleware gates the operator-only endpoints behind a shared
// key compared in constant time, the same technique the retrieved
// coinjoin engine's AuthMiddleware uses for its bearer token.
func operatorMiddleware(operatorKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader("X-Operator-Key")
		if subtle.ConstantTimeCompare([]byte(given), []byte(operatorKey)) != 1 {
			c.JSON(http.StatusForbidden, errorEnvelope{Error: "operator key required", Code: "operator_key_required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
