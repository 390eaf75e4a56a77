package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feltedge/tablehouse/pkg/auth"
	"github.com/feltedge/tablehouse/pkg/events"
	"github.com/feltedge/tablehouse/pkg/ledger"
	"github.com/feltedge/tablehouse/pkg/runtime"
)

// NewCrapsRouter assembles the CRABS gin.Engine: public auth/rules
// routes, authenticated+rate-limited game routes, a WS subscription
// endpoint, and operator routes, following the pack's SetupRouter shape
// (CORS first, then per-group middleware).
func NewCrapsRouter(cfg Config, rt *runtime.CrapsRuntime, a *auth.Auth, rl *auth.RateLimiter, ldg *ledger.Ledger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	public := r.Group("/")
	public.Use(rateLimitMiddleware(rl, auth.ClassAuth))
	registerAuthRoutes(public, a)

	queries := r.Group("/")
	queries.Use(rateLimitMiddleware(rl, auth.ClassQuery))
	queries.GET("/table/state", func(c *gin.Context) { c.JSON(http.StatusOK, rt.State()) })
	queries.GET("/activity", func(c *gin.Context) { c.JSON(http.StatusOK, rt.Activity(parseActivityLimit(c))) })
	queries.GET("/rules", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"game": "CRABS", "betKinds": crapsBetKinds, "errors": errorCatalog})
	})
	queries.GET("/player/:wallet", handlePlayerBalance(ldg))
	queries.GET("/ws", wsHandler(func(role events.Role, wallet string) *events.Subscriber {
		return rt.Subscribe(role, wallet)
	}, a, cfg.OperatorKey))

	protected := r.Group("/")
	protected.Use(authMiddleware(a))
	protected.Use(rateLimitMiddleware(rl, auth.ClassGameAction))
	registerCrapsRoutes(protected, rt, ldg)

	registerOperatorRoutes(r, ldg, cfg.OperatorKey)

	return r
}
