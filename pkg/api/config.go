// Package api implements the HTTP/WS surface: the gin-gonic router for
// the shared auth/operator/cashout endpoints plus each game's own
// request/response handlers, and the gorilla/websocket subscription
// channel that fans a table's event bus out to connected clients.
package api

// Config holds the per-process HTTP surface settings that do not belong
// to any one package below it (auth, ledger, runtime): CORS policy and
// the operator shared key.
type Config struct {
	AllowedOrigins []string
	OperatorKey    string
}
