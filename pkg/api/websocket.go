package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/feltedge/tablehouse/pkg/auth"
	"github.com/feltedge/tablehouse/pkg/events"
)

// writeWait bounds how long a single frame write may block before the
// subscriber is considered unresponsive.
const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// subscribeFunc registers a new subscriber on a table's event bus and
// returns its handle, already primed with a snapshot event.
type subscribeFunc func(role events.Role, wallet string) *events.Subscriber

// wsHandler builds the long-lived WS endpoint: it resolves the caller's
// role from query parameters (spectator by default, player via a session
// bearer token,
// operator via the shared key), subscribes, and pumps events out to the
// connection. Subscriber delivery happens off the table's critical
// section — draining Recv here never blocks game progress, and an
// unresponsive write simply drops the connection.
func wsHandler(subscribe subscribeFunc, authSvc *auth.Auth, operatorKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := events.RoleSpectator
		wallet := ""

		switch c.Query("role") {
		case "player":
			token := c.Query("token")
			w, err := authSvc.VerifyToken(token)
			if err != nil {
				respondError(c, err)
				return
			}
			role = events.RolePlayer
			wallet = w
		case "operator":
			if subtle.ConstantTimeCompare([]byte(c.Query("key")), []byte(operatorKey)) != 1 {
				c.JSON(http.StatusForbidden, errorEnvelope{Error: "operator key required", Code: "operator_key_required"})
				return
			}
			role = events.RoleOperator
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		sub := subscribe(role, wallet)
		defer sub.Close()

		go drainInbound(conn)
		pumpOutbound(conn, sub)
	}
}

// drainInbound reads (and discards) incoming frames solely to detect
// client disconnects; clients may send messages but the protocol does
// not require it.
func drainInbound(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// pumpOutbound drains sub's queue to the socket until the subscriber is
// closed (overflow disconnect, or the caller's defer on return) or the
// connection itself breaks.
func pumpOutbound(conn *websocket.Conn, sub *events.Subscriber) {
	defer conn.Close()
	for ev := range sub.Recv() {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}
}
