package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feltedge/tablehouse/pkg/auth"
	"github.com/feltedge/tablehouse/pkg/craps"
	"github.com/feltedge/tablehouse/pkg/ledger"
	"github.com/feltedge/tablehouse/pkg/poker"
	"github.com/feltedge/tablehouse/pkg/runtime"
)

// errorEnvelope is the uniform {error, code} body every failed request
// gets, per spec's error-handling design: no internal text leaks, every
// response names a category an agent can act on.
type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError maps any typed error from the engines, ledger, auth, or
// runtime packages to a status code and envelope. Unrecognized errors
// and the ledger's fatal durable-write failure become a 500 whose message
// is generic, with no leaked detail.
func respondError(c *gin.Context, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, errorEnvelope{Error: msg, Code: code})
}

func classify(err error) (int, string) {
	var ledgerErr *ledger.Error
	if errors.As(err, &ledgerErr) {
		switch ledgerErr.Kind {
		case ledger.ErrBelowMinimum, ledger.ErrInsufficientChips, ledger.ErrUnknownCashout:
			return http.StatusBadRequest, string(ledgerErr.Kind)
		default:
			return http.StatusInternalServerError, string(ledgerErr.Kind)
		}
	}

	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized, string(authErr.Kind)
	}

	var crapsErr *craps.Error
	if errors.As(err, &crapsErr) {
		switch crapsErr.Kind {
		case craps.ErrNotShooter, craps.ErrNotSeated, craps.ErrAlreadySeated:
			return http.StatusForbidden, string(crapsErr.Kind)
		default:
			return http.StatusBadRequest, string(crapsErr.Kind)
		}
	}

	var pokerErr *poker.Error
	if errors.As(err, &pokerErr) {
		switch pokerErr.Kind {
		case poker.ErrNotYourTurn, poker.ErrNotSeated, poker.ErrAlreadySeated:
			return http.StatusForbidden, string(pokerErr.Kind)
		default:
			return http.StatusBadRequest, string(pokerErr.Kind)
		}
	}

	var runtimeErr *runtime.Error
	if errors.As(err, &runtimeErr) {
		return http.StatusBadRequest, string(runtimeErr.Kind)
	}

	return http.StatusInternalServerError, ""
}
