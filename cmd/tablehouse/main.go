package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/decred/slog"

	"github.com/feltedge/tablehouse/internal/config"
	"github.com/feltedge/tablehouse/pkg/api"
	"github.com/feltedge/tablehouse/pkg/auth"
	"github.com/feltedge/tablehouse/pkg/craps"
	"github.com/feltedge/tablehouse/pkg/events"
	"github.com/feltedge/tablehouse/pkg/ledger"
	"github.com/feltedge/tablehouse/pkg/poker"
	"github.com/feltedge/tablehouse/pkg/runtime"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	backend := slog.NewBackend(os.Stderr)
	mainLog := backend.Logger("TBLH")
	mainLog.SetLevel(slog.LevelInfo)

	ldg, err := ledger.New(ledger.Config{
		Path:       cfg.LedgerPath,
		MinDeposit: cfg.MinDeposit,
		MinCashout: cfg.MinCashout,
	}, backend.Logger("LDGR"))
	if err != nil {
		mainLog.Errorf("failed to open ledger: %v", err)
		os.Exit(1)
	}

	authSvc := auth.New(cfg.AuthSecret, backend.Logger("AUTH"))
	rl := auth.NewRateLimiter(auth.DefaultLimits())
	go sweepLoop(rl)

	bus := events.New(backend.Logger("EVNT"))

	apiCfg := api.Config{AllowedOrigins: cfg.AllowedOrigins, OperatorKey: cfg.OperatorKey}

	var router http.Handler
	switch cfg.Game {
	case config.GameCrabs:
		table := craps.New(craps.Config{MinBet: cfg.CrapsMinBet, MaxBet: cfg.CrapsMaxBet}, backend.Logger("CRBS"))
		rt := runtime.NewCrapsRuntime(table, ldg, bus, backend.Logger("CRBS"))
		router = api.NewCrapsRouter(apiCfg, rt, authSvc, rl, ldg)

	case config.GameMoltem:
		actionTimeout := time.Duration(cfg.ActionTimeout) * time.Second
		table := poker.New(poker.TableConfig{
			SmallBlind:    cfg.SmallBlind,
			BigBlind:      cfg.BigBlind,
			MinBuyIn:      cfg.MinBuyIn,
			MaxBuyIn:      cfg.MaxBuyIn,
			MaxSeats:      cfg.MaxSeats,
			ActionTimeout: actionTimeout,
		}, backend.Logger("MOLT"))
		rt := runtime.NewPokerRuntime(table, ldg, bus, actionTimeout, backend.Logger("MOLT"))
		go deadlineLoop(rt, actionTimeout)
		router = api.NewPokerRouter(apiCfg, rt, authSvc, rl, ldg)

	default:
		mainLog.Errorf("unknown game %q", cfg.Game)
		os.Exit(1)
	}

	mainLog.Infof("listening on %s (game=%s)", cfg.ListenAddr, cfg.Game)
	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		mainLog.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}

// sweepLoop periodically evicts idle rate-limit buckets so the limiter's
// memory doesn't grow with every distinct (ip, wallet) that has ever
// connected.
func sweepLoop(rl *auth.RateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.Sweep()
	}
}

// deadlineLoop polls the poker runtime's pending action deadline and
// fires ExpireDeadline once it has passed. The runtime itself re-checks
// the deadline under lock, so a late or duplicate tick here is harmless.
func deadlineLoop(rt *runtime.PokerRuntime, actionTimeout time.Duration) {
	poll := actionTimeout / 10
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for range ticker.C {
		wallet, at := rt.PendingDeadline()
		if wallet == "" || at.IsZero() {
			continue
		}
		if time.Now().After(at) {
			rt.ExpireDeadline(wallet)
		}
	}
}
