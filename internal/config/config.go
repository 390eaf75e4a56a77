// Package config loads tablehouse's process-wide configuration from
// flags and environment variables, the way the teacher's pkg/bot/config.go
// loads bot configuration: a flat struct with defaults, overridden by
// flags, validated once at startup.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/feltedge/tablehouse/pkg/money"
)

// Game names which rule engine a process runs. One table per process,
// per spec's "one fixed table per game" non-goal.
type Game string

const (
	GameCrabs  Game = "crabs"
	GameMoltem Game = "moltem"
)

// Config is tablehouse's full process configuration.
type Config struct {
	ListenAddr  string
	Game        Game
	LedgerPath  string
	OperatorKey string
	AuthSecret  []byte

	AllowedOrigins []string

	MinDeposit money.Amount
	MinCashout money.Amount

	// Craps
	CrapsMinBet money.Amount
	CrapsMaxBet money.Amount

	// Poker
	SmallBlind    money.Amount
	BigBlind      money.Amount
	MinBuyIn      money.Amount
	MaxBuyIn      money.Amount
	MaxSeats      int
	ActionTimeout int // seconds
}

// Load parses flags (each falling back to the environment variable named
// in its default, e.g. -listen to LISTEN_ADDR) into a Config and
// validates it. Missing OPERATOR_KEY is a fatal
// misconfiguration per spec's exit-code policy: the process must not
// start without one.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("tablehouse", flag.ContinueOnError)

	listenAddr := fs.String("listen", envOr("LISTEN_ADDR", ":8080"), "address to listen on")
	game := fs.String("game", envOr("GAME", "crabs"), "which table this process runs: crabs or moltem")
	ledgerPath := fs.String("ledger", envOr("LEDGER_PATH", "tablehouse-ledger.json"), "path to the ledger journal file")
	operatorKey := fs.String("operator-key", os.Getenv("OPERATOR_KEY"), "shared key gating operator endpoints")
	authSecret := fs.String("auth-secret", os.Getenv("AUTH_SECRET"), "HMAC secret for session tokens")
	allowedOrigins := fs.String("allowed-origins", os.Getenv("ALLOWED_ORIGINS"), "comma-separated CORS origins, empty = allow all")

	minDeposit := fs.Int64("min-deposit", envOrInt64("MIN_DEPOSIT", 1), "minimum deposit amount")
	minCashout := fs.Int64("min-cashout", envOrInt64("MIN_CASHOUT", 1), "minimum cashout amount")

	crapsMinBet := fs.Int64("craps-min-bet", envOrInt64("CRAPS_MIN_BET", 1), "minimum craps bet")
	crapsMaxBet := fs.Int64("craps-max-bet", envOrInt64("CRAPS_MAX_BET", 1_000_000), "maximum craps bet")

	smallBlind := fs.Int64("small-blind", envOrInt64("SMALL_BLIND", 500), "poker small blind")
	bigBlind := fs.Int64("big-blind", envOrInt64("BIG_BLIND", 1000), "poker big blind")
	minBuyIn := fs.Int64("min-buy-in", envOrInt64("MIN_BUY_IN", 20_000), "poker minimum buy-in")
	maxBuyIn := fs.Int64("max-buy-in", envOrInt64("MAX_BUY_IN", 200_000), "poker maximum buy-in")
	maxSeats := fs.Int("max-seats", envOrInt("MAX_SEATS", 9), "poker max seats")
	actionTimeout := fs.Int("action-timeout", envOrInt("ACTION_TIMEOUT", 30), "poker per-action timeout in seconds")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddr:     *listenAddr,
		Game:           Game(*game),
		LedgerPath:     *ledgerPath,
		OperatorKey:    *operatorKey,
		AuthSecret:     []byte(*authSecret),
		MinDeposit:     money.Amount(*minDeposit),
		MinCashout:     money.Amount(*minCashout),
		CrapsMinBet:    money.Amount(*crapsMinBet),
		CrapsMaxBet:    money.Amount(*crapsMaxBet),
		SmallBlind:     money.Amount(*smallBlind),
		BigBlind:       money.Amount(*bigBlind),
		MinBuyIn:       money.Amount(*minBuyIn),
		MaxBuyIn:       money.Amount(*maxBuyIn),
		MaxSeats:       *maxSeats,
		ActionTimeout:  *actionTimeout,
	}
	if *allowedOrigins != "" {
		cfg.AllowedOrigins = strings.Split(*allowedOrigins, ",")
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.OperatorKey == "" {
		return fmt.Errorf("config: OPERATOR_KEY is required")
	}
	if len(c.AuthSecret) == 0 {
		return fmt.Errorf("config: AUTH_SECRET is required")
	}
	if c.Game != GameCrabs && c.Game != GameMoltem {
		return fmt.Errorf("config: GAME must be %q or %q, got %q", GameCrabs, GameMoltem, c.Game)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
