package runtime

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/decred/slog"
	"github.com/stretchr/testify/require"

	"github.com/feltedge/tablehouse/pkg/craps"
	"github.com/feltedge/tablehouse/pkg/events"
	"github.com/feltedge/tablehouse/pkg/ledger"
	"github.com/feltedge/tablehouse/pkg/money"
	"github.com/feltedge/tablehouse/pkg/poker"
)

func testLog() slog.Logger {
	backend := slog.NewBackend(os.Stderr)
	log := backend.Logger("test")
	log.SetLevel(slog.LevelError)
	return log
}

func testLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.json")
	ldg, err := ledger.New(ledger.Config{Path: path, MinDeposit: 1, MinCashout: 1}, testLog())
	require.NoError(t, err)
	return ldg
}

func fund(t *testing.T, ldg *ledger.Ledger, wallet string, amount money.Amount) {
	t.Helper()
	_, err := ldg.ConfirmDeposit(wallet, "tx-"+wallet, amount)
	require.NoError(t, err)
}

func TestCrapsRuntimeJoinPlaceBetAndRollSettleAgainstTheLedger(t *testing.T) {
	ldg := testLedger(t)
	fund(t, ldg, "alice", 1000)

	table := craps.New(craps.Config{MinBet: 1, MaxBet: 1000}, testLog())
	bus := events.New(testLog())
	rt := NewCrapsRuntime(table, ldg, bus, testLog())

	require.NoError(t, rt.Join("alice"))
	_, err := rt.PlaceBet("alice", craps.PassLine, 100)
	require.NoError(t, err)
	require.Equal(t, money.Amount(900), ldg.Balance("alice"))

	_, err = rt.Roll("alice")
	require.NoError(t, err)

	// Whatever the roll's outcome, the wager either returned to the
	// balance (win/push) or stayed debited (loss) -- either way the
	// ledger must still report a coherent, non-negative balance.
	if ldg.Balance("alice") < 0 {
		t.Fatalf("balance went negative: %d", ldg.Balance("alice"))
	}
}

func TestCrapsRuntimePlaceBetRefundsOnEngineRejection(t *testing.T) {
	ldg := testLedger(t)
	fund(t, ldg, "alice", 1000)

	table := craps.New(craps.Config{MinBet: 1, MaxBet: 1000}, testLog())
	bus := events.New(testLog())
	rt := NewCrapsRuntime(table, ldg, bus, testLog())

	// Betting before joining the table is rejected by the engine; the
	// ledger debit must be rolled back rather than left stranded.
	_, err := rt.PlaceBet("alice", craps.PassLine, 100)
	require.Error(t, err)
	require.Equal(t, money.Amount(1000), ldg.Balance("alice"))
}

func TestPokerRuntimeSitStartsAHandOnceTwoSeatsAreStacked(t *testing.T) {
	ldg := testLedger(t)
	fund(t, ldg, "alice", 1000)
	fund(t, ldg, "bob", 1000)

	table := poker.New(poker.TableConfig{
		SmallBlind: 5, BigBlind: 10, MinBuyIn: 100, MaxBuyIn: 1000, MaxSeats: 6,
	}, testLog())
	bus := events.New(testLog())
	rt := NewPokerRuntime(table, ldg, bus, 30*time.Second, testLog())

	require.NoError(t, rt.Sit("alice", 0, 500))
	require.Equal(t, money.Amount(500), ldg.Balance("alice"))
	require.Equal(t, poker.PhaseWaiting, table.Phase())

	require.NoError(t, rt.Sit("bob", 1, 500))
	require.NotEqual(t, poker.PhaseWaiting, table.Phase())

	wallet, at := rt.PendingDeadline()
	if wallet == "" || at.IsZero() {
		t.Fatal("expected an action deadline to be armed once a hand starts")
	}
}

func TestPokerRuntimeExpireDeadlineAutoFoldsTheActorFacingABet(t *testing.T) {
	ldg := testLedger(t)
	fund(t, ldg, "alice", 1000)
	fund(t, ldg, "bob", 1000)

	table := poker.New(poker.TableConfig{
		SmallBlind: 5, BigBlind: 10, MinBuyIn: 100, MaxBuyIn: 1000, MaxSeats: 6,
	}, testLog())
	bus := events.New(testLog())
	rt := NewPokerRuntime(table, ldg, bus, time.Millisecond, testLog())

	require.NoError(t, rt.Sit("alice", 0, 500))
	require.NoError(t, rt.Sit("bob", 1, 500))

	wallet, _ := rt.PendingDeadline()
	require.NotEmpty(t, wallet)

	time.Sleep(2 * time.Millisecond)
	rt.ExpireDeadline(wallet)

	next, _ := rt.PendingDeadline()
	if next == wallet {
		t.Fatal("expected the deadline to move to the next seat after an auto-action")
	}
}

func TestPokerRuntimeSubscribeSpectatorSnapshotHidesHoleCardsMidHand(t *testing.T) {
	ldg := testLedger(t)
	fund(t, ldg, "alice", 1000)
	fund(t, ldg, "bob", 1000)

	table := poker.New(poker.TableConfig{
		SmallBlind: 5, BigBlind: 10, MinBuyIn: 100, MaxBuyIn: 1000, MaxSeats: 6,
	}, testLog())
	bus := events.New(testLog())
	rt := NewPokerRuntime(table, ldg, bus, 30*time.Second, testLog())

	require.NoError(t, rt.Sit("alice", 0, 500))
	require.NoError(t, rt.Sit("bob", 1, 500))
	require.Equal(t, poker.PhasePreflop, table.Phase())

	spectator := rt.Subscribe(events.RoleSpectator, "")
	snap := (<-spectator.Recv()).Payload.(PokerSnapshot)
	for _, seat := range snap.Seats {
		if len(seat.HoleCards) != 0 {
			t.Fatalf("spectator snapshot leaked hole cards for seat %d mid-hand", seat.Seat)
		}
	}

	player := rt.Subscribe(events.RolePlayer, "alice")
	playerSnap := (<-player.Recv()).Payload.(PokerSnapshot)
	for _, seat := range playerSnap.Seats {
		switch seat.Wallet {
		case "alice":
			require.NotEmpty(t, seat.HoleCards)
		case "bob":
			require.Empty(t, seat.HoleCards)
		}
	}

	operator := rt.Subscribe(events.RoleOperator, "")
	operatorSnap := (<-operator.Recv()).Payload.(PokerSnapshot)
	for _, seat := range operatorSnap.Seats {
		require.NotEmpty(t, seat.HoleCards)
	}
}

func TestPokerRuntimeFoldAroundNeverRevealsHoleCardsToSpectators(t *testing.T) {
	ldg := testLedger(t)
	fund(t, ldg, "alice", 1000)
	fund(t, ldg, "bob", 1000)

	table := poker.New(poker.TableConfig{
		SmallBlind: 5, BigBlind: 10, MinBuyIn: 100, MaxBuyIn: 1000, MaxSeats: 6,
	}, testLog())
	bus := events.New(testLog())
	rt := NewPokerRuntime(table, ldg, bus, 30*time.Second, testLog())

	require.NoError(t, rt.Sit("alice", 0, 500))
	require.NoError(t, rt.Sit("bob", 1, 500))

	// Act directly on the table (bypassing the runtime) so the
	// just-completed hand's state is still observable: rt.Act would
	// otherwise immediately deal the next hand, since both seats still
	// have chips.
	actor := table.CurrentActor()
	_, err := table.Act(actor, poker.ActionFold, 0)
	require.NoError(t, err)
	require.Equal(t, poker.PhaseComplete, table.Phase())

	// Uncontested pots never go to showdown; the winner mucks just like
	// the folding seat, so spectators see nobody's cards.
	spectator := rt.Subscribe(events.RoleSpectator, "")
	snap := (<-spectator.Recv()).Payload.(PokerSnapshot)
	for _, seat := range snap.Seats {
		require.Empty(t, seat.HoleCards, "a fold-around win must not reveal any seat's cards to spectators")
	}
}

func TestPokerRuntimeRealShowdownRevealsNonFoldedHandsToSpectators(t *testing.T) {
	ldg := testLedger(t)
	fund(t, ldg, "alice", 1000)
	fund(t, ldg, "bob", 1000)

	table := poker.New(poker.TableConfig{
		SmallBlind: 5, BigBlind: 10, MinBuyIn: 100, MaxBuyIn: 1000, MaxSeats: 6,
	}, testLog())
	bus := events.New(testLog())
	rt := NewPokerRuntime(table, ldg, bus, 30*time.Second, testLog())

	require.NoError(t, rt.Sit("alice", 0, 500))
	require.NoError(t, rt.Sit("bob", 1, 500))

	// Drive the hand to completion by always checking/calling, acting
	// directly on the table (bypassing the runtime) so it doesn't
	// immediately deal a fresh hand the instant this one completes.
	// Heads-up no-limit with no raises closes every street in at most
	// two actions.
	for i := 0; i < 20 && table.Phase() != poker.PhaseComplete; i++ {
		actor := table.CurrentActor()
		require.NotEmpty(t, actor)
		actions, err := table.ValidActions(actor)
		require.NoError(t, err)
		action := poker.ActionCheck
		var amount money.Amount
		for _, a := range actions {
			if a.Action == poker.ActionCall {
				action = poker.ActionCall
				amount = a.CallAmount
				break
			}
		}
		_, err = table.Act(actor, action, amount)
		require.NoError(t, err)
	}
	require.Equal(t, poker.PhaseComplete, table.Phase())
	require.True(t, table.ReachedShowdown())

	spectator := rt.Subscribe(events.RoleSpectator, "")
	snap := (<-spectator.Recv()).Payload.(PokerSnapshot)
	for _, seat := range snap.Seats {
		require.NotEmpty(t, seat.HoleCards, "a real showdown reveals every non-folded hand to spectators")
	}
}

func TestPokerRuntimeCashoutRequiresStandingFirst(t *testing.T) {
	ldg := testLedger(t)
	fund(t, ldg, "alice", 1000)

	table := poker.New(poker.TableConfig{
		SmallBlind: 5, BigBlind: 10, MinBuyIn: 100, MaxBuyIn: 1000, MaxSeats: 6,
	}, testLog())
	bus := events.New(testLog())
	rt := NewPokerRuntime(table, ldg, bus, 30*time.Second, testLog())

	require.NoError(t, rt.Sit("alice", 0, 500))
	_, err := rt.CashoutRequest("alice", 100, "alice")
	require.Error(t, err)
}
