package ledger

import (
	"path/filepath"
	"testing"

	"github.com/decred/slog"

	"github.com/feltedge/tablehouse/pkg/money"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.json")
	l, err := New(Config{Path: path, MinDeposit: 1000, MinCashout: 1000}, slog.Disabled)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestConfirmDepositCreditsAndIsIdempotent(t *testing.T) {
	l := testLedger(t)
	rec, err := l.ConfirmDeposit("0xABC", "tx1", 1_000_000)
	if err != nil {
		t.Fatalf("ConfirmDeposit: %v", err)
	}
	if l.Balance("0xabc") != 1_000_000 {
		t.Fatalf("balance not credited")
	}
	rec2, err := l.ConfirmDeposit("0xabc", "tx1", 1_000_000)
	if err != nil {
		t.Fatalf("ConfirmDeposit idempotent: %v", err)
	}
	if rec.ID != rec2.ID {
		t.Fatalf("expected idempotent re-submission to return the same record")
	}
	if l.Balance("0xabc") != 1_000_000 {
		t.Fatalf("balance must not double credit on resubmission")
	}
}

func TestConfirmDepositBelowMinimum(t *testing.T) {
	l := testLedger(t)
	_, err := l.ConfirmDeposit("0xabc", "tx1", 1)
	if err == nil {
		t.Fatal("expected below_minimum error")
	}
	lerr := err.(*Error)
	if lerr.Kind != ErrBelowMinimum {
		t.Fatalf("got kind %v", lerr.Kind)
	}
}

func TestPlaceWagerInsufficientBalanceNoMutation(t *testing.T) {
	l := testLedger(t)
	ok, err := l.PlaceWager("0xabc", 100, "ref1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected false: insufficient balance")
	}
	if l.Balance("0xabc") != 0 {
		t.Fatal("balance must be unchanged on rejected wager")
	}
}

func TestPlaceWagerThenRefundRestoresBalanceAndStats(t *testing.T) {
	l := testLedger(t)
	if _, err := l.ConfirmDeposit("0xabc", "tx1", 1_000_000); err != nil {
		t.Fatal(err)
	}
	before := l.Summary("0xabc")

	ok, err := l.PlaceWager("0xabc", 100_000, "ref1")
	if err != nil || !ok {
		t.Fatalf("PlaceWager: ok=%v err=%v", ok, err)
	}
	if l.Balance("0xabc") != 900_000 {
		t.Fatalf("balance after wager: %v", l.Balance("0xabc"))
	}

	if err := l.RefundWager("0xabc", 100_000, "ref1"); err != nil {
		t.Fatal(err)
	}
	if l.Balance("0xabc") != 1_000_000 {
		t.Fatalf("balance not restored: %v", l.Balance("0xabc"))
	}
	after := l.Summary("0xabc")
	if after.Wagered != before.Wagered {
		t.Fatalf("wagered stat not reversed: before=%v after=%v", before.Wagered, after.Wagered)
	}
}

func TestSettleLostDoesNotChangeBalance(t *testing.T) {
	l := testLedger(t)
	if _, err := l.ConfirmDeposit("0xabc", "tx1", 1_000_000); err != nil {
		t.Fatal(err)
	}
	if ok, err := l.PlaceWager("0xabc", 100_000, "ref1"); err != nil || !ok {
		t.Fatalf("PlaceWager: %v %v", ok, err)
	}
	balAfterWager := l.Balance("0xabc")
	if err := l.SettleLost("0xabc", 100_000, "ref1"); err != nil {
		t.Fatal(err)
	}
	if l.Balance("0xabc") != balAfterWager {
		t.Fatalf("SettleLost must not change balance")
	}
}

func TestRequestCashoutInsufficientChips(t *testing.T) {
	l := testLedger(t)
	_, err := l.RequestCashout("0xabc", 5000, "0xdest")
	if err == nil {
		t.Fatal("expected insufficient_chips")
	}
	if err.(*Error).Kind != ErrInsufficientChips {
		t.Fatalf("got kind %v", err.(*Error).Kind)
	}
}

func TestCashoutLifecycle(t *testing.T) {
	l := testLedger(t)
	if _, err := l.ConfirmDeposit("0xabc", "tx1", 1_000_000); err != nil {
		t.Fatal(err)
	}
	rec, err := l.RequestCashout("0xabc", 500_000, "0xdest")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != CashoutPending {
		t.Fatalf("expected pending, got %v", rec.Status)
	}
	if l.Balance("0xabc") != 500_000 {
		t.Fatalf("balance not debited: %v", l.Balance("0xabc"))
	}
	if err := l.CompleteCashout(rec.ID, "chaintx1"); err != nil {
		t.Fatal(err)
	}
	pending := l.ListPending()
	for _, p := range pending {
		if p.ID == rec.ID {
			t.Fatal("completed cashout still listed as pending")
		}
	}
}

func TestJournalBalanceInvariant(t *testing.T) {
	l := testLedger(t)
	if _, err := l.ConfirmDeposit("0xabc", "tx1", 1_000_000); err != nil {
		t.Fatal(err)
	}
	if ok, _ := l.PlaceWager("0xabc", 100_000, "ref1"); !ok {
		t.Fatal("wager rejected")
	}
	if err := l.SettleWon("0xabc", 200_000, "ref1"); err != nil {
		t.Fatal(err)
	}

	var computed money.Amount
	credits := map[JournalKind]bool{KindDeposit: true, KindWagerWon: true, KindWagerPushed: true, KindWagerRefunded: true}
	debits := map[JournalKind]bool{KindWagerPlaced: true, KindCashout: true}
	for _, e := range l.Journal("0xabc", 0) {
		if credits[e.Kind] {
			computed += e.Amount
		} else if debits[e.Kind] {
			computed -= e.Amount
		}
	}
	if computed != l.Balance("0xabc") {
		t.Fatalf("invariant violated: journal-derived=%v actual=%v", computed, l.Balance("0xabc"))
	}
}

func TestPersistenceAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	l1, err := New(Config{Path: path, MinDeposit: 1000, MinCashout: 1000}, slog.Disabled)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l1.ConfirmDeposit("0xabc", "tx1", 1_000_000); err != nil {
		t.Fatal(err)
	}
	if ok, _ := l1.PlaceWager("0xabc", 50_000, "ref1"); !ok {
		t.Fatal("wager rejected")
	}
	if err := l1.SettleWon("0xabc", 100_000, "ref1"); err != nil {
		t.Fatal(err)
	}

	l2, err := New(Config{Path: path, MinDeposit: 1000, MinCashout: 1000}, slog.Disabled)
	if err != nil {
		t.Fatal(err)
	}
	if l2.Balance("0xabc") != l1.Balance("0xabc") {
		t.Fatalf("balance mismatch after restart: %v != %v", l2.Balance("0xabc"), l1.Balance("0xabc"))
	}
	if len(l2.Journal("0xabc", 0)) != len(l1.Journal("0xabc", 0)) {
		t.Fatalf("journal length mismatch after restart")
	}
}
