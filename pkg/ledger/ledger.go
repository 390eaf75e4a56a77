// Package ledger is the off-chain chip ledger: per-wallet balances, the
// deposit/cashout lifecycle, and a durable append-only journal. Every
// mutating call is serialized under a single lock and must be durable
// (a full-state rewrite of the journal file) before it reports success.
package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/google/uuid"

	"github.com/feltedge/tablehouse/pkg/money"
)

// Config holds the minimums the ledger enforces at the boundary.
type Config struct {
	Path         string
	MinDeposit   money.Amount
	MinCashout   money.Amount
}

// Ledger is the off-chain chip ledger. It owns
// its own lock, independent of any table lock: callers must
// never hold a table lock while blocking on the ledger in a way that could
// deadlock, which is why every exported method here is self-contained and
// never calls back into caller code.
type Ledger struct {
	cfg Config
	log slog.Logger

	mu   sync.Mutex
	snap *snapshot
}

// New loads (or creates) a ledger backed by the journal file at cfg.Path.
func New(cfg Config, log slog.Logger) (*Ledger, error) {
	snap, err := loadSnapshot(cfg.Path)
	if err != nil {
		return nil, err
	}
	return &Ledger{cfg: cfg, log: log, snap: snap}, nil
}

// persist durably writes the current snapshot. On failure, the caller must
// roll back whatever in-memory mutation it just made — this method never
// mutates snap itself, so rollback is the caller's responsibility and is
// always a matter of undoing a single map/slice write.
func (l *Ledger) persist() error {
	if err := writeSnapshot(l.cfg.Path, l.snap); err != nil {
		l.log.Errorf("ledger: durable write failed: %v", err)
		return newErr(ErrDurableWrite, "%v", err)
	}
	return nil
}

func (l *Ledger) statsFor(w Wallet) *Stats {
	st, ok := l.snap.Stats[w]
	if !ok {
		st = &Stats{}
		l.snap.Stats[w] = st
	}
	return st
}

func (l *Ledger) append(w Wallet, kind JournalKind, amount money.Amount, ref string) *JournalEntry {
	entry := &JournalEntry{
		ID:               uuid.NewString(),
		Wallet:           w,
		Kind:             kind,
		Amount:           amount,
		ResultingBalance: l.snap.Balances[w],
		Timestamp:        time.Now(),
		Reference:        ref,
	}
	l.snap.Journal = append(l.snap.Journal, entry)
	return entry
}

// ConfirmDeposit credits wallet w with amount, idempotent on (wallet, txRef).
func (l *Ledger) ConfirmDeposit(wallet, txRef string, amount money.Amount) (*DepositRecord, error) {
	w := Normalize(wallet)
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount < l.cfg.MinDeposit {
		return nil, newErr(ErrBelowMinimum, "deposit %s below minimum %s", amount, l.cfg.MinDeposit)
	}
	for _, d := range l.snap.Deposits {
		if d.Wallet == w && d.TxRef == txRef {
			return d, nil // idempotent no-op re-submission
		}
	}

	prevBalance := l.snap.Balances[w]
	l.snap.Balances[w] = prevBalance + amount
	st := l.statsFor(w)
	st.Deposited += amount

	entry := l.append(w, KindDeposit, amount, txRef)
	rec := &DepositRecord{
		ID:          uuid.NewString(),
		Wallet:      w,
		Amount:      amount,
		TxRef:       txRef,
		ConfirmedAt: time.Now(),
	}
	l.snap.Deposits = append(l.snap.Deposits, rec)

	if err := l.persist(); err != nil {
		// roll back everything we just did
		l.snap.Balances[w] = prevBalance
		st.Deposited -= amount
		l.snap.Journal = l.snap.Journal[:len(l.snap.Journal)-1]
		l.snap.Deposits = l.snap.Deposits[:len(l.snap.Deposits)-1]
		_ = entry
		return nil, err
	}
	return rec, nil
}

// PlaceWager atomically debits wallet w by amount if the balance covers it.
// Returns false without mutation if balance < amount. The caller is
// responsible for pairing this with a settlement call; the ledger does not
// enforce pairing.
func (l *Ledger) PlaceWager(wallet string, amount money.Amount, ref string) (bool, error) {
	w := Normalize(wallet)
	l.mu.Lock()
	defer l.mu.Unlock()

	bal := l.snap.Balances[w]
	if bal < amount {
		return false, nil
	}
	l.snap.Balances[w] = bal - amount
	st := l.statsFor(w)
	st.Wagered += amount
	entry := l.append(w, KindWagerPlaced, amount, ref)

	if err := l.persist(); err != nil {
		l.snap.Balances[w] = bal
		st.Wagered -= amount
		l.snap.Journal = l.snap.Journal[:len(l.snap.Journal)-1]
		_ = entry
		return false, err
	}
	return true, nil
}

// SettleWon credits wallet w with the full return-to-player payout.
func (l *Ledger) SettleWon(wallet string, payout money.Amount, ref string) error {
	w := Normalize(wallet)
	l.mu.Lock()
	defer l.mu.Unlock()

	prevBalance := l.snap.Balances[w]
	l.snap.Balances[w] = prevBalance + payout
	st := l.statsFor(w)
	st.Won += payout
	entry := l.append(w, KindWagerWon, payout, ref)

	if err := l.persist(); err != nil {
		l.snap.Balances[w] = prevBalance
		st.Won -= payout
		l.snap.Journal = l.snap.Journal[:len(l.snap.Journal)-1]
		_ = entry
		return err
	}
	return nil
}

// SettleLost is purely informational: the stake was already debited at
// placement, so no balance change occurs here, only stats and the journal.
func (l *Ledger) SettleLost(wallet string, amount money.Amount, ref string) error {
	w := Normalize(wallet)
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.statsFor(w)
	st.Lost += amount
	entry := l.append(w, KindWagerLost, amount, ref)

	if err := l.persist(); err != nil {
		st.Lost -= amount
		l.snap.Journal = l.snap.Journal[:len(l.snap.Journal)-1]
		_ = entry
		return err
	}
	return nil
}

// SettlePushed credits the returned stake with no win/loss stat impact.
func (l *Ledger) SettlePushed(wallet string, amount money.Amount, ref string) error {
	w := Normalize(wallet)
	l.mu.Lock()
	defer l.mu.Unlock()

	prevBalance := l.snap.Balances[w]
	l.snap.Balances[w] = prevBalance + amount
	entry := l.append(w, KindWagerPushed, amount, ref)

	if err := l.persist(); err != nil {
		l.snap.Balances[w] = prevBalance
		l.snap.Journal = l.snap.Journal[:len(l.snap.Journal)-1]
		_ = entry
		return err
	}
	return nil
}

// RefundWager credits back a wager the engine could not accept after
// placement, and reverses the wagered-stats increment PlaceWager made.
func (l *Ledger) RefundWager(wallet string, amount money.Amount, ref string) error {
	w := Normalize(wallet)
	l.mu.Lock()
	defer l.mu.Unlock()

	prevBalance := l.snap.Balances[w]
	l.snap.Balances[w] = prevBalance + amount
	st := l.statsFor(w)
	st.Wagered -= amount
	entry := l.append(w, KindWagerRefunded, amount, ref)

	if err := l.persist(); err != nil {
		l.snap.Balances[w] = prevBalance
		st.Wagered += amount
		l.snap.Journal = l.snap.Journal[:len(l.snap.Journal)-1]
		_ = entry
		return err
	}
	return nil
}

// RequestCashout debits wallet w and creates a pending cashout record.
func (l *Ledger) RequestCashout(wallet string, amount money.Amount, toAddress string) (*CashoutRecord, error) {
	w := Normalize(wallet)
	l.mu.Lock()
	defer l.mu.Unlock()

	bal := l.snap.Balances[w]
	if bal < amount {
		return nil, newErr(ErrInsufficientChips, "balance %s < requested %s", bal, amount)
	}
	if amount < l.cfg.MinCashout {
		return nil, newErr(ErrBelowMinimum, "cashout %s below minimum %s", amount, l.cfg.MinCashout)
	}

	l.snap.Balances[w] = bal - amount
	st := l.statsFor(w)
	st.Withdrawn += amount
	entry := l.append(w, KindCashout, amount, toAddress)
	rec := &CashoutRecord{
		ID:          uuid.NewString(),
		Wallet:      w,
		Amount:      amount,
		ToAddress:   toAddress,
		RequestedAt: time.Now(),
		Status:      CashoutPending,
	}
	l.snap.Cashouts = append(l.snap.Cashouts, rec)

	if err := l.persist(); err != nil {
		l.snap.Balances[w] = bal
		st.Withdrawn -= amount
		l.snap.Journal = l.snap.Journal[:len(l.snap.Journal)-1]
		l.snap.Cashouts = l.snap.Cashouts[:len(l.snap.Cashouts)-1]
		_ = entry
		return nil, err
	}
	return rec, nil
}

// CompleteCashout transitions a pending/processing cashout to completed.
func (l *Ledger) CompleteCashout(id, txRef string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var rec *CashoutRecord
	for _, c := range l.snap.Cashouts {
		if c.ID == id {
			rec = c
			break
		}
	}
	if rec == nil {
		return newErr(ErrUnknownCashout, "no cashout with id %s", id)
	}

	prevStatus, prevTxRef := rec.Status, rec.TxRef
	rec.Status = CashoutCompleted
	rec.TxRef = txRef

	if err := l.persist(); err != nil {
		rec.Status = prevStatus
		rec.TxRef = prevTxRef
		return err
	}
	return nil
}

// ListPending returns all cashouts currently in pending or processing state.
func (l *Ledger) ListPending() []*CashoutRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []*CashoutRecord
	for _, c := range l.snap.Cashouts {
		if c.Status == CashoutPending || c.Status == CashoutProcessing {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out
}

// Balance returns the wallet's available chip balance.
func (l *Ledger) Balance(wallet string) money.Amount {
	w := Normalize(wallet)
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap.Balances[w]
}

// Summary returns a copy of a wallet's lifetime stats.
func (l *Ledger) Summary(wallet string) Stats {
	w := Normalize(wallet)
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.snap.Stats[w]; ok {
		return *st
	}
	return Stats{}
}

// Journal returns up to limit journal entries for a wallet (or all
// wallets if wallet is empty), most recent first.
func (l *Ledger) Journal(wallet string, limit int) []*JournalEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var w Wallet
	filterByWallet := wallet != ""
	if filterByWallet {
		w = Normalize(wallet)
	}

	var matched []*JournalEntry
	for i := len(l.snap.Journal) - 1; i >= 0; i-- {
		e := l.snap.Journal[i]
		if filterByWallet && e.Wallet != w {
			continue
		}
		matched = append(matched, e)
		if limit > 0 && len(matched) >= limit {
			break
		}
	}
	return matched
}

// HousePnL is the aggregate house profit/loss across all wallets: total
// wagered minus total won minus total pushed-back, expressed as the
// house's net (positive means the house is ahead).
type HousePnL struct {
	TotalWagered money.Amount `json:"totalWagered"`
	TotalWon     money.Amount `json:"totalWon"`
	TotalLost    money.Amount `json:"totalLost"`
	HouseNet     money.Amount `json:"houseNet"`
}

// HousePnL aggregates P&L across every wallet that has ever wagered.
func (l *Ledger) HousePnL() HousePnL {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out HousePnL
	wallets := make([]Wallet, 0, len(l.snap.Stats))
	for w := range l.snap.Stats {
		wallets = append(wallets, w)
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i] < wallets[j] })
	for _, w := range wallets {
		st := l.snap.Stats[w]
		out.TotalWagered += st.Wagered
		out.TotalWon += st.Won
		out.TotalLost += st.Lost
	}
	var pushed money.Amount
	for _, e := range l.snap.Journal {
		if e.Kind == KindWagerPushed {
			pushed += e.Amount
		}
	}
	out.HouseNet = out.TotalWagered - out.TotalWon - pushed
	return out
}
