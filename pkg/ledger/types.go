package ledger

import (
	"time"

	"github.com/feltedge/tablehouse/pkg/money"
)

// Wallet is a case-normalized (lower-case hex) wallet address. Normalize
// before using it as a map key anywhere in this package.
type Wallet string

// Normalize lower-cases a wallet address for use as an identity key.
func Normalize(w string) Wallet {
	return Wallet(toLower(w))
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// JournalKind enumerates the append-only entry kinds.
type JournalKind string

const (
	KindDeposit       JournalKind = "deposit"
	KindWagerPlaced   JournalKind = "wager_placed"
	KindWagerWon      JournalKind = "wager_won"
	KindWagerLost     JournalKind = "wager_lost"
	KindWagerPushed   JournalKind = "wager_pushed"
	KindWagerRefunded JournalKind = "wager_refunded"
	KindCashout       JournalKind = "cashout"
)

// JournalEntry is one append-only ledger record.
type JournalEntry struct {
	ID              string       `json:"id"`
	Wallet          Wallet       `json:"wallet"`
	Kind            JournalKind  `json:"kind"`
	Amount          money.Amount `json:"amount"`
	ResultingBalance money.Amount `json:"resultingBalance"`
	Timestamp       time.Time    `json:"timestamp"`
	Reference       string       `json:"reference"`
}

// Stats tracks per-wallet lifetime totals.
type Stats struct {
	Deposited money.Amount `json:"deposited"`
	Withdrawn money.Amount `json:"withdrawn"`
	Won       money.Amount `json:"won"`
	Lost      money.Amount `json:"lost"`
	Wagered   money.Amount `json:"wagered"`
}

// CashoutStatus enumerates a cashout record's lifecycle state.
type CashoutStatus string

const (
	CashoutPending    CashoutStatus = "pending"
	CashoutProcessing CashoutStatus = "processing"
	CashoutCompleted  CashoutStatus = "completed"
	CashoutFailed     CashoutStatus = "failed"
)

// DepositRecord is a confirmed on-chain deposit reconciled into the ledger.
type DepositRecord struct {
	ID            string       `json:"id"`
	Wallet        Wallet       `json:"wallet"`
	Amount        money.Amount `json:"amount"`
	TxRef         string       `json:"txRef"`
	ConfirmedAt   time.Time    `json:"confirmedAt"`
}

// CashoutRecord is a player's request to redeem chips for on-chain tokens.
type CashoutRecord struct {
	ID          string        `json:"id"`
	Wallet      Wallet        `json:"wallet"`
	Amount      money.Amount  `json:"amount"`
	ToAddress   string        `json:"toAddress"`
	RequestedAt time.Time     `json:"requestedAt"`
	Status      CashoutStatus `json:"status"`
	TxRef       string        `json:"txRef,omitempty"`
}

// snapshot is the full durable state of the ledger, marshalled whole on
// every mutating call.
type snapshot struct {
	Balances map[Wallet]money.Amount  `json:"balances"`
	Stats    map[Wallet]*Stats        `json:"stats"`
	Deposits []*DepositRecord         `json:"deposits"`
	Cashouts []*CashoutRecord         `json:"cashouts"`
	Journal  []*JournalEntry          `json:"journal"`
}
