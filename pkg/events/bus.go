package events

import (
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/google/uuid"
)

// outboundCapacity bounds each subscriber's queue. A subscriber that
// falls this far behind is disconnected rather than stalling the table.
const outboundCapacity = 256

// activityRingSize bounds the public activity log kept for GET /activity.
const activityRingSize = 200

// Role is a subscriber's visibility class.
type Role string

const (
	RoleSpectator Role = "spectator"
	RolePlayer    Role = "player"
	RoleOperator  Role = "operator" // live events carry the public payload, as for a spectator; per-wallet overrides go to players only
)

// Subscriber is an opaque handle a transport holds to receive events.
// Its identity (role, wallet) is fixed at registration and never mutated.
type Subscriber struct {
	ID     string
	Role   Role
	Wallet string // normalized wallet for RolePlayer; empty otherwise

	out chan Event
	bus *Bus
}

// Recv returns the channel to drain delivered events from. The channel
// closes when the subscriber is unregistered or disconnected for
// overflow.
func (s *Subscriber) Recv() <-chan Event { return s.out }

// Close unregisters the subscriber and closes its channel.
func (s *Subscriber) Close() { s.bus.unsubscribe(s.ID) }

// Bus is a single table's event stream: a monotonic logical clock, a
// bounded activity ring served by Activity, and a set of
// live subscribers each fed through their own bounded queue.
type Bus struct {
	log slog.Logger

	mu          sync.Mutex
	seq         int64
	subscribers map[string]*Subscriber
	activity    []Event // ring buffer, oldest first
}

// New constructs an empty event bus for one table.
func New(log slog.Logger) *Bus {
	return &Bus{
		log:         log,
		subscribers: make(map[string]*Subscriber),
	}
}

// Subscribe registers a new subscriber and returns its handle. The
// caller is expected to immediately send it a snapshot event (via
// Snapshot) followed by draining Recv for the live stream.
func (b *Bus) Subscribe(role Role, wallet string) *Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &Subscriber{
		ID:     uuid.NewString(),
		Role:   role,
		Wallet: wallet,
		out:    make(chan Event, outboundCapacity),
		bus:    b,
	}
	b.subscribers[s.ID] = s
	return s
}

func (b *Bus) unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.subscribers[id]
	if !ok {
		return
	}
	delete(b.subscribers, id)
	close(s.out)
}

// Publish appends public to the activity log and delivers it to every
// spectator/operator subscriber, while delivering the wallet-specific
// override in private (if present for that subscriber's wallet) to
// player subscribers instead. It must be called with the table's own
// lock already held by the caller, so Seq assignment and subscriber
// delivery stay in per-table order.
func (b *Bus) Publish(typ Type, public any, private map[string]any) Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	ev := Event{Seq: b.seq, Type: typ, At: time.Now(), Payload: public}
	b.appendActivityLocked(ev)

	for _, s := range b.subscribers {
		out := ev
		if s.Role == RolePlayer {
			if override, ok := private[s.Wallet]; ok {
				out.Payload = override
			}
		}
		b.deliverLocked(s, out)
	}
	return ev
}

// deliverLocked enqueues ev for s, disconnecting s if its queue is full.
func (b *Bus) deliverLocked(s *Subscriber, ev Event) {
	select {
	case s.out <- ev:
	default:
		b.log.Warnf("subscriber %s overflowed, disconnecting", s.ID)
		delete(b.subscribers, s.ID)
		close(s.out)
	}
}

func (b *Bus) appendActivityLocked(ev Event) {
	b.activity = append(b.activity, ev)
	if len(b.activity) > activityRingSize {
		b.activity = b.activity[len(b.activity)-activityRingSize:]
	}
}

// Activity returns up to limit of the most recent events, oldest first.
func (b *Bus) Activity(limit int) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if limit <= 0 || limit > len(b.activity) {
		limit = len(b.activity)
	}
	start := len(b.activity) - limit
	out := make([]Event, limit)
	copy(out, b.activity[start:])
	return out
}

// Snapshot sends a one-off TypeSnapshot event directly to s, ahead of the
// live stream it will see via Recv. Used immediately after Subscribe so a
// reconnecting client need not miss any state.
func (b *Bus) Snapshot(s *Subscriber, payload any) {
	b.mu.Lock()
	seq := b.seq
	b.mu.Unlock()
	select {
	case s.out <- Event{Seq: seq, Type: TypeSnapshot, At: time.Now(), Payload: payload}:
	default:
		b.log.Warnf("subscriber %s overflowed delivering snapshot", s.ID)
	}
}

// SubscriberCount reports how many subscribers are currently connected,
// for diagnostics.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
