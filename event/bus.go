// Copyright (c) 2026 The Lockup developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package event

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/lockuplabs/lockup/log"
)

const (
	// subscriberQueueSize per-subscriber channel buffer.
	subscriberQueueSize = 64
	// replayBufferSize recent events kept for subscription backtrace.
	replayBufferSize = 1024
)

var logger = log.WithContext("pkg", "event")

// SubscriberID identifies one subscription.
type SubscriberID int

// Bus delivers ledger notifications to subscribers. Delivery is
// fire-and-forget: a subscriber with a full queue misses events rather
// than blocking the publisher.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[Type]map[SubscriberID]chan Event
	lastSubID   SubscriberID
	nextSeq     uint64
	replay      *lru.Cache
	metrics     *busMetrics
}

// NewBus creates a bus with a bounded replay buffer.
func NewBus() *Bus {
	replay, _ := lru.New(replayBufferSize)
	return &Bus{
		subscribers: make(map[Type]map[SubscriberID]chan Event),
		replay:      replay,
		metrics:     newBusMetrics(),
	}
}

// Subscribe registers for events of the given types. Empty types means
// every type.
func (b *Bus) Subscribe(types ...Type) (SubscriberID, <-chan Event) {
	if len(types) == 0 {
		types = []Type{TypeStaked, TypeWithdrawn, TypeCommitmentAdded, TypePolicyChanged, TypeBalanceUpdated}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastSubID++
	id := b.lastSubID
	ch := make(chan Event, subscriberQueueSize)
	for _, t := range types {
		if _, ok := b.subscribers[t]; !ok {
			b.subscribers[t] = make(map[SubscriberID]chan Event)
		}
		b.subscribers[t][id] = ch
	}
	b.metrics.subscribers.Add(1)
	return id, ch
}

// Unsubscribe removes the subscription and closes its channel.
func (b *Bus) Unsubscribe(id SubscriberID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var ch chan Event
	for _, subs := range b.subscribers {
		if c, ok := subs[id]; ok {
			ch = c
			delete(subs, id)
		}
	}
	if ch != nil {
		close(ch)
		b.metrics.subscribers.Add(-1)
	}
}

// Publish assigns the event a sequence number, records it in the replay
// buffer and hands it to every matching subscriber.
func (b *Bus) Publish(evt Event) Event {
	b.mu.Lock()
	b.nextSeq++
	evt.Seq = b.nextSeq
	b.replay.Add(evt.Seq, evt)
	subs := make([]chan Event, 0, len(b.subscribers[evt.Type]))
	for _, ch := range b.subscribers[evt.Type] {
		subs = append(subs, ch)
	}
	b.mu.Unlock()

	b.metrics.published.AddWithLabel(1, map[string]string{"type": string(evt.Type)})
	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
			b.metrics.dropped.Add(1)
			logger.Warn("subscriber queue full, event dropped", "type", evt.Type, "seq", evt.Seq)
		}
	}
	return evt
}

// Recent returns buffered events with Seq greater than afterSeq, oldest
// first. Events evicted from the buffer are gone, subscribers that lag
// too far behind lose history.
func (b *Bus) Recent(afterSeq uint64) []Event {
	b.mu.RLock()
	last := b.nextSeq
	b.mu.RUnlock()

	start := afterSeq + 1
	// anything older than the buffer capacity is evicted, skip straight
	// past it instead of probing every missing sequence number
	if last > replayBufferSize {
		if floor := last - replayBufferSize + 1; start < floor {
			start = floor
		}
	}
	events := make([]Event, 0)
	for seq := start; seq <= last; seq++ {
		if v, ok := b.replay.Get(seq); ok {
			events = append(events, v.(Event))
		}
	}
	return events
}

// LastSeq returns the sequence number of the most recently published event.
func (b *Bus) LastSeq() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.nextSeq
}
