package server

import (
	"encoding/json"
	"sync"
)

const roundTopic = "round"

func auctionTopic(id string) string { return "auction:" + id }

// Event is one state update delivered to subscribers. Seq comes from the
// snapshot, so a subscriber can drop updates older than one it has sent.
type Event struct {
	Seq  uint64
	Type string
	Data []byte
}

// Broker is an in-process pub/sub for state updates, keyed by topic.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives events published to topic.
func (b *Broker) Subscribe(topic string) chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan Event]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the topic's subscribers.
func (b *Broker) Unsubscribe(topic string, ch chan Event) {
	b.mu.Lock()
	delete(b.subs[topic], ch)
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
	b.mu.Unlock()
}

// Publish JSON-encodes v and sends it to all subscribers of topic.
func (b *Broker) Publish(topic, typ string, seq uint64, v any) {
	b.publish(topic, newEvent(typ, seq, v))
}

func newEvent(typ string, seq uint64, v any) Event {
	data, _ := json.Marshal(v)
	return Event{Seq: seq, Type: typ, Data: data}
}

// seqFilter passes only events newer than the last one it passed.
// Publishers release the service lock before publishing, so concurrent
// updates can reach a subscriber out of order.
type seqFilter struct{ last uint64 }

func (f *seqFilter) fresh(ev Event) bool {
	if ev.Seq <= f.last {
		return false
	}
	f.last = ev.Seq
	return true
}

func (b *Broker) publish(topic string, ev Event) {
	b.mu.RLock()
	for ch := range b.subs[topic] {
		select {
		case ch <- ev:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
