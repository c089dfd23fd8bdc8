package events

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Handler receives events synchronously on the publisher's goroutine.
type Handler func(Event)

// Token identifies a subscription for Unsubscribe.
type Token uint64

// Bus is an in-memory pub/sub keyed by event name.
//
// Publish delivers to every matching handler in subscription order before it
// returns. A panicking handler is recovered and logged; remaining handlers
// still run and nothing the publisher already committed is touched.
type Bus struct {
	mu       sync.RWMutex
	next     Token
	handlers map[Name]map[Token]Handler
	wildcard map[Token]Handler
	log      *logrus.Entry
}

// NewBus creates an empty bus. A nil logger discards handler-panic reports.
func NewBus(log *logrus.Entry) *Bus {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Bus{
		handlers: make(map[Name]map[Token]Handler),
		wildcard: make(map[Token]Handler),
		log:      log.WithField("component", "EventBus"),
	}
}

// Subscribe registers h for events named name.
func (b *Bus) Subscribe(name Name, h Handler) Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	if b.handlers[name] == nil {
		b.handlers[name] = make(map[Token]Handler)
	}
	b.handlers[name][b.next] = h
	return b.next
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.wildcard[b.next] = h
	return b.next
}

// Unsubscribe removes a subscription and reports whether it existed.
func (b *Bus) Unsubscribe(tok Token) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.wildcard[tok]; ok {
		delete(b.wildcard, tok)
		return true
	}
	for name, hs := range b.handlers {
		if _, ok := hs[tok]; ok {
			delete(hs, tok)
			if len(hs) == 0 {
				delete(b.handlers, name)
			}
			return true
		}
	}
	return false
}

// Count returns the number of handlers that would receive an event named name.
func (b *Bus) Count(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name]) + len(b.wildcard)
}

// Publish delivers e to its subscribers.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	type sub struct {
		tok Token
		h   Handler
	}
	subs := make([]sub, 0, len(b.handlers[e.Name])+len(b.wildcard))
	for tok, h := range b.handlers[e.Name] {
		subs = append(subs, sub{tok, h})
	}
	for tok, h := range b.wildcard {
		subs = append(subs, sub{tok, h})
	}
	b.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].tok < subs[j].tok })
	for _, s := range subs {
		b.dispatch(e, s.h)
	}
}

func (b *Bus) dispatch(e Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{
				"event": e.Name,
				"panic": fmt.Sprint(r),
			}).Warn("listener panicked")
		}
	}()
	h(e)
}
