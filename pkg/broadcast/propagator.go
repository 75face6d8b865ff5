// Package broadcast fans fresh snapshots out to live consumer contexts.
//
// Delivery is best-effort and at-most-once: a consumer that misses a
// broadcast is expected to pull full state on its own next activation, so
// no retry happens here.
package broadcast

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/notemirror/notemirror/pkg/core"
)

// Consumer is a live execution context that can display a collection and
// receive snapshot updates.
type Consumer interface {
	// ID uniquely identifies the consumer within the registry.
	ID() string

	// Origin is the consumer's location (e.g. the URL of the page it is
	// attached to), matched against per-kind patterns at broadcast time.
	Origin() string

	// Deliver hands the consumer a fresh snapshot message.
	Deliver(msg core.CacheUpdate) error
}

// Propagator keeps a registry of consumers and broadcasts collection
// updates to the ones whose origin matches the kind's patterns.
type Propagator struct {
	mu        sync.RWMutex
	consumers map[string]Consumer
	patterns  map[core.Kind][]string
	logger    *slog.Logger
}

var _ core.Broadcaster = (*Propagator)(nil)

// New creates a Propagator. patterns maps each kind to the glob patterns
// (doublestar syntax) a consumer origin must match to receive updates for
// that kind; a kind with no patterns matches every consumer.
func New(patterns map[core.Kind][]string, logger *slog.Logger) *Propagator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Propagator{
		consumers: make(map[string]Consumer),
		patterns:  patterns,
		logger:    logger,
	}
}

// Register adds (or replaces) a consumer in the registry.
func (p *Propagator) Register(c Consumer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.consumers[c.ID()] = c
}

// Unregister removes a consumer. Removing an unknown ID is a no-op.
func (p *Propagator) Unregister(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.consumers, id)
}

// ConsumerCount returns the number of registered consumers.
func (p *Propagator) ConsumerCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.consumers)
}

// Broadcast sends the fresh snapshot to every matching consumer. Each
// delivery failure is logged individually; one consumer failing never
// prevents delivery to the others and never reaches the caller.
func (p *Propagator) Broadcast(kind core.Kind, notes []core.Note) {
	msg := core.NewCacheUpdate(kind, notes)

	p.mu.RLock()
	targets := make([]Consumer, 0, len(p.consumers))
	for _, c := range p.consumers {
		targets = append(targets, c)
	}
	patterns := p.patterns[kind]
	p.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if !matches(patterns, c.Origin()) {
			continue
		}
		if err := p.deliver(c, msg); err != nil {
			p.logger.Warn("broadcast delivery failed",
				"kind", kind, "consumer", c.ID(), "error", err)
			continue
		}
		delivered++
	}

	p.logger.Debug("broadcast complete", "kind", kind, "delivered", delivered, "total", len(targets))
}

// deliver isolates one consumer's Deliver call, converting a panic into an
// error so a broken consumer cannot take the fan-out loop down.
func (p *Propagator) deliver(c Consumer, msg core.CacheUpdate) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("consumer panic: %v", r)
		}
	}()
	return c.Deliver(msg)
}

func matches(patterns []string, origin string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, origin); err == nil && ok {
			return true
		}
	}
	return false
}
