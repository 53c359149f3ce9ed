package connection

import (
	"sync"
)

// Pool keeps at most one Connection per canonical target: acquiring the
// same target concurrently always returns the same handle. Construction is
// serialized with a plain mutex rather than singleflight: unlike
// resolver.ensure, building a Connection never does network I/O (dialing is
// lazy, see Connection.ensureTransport), so there is no in-flight call worth
// collapsing, only a map write worth serializing.
type Pool struct {
	mu      sync.Mutex
	cfg     Config
	entries map[string]*Connection
}

// NewPool builds an empty pool using cfg for every Connection it creates.
func NewPool(cfg Config) *Pool {
	return &Pool{cfg: cfg, entries: make(map[string]*Connection)}
}

// Acquire returns the pool's Connection for target, creating it on first
// use. Concurrent Acquire calls for the same target never race: one caller
// creates the entry while the others block on the pool mutex and then
// observe it.
func (p *Pool) Acquire(target string) *Connection {
	key := CanonicalTarget(target)

	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.entries[key]; ok {
		return c
	}
	c := newConnection(target, p.cfg)
	p.entries[key] = c
	return c
}

// Remove drops target's entry, if any, stopping its health monitor first.
// A later Acquire for the same target builds a fresh Connection.
func (p *Pool) Remove(target string) {
	key := CanonicalTarget(target)

	p.mu.Lock()
	c, ok := p.entries[key]
	if ok {
		delete(p.entries, key)
	}
	p.mu.Unlock()

	if ok {
		c.StopMonitoring()
	}
}

// Clear removes and stops every pooled Connection.
func (p *Pool) Clear() {
	p.mu.Lock()
	entries := p.entries
	p.entries = make(map[string]*Connection)
	p.mu.Unlock()

	for _, c := range entries {
		c.StopMonitoring()
	}
}

var (
	defaultPoolOnce sync.Once
	defaultPool     *Pool
)

// DefaultPool returns the process-wide pool used by cmd/kachakactl and by
// callers that don't need a custom Dialer or Registerer. Tests and embedders
// that need isolation should build their own Pool with NewPool instead.
func DefaultPool() *Pool {
	defaultPoolOnce.Do(func() {
		defaultPool = NewPool(Config{})
	})
	return defaultPool
}
