package pool

import (
	"sync/atomic"

	"github.com/mbraunert/asynclog/core"
)

// DefaultCacheCapacity is the per-goroutine cache size. Small enough
// that an idle cache strands little capacity, large enough that the
// refill and spill transfers amortize the pool lock.
const DefaultCacheCapacity = 32

// Cache is the local tier of the pool: a small entry reservoir owned by
// exactly one goroutine. Get and Put touch no lock on the common path;
// only the batch refill and spill transfers acquire the pool lock, once
// per transfer.
//
// A Cache must only be used by the goroutine that obtained it from
// Register, and must be closed before that goroutine exits.
type Cache struct {
	pool     *Pool
	id       uint64
	entries  []*core.Entry
	capacity int
	closed   bool
}

// Register creates a cache with the default capacity and records it in
// the pool's registry.
func (p *Pool) Register() *Cache {
	return p.RegisterSize(DefaultCacheCapacity)
}

// RegisterSize creates a cache holding up to capacity entries. A
// non-positive capacity falls back to DefaultCacheCapacity.
func (p *Pool) RegisterSize(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}

	c := &Cache{
		pool:     p,
		entries:  make([]*core.Entry, 0, capacity),
		capacity: capacity,
	}

	p.mu.Lock()
	p.nextCacheID++
	c.id = p.nextCacheID
	p.caches[c.id] = c
	p.mu.Unlock()

	return c
}

// Get returns a reset entry, serving from the local reservoir when
// possible. An empty cache refills from the global list in one locked
// transfer; if the global list is also empty a fresh entry is
// constructed.
func (c *Cache) Get() *core.Entry {
	p := c.pool
	atomic.AddUint64(&p.allocations, 1)

	if n := len(c.entries); n > 0 {
		e := c.entries[n-1]
		c.entries[n-1] = nil
		c.entries = c.entries[:n-1]

		atomic.AddUint64(&p.cacheHits, 1)
		atomic.AddInt64(&p.currentSize, -1)
		e.Reset()
		return e
	}

	c.refill()

	if n := len(c.entries); n > 0 {
		e := c.entries[n-1]
		c.entries[n-1] = nil
		c.entries = c.entries[:n-1]

		atomic.AddInt64(&p.currentSize, -1)
		e.Reset()
		return e
	}

	atomic.AddUint64(&p.created, 1)
	return new(core.Entry)
}

// Put resets the entry and stores it locally. A full cache first spills
// its entire contents to the global list under one lock acquisition,
// then keeps the freed entry in the now-empty reservoir.
func (c *Cache) Put(e *core.Entry) {
	if e == nil {
		return
	}
	p := c.pool
	e.Reset()

	if len(c.entries) >= c.capacity {
		c.spill()
	}
	c.entries = append(c.entries, e)

	atomic.AddUint64(&p.deallocations, 1)
	p.noteFreed(1)
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Close returns all cached entries to the global list and removes the
// cache from the registry. Close is idempotent; a closed cache must not
// be used again.
func (c *Cache) Close() {
	if c.closed {
		return
	}
	c.closed = true

	p := c.pool
	p.mu.Lock()
	p.free = append(p.free, c.entries...)
	delete(p.caches, c.id)
	p.mu.Unlock()

	c.entries = nil
}

// refill moves up to capacity entries from the global list into the
// cache in a single locked transaction.
func (c *Cache) refill() {
	p := c.pool

	p.mu.Lock()
	take := c.capacity
	if take > len(p.free) {
		take = len(p.free)
	}
	if take > 0 {
		from := len(p.free) - take
		c.entries = append(c.entries, p.free[from:]...)
		for i := from; i < len(p.free); i++ {
			p.free[i] = nil
		}
		p.free = p.free[:from]
	}
	p.mu.Unlock()
}

// spill moves the cache's entire contents to the global list in a
// single locked transaction.
func (c *Cache) spill() {
	p := c.pool

	p.mu.Lock()
	p.free = append(p.free, c.entries...)
	p.mu.Unlock()

	c.entries = c.entries[:0]
}
