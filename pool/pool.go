package pool

import (
	"sync"
	"sync/atomic"

	"github.com/mbraunert/asynclog/core"
)

// DefaultInitialSize is the number of entries preallocated when no size
// is given.
const DefaultInitialSize = 1000

// Pool is a two-tier allocator for log entries: a mutex-guarded global
// free-list plus per-goroutine caches created with Register.
//
// Every entry handed out by the pool has exactly one owner until it is
// returned with Put or PutBatch. The free-list holds entries nothing
// else references.
type Pool struct {
	mu          sync.Mutex
	free        []*core.Entry
	caches      map[uint64]*Cache
	nextCacheID uint64

	// Counters below are atomic so Stats can be read lock-free.
	allocations   uint64
	deallocations uint64
	cacheHits     uint64
	created       uint64
	currentSize   int64
	peakSize      uint64
}

// Stats is a point-in-time snapshot of the pool counters. CurrentSize
// may be stale by the time it is read.
type Stats struct {
	// Allocations is the number of entries handed out.
	Allocations uint64
	// Deallocations is the number of entries returned.
	Deallocations uint64
	// CacheHits is the number of allocations served by a local cache
	// without taking the pool lock.
	CacheHits uint64
	// Created is the total number of entries ever constructed,
	// including the initial preallocation.
	Created uint64
	// CurrentSize is the number of free entries pooled across the
	// global list and all registered caches.
	CurrentSize uint64
	// PeakSize is the high-water mark of CurrentSize.
	PeakSize uint64
}

// New creates a pool with initialSize preallocated entries. A
// non-positive size falls back to DefaultInitialSize.
func New(initialSize int) *Pool {
	if initialSize <= 0 {
		initialSize = DefaultInitialSize
	}

	p := &Pool{
		free:   make([]*core.Entry, 0, initialSize),
		caches: make(map[uint64]*Cache),
	}
	for i := 0; i < initialSize; i++ {
		p.free = append(p.free, new(core.Entry))
	}
	atomic.StoreUint64(&p.created, uint64(initialSize))
	atomic.StoreInt64(&p.currentSize, int64(initialSize))
	atomic.StoreUint64(&p.peakSize, uint64(initialSize))
	return p
}

// Get returns a reset entry, taking the global lock. Producers that own
// a goroutine for many allocations should prefer a registered Cache.
func (p *Pool) Get() *core.Entry {
	atomic.AddUint64(&p.allocations, 1)

	p.mu.Lock()
	if n := len(p.free); n > 0 {
		e := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		p.mu.Unlock()

		atomic.AddInt64(&p.currentSize, -1)
		e.Reset()
		return e
	}
	p.mu.Unlock()

	// Both tiers empty: grow. The pool trades a hard cap for the
	// guarantee that an allocation never fails.
	atomic.AddUint64(&p.created, 1)
	return new(core.Entry)
}

// Put resets the entry and returns it to the global free-list.
func (p *Pool) Put(e *core.Entry) {
	if e == nil {
		return
	}
	e.Reset()

	p.mu.Lock()
	p.free = append(p.free, e)
	p.mu.Unlock()

	atomic.AddUint64(&p.deallocations, 1)
	p.noteFreed(1)
}

// GetBatch returns n reset entries using at most one lock acquisition,
// constructing fresh entries for any shortfall in the free-list.
func (p *Pool) GetBatch(n int) []*core.Entry {
	if n <= 0 {
		return nil
	}
	batch := make([]*core.Entry, 0, n)

	p.mu.Lock()
	take := n
	if take > len(p.free) {
		take = len(p.free)
	}
	if take > 0 {
		from := len(p.free) - take
		batch = append(batch, p.free[from:]...)
		for i := from; i < len(p.free); i++ {
			p.free[i] = nil
		}
		p.free = p.free[:from]
	}
	p.mu.Unlock()

	atomic.AddUint64(&p.allocations, uint64(n))
	if take > 0 {
		atomic.AddInt64(&p.currentSize, -int64(take))
	}
	for _, e := range batch {
		e.Reset()
	}
	for len(batch) < n {
		atomic.AddUint64(&p.created, 1)
		batch = append(batch, new(core.Entry))
	}
	return batch
}

// PutBatch resets the entries and returns them to the global free-list
// under a single lock acquisition. Nil entries are skipped.
func (p *Pool) PutBatch(entries []*core.Entry) {
	kept := 0
	for _, e := range entries {
		if e == nil {
			continue
		}
		e.Reset()
		entries[kept] = e
		kept++
	}
	if kept == 0 {
		return
	}

	p.mu.Lock()
	p.free = append(p.free, entries[:kept]...)
	p.mu.Unlock()

	atomic.AddUint64(&p.deallocations, uint64(kept))
	p.noteFreed(kept)
}

// Stats returns a snapshot of the pool counters without taking the
// pool lock.
func (p *Pool) Stats() Stats {
	return Stats{
		Allocations:   atomic.LoadUint64(&p.allocations),
		Deallocations: atomic.LoadUint64(&p.deallocations),
		CacheHits:     atomic.LoadUint64(&p.cacheHits),
		Created:       atomic.LoadUint64(&p.created),
		CurrentSize:   uint64(atomic.LoadInt64(&p.currentSize)),
		PeakSize:      atomic.LoadUint64(&p.peakSize),
	}
}

// ResetStats zeroes the monotonic counters and rebases the high-water
// mark on the current size. Created and CurrentSize track live state
// and are not reset.
func (p *Pool) ResetStats() {
	atomic.StoreUint64(&p.allocations, 0)
	atomic.StoreUint64(&p.deallocations, 0)
	atomic.StoreUint64(&p.cacheHits, 0)
	atomic.StoreUint64(&p.peakSize, uint64(atomic.LoadInt64(&p.currentSize)))
}

// FreeLen returns the length of the global free-list.
func (p *Pool) FreeLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// CacheCount returns the number of registered caches.
func (p *Pool) CacheCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.caches)
}

// noteFreed bumps the free count and ratchets the high-water mark.
func (p *Pool) noteFreed(n int) {
	size := uint64(atomic.AddInt64(&p.currentSize, int64(n)))
	for {
		peak := atomic.LoadUint64(&p.peakSize)
		if size <= peak || atomic.CompareAndSwapUint64(&p.peakSize, peak, size) {
			return
		}
	}
}
