package queue

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mbraunert/asynclog/core"
	"github.com/mbraunert/asynclog/pool"
)

// Handler consumes one dequeued batch. It is invoked only from the
// worker goroutine and never concurrently with itself. It must not
// synchronously enqueue into the same queue in a way that could
// deadlock against a full queue in bounded-wait mode.
type Handler func(batch []*core.Entry) error

// Defaults applied by New for zero or negative Config fields.
const (
	DefaultCapacity      = 10000
	DefaultMaxBatchSize  = 100
	DefaultPoolSize      = 1000
	DefaultFlushInterval = time.Second
	DefaultFlushTimeout  = 5 * time.Second

	// enqueueWaitCeiling caps the bounded-wait overflow mode so a
	// producer is never stalled longer than this before the entry is
	// counted as dropped.
	enqueueWaitCeiling = 100 * time.Millisecond
)

// Config holds the per-instance queue configuration. Every field is
// instance state; two queues in one process can run different overflow
// policies and flush intervals.
type Config struct {
	// Capacity is the maximum number of queued entries (default 10000).
	Capacity int
	// MaxBatchSize is the most entries handed to the sink per call
	// (default 100).
	MaxBatchSize int
	// PoolSize is the initial entry pool size (default 1000).
	PoolSize int
	// DropOnOverflow selects the drop policy: producers never block on
	// a full queue. When false, producers wait up to 100ms for space
	// before the entry is dropped.
	DropOnOverflow bool
	// FlushInterval is the auto-flush period and the worker's idle wait
	// timeout. Non-positive values are ignored in favor of the default.
	FlushInterval time.Duration
	// DrainTimeout bounds the shutdown drain. Zero means the drain runs
	// until the queue is empty, however long the sink takes; entries
	// still queued when a positive budget elapses are dropped.
	DrainTimeout time.Duration
	// Fallback receives sink failure reports. Defaults to a console
	// logger on stderr at error level. It is never used on the
	// producer path.
	Fallback *zap.Logger
}

// AsyncQueue is a capacity-bounded FIFO of entries shared between any
// number of producers and one worker goroutine. See the package
// documentation for the full contract.
type AsyncQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	// ring buffer guarded by mu
	entries []*core.Entry
	head    int
	count   int

	// dispatching is set while the worker holds a dequeued batch that
	// has not yet been consumed. Guarded by mu; Flush waits on it.
	dispatching bool

	capacity      int
	maxBatch      int
	dropOnFull    bool
	flushInterval time.Duration
	drainTimeout  time.Duration

	handler  Handler
	pool     *pool.Pool
	fallback *zap.Logger
	id       string

	stopped  uint32 // atomic; permanent once set
	stopOnce sync.Once
	wg       sync.WaitGroup

	// atomic counters, readable without mu
	totalEnqueued  uint64
	totalDropped   uint64
	totalProcessed uint64
	queueSize      uint64 // mirror of count for lock-free snapshots
}

// New creates the queue, its entry pool, and starts the worker
// goroutine. A nil handler discards batches (they are still counted as
// processed and recycled).
func New(cfg Config, handler Handler) *AsyncQueue {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultPoolSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	if cfg.Fallback == nil {
		cfg.Fallback = defaultFallback()
	}
	if handler == nil {
		handler = func([]*core.Entry) error { return nil }
	}

	q := &AsyncQueue{
		entries:       make([]*core.Entry, cfg.Capacity),
		capacity:      cfg.Capacity,
		maxBatch:      cfg.MaxBatchSize,
		dropOnFull:    cfg.DropOnOverflow,
		flushInterval: cfg.FlushInterval,
		drainTimeout:  cfg.DrainTimeout,
		handler:       handler,
		pool:          pool.New(cfg.PoolSize),
		fallback:      cfg.Fallback,
		id:            uuid.New().String(),
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)

	q.wg.Add(1)
	go q.worker()

	return q
}

// ID returns the queue's instance identifier, used in fallback log
// fields and as the default metrics label.
func (q *AsyncQueue) ID() string {
	return q.id
}

// Pool returns the entry pool owned by this queue. Producers obtain
// entries here and the worker returns consumed batches to it.
func (q *AsyncQueue) Pool() *pool.Pool {
	return q.pool
}

// Enqueue appends the entry, transferring ownership to the queue, and
// returns true. It returns false and leaves ownership with the caller
// when the queue is stopped, or when the queue is full and either the
// drop policy is active or the bounded wait elapsed; in the full-queue
// cases the entry is counted as dropped.
func (q *AsyncQueue) Enqueue(e *core.Entry) bool {
	q.mu.Lock()

	if q.stoppedLocked() {
		q.mu.Unlock()
		return false
	}

	if q.count >= q.capacity {
		if q.dropOnFull {
			q.mu.Unlock()
			atomic.AddUint64(&q.totalDropped, 1)
			return false
		}
		if !q.waitNotFull() {
			q.mu.Unlock()
			atomic.AddUint64(&q.totalDropped, 1)
			return false
		}
	}

	q.entries[(q.head+q.count)%q.capacity] = e
	q.count++
	atomic.StoreUint64(&q.queueSize, uint64(q.count))
	q.mu.Unlock()

	atomic.AddUint64(&q.totalEnqueued, 1)
	q.notEmpty.Signal()
	return true
}

// waitNotFull blocks, with mu held, until space frees, the queue
// stops, or the wait ceiling elapses. It reports whether the caller
// may insert.
func (q *AsyncQueue) waitNotFull() bool {
	deadline := time.Now().Add(enqueueWaitCeiling)
	timer := time.AfterFunc(enqueueWaitCeiling, func() {
		q.mu.Lock()
		q.notFull.Broadcast()
		q.mu.Unlock()
	})
	defer timer.Stop()

	for q.count >= q.capacity && !q.stoppedLocked() {
		if !time.Now().Before(deadline) {
			return false
		}
		q.notFull.Wait()
	}
	return !q.stoppedLocked() && q.count < q.capacity
}

// DequeueBatch removes and returns up to MaxBatchSize entries without
// waiting. The returned slice may be empty. When space was freed it
// wakes one waiting producer, and when the queue became empty it wakes
// every Flush waiter.
func (q *AsyncQueue) DequeueBatch() []*core.Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return nil
	}
	batch := make([]*core.Entry, 0, min(q.count, q.maxBatch))
	return q.dequeueLocked(batch)
}

// dequeueLocked moves up to maxBatch entries into batch. Caller holds mu.
func (q *AsyncQueue) dequeueLocked(batch []*core.Entry) []*core.Entry {
	n := q.count
	if n > q.maxBatch {
		n = q.maxBatch
	}
	for i := 0; i < n; i++ {
		batch = append(batch, q.entries[q.head])
		q.entries[q.head] = nil
		q.head = (q.head + 1) % q.capacity
	}
	q.count -= n
	atomic.StoreUint64(&q.queueSize, uint64(q.count))

	if n > 0 {
		q.notFull.Signal()
	}
	if q.count == 0 {
		// Flush waiters watch for the empty transition.
		q.notFull.Broadcast()
	}
	return batch
}

// Flush signals the worker and waits, bounded by timeout (default 5s
// for non-positive values), until the queue is empty and the worker
// holds no undelivered batch, or the queue stops. It reports whether
// the drain completed in time. Delivery to the sink is not a
// durability guarantee; buffered sinks may still hold the data.
func (q *AsyncQueue) Flush(timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultFlushTimeout
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stoppedLocked() {
		return false
	}

	q.notEmpty.Signal()

	deadline := time.Now().Add(timeout)
	timer := time.AfterFunc(timeout, func() {
		q.mu.Lock()
		q.notFull.Broadcast()
		q.mu.Unlock()
	})
	defer timer.Stop()

	for (q.count > 0 || q.dispatching) && !q.stoppedLocked() {
		if !time.Now().Before(deadline) {
			return false
		}
		q.notFull.Wait()
	}
	return true
}

// Stop marks the queue stopped, wakes every waiter, and joins the
// worker after it finishes the shutdown drain. Stop is idempotent;
// concurrent callers all return once the worker has terminated.
func (q *AsyncQueue) Stop() {
	q.stopOnce.Do(func() {
		q.mu.Lock()
		atomic.StoreUint32(&q.stopped, 1)
		q.notEmpty.Broadcast()
		q.notFull.Broadcast()
		q.mu.Unlock()

		q.wg.Wait()
	})
}

// Size returns the number of queued entries.
func (q *AsyncQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// IsFull reports whether the queue is at capacity.
func (q *AsyncQueue) IsFull() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count >= q.capacity
}

// IsStopped reports whether Stop has been called.
func (q *AsyncQueue) IsStopped() bool {
	return atomic.LoadUint32(&q.stopped) == 1
}

func (q *AsyncQueue) stoppedLocked() bool {
	return atomic.LoadUint32(&q.stopped) == 1
}

// defaultFallback builds the stderr console logger used to report sink
// failures when the caller did not supply one.
func defaultFallback() *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zapcore.ErrorLevel))
}
