package benchmark

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/mbraunert/asynclog/core"
	"github.com/mbraunert/asynclog/formatter"
	"github.com/mbraunert/asynclog/logger"
	"github.com/mbraunert/asynclog/pool"
	"github.com/mbraunert/asynclog/queue"
	"github.com/mbraunert/asynclog/sink"
)

var sinkBytes []byte

// Benchmark logger creation
func BenchmarkLoggerCreation(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l := logger.NewBuilder().
			WithSink(noopSink{}).
			WithLevel(core.InfoLevel).
			Synchronous().
			Build()
		_ = l.Close()
	}
}

// Benchmark the disabled-level fast path
func BenchmarkDisabledLevel(b *testing.B) {
	l := logger.NewBuilder().
		WithSink(noopSink{}).
		WithLevel(core.ErrorLevel).
		Synchronous().
		Build()
	defer l.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Debugf("dropped %d", i)
	}
}

// Benchmark synchronous logging to a discarding console sink
func BenchmarkSyncConsole(b *testing.B) {
	s := sink.NewConsoleSink(sink.ConsoleConfig{
		Out:       io.Discard,
		ErrOut:    io.Discard,
		Formatter: formatter.NewTextFormatter(),
	})
	l := logger.NewBuilder().
		WithSink(s).
		WithLevel(core.InfoLevel).
		Synchronous().
		Build()
	defer l.Close()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("benchmark message")
	}
}

// Benchmark async enqueue with the worker consuming into a no-op sink
func BenchmarkAsyncNoop(b *testing.B) {
	l := logger.NewBuilder().
		WithSink(noopSink{}).
		WithLevel(core.InfoLevel).
		WithQueue(queue.Config{Capacity: 1 << 16, PoolSize: 1 << 12}).
		Build()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.Info("benchmark message")
	}
	b.StopTimer()
	l.Flush(30 * time.Second)
	l.Close()
}

// Benchmark async enqueue from parallel producers
func BenchmarkAsyncNoopParallel(b *testing.B) {
	l := logger.NewBuilder().
		WithSink(noopSink{}).
		WithLevel(core.InfoLevel).
		WithQueue(queue.Config{Capacity: 1 << 16, PoolSize: 1 << 12}).
		Build()

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.Info("benchmark message")
		}
	})
	b.StopTimer()
	l.Flush(30 * time.Second)
	l.Close()
}

// Benchmark the pool's global path (no goroutine cache)
func BenchmarkPoolGetPut(b *testing.B) {
	p := pool.New(1024)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		e := p.Get()
		e.SetMessage("benchmark message")
		p.Put(e)
	}
}

// Benchmark the pool through a goroutine-local cache
func BenchmarkPoolCacheGetPut(b *testing.B) {
	p := pool.New(1024)

	b.RunParallel(func(pb *testing.PB) {
		c := p.Register()
		defer c.Close()
		for pb.Next() {
			e := c.Get()
			e.SetMessage("benchmark message")
			c.Put(e)
		}
	})
}

// Benchmark text formatting alone
func BenchmarkTextFormat(b *testing.B) {
	f := formatter.NewTextFormatter()
	var e core.Entry
	e.Reset()
	e.Level = core.InfoLevel
	e.SetMessage("benchmark message")
	e.SetTime(core.FormatTimestamp(time.Now()))
	e.SetFile("main.go")
	e.Line = 42

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		out, err := f.Format(&e)
		if err != nil {
			b.Fatal(err)
		}
		sinkBytes = out
	}
}

// Benchmark a full produce/consume cycle under contention
func BenchmarkEndToEnd(b *testing.B) {
	const producers = 8

	l := logger.NewBuilder().
		WithSink(noopSink{}).
		WithLevel(core.InfoLevel).
		WithQueue(queue.Config{Capacity: 1 << 14, PoolSize: 1 << 12}).
		Build()

	b.ResetTimer()
	b.ReportAllocs()

	var wg sync.WaitGroup
	per := b.N / producers
	if per == 0 {
		per = 1
	}
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				l.Info("benchmark message")
			}
		}()
	}
	wg.Wait()

	b.StopTimer()
	l.Flush(30 * time.Second)
	l.Close()
}
