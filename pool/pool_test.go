package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbraunert/asynclog/core"
)

func TestNew_Preallocates(t *testing.T) {
	p := New(10)

	assert.Equal(t, 10, p.FreeLen())

	st := p.Stats()
	assert.Equal(t, uint64(10), st.Created)
	assert.Equal(t, uint64(10), st.CurrentSize)
	assert.Equal(t, uint64(10), st.PeakSize)
	assert.Zero(t, st.Allocations)
}

func TestGetPut_Roundtrip(t *testing.T) {
	p := New(2)

	e := p.Get()
	require.NotNil(t, e)
	assert.Equal(t, 1, p.FreeLen())

	e.SetMessage("in flight")
	p.Put(e)
	assert.Equal(t, 2, p.FreeLen())

	// The recycled entry must come back reset.
	e2 := p.Get()
	assert.Zero(t, e2.MessageLen())

	st := p.Stats()
	assert.Equal(t, uint64(2), st.Allocations)
	assert.Equal(t, uint64(1), st.Deallocations)
}

func TestGet_GrowsWhenEmpty(t *testing.T) {
	p := New(1)

	e1 := p.Get()
	e2 := p.Get() // free-list empty, must construct
	require.NotNil(t, e2)

	st := p.Stats()
	assert.Equal(t, uint64(2), st.Created)
	assert.Equal(t, uint64(2), st.Allocations)

	p.Put(e1)
	p.Put(e2)
	assert.Equal(t, uint64(2), p.Stats().CurrentSize)
}

func TestGetBatch_PutBatch(t *testing.T) {
	p := New(4)

	batch := p.GetBatch(6)
	require.Len(t, batch, 6)
	for _, e := range batch {
		require.NotNil(t, e)
	}
	assert.Equal(t, 0, p.FreeLen())

	st := p.Stats()
	assert.Equal(t, uint64(6), st.Allocations)
	assert.Equal(t, uint64(6), st.Created) // 4 preallocated + 2 grown

	p.PutBatch(batch)
	assert.Equal(t, 6, p.FreeLen())
	assert.Equal(t, uint64(6), p.Stats().Deallocations)
}

func TestPutBatch_SkipsNil(t *testing.T) {
	p := New(0)

	e := p.Get()
	p.PutBatch([]*core.Entry{nil, e, nil})

	assert.Equal(t, uint64(1), p.Stats().Deallocations)
}

func TestConservation(t *testing.T) {
	p := New(8)

	inFlight := p.GetBatch(5)
	c := p.Register()
	cached := make([]*core.Entry, 0, 3)
	for i := 0; i < 3; i++ {
		cached = append(cached, c.Get())
	}
	for _, e := range cached {
		c.Put(e)
	}

	st := p.Stats()
	total := uint64(p.FreeLen()+c.Len()) + (st.Allocations - st.Deallocations)
	assert.Equal(t, st.Created, total,
		"free + cached + in-flight must equal every entry ever created")

	p.PutBatch(inFlight)
	c.Close()

	st = p.Stats()
	assert.Equal(t, st.Created, uint64(p.FreeLen()),
		"after quiescence every entry must be back in the global list")
	assert.Equal(t, st.Allocations, st.Deallocations)
}

func TestPeakSize(t *testing.T) {
	p := New(2)

	batch := p.GetBatch(10)
	p.PutBatch(batch)

	st := p.Stats()
	assert.Equal(t, uint64(10), st.CurrentSize)
	assert.Equal(t, uint64(10), st.PeakSize)
}

func TestResetStats(t *testing.T) {
	p := New(2)
	p.Put(p.Get())
	p.ResetStats()

	st := p.Stats()
	assert.Zero(t, st.Allocations)
	assert.Zero(t, st.Deallocations)
	assert.Zero(t, st.CacheHits)
	assert.Equal(t, st.CurrentSize, st.PeakSize)
	assert.Equal(t, uint64(2), st.Created, "Created tracks live state and survives reset")
}

func TestConcurrentGetPut(t *testing.T) {
	p := New(64)

	const goroutines = 8
	const rounds = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				e := p.Get()
				e.SetMessage("concurrent")
				p.Put(e)
			}
		}()
	}
	wg.Wait()

	st := p.Stats()
	assert.Equal(t, uint64(goroutines*rounds), st.Allocations)
	assert.Equal(t, st.Allocations, st.Deallocations)
	assert.Equal(t, st.Created, uint64(p.FreeLen()))
}

func BenchmarkPool_GetPut(b *testing.B) {
	p := New(64)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.Put(p.Get())
	}
}

func BenchmarkPool_GetPutParallel(b *testing.B) {
	p := New(1024)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			p.Put(p.Get())
		}
	})
}
