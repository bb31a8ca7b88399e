package cache

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IvanBrykalov/ttlru/policy"
	"github.com/IvanBrykalov/ttlru/policy/ttl"
)

// benchmarkMix exercises a read/write mix against a warm cache.
// It uses parallel workers (RunParallel spawns GOMAXPROCS goroutines).
// String keys include strconv/concat costs and often allocate, which is fine
// for an end-to-end benchmark.
func benchmarkMix(b *testing.B, pol policy.Policy[string], perKeyTTL time.Duration, readsPct int) {
	c, err := New[string](Options[string]{
		Capacity:           100_000,
		Policy:             pol,
		DefaultTTL:         perKeyTTL,
		DisableAutoCleanup: true,
	})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = c.Close() })

	// Preload half the capacity to get a realistic hit-rate.
	for i := 0; i < 50_000; i++ {
		k := "k:" + strconv.Itoa(i)
		_ = c.Set(k, "v")
	}

	// Report per-op allocations for a rough idea where costs go.
	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1 // hot keyspace (power of two for fast &-mask)

	b.RunParallel(func(pb *testing.PB) {
		// Independent RNG stream for each worker.
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := "k:" + strconv.Itoa(i&keyMask)
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				_ = c.Set(k, "v")
			}
			i++
		}
	})
}

func BenchmarkLRU_90r10w(b *testing.B) { benchmarkMix(b, nil, 0, 90) }
func BenchmarkLRU_50r50w(b *testing.B) { benchmarkMix(b, nil, 0, 50) }

// The TTL policy adds O(log n) heap maintenance on writes; comparing both
// policies on an identical workload shows that cost directly.
func BenchmarkTTL_90r10w(b *testing.B) { benchmarkMix(b, ttl.New[string](), time.Hour, 90) }
func BenchmarkTTL_50r50w(b *testing.B) { benchmarkMix(b, ttl.New[string](), time.Hour, 50) }

// BenchmarkCleanup measures a sweep over a cache where half the entries are
// expired, per policy (targeted heap pops vs full scan).
func benchmarkCleanup(b *testing.B, pol policy.Policy[int]) {
	clk := &fakeClock{t: 1}
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		clk.t = 1
		c, err := New[int](Options[int]{
			Capacity:           20_000,
			Policy:             pol,
			Clock:              clk,
			DisableAutoCleanup: true,
		})
		if err != nil {
			b.Fatal(err)
		}
		for j := 0; j < 20_000; j++ {
			d := time.Hour
			if j%2 == 0 {
				d = time.Millisecond
			}
			_ = c.SetWithTTL("k:"+strconv.Itoa(j), j, d)
		}
		clk.add(time.Second)
		b.StartTimer()

		if removed := c.Cleanup(); removed != 10_000 {
			b.Fatalf("removed %d, want 10000", removed)
		}
		b.StopTimer()
		_ = c.Close()
		b.StartTimer()
	}
}

func BenchmarkCleanup_FullScan(b *testing.B) { benchmarkCleanup(b, nil) }
func BenchmarkCleanup_Heap(b *testing.B)     { benchmarkCleanup(b, ttl.New[int]()) }
