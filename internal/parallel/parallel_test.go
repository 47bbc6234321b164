package parallel

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	err := For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	require.NoError(t, err)
	assert.Equal(t, int64(n), counter)
}

func TestFor_EachIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 7, MinChunkSize: 3}
	hits := make([]int32, 101)

	require.NoError(t, For(len(hits), func(i int) {
		atomic.AddInt32(&hits[i], 1)
	}, cfg))

	for i, h := range hits {
		assert.Equal(t, int32(1), h, "index %d", i)
	}
}

func TestForBlocks(t *testing.T) {
	cfg := DefaultConfig()

	x, y, z := 3, 4, 2
	results := make([]int32, x*y*z)

	err := ForBlocks(x, y, z, func(bx, by, bz int) {
		atomic.AddInt32(&results[(bz*y+by)*x+bx], 1)
	}, cfg)

	require.NoError(t, err)
	for i, r := range results {
		assert.Equal(t, int32(1), r, "block %d", i)
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var counter int64
	require.NoError(t, For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg))

	assert.Equal(t, int64(100), counter)
}

func TestFor_SmallChunk(t *testing.T) {
	// Small work units fall back to sequential.
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 64}

	var counter int64
	n := cfg.MinChunkSize - 1

	require.NoError(t, For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg))

	assert.Equal(t, int64(n), counter)
}

func TestFor_Panic(t *testing.T) {
	for _, cfg := range []Config{{Enabled: false}, {Enabled: true, NumWorkers: 4, MinChunkSize: 1}} {
		err := For(16, func(i int) {
			if i == 9 {
				panic("boom")
			}
		}, cfg)

		var pe *PanicError
		require.True(t, errors.As(err, &pe), "enabled=%v", cfg.Enabled)
		assert.Equal(t, 9, pe.Item)
		assert.Equal(t, "boom", pe.Value)
	}
}

func TestFor_Empty(t *testing.T) {
	called := false
	require.NoError(t, For(0, func(int) { called = true }, DefaultConfig()))
	assert.False(t, called)
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfgSeq)
		}
	})
}
