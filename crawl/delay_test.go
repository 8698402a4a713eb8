package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/catalog/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomDelay_Next(t *testing.T) {
	t.Parallel()

	t.Run("stays within bounds", func(t *testing.T) {
		t.Parallel()

		d := &crawl.RandomDelay{Min: crawl.DefaultMinDelay, Max: crawl.DefaultMaxDelay}

		for range 1000 {
			got := d.Next()
			assert.GreaterOrEqual(t, got, crawl.DefaultMinDelay)
			assert.LessOrEqual(t, got, crawl.DefaultMaxDelay)
		}
	})

	t.Run("inverted bounds use the minimum", func(t *testing.T) {
		t.Parallel()

		d := &crawl.RandomDelay{Min: time.Second, Max: time.Millisecond}

		assert.Equal(t, time.Second, d.Next())
	})
}

func TestRandomDelay_Delay(t *testing.T) {
	t.Parallel()

	t.Run("sleeps", func(t *testing.T) {
		t.Parallel()

		d := &crawl.RandomDelay{Min: 20 * time.Millisecond, Max: 30 * time.Millisecond}

		start := time.Now()
		err := d.Delay(context.Background())

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("returns early when the context is canceled", func(t *testing.T) {
		t.Parallel()

		d := &crawl.RandomDelay{Min: time.Minute, Max: time.Minute}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		err := d.Delay(ctx)

		require.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestNewRandomDelay(t *testing.T) {
	t.Parallel()

	t.Run("keeps the bounds", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewRandomDelay(time.Second, 2*time.Second)

		assert.Equal(t, &crawl.RandomDelay{Min: time.Second, Max: 2 * time.Second}, d)
	})

	t.Run("zero maximum never pauses", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewRandomDelay(0, 0)

		assert.IsType(t, crawl.DelayFunc(nil), d)
		require.NoError(t, d.Delay(context.Background()))
	})
}

func TestNoDelay(t *testing.T) {
	t.Parallel()

	require.NoError(t, crawl.NoDelay.Delay(context.Background()))
}
