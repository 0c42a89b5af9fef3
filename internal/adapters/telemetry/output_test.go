package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sweep/internal/adapters/telemetry"
)

type chunk struct {
	text  string
	lines int
}

type collector struct {
	mu     sync.Mutex
	chunks []chunk
}

func (c *collector) emit(text string, lines int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, chunk{text, lines})
}

func (c *collector) snapshot() []chunk {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chunk(nil), c.chunks...)
}

func TestOutputBuffer_SizeCutsAtLastLine(t *testing.T) {
	t.Parallel()
	c := &collector{}
	ob := telemetry.NewOutputBuffer(8, time.Hour, c.emit)

	_, err := ob.Write([]byte("epoch 1\nepo"))
	require.NoError(t, err)
	assert.Equal(t, []chunk{{"epoch 1\n", 1}}, c.snapshot())

	n, err := ob.Write([]byte("ch 2\nepoch 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 13, n)
	assert.Equal(t, []chunk{{"epoch 1\n", 1}, {"epoch 2\nepoch 3\n", 2}}, c.snapshot())

	require.NoError(t, ob.Close())
	assert.Len(t, c.snapshot(), 2, "nothing was pending")
}

func TestOutputBuffer_LongLine(t *testing.T) {
	t.Parallel()
	c := &collector{}
	ob := telemetry.NewOutputBuffer(4, time.Hour, c.emit)
	defer func() { _ = ob.Close() }()

	_, err := ob.Write([]byte("abcdef"))
	require.NoError(t, err)
	assert.Empty(t, c.snapshot(), "a partial line is held back")

	_, err = ob.Write([]byte("gh"))
	require.NoError(t, err)
	assert.Equal(t, []chunk{{"abcdefgh", 1}}, c.snapshot())
}

func TestOutputBuffer_Linger(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &collector{}
		ob := telemetry.NewOutputBuffer(100, 50*time.Millisecond, c.emit)
		defer func() { _ = ob.Close() }()

		_, err := ob.Write([]byte("loss 0.9\nprogress 10%"))
		require.NoError(t, err)

		time.Sleep(40 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, c.snapshot())

		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []chunk{{"loss 0.9\nprogress 10%", 2}}, c.snapshot())
	})
}

func TestOutputBuffer_Close(t *testing.T) {
	t.Parallel()
	c := &collector{}
	ob := telemetry.NewOutputBuffer(100, time.Hour, c.emit)

	_, err := ob.Write([]byte("tail"))
	require.NoError(t, err)
	require.NoError(t, ob.Close())
	require.NoError(t, ob.Close())
	assert.Equal(t, []chunk{{"tail", 1}}, c.snapshot())

	_, err = ob.Write([]byte("late"))
	require.Error(t, err)
	ob.Flush()
	assert.Len(t, c.snapshot(), 1)
}
