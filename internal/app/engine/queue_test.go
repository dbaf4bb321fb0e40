package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/devaa4522/Vortex-Engine/internal/domain/orderbook/v1"
)

func cmdWithPrice(price float64) *orderbookv1.Command {
	return &orderbookv1.Command{
		Side: orderbookv1.SideBuy, Type: orderbookv1.OrderTypeLimit,
		Price: price, Quantity: 1,
	}
}

func TestCommandQueue_FIFO(t *testing.T) {
	q := NewCommandQueue()

	q.Push(cmdWithPrice(1))
	q.Push(cmdWithPrice(2))
	q.Push(cmdWithPrice(3))
	assert.Equal(t, 3, q.Len())

	for want := 1.0; want <= 3.0; want++ {
		cmd, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, cmd.Price)
	}
	assert.Equal(t, 0, q.Len())
}

func TestCommandQueue_PopBlocksUntilPush(t *testing.T) {
	q := NewCommandQueue()

	got := make(chan *orderbookv1.Command, 1)
	go func() {
		if cmd, ok := q.Pop(); ok {
			got <- cmd
		}
	}()

	// Give the popper time to block.
	time.Sleep(20 * time.Millisecond)
	q.Push(cmdWithPrice(42))

	select {
	case cmd := <-got:
		assert.Equal(t, 42.0, cmd.Price)
	case <-time.After(time.Second):
		t.Fatal("Pop never returned after Push")
	}
}

func TestCommandQueue_CloseWakesPoppers(t *testing.T) {
	q := NewCommandQueue()

	done := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, ok := q.Pop()
			done <- ok
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.Close()

	for i := 0; i < 2; i++ {
		select {
		case ok := <-done:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("Pop never returned after Close")
		}
	}
}

func TestCommandQueue_DrainsAfterClose(t *testing.T) {
	q := NewCommandQueue()

	q.Push(cmdWithPrice(1))
	q.Push(cmdWithPrice(2))
	q.Close()

	// Push after close is dropped.
	q.Push(cmdWithPrice(3))

	cmd, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 1.0, cmd.Price)

	cmd, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, 2.0, cmd.Price)

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestCommandQueue_ConcurrentPushers(t *testing.T) {
	q := NewCommandQueue()

	const pushers = 8
	const perPusher = 100

	var wg sync.WaitGroup
	wg.Add(pushers)
	for p := 0; p < pushers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perPusher; i++ {
				q.Push(cmdWithPrice(1))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, pushers*perPusher, q.Len())
}
