// pkg/debounce/debounce_test.go

package debounce

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_NextSupersedes(t *testing.T) {
	g := NewGate(context.Background())

	first := g.Next()
	assert.True(t, g.Current(first))
	assert.NoError(t, first.Ctx.Err())

	second := g.Next()
	assert.False(t, g.Current(first))
	assert.True(t, g.Current(second))
	assert.ErrorIs(t, first.Ctx.Err(), context.Canceled)
	assert.NoError(t, second.Ctx.Err())
	assert.Greater(t, second.Gen, first.Gen)
}

func TestGate_ZeroTicketNeverCurrent(t *testing.T) {
	g := NewGate(nil)
	assert.False(t, g.Current(Ticket{}))
	assert.False(t, g.Do(Ticket{}, func() { t.Fatal("must not run") }))
}

func TestGate_DoDropsStale(t *testing.T) {
	g := NewGate(context.Background())
	stale := g.Next()
	fresh := g.Next()

	var ran []uint64
	assert.False(t, g.Do(stale, func() { ran = append(ran, stale.Gen) }))
	assert.True(t, g.Do(fresh, func() { ran = append(ran, fresh.Gen) }))
	assert.Equal(t, []uint64{fresh.Gen}, ran)
}

func TestGate_Stop(t *testing.T) {
	g := NewGate(context.Background())
	tk := g.Next()
	g.Stop()

	assert.False(t, g.Current(tk))
	assert.ErrorIs(t, tk.Ctx.Err(), context.Canceled)

	// usable after Stop
	again := g.Next()
	assert.True(t, g.Current(again))
}

func TestGate_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	g := NewGate(parent)
	tk := g.Next()
	cancel()
	assert.ErrorIs(t, tk.Ctx.Err(), context.Canceled)
}

func TestGate_ConcurrentLatestWins(t *testing.T) {
	g := NewGate(context.Background())

	var wg sync.WaitGroup
	tickets := make(chan Ticket, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tickets <- g.Next()
		}()
	}
	wg.Wait()
	close(tickets)

	current := 0
	for tk := range tickets {
		if g.Current(tk) {
			current++
		}
	}
	assert.Equal(t, 1, current)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)
	done := make(chan struct{}, 10)

	d := New(context.Background(), 40*time.Millisecond, func(_ Ticket, v string) {
		mu.Lock()
		calls = append(calls, v)
		mu.Unlock()
		done <- struct{}{}
	})
	defer d.Stop()

	for _, v := range []string{"p", "pa", "pas", "pass"} {
		d.Trigger(v)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never happened")
	}
	// give a stray second call time to show up
	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"pass"}, calls)
}

func TestDebouncer_SeparateWindowsBothFire(t *testing.T) {
	var n atomic.Int32
	done := make(chan string, 4)
	d := New(context.Background(), 10*time.Millisecond, func(_ Ticket, v string) {
		n.Add(1)
		done <- v
	})
	defer d.Stop()

	d.Trigger("a")
	assert.Equal(t, "a", <-done)
	d.Trigger("b")
	assert.Equal(t, "b", <-done)
	assert.Equal(t, int32(2), n.Load())
}

func TestDebouncer_StaleResultDropped(t *testing.T) {
	release := make(chan struct{})
	published := make(chan string, 2)

	var d *Debouncer[string]
	d = New(context.Background(), time.Millisecond, func(tk Ticket, v string) {
		if v == "slow" {
			<-release // a newer trigger arrives while this one is in flight
		}
		d.Gate().Do(tk, func() { published <- v })
	})
	defer d.Stop()

	slow := d.Trigger("slow")
	time.Sleep(20 * time.Millisecond) // slow is now running

	d.Trigger("fast")
	require.Equal(t, "fast", <-published)
	assert.ErrorIs(t, slow.Ctx.Err(), context.Canceled)

	close(release)
	select {
	case v := <-published:
		t.Fatalf("stale result %q was published", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	var n atomic.Int32
	d := New(context.Background(), 20*time.Millisecond, func(Ticket, int) { n.Add(1) })

	tk := d.Trigger(1)
	d.Stop()
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, int32(0), n.Load())
	assert.ErrorIs(t, tk.Ctx.Err(), context.Canceled)
}

func TestDebouncer_FlushRunsPendingNow(t *testing.T) {
	var got []string
	d := New(context.Background(), time.Hour, func(_ Ticket, v string) {
		got = append(got, v)
	})
	defer d.Stop()

	d.Trigger("a")
	d.Trigger("ab")
	d.Flush()
	assert.Equal(t, []string{"ab"}, got)

	// nothing pending: a second Flush is a no-op
	d.Flush()
	assert.Equal(t, []string{"ab"}, got)
}

func TestDebouncer_FlushWaitsForRunningCall(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	d := New(context.Background(), time.Millisecond, func(Ticket, int) {
		close(started)
		time.Sleep(30 * time.Millisecond)
		finished.Store(true)
	})
	defer d.Stop()

	d.Trigger(1)
	<-started
	d.Flush()
	assert.True(t, finished.Load())
}
