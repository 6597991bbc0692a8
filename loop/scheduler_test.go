package loop_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plus3/blockfall/loop"
	"github.com/stretchr/testify/assert"
)

type countingSystem struct {
	ExecuteCount int
	Deltas       []time.Duration
}

func (s *countingSystem) Execute(frame *loop.Frame) {
	s.ExecuteCount++
	s.Deltas = append(s.Deltas, frame.DeltaTime)
}

type orderSystem struct {
	name string
	log  *[]string
}

func (s *orderSystem) Execute(frame *loop.Frame) {
	*s.log = append(*s.log, s.name)
}

func TestScheduler(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("system execution order", func(t *testing.T) {
		var calls []string
		scheduler := loop.NewScheduler()
		scheduler.Register(&orderSystem{name: "first", log: &calls})
		scheduler.Register(&orderSystem{name: "second", log: &calls})

		scheduler.Once(base)
		scheduler.Once(base.Add(time.Millisecond))

		assert.Equal(t, []string{"first", "second", "first", "second"}, calls)
	})

	t.Run("delta time between frames", func(t *testing.T) {
		counter := &countingSystem{}
		scheduler := loop.NewScheduler()
		scheduler.Register(counter)

		scheduler.Once(base)
		scheduler.Once(base.Add(16 * time.Millisecond))
		scheduler.Once(base.Add(50 * time.Millisecond))

		assert.Equal(t, 3, counter.ExecuteCount)
		assert.Equal(t, []time.Duration{0, 16 * time.Millisecond, 34 * time.Millisecond}, counter.Deltas)
	})

	t.Run("resync discards elapsed time", func(t *testing.T) {
		counter := &countingSystem{}
		scheduler := loop.NewScheduler()
		scheduler.Register(counter)

		scheduler.Once(base)
		scheduler.Resync(base.Add(time.Hour))
		scheduler.Once(base.Add(time.Hour + 20*time.Millisecond))

		assert.Equal(t, 20*time.Millisecond, counter.Deltas[1])
	})

	t.Run("clock going backwards yields zero delta", func(t *testing.T) {
		counter := &countingSystem{}
		scheduler := loop.NewScheduler()
		scheduler.Register(counter)

		scheduler.Once(base)
		scheduler.Once(base.Add(-time.Second))

		assert.Equal(t, time.Duration(0), counter.Deltas[1])
	})

	t.Run("deferred commands run after all systems", func(t *testing.T) {
		var calls []string
		scheduler := loop.NewScheduler()
		scheduler.Register(loop.SystemFunc(func(frame *loop.Frame) {
			frame.Commands.Defer(func() { calls = append(calls, "deferred") })
		}))
		scheduler.Register(&orderSystem{name: "later", log: &calls})

		scheduler.Once(base)

		assert.Equal(t, []string{"later", "deferred"}, calls)
	})
}

func TestSchedulerStats(t *testing.T) {
	scheduler := loop.NewScheduler()
	scheduler.Register(&countingSystem{})
	scheduler.Register(loop.SystemFunc(func(*loop.Frame) {}))

	now := time.Now()
	for i := range 5 {
		scheduler.Once(now.Add(time.Duration(i) * time.Millisecond))
	}

	stats := scheduler.GetStats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, int64(5), stats.Frames)
	assert.Equal(t, "countingSystem", stats.Systems[0].Name)
	assert.Equal(t, "SystemFunc", stats.Systems[1].Name)
	for _, s := range stats.Systems {
		assert.Equal(t, int64(5), s.ExecutionCount)
		assert.LessOrEqual(t, s.MinDuration, s.MaxDuration)
		assert.Equal(t, s.TotalDuration/5, s.AvgDuration)
	}
}

type switchGate struct {
	on atomic.Bool
}

func (g *switchGate) Active() bool { return g.on.Load() }

func TestRunStopsFramesWhileGateInactive(t *testing.T) {
	var frames atomic.Int64
	scheduler := loop.NewScheduler()
	scheduler.Register(loop.SystemFunc(func(*loop.Frame) { frames.Add(1) }))

	gate := &switchGate{}
	inbox := make(chan func())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx, time.Millisecond, gate, inbox)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, frames.Load())

	inbox <- func() { gate.on.Store(true) }
	assert.Eventually(t, func() bool { return frames.Load() > 3 }, time.Second, time.Millisecond)

	inbox <- func() { gate.on.Store(false) }
	// The send above returns once Run has taken the function; a round trip
	// guarantees the gate change has been observed.
	inbox <- func() {}
	stopped := frames.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, frames.Load())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRunExecutesInboxBetweenFrames(t *testing.T) {
	var inFrame atomic.Bool
	var overlapped atomic.Bool
	scheduler := loop.NewScheduler()
	scheduler.Register(loop.SystemFunc(func(*loop.Frame) {
		inFrame.Store(true)
		time.Sleep(100 * time.Microsecond)
		inFrame.Store(false)
	}))

	gate := &switchGate{}
	gate.on.Store(true)
	inbox := make(chan func())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Run(ctx, time.Millisecond, gate, inbox)

	for range 50 {
		inbox <- func() {
			if inFrame.Load() {
				overlapped.Store(true)
			}
		}
	}

	assert.False(t, overlapped.Load())
}
