package loop

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount int
	Frames      int64
	Systems     []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Gate tells Run whether frames should currently be scheduled.
type Gate interface {
	Active() bool
}

// Scheduler executes registered systems in order, once per frame, passing
// each frame the time elapsed since the previous one.
type Scheduler struct {
	systems     []System
	systemStats []*systemStatsInternal
	lastTick    time.Time
	frames      int64
	commands    Commands
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		systems: make([]System, 0),
	}
}

// Register appends a system to the execution order.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	})
}

// Resync makes now the reference point for the next frame's delta, so time
// spent while no frames were scheduled is not reported to systems.
func (s *Scheduler) Resync(now time.Time) {
	s.lastTick = now
}

// Once executes all registered systems for a frame at time now.
func (s *Scheduler) Once(now time.Time) {
	var dt time.Duration
	if !s.lastTick.IsZero() {
		dt = max(0, now.Sub(s.lastTick))
	}
	s.lastTick = now
	s.frames++

	frame := &Frame{
		Now:       now,
		DeltaTime: dt,
		Commands:  &s.commands,
	}

	for i, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	s.commands.Flush()
}

// Run drives frames every interval until ctx is cancelled. Functions received
// on inbox run on the same goroutine between frames, so they never interleave
// with a frame. While gate reports inactive the ticker is stopped and Run
// only waits for inbox work; the clock is resynced when frames resume.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration, gate Gate, inbox <-chan func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	active := gate.Active()
	if active {
		s.Resync(time.Now())
	} else {
		ticker.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-inbox:
			fn()
		case now := <-ticker.C:
			if active {
				s.Once(now)
			}
		}

		next := gate.Active()
		switch {
		case next && !active:
			s.Resync(time.Now())
			ticker.Reset(interval)
		case !next && active:
			ticker.Stop()
		}
		active = next
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
	}

	return stats
}
