package game

import (
	"context"
	"time"

	"github.com/plus3/blockfall/loop"
)

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	Options

	// Board and Preview are required drawing targets.
	Board   Surface
	Preview Surface

	// Systems run after the drop and render systems on every frame.
	Systems []loop.System
}

// Controller drives a session frame by frame. Frames only run while the
// session is Running; entering Running resyncs the frame clock so paused or
// idle time never reaches the drop timer.
type Controller struct {
	session   *Session
	scheduler *loop.Scheduler
	render    *RenderSystem
	clock     func() time.Time
}

func NewController(opts ControllerOptions) (*Controller, error) {
	if opts.Board == nil || opts.Preview == nil {
		return nil, ErrNoSurface
	}

	session, err := NewSession(opts.Options)
	if err != nil {
		return nil, err
	}

	render := &RenderSystem{
		Session: session,
		Board:   opts.Board,
		Preview: opts.Preview,
	}

	scheduler := loop.NewScheduler()
	scheduler.Register(&DropSystem{Session: session})
	scheduler.Register(render)
	for _, system := range opts.Systems {
		scheduler.Register(system)
	}

	return &Controller{
		session:   session,
		scheduler: scheduler,
		render:    render,
		clock:     session.clock,
	}, nil
}

func (c *Controller) Session() *Session {
	return c.session
}

func (c *Controller) Stats() *loop.SchedulerStats {
	return c.scheduler.GetStats()
}

// Active reports whether frames should be scheduled. It satisfies loop.Gate.
func (c *Controller) Active() bool {
	return c.session.State() == StateRunning
}

func (c *Controller) Start() {
	c.transition(c.session.Start)
}

func (c *Controller) Reset() {
	c.transition(c.session.Reset)
}

func (c *Controller) TogglePause() {
	c.transition(c.session.TogglePause)
}

// Apply routes a player command to the session and redraws, so the result of
// the command is visible even when no further frames are scheduled.
func (c *Controller) Apply(cmd Command) {
	if cmd == CommandTogglePause {
		c.TogglePause()
	} else {
		c.session.Apply(cmd)
	}
	c.Render()
}

// Tick runs one frame at time now. It returns false, doing nothing, unless
// the session is Running.
func (c *Controller) Tick(now time.Time) bool {
	if !c.Active() {
		return false
	}
	c.scheduler.Once(now)
	return true
}

// Run drives frames every interval until ctx is cancelled, running inbox
// functions between frames on the calling goroutine. No frames are
// scheduled while the session is not Running. All access to the controller
// must go through inbox while Run is active.
func (c *Controller) Run(ctx context.Context, interval time.Duration, inbox <-chan func()) {
	c.scheduler.Run(ctx, interval, c, inbox)
}

// Render redraws the surfaces without advancing the simulation.
func (c *Controller) Render() {
	c.render.Execute(nil)
}

func (c *Controller) transition(fn func()) {
	wasActive := c.Active()
	fn()
	if !wasActive && c.Active() {
		c.scheduler.Resync(c.clock())
	}
	c.Render()
}
