package loop

import "time"

// Frame is the context handed to every system during one scheduler tick.
type Frame struct {
	Now       time.Time
	DeltaTime time.Duration
	Commands  *Commands
}

// System is a unit of per-frame work.
type System interface {
	Execute(frame *Frame)
}

// SystemFunc adapts a function to the System interface.
type SystemFunc func(frame *Frame)

func (f SystemFunc) Execute(frame *Frame) {
	f(frame)
}
