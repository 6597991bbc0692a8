package loop

// Commands buffers operations that must run after the current unit of work
// has finished, such as side effects a system wants to observe only once
// the frame's state is final.
type Commands struct {
	defers []func()
}

// Defer queues fn to run on the next Flush.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Pending returns the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.defers)
}

// Flush runs queued operations in order, including any queued while
// flushing, and resets the buffer.
func (c *Commands) Flush() {
	for i := 0; i < len(c.defers); i++ {
		c.defers[i]()
	}
	clear(c.defers)
	c.defers = c.defers[:0]
}
