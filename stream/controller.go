package stream

import (
	"math"
	"sync"
	"time"
)

// Controller turns wall-clock time into timeline progress. It can be
// paused and scrubbed from another goroutine while the Streamer reads it.
type Controller struct {
	mu       sync.Mutex
	duration time.Duration
	loop     bool
	origin   time.Time
	paused   bool
	position float64
	cycle    int64
}

// NewController creates a Controller that starts playing at now.
func NewController(duration time.Duration, loop bool, now time.Time) *Controller {
	c := new(Controller)
	c.duration = duration
	c.loop = loop
	c.origin = now
	return c
}

// Progress returns the progress at now. wrapped is true the first time a
// looping controller is read after passing the end of a cycle.
func (c *Controller) Progress(now time.Time) (progress float64, wrapped bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw := c.raw(now)
	if !c.loop {
		return math.Min(raw, 1), false
	}
	cycle := int64(math.Floor(raw))
	wrapped = cycle > c.cycle
	c.cycle = cycle
	return raw - math.Floor(raw), wrapped
}

func (c *Controller) raw(now time.Time) float64 {
	if c.paused {
		return c.position
	}
	elapsed := now.Sub(c.origin)
	if elapsed < 0 {
		elapsed = 0
	}
	return c.position + float64(elapsed)/float64(c.duration)
}

// Seek moves playback to progress, clamped to [0,1]. NaN seeks to 0.
func (c *Controller) Seek(progress float64, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if math.IsNaN(progress) {
		progress = 0
	}
	c.position = math.Max(0, math.Min(progress, 1))
	c.origin = now
	c.cycle = 0
}

// Pause freezes playback at the current position.
func (c *Controller) Pause(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return
	}
	c.position = c.raw(now)
	c.paused = true
}

// Play resumes playback from the paused position.
func (c *Controller) Play(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.paused {
		return
	}
	c.origin = now
	c.paused = false
}

// Paused reports whether playback is frozen.
func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}
