package timeline

import "math"

// window is a [start, end) interval delimited by a pair of markers.
type window struct {
	start, end float64
}

func (w window) contains(p float64) bool {
	return w.start <= p && p < w.end
}

// windows pairs each opening marker with the next closing marker. Unpaired
// markers are ignored.
func (c *Compiled) windows(open, close SegmentType) []window {
	var out []window
	pending, started := 0.0, false
	for i := range c.Segments {
		s := &c.Segments[i]
		switch {
		case s.Type == open && !started:
			pending, started = s.Position, true
		case s.Type == close && started:
			out = append(out, window{pending, s.Position})
			started = false
		}
	}
	return out
}

// index caches the value segments and windows ValueAt reads on every call.
func (c *Compiled) index() {
	c.values = c.valueSegments()
	c.holds = c.windows(HoldStart, HoldEnd)
	c.children = c.windows(ChildStart, ChildEnd)
	c.indexed = true
}

func (c *Compiled) valueSegments() []Segment {
	out := make([]Segment, 0, len(c.Segments))
	for _, s := range c.Segments {
		if s.carriesValue() {
			out = append(out, s)
		}
	}
	return out
}

// localProgress maps timeline progress into the track's own repetition.
func (c *Compiled) localProgress(p float64) float64 {
	if p < 0 {
		p = 0
	}
	switch {
	case c.LoopCount < 0:
		return frac(p)
	case c.LoopCount > 0:
		return frac(p * float64(c.LoopCount))
	}
	return math.Min(p, 1)
}

func frac(x float64) float64 {
	return x - math.Floor(x)
}

// ValueAt evaluates the compiled track at progress. It has no side effects.
func (c *Compiled) ValueAt(progress float64) float64 {
	if len(c.Segments) == 0 {
		return 0
	}
	if !c.indexed {
		c.index()
	}
	p := c.localProgress(progress)

	if c.Parent != nil {
		for _, w := range c.children {
			if w.contains(p) {
				return c.Parent.Value()
			}
		}
	}

	values, holds := c.values, c.holds
	var ended *window
	for i := range holds {
		if holds[i].contains(p) {
			return interpolate(values, holds[i].start)
		}
		if p >= holds[i].end {
			ended = &holds[i]
		}
	}
	if ended != nil {
		return afterHold(values, *ended, p)
	}

	return interpolate(values, p)
}

// afterHold blends from the held value to the first keyframe past the end
// of the hold.
func afterHold(values []Segment, w window, p float64) float64 {
	held := interpolate(values, w.start)
	for _, s := range values {
		if s.Position <= w.end {
			continue
		}
		if p > s.Position {
			return s.Value
		}
		t := (p - w.end) / (s.Position - w.end)
		return held + (s.Value-held)*ease(s.Easing, t)
	}
	return held
}

// interpolate is the standard keyframe pass over value-bearing segments.
func interpolate(values []Segment, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	prev := values[0]
	if p < prev.Position {
		return prev.Value
	}
	for _, s := range values[1:] {
		if p <= s.Position {
			if s.Type != Tween || s.Position == prev.Position {
				if p < s.Position {
					return prev.Value
				}
				return s.Value
			}
			t := (p - prev.Position) / (s.Position - prev.Position)
			return prev.Value + (s.Value-prev.Value)*ease(s.Easing, t)
		}
		prev = s
	}
	return prev.Value
}

func ease(e Easing, t float64) float64 {
	if e == nil {
		return t
	}
	return e(t)
}
