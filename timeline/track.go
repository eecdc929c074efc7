package timeline

// Track is one animated quantity bound to a compiled keyframe sequence.
// Its value is recomputed and cached on every Timeline.Update.
type Track struct {
	tl           *Timeline
	compiled     *Compiled
	value        float64
	evaluate     func(progress float64) float64
	staggerDelay float64
}

// Value returns the value cached by the last Update.
func (t *Track) Value() float64 {
	return t.value
}

// Evaluate computes the track's value at progress without touching the
// cached value.
func (t *Track) Evaluate(progress float64) float64 {
	return t.evaluate(progress)
}

// Compiled returns the compiled record the track evaluates.
func (t *Track) Compiled() *Compiled {
	return t.compiled
}

// StaggerDelay is the progress offset of a staggered copy; 0 otherwise.
func (t *Track) StaggerDelay() float64 {
	return t.staggerDelay
}

// AsParent registers the track as a parent other tracks may follow.
func (t *Track) AsParent() *Track {
	return t.tl.RegisterParent(t)
}

// refresh caches the value at progress. A panicking easing function keeps
// the previous value.
func (t *Track) refresh(progress float64) {
	invoke(t.tl.report, "easing", func() {
		t.value = t.evaluate(progress)
	})
}
