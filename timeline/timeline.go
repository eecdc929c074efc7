// Package timeline evaluates declarative keyframe animations.
//
// A Timeline owns a set of tracks, each compiled from a Keyframes builder.
// The caller drives it by passing a normalized progress value to Update,
// typically from a render loop or a scrubber; every track's value is then
// recomputed and callbacks whose position was crossed are fired:
//
//	tl := timeline.New(timeline.WithDefaultEasing(ease.InOutQuad))
//	fade := tl.Track(func(k *timeline.Keyframes) {
//		k.Start(0).Then(1, 0.5).Hold(0.25).Then(0, 0.25)
//	})
//	tl.Update(0.3)
//	brightness := tl.Remap(fade, 0, 255)
//
// A Timeline is not safe for concurrent use. No operation returns an
// error: problems are passed to the Reporter and evaluation continues.
package timeline

import "math"

// Option configures a Timeline.
type Option func(*Timeline)

// WithDefaultEasing sets the easing used by tweens that do not name one.
func WithDefaultEasing(e Easing) Option {
	return func(tl *Timeline) {
		if e != nil {
			tl.defaultEasing = e
		}
	}
}

// WithDefaultLoop sets the loop count new keyframe builders start with.
// It also places the boundaries at which OnLoop callbacks fire.
func WithDefaultLoop(count int) Option {
	return func(tl *Timeline) {
		if count < 0 {
			count = Infinite
		}
		tl.defaultLoop = count
	}
}

// WithReporter sets the diagnostic sink. The default is LogReporter.
func WithReporter(r Reporter) Option {
	return func(tl *Timeline) {
		if r != nil {
			tl.report = r
		}
	}
}

// Timeline holds the progress cursor, the tracks and the timeline-level
// callbacks.
type Timeline struct {
	defaultEasing Easing
	defaultLoop   int
	report        Reporter

	tracks  []*Track
	parents map[*Track]struct{}

	progress   float64
	hasStarted bool
	hasEnded   bool

	onStart []Callback
	onEnd   []Callback
	onLoop  []Callback
}

// New creates an empty Timeline.
func New(opts ...Option) *Timeline {
	tl := new(Timeline)
	tl.defaultEasing = Linear
	tl.report = LogReporter
	tl.parents = make(map[*Track]struct{})
	for _, opt := range opts {
		opt(tl)
	}
	return tl
}

// Create builds a Timeline and hands it to setup, which declares tracks
// and callbacks.
func Create(setup func(*Timeline), opts ...Option) *Timeline {
	tl := New(opts...)
	if setup != nil {
		setup(tl)
	}
	return tl
}

// Keyframes runs fn against a fresh builder and compiles the result.
func (tl *Timeline) Keyframes(fn func(*Keyframes)) *Compiled {
	k := newKeyframes(tl)
	if fn != nil {
		fn(k)
	}
	return k.compile()
}

// Track compiles fn and registers the resulting track.
func (tl *Timeline) Track(fn func(*Keyframes)) *Track {
	return tl.TrackOf(tl.Keyframes(fn))
}

// TrackOf registers a track for an already compiled record.
func (tl *Timeline) TrackOf(c *Compiled) *Track {
	t := &Track{tl: tl, compiled: c}
	t.evaluate = c.ValueAt
	tl.register(t)
	return t
}

func (tl *Timeline) register(t *Track) {
	tl.tracks = append(tl.tracks, t)
}

// Tracks returns the registered tracks in registration order.
func (tl *Timeline) Tracks() []*Track {
	out := make([]*Track, len(tl.tracks))
	copy(out, tl.tracks)
	return out
}

// RegisterParent makes t available to Keyframes.Child. A track that itself
// follows a parent is refused and returned unchanged.
func (tl *Timeline) RegisterParent(t *Track) *Track {
	if t == nil {
		tl.report(ErrUnregisteredParent)
		return nil
	}
	if t.compiled.Parent != nil {
		tl.report(ErrParentIsChild)
		return t
	}
	tl.parents[t] = struct{}{}
	return t
}

func (tl *Timeline) isParent(t *Track) bool {
	if t == nil {
		return false
	}
	_, ok := tl.parents[t]
	return ok
}

// OnStart registers cb to fire when progress first leaves 0.
func (tl *Timeline) OnStart(cb Callback) {
	tl.onStart = append(tl.onStart, cb)
}

// OnEnd registers cb to fire when progress reaches 1.
func (tl *Timeline) OnEnd(cb Callback) {
	tl.onEnd = append(tl.onEnd, cb)
}

// OnLoop registers cb to fire each time progress crosses a loop boundary
// of the default loop count.
func (tl *Timeline) OnLoop(cb Callback) {
	tl.onLoop = append(tl.onLoop, cb)
}

// Progress returns the progress passed to the last Update.
func (tl *Timeline) Progress() float64 {
	return tl.progress
}

// Update moves the cursor to progress, refreshes every track and fires the
// callbacks crossed on the way.
func (tl *Timeline) Update(progress float64) {
	prev := tl.progress
	tl.progress = progress

	if !tl.hasStarted && progress > 0 {
		tl.hasStarted = true
		tl.fire("start", tl.onStart)
	}
	if !tl.hasEnded && progress >= 1 {
		tl.hasEnded = true
		tl.fire("end", tl.onEnd)
	}

	if progress < prev {
		if progress == 0 {
			tl.hasStarted = false
			tl.hasEnded = false
		} else if progress < 1 {
			tl.hasEnded = false
		}
	}

	for n := loopsCrossed(tl.defaultLoop, prev, progress); n > 0; n-- {
		tl.fire("loop", tl.onLoop)
	}

	for _, t := range tl.Tracks() {
		t.refresh(progress)
		for _, s := range t.compiled.Segments {
			if s.Callback != nil && prev < s.Position && s.Position <= progress {
				invoke(tl.report, "segment", s.Callback)
			}
		}
	}
}

func (tl *Timeline) fire(source string, cbs []Callback) {
	snapshot := make([]Callback, len(cbs))
	copy(snapshot, cbs)
	for _, cb := range snapshot {
		invoke(tl.report, source, cb)
	}
}

// loopsCrossed counts the repetition boundaries passed moving forward from
// prev to progress. A finite count places them at k/count; an infinite
// loop repeats at every whole progress value.
func loopsCrossed(count int, prev, progress float64) int {
	if count == 0 || progress <= prev {
		return 0
	}
	if count < 0 {
		return int(math.Floor(progress) - math.Floor(prev))
	}
	crossed := 0
	for k := 1; k <= count; k++ {
		boundary := float64(k) / float64(count)
		if prev < boundary && boundary <= progress {
			crossed++
		}
	}
	return crossed
}

// Remap scales the track's cached value from [0,1] into [min,max].
func (tl *Timeline) Remap(t *Track, min, max float64) float64 {
	return min + t.Value()*(max-min)
}

// Ease applies e to value. A nil e uses the default easing.
func (tl *Timeline) Ease(value float64, e Easing) float64 {
	if e == nil {
		e = tl.defaultEasing
	}
	return e(value)
}
