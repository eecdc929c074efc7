package timeline

import (
	"sort"
	"strconv"
	"strings"
)

// Infinite is the loop count that repeats a track forever.
const Infinite = -1

// KeyOption customises a tween keyframe.
type KeyOption func(*Segment)

// WithEasing sets the easing used to blend into the keyframe.
func WithEasing(e Easing) KeyOption {
	return func(s *Segment) {
		s.Easing = e
	}
}

// WithCallback fires cb when progress crosses the keyframe.
func WithCallback(cb Callback) KeyOption {
	return func(s *Segment) {
		s.Callback = cb
	}
}

// Keyframes accumulates segments for one track. Every method mutates the
// builder and returns it so calls can be chained; the cursor carries the
// end position of the previous call into relative calls.
type Keyframes struct {
	tl        *Timeline
	segments  []Segment
	cursor    float64
	loopCount int
	parent    *Track
}

func newKeyframes(tl *Timeline) *Keyframes {
	k := new(Keyframes)
	k.tl = tl
	k.loopCount = tl.defaultLoop
	return k
}

func (k *Keyframes) push(s Segment) {
	k.segments = append(k.segments, s)
}

func (k *Keyframes) tween(position, value float64, opts []KeyOption) {
	s := Segment{Position: position, Type: Tween, Value: value}
	for _, opt := range opts {
		opt(&s)
	}
	if s.Easing == nil {
		s.Easing = k.tl.defaultEasing
	}
	k.push(s)
	k.cursor = position
}

// Start sets the initial value at position 0.
func (k *Keyframes) Start(value float64) *Keyframes {
	return k.StartAfter(value, 0)
}

// StartAfter sets the initial value at position delay.
func (k *Keyframes) StartAfter(value, delay float64) *Keyframes {
	k.push(Segment{Position: delay, Type: Start, Value: value})
	k.cursor = delay
	return k
}

// At tweens to value at an absolute position.
func (k *Keyframes) At(position, value float64, opts ...KeyOption) *Keyframes {
	k.tween(position, value, opts)
	return k
}

// Then tweens to value over duration, measured from the cursor.
func (k *Keyframes) Then(value, duration float64, opts ...KeyOption) *Keyframes {
	k.tween(k.cursor+duration, value, opts)
	return k
}

// Step jumps to value once duration has elapsed from the cursor. There is
// no blending into a step. cb may be nil.
func (k *Keyframes) Step(value, duration float64, cb Callback) *Keyframes {
	position := k.cursor + duration
	k.push(Segment{Position: position, Type: Step, Value: value, Callback: cb})
	k.cursor = position
	return k
}

// Hold freezes the value reached at the cursor for duration.
func (k *Keyframes) Hold(duration float64) *Keyframes {
	return k.hold(k.cursor + duration)
}

// HoldToEnd freezes the value reached at the cursor until position 1.
func (k *Keyframes) HoldToEnd() *Keyframes {
	return k.hold(1)
}

func (k *Keyframes) hold(end float64) *Keyframes {
	k.push(Segment{Position: k.cursor, Type: HoldStart})
	k.push(Segment{Position: end, Type: HoldEnd})
	k.cursor = end
	return k
}

// Child mirrors parent's current value from the cursor for duration. The
// parent must already be registered; otherwise the call is reported and
// ignored.
func (k *Keyframes) Child(parent *Track, duration float64) *Keyframes {
	return k.child(parent, k.cursor+duration)
}

// ChildToEnd mirrors parent's current value from the cursor until position 1.
func (k *Keyframes) ChildToEnd(parent *Track) *Keyframes {
	return k.child(parent, 1)
}

func (k *Keyframes) child(parent *Track, end float64) *Keyframes {
	if !k.tl.isParent(parent) {
		k.tl.report(ErrUnregisteredParent)
		return k
	}
	k.parent = parent
	k.push(Segment{Position: k.cursor, Type: ChildStart})
	k.push(Segment{Position: end, Type: ChildEnd})
	k.cursor = end
	return k
}

// When fires cb as progress crosses position. The cursor does not move.
func (k *Keyframes) When(position float64, cb Callback) *Keyframes {
	k.push(Segment{Position: position, Type: CallbackMark, Callback: cb})
	return k
}

// WhenLabel is When with a symbolic position: "start" (0), "end" (1) or a
// number such as "0.25".
func (k *Keyframes) WhenLabel(label string, cb Callback) *Keyframes {
	position, err := parseLabel(label)
	if err != nil {
		k.tl.report(&LabelError{Label: label, Err: err})
		return k
	}
	return k.When(position, cb)
}

func parseLabel(label string) (float64, error) {
	switch strings.TrimSpace(label) {
	case "start":
		return 0, nil
	case "end":
		return 1, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(label), 64)
}

// Loop repeats the track count times across the timeline. 0 disables
// looping and Infinite repeats forever.
func (k *Keyframes) Loop(count int) *Keyframes {
	if count < 0 {
		count = Infinite
	}
	k.loopCount = count
	return k
}

// LoopForever is Loop(Infinite).
func (k *Keyframes) LoopForever() *Keyframes {
	return k.Loop(Infinite)
}

// Compiled is the frozen output of a Keyframes builder. It is shared,
// unmodified, by every track built from it.
type Compiled struct {
	Segments  []Segment
	LoopCount int
	Parent    *Track

	indexed  bool
	values   []Segment
	holds    []window
	children []window
}

// compile orders the segments by position, keeping authoring order for
// ties, and drops every segment whose position and type repeat an earlier
// one.
func (k *Keyframes) compile() *Compiled {
	sorted := make([]Segment, len(k.segments))
	copy(sorted, k.segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	seen := make(map[segmentKey]struct{}, len(sorted))
	filtered := make([]Segment, 0, len(sorted))
	for _, s := range sorted {
		if _, dup := seen[s.key()]; dup {
			k.tl.report(&DuplicateError{Position: s.Position, Type: s.Type})
			continue
		}
		seen[s.key()] = struct{}{}
		filtered = append(filtered, s)
	}

	c := &Compiled{Segments: filtered, LoopCount: k.loopCount, Parent: k.parent}
	c.index()
	return c
}
