package timeline

// Easing remaps a local parameter in [0,1]. The functions in
// github.com/fogleman/ease all satisfy it.
type Easing func(t float64) float64

// Callback is invoked when progress crosses a segment.
type Callback func()

// SegmentType identifies what a Segment does at its position.
type SegmentType int

const (
	Start SegmentType = iota
	Tween
	Step
	HoldStart
	HoldEnd
	ChildStart
	ChildEnd
	CallbackMark
)

var segmentTypeNames = [...]string{
	Start:        "start",
	Tween:        "tween",
	Step:         "step",
	HoldStart:    "hold_start",
	HoldEnd:      "hold_end",
	ChildStart:   "child_start",
	ChildEnd:     "child_end",
	CallbackMark: "callback",
}

func (t SegmentType) String() string {
	if t < 0 || int(t) >= len(segmentTypeNames) {
		return "unknown"
	}
	return segmentTypeNames[t]
}

// Segment is a positioned event in a track: a value keyframe, a window
// boundary or a callback marker.
type Segment struct {
	Position float64
	Type     SegmentType
	Value    float64
	Easing   Easing
	Callback Callback
}

// carriesValue reports whether the segment takes part in value interpolation.
func (s *Segment) carriesValue() bool {
	return s.Type == Start || s.Type == Tween || s.Type == Step
}

type segmentKey struct {
	position float64
	kind     SegmentType
}

func (s *Segment) key() segmentKey {
	return segmentKey{s.Position, s.Type}
}

// Linear is the identity easing.
func Linear(t float64) float64 {
	return t
}
