package stream

// An Animation renders the frame for the timeline's current values.
type Animation interface {
	CalculateFrame() *Frame
}
