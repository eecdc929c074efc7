package stream

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtimeline/timeline"
)

// A Layer paints a run of pixels from timeline tracks. Each level track
// drives an equal share of the run, so a staggered group cascades along
// the strip. The hue track, when set, picks the colour from the gradient.
type Layer struct {
	From       int
	Count      int
	Levels     []*timeline.Track
	Hue        *timeline.Track
	Gradient   GradientTable
	Back       colorful.Color
	Saturation float64
	Luminance  float64
}

func (l *Layer) colour(i int) colorful.Color {
	level := 0.0
	if len(l.Levels) > 0 {
		level = l.Levels[i*len(l.Levels)/l.Count].Value()
	}
	hue := 0.0
	if l.Hue != nil {
		hue = l.Hue.Value()
	}
	fore := l.Gradient.GetColor(hue, l.Saturation, l.Luminance)
	return l.Back.BlendHcl(fore, clamp01(level)).Clamped()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}

// A TimelineAnimation renders layers over a background colour.
type TimelineAnimation struct {
	numPixels  int
	backColour colorful.Color
	layers     []Layer
}

// NewTimelineAnimation creates an instance of a TimelineAnimation object.
func NewTimelineAnimation(numPixels int, backColour colorful.Color, layers []Layer) *TimelineAnimation {
	a := new(TimelineAnimation)
	a.numPixels = numPixels
	a.backColour = backColour
	a.layers = layers
	return a
}

// CalculateFrame creates a new Frame from the tracks' cached values.
func (a *TimelineAnimation) CalculateFrame() *Frame {
	f := NewFrame(a.numPixels)
	f.Fill(a.backColour)
	for li := range a.layers {
		l := &a.layers[li]
		for i := 0; i < l.Count; i++ {
			p := l.From + i
			if p < 0 || p >= a.numPixels {
				continue
			}
			f.pixels[p] = l.colour(i)
		}
	}
	return f
}
