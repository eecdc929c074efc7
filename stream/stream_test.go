package stream

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtimeline/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	topics   []string
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(topic string, payload []byte) error {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return p.err
}

func TestReadConfigDefaults(t *testing.T) {
	c, err := ReadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 500, c.Stream.Pixels)
	assert.Equal(t, "home/xmastree/stream", c.Mqtt.Topics.Stream)
	assert.Equal(t, 33333333*time.Nanosecond, c.FrameInterval())
}

func TestReadConfig(t *testing.T) {
	doc := `
mqtt:
  url: tcp://broker:1883
  username: tree
  topics:
    events: tree/events
stream:
  pixels: 120
  frameRate: 50
  duration: 4s
  loop: false
scene: scenes/pulse.yaml
`
	c, err := ReadConfig(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "tcp://broker:1883", c.Mqtt.URL)
	assert.Equal(t, "tree", c.Mqtt.Username)
	assert.Equal(t, "tree/events", c.Mqtt.Topics.Events)
	assert.Equal(t, "home/xmastree/stream", c.Mqtt.Topics.Stream)
	assert.Equal(t, 120, c.Stream.Pixels)
	assert.Equal(t, 4*time.Second, c.Stream.Duration)
	assert.False(t, c.Stream.Loop)
	assert.Equal(t, 20*time.Millisecond, c.FrameInterval())
	assert.Equal(t, "scenes/pulse.yaml", c.Scene)
}

func TestReadConfigRejectsBadValues(t *testing.T) {
	_, err := ReadConfig(strings.NewReader("stream:\n  pixels: 0\n"))
	assert.Error(t, err)
	_, err = ReadConfig(strings.NewReader("stream:\n  frameRate: -1\n"))
	assert.Error(t, err)
	_, err = ReadConfig(strings.NewReader("stream: [\n"))
	assert.Error(t, err)
}

func TestControllerProgress(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewController(10*time.Second, false, start)

	p, wrapped := c.Progress(start.Add(2500 * time.Millisecond))
	assert.InDelta(t, 0.25, p, 1e-9)
	assert.False(t, wrapped)

	p, _ = c.Progress(start.Add(30 * time.Second))
	assert.Equal(t, 1.0, p)

	p, _ = c.Progress(start.Add(-time.Second))
	assert.Equal(t, 0.0, p)
}

func TestControllerLoopWraps(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewController(10*time.Second, true, start)

	p, wrapped := c.Progress(start.Add(9 * time.Second))
	assert.InDelta(t, 0.9, p, 1e-9)
	assert.False(t, wrapped)

	p, wrapped = c.Progress(start.Add(11 * time.Second))
	assert.InDelta(t, 0.1, p, 1e-9)
	assert.True(t, wrapped)

	_, wrapped = c.Progress(start.Add(12 * time.Second))
	assert.False(t, wrapped)
}

func TestControllerPauseSeekPlay(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewController(10*time.Second, false, start)

	c.Pause(start.Add(3 * time.Second))
	assert.True(t, c.Paused())
	p, _ := c.Progress(start.Add(8 * time.Second))
	assert.InDelta(t, 0.3, p, 1e-9)

	c.Seek(0.6, start.Add(8*time.Second))
	p, _ = c.Progress(start.Add(9 * time.Second))
	assert.InDelta(t, 0.6, p, 1e-9)

	c.Play(start.Add(10 * time.Second))
	assert.False(t, c.Paused())
	p, _ = c.Progress(start.Add(12 * time.Second))
	assert.InDelta(t, 0.8, p, 1e-9)

	c.Seek(7, start.Add(12*time.Second))
	p, _ = c.Progress(start.Add(12 * time.Second))
	assert.Equal(t, 1.0, p)
}

func TestControllerSeekNaN(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewController(10*time.Second, true, start)
	c.Pause(start)

	c.Seek(math.NaN(), start)
	p, _ := c.Progress(start)
	assert.Equal(t, 0.0, p)

	c.Seek(math.Inf(-1), start)
	p, _ = c.Progress(start)
	assert.Equal(t, 0.0, p)
}

func TestGradientGetColor(t *testing.T) {
	g := GradientTable{{0, 0}, {100, 0.5}, {200, 1}}

	h, _, _ := g.GetColor(0.25, 0.5, 0.5).Hcl()
	assert.InDelta(t, 50.0, h, 0.5)
	h, _, _ = g.GetColor(0.75, 0.5, 0.5).Hcl()
	assert.InDelta(t, 150.0, h, 0.5)
	assert.Equal(t, colorful.Hcl(200, 0.5, 0.5), g.GetColor(2, 0.5, 0.5))
	assert.Equal(t, colorful.Hcl(0, 0.5, 0.5), g.GetColor(-1, 0.5, 0.5))
	assert.Equal(t, colorful.Hcl(0, 0.5, 0.5), GradientTable{}.GetColor(0.5, 0.5, 0.5))
}

func TestFrameMarshalBinary(t *testing.T) {
	f := NewFrame(3)
	f.Fill(colorful.Color{R: 1, G: 0, B: 0})
	f.pixels[2] = colorful.Color{R: 2, G: -1, B: 0.5}

	b, err := f.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, 11)
	assert.Equal(t, uint16(3), binary.LittleEndian.Uint16(b))
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 0, 128}, b[2:])
}

func TestTimelineAnimationLayers(t *testing.T) {
	tl := timeline.New(timeline.WithReporter(func(error) {}))
	levels := tl.Stagger(2, 0.5, func(k *timeline.Keyframes) { k.Start(0).Then(1, 1) })
	solid := tl.Track(func(k *timeline.Keyframes) { k.Start(1) })
	tl.Update(0.5)

	back := colorful.Color{}
	red := GradientTable{{0, 0}}
	a := NewTimelineAnimation(6, back, []Layer{
		{From: 0, Count: 4, Levels: levels, Gradient: red, Back: back, Saturation: 0.5, Luminance: 0.5},
		{From: 5, Count: 3, Levels: []*timeline.Track{solid}, Gradient: red, Back: back, Saturation: 0.5, Luminance: 0.5},
	})
	f := a.CalculateFrame()

	require.Equal(t, 6, f.Len())
	fore := red.GetColor(0, 0.5, 0.5)
	half := back.BlendHcl(fore, 0.5).Clamped()
	assert.Equal(t, half, f.Pixel(0))
	assert.Equal(t, half, f.Pixel(1))
	assert.Equal(t, back.BlendHcl(fore, 0).Clamped(), f.Pixel(2))
	assert.InDelta(t, 0, f.Pixel(3).DistanceRgb(back), 1e-6)
	assert.Equal(t, back, f.Pixel(4))
	assert.Equal(t, back.BlendHcl(fore, 1).Clamped(), f.Pixel(5))
}

func TestStreamerStep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stream.Pixels = 4
	start := time.Unix(100, 0)

	tl := timeline.New(timeline.WithReporter(func(error) {}))
	level := tl.Track(func(k *timeline.Keyframes) { k.Start(0).Then(1, 1) })
	ends, starts := 0, 0
	tl.OnEnd(func() { ends++ })
	tl.OnStart(func() { starts++ })

	pub := new(fakePublisher)
	anim := NewTimelineAnimation(4, colorful.Color{}, []Layer{
		{Count: 4, Levels: []*timeline.Track{level}, Gradient: Rainbow, Saturation: 1, Luminance: 0.1},
	})
	ctrl := NewController(10*time.Second, true, start)
	s := NewStreamer(cfg, pub, tl, anim, ctrl, map[string]*timeline.Track{"level": level})

	require.NoError(t, s.Step(start.Add(5*time.Second)))
	state := s.State()
	assert.InDelta(t, 0.5, state.Progress, 1e-9)
	assert.InDelta(t, 0.5, state.Tracks["level"], 1e-9)
	assert.Equal(t, int64(1), state.Frames)
	require.Len(t, pub.payloads, 1)
	assert.Equal(t, cfg.Mqtt.Topics.Stream, pub.topics[0])
	assert.Len(t, pub.payloads[0], 2+4*3)

	require.NoError(t, s.Step(start.Add(12*time.Second)))
	assert.Equal(t, 1, ends)
	assert.Equal(t, 2, starts)
	assert.InDelta(t, 0.2, s.State().Tracks["level"], 1e-9)

	pub.err = errors.New("offline")
	assert.EqualError(t, s.Step(start.Add(13*time.Second)), "offline")
}

func TestEventSink(t *testing.T) {
	pub := new(fakePublisher)
	sink := EventSink(pub, "tree/events")
	sink("sparkle")

	assert.Equal(t, []string{"tree/events"}, pub.topics)
	assert.Equal(t, []byte("sparkle"), pub.payloads[0])
}
