package stream

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledtimeline/timeline"
)

// A Publisher delivers payloads to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// MqttPublisher publishes over an MQTT client.
type MqttPublisher struct {
	client mqtt.Client
	qos    byte
}

// NewMqttPublisher creates an instance of an MqttPublisher.
func NewMqttPublisher(client mqtt.Client) *MqttPublisher {
	p := new(MqttPublisher)
	p.client = client
	p.qos = 2
	return p
}

// Publish sends payload and waits for the broker to acknowledge it.
func (p *MqttPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, p.qos, false, payload)
	token.Wait()
	return token.Error()
}

// EventSink returns a function that publishes event names to topic. It is
// meant for timeline callbacks, so failures are logged rather than returned.
func EventSink(p Publisher, topic string) func(name string) {
	return func(name string) {
		if err := p.Publish(topic, []byte(name)); err != nil {
			log.Printf("publish event %q: %v", name, err)
		}
	}
}

// State is a snapshot of the timeline taken after a frame was calculated.
type State struct {
	Progress float64            `json:"progress"`
	Paused   bool               `json:"paused"`
	Frames   int64              `json:"frames"`
	Tracks   map[string]float64 `json:"tracks"`
}

// Streamer drives the timeline from the Controller and streams the
// rendered frames to an ledrx device.
type Streamer struct {
	publisher  Publisher
	topic      string
	interval   time.Duration
	timeline   *timeline.Timeline
	animation  Animation
	controller *Controller
	tracks     map[string]*timeline.Track

	mu    sync.RWMutex
	state State
}

// NewStreamer creates an instance of a Streamer. tracks names the values
// reported in State.
func NewStreamer(config Config, publisher Publisher, tl *timeline.Timeline, animation Animation,
	controller *Controller, tracks map[string]*timeline.Track) *Streamer {

	s := new(Streamer)
	s.publisher = publisher
	s.topic = config.Mqtt.Topics.Stream
	s.interval = config.FrameInterval()
	s.timeline = tl
	s.animation = animation
	s.controller = controller
	s.tracks = tracks
	s.state.Tracks = map[string]float64{}
	return s
}

// Step advances the timeline to now and publishes one frame.
func (s *Streamer) Step(now time.Time) error {
	progress, wrapped := s.controller.Progress(now)
	if wrapped {
		// Finish the cycle and rewind so end, start and early callbacks
		// fire again on the next pass.
		s.timeline.Update(1)
		s.timeline.Update(0)
	}
	s.timeline.Update(progress)

	f := s.animation.CalculateFrame()
	s.snapshot(progress)

	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	return s.publisher.Publish(s.topic, b)
}

func (s *Streamer) snapshot(progress float64) {
	values := make(map[string]float64, len(s.tracks))
	for name, t := range s.tracks {
		values[name] = t.Value()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Progress = progress
	s.state.Paused = s.controller.Paused()
	s.state.Frames++
	s.state.Tracks = values
}

// State returns the snapshot taken after the last frame.
func (s *Streamer) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	out.Tracks = make(map[string]float64, len(s.state.Tracks))
	for k, v := range s.state.Tracks {
		out.Tracks[k] = v
	}
	return out
}

// Run causes the Streamer to send Frames continuously until ctx is done.
func (s *Streamer) Run(ctx context.Context) error {
	publishTimer := time.NewTicker(s.interval)
	defer publishTimer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-publishTimer.C:
			if err := s.Step(now); err != nil {
				log.Printf("publish frame: %v", err)
			}
		}
	}
}
