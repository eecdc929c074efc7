package scene

import (
	"errors"
	"fmt"
	"log"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtimeline/stream"
	"github.com/matt-g-everett/ledtimeline/timeline"
	"github.com/matt-g-everett/ledtimeline/util"
)

// Hooks connect scene callbacks to the host.
type Hooks struct {
	// Event receives the names of event callbacks. Events are logged when
	// it is nil.
	Event func(name string)
}

// Built is a scene compiled into a timeline.
type Built struct {
	// Tracks holds every track by name; staggered copies are named
	// "group[i]".
	Tracks     map[string]*timeline.Track
	Groups     map[string][]*timeline.Track
	Layers     []stream.Layer
	Background colorful.Color

	parents map[string]bool
}

type step func(k *timeline.Keyframes)

// Options returns the timeline options the scene asks for.
func (s *Scene) Options() ([]timeline.Option, error) {
	opts := []timeline.Option{timeline.WithDefaultLoop(s.Loop)}
	e, err := util.Easing(s.DefaultEasing)
	if err != nil {
		return nil, fmt.Errorf("defaultEasing: %w", err)
	}
	if e != nil {
		opts = append(opts, timeline.WithDefaultEasing(e))
	}
	return opts, nil
}

// Build declares the scene's tracks on tl and resolves its layers.
func (s *Scene) Build(tl *timeline.Timeline, hooks Hooks) (*Built, error) {
	b := &Built{
		Tracks:  make(map[string]*timeline.Track),
		Groups:  make(map[string][]*timeline.Track),
		parents: make(map[string]bool),
	}

	for i, spec := range s.Tracks {
		if err := b.addTrack(tl, spec, hooks); err != nil {
			return nil, fmt.Errorf("tracks[%d] %q: %w", i, spec.Name, err)
		}
	}

	back, err := parseColour(s.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	b.Background = back

	for i, spec := range s.Layers {
		l, err := b.layer(spec)
		if err != nil {
			return nil, fmt.Errorf("layers[%d]: %w", i, err)
		}
		b.Layers = append(b.Layers, l)
	}
	return b, nil
}

func (b *Built) addTrack(tl *timeline.Timeline, spec TrackSpec, hooks Hooks) error {
	if spec.Name == "" {
		return errors.New("track needs a name")
	}
	if _, dup := b.Groups[spec.Name]; dup {
		return errors.New("track name already used")
	}

	steps := make([]step, 0, len(spec.Keyframes))
	for i, kf := range spec.Keyframes {
		st, err := b.resolve(kf, hooks)
		if err != nil {
			return fmt.Errorf("keyframes[%d] %s: %w", i, kf.Op, err)
		}
		steps = append(steps, st)
	}
	build := func(k *timeline.Keyframes) {
		for _, st := range steps {
			st(k)
		}
	}

	if spec.Stagger != nil {
		if spec.Parent {
			return errors.New("a staggered group cannot be a parent")
		}
		if spec.Stagger.Count <= 0 {
			return fmt.Errorf("stagger count must be positive, got %d", spec.Stagger.Count)
		}
		group := tl.Stagger(spec.Stagger.Count, spec.Stagger.Offset, build)
		for i, t := range group {
			b.Tracks[fmt.Sprintf("%s[%d]", spec.Name, i)] = t
		}
		b.Groups[spec.Name] = group
		return nil
	}

	t := tl.Track(build)
	if spec.Parent {
		t.AsParent()
		b.parents[spec.Name] = true
	}
	b.Tracks[spec.Name] = t
	b.Groups[spec.Name] = []*timeline.Track{t}
	return nil
}

// resolve turns a keyframe spec into a builder call, checking everything
// that can be checked before the builder runs.
func (b *Built) resolve(kf KeyframeSpec, hooks Hooks) (step, error) {
	cb := callback(kf, hooks)
	switch kf.Op {
	case "start":
		return func(k *timeline.Keyframes) { k.StartAfter(kf.Value, kf.Delay) }, nil

	case "at", "then":
		e, err := util.Easing(kf.Easing)
		if err != nil {
			return nil, err
		}
		var opts []timeline.KeyOption
		if e != nil {
			opts = append(opts, timeline.WithEasing(e))
		}
		if cb != nil {
			opts = append(opts, timeline.WithCallback(cb))
		}
		if kf.Op == "at" {
			if kf.Position == nil {
				return nil, errors.New("position is required")
			}
			return func(k *timeline.Keyframes) { k.At(*kf.Position, kf.Value, opts...) }, nil
		}
		if kf.Duration == nil {
			return nil, errors.New("duration is required")
		}
		return func(k *timeline.Keyframes) { k.Then(kf.Value, *kf.Duration, opts...) }, nil

	case "step":
		if kf.Duration == nil {
			return nil, errors.New("duration is required")
		}
		return func(k *timeline.Keyframes) { k.Step(kf.Value, *kf.Duration, cb) }, nil

	case "hold":
		if kf.Duration == nil {
			return func(k *timeline.Keyframes) { k.HoldToEnd() }, nil
		}
		return func(k *timeline.Keyframes) { k.Hold(*kf.Duration) }, nil

	case "child":
		parent, ok := b.Tracks[kf.Parent]
		if !ok {
			return nil, fmt.Errorf("parent %q must be declared before its children", kf.Parent)
		}
		if !b.parents[kf.Parent] {
			return nil, fmt.Errorf("track %q is not declared with parent: true", kf.Parent)
		}
		if kf.Duration == nil {
			return func(k *timeline.Keyframes) { k.ChildToEnd(parent) }, nil
		}
		return func(k *timeline.Keyframes) { k.Child(parent, *kf.Duration) }, nil

	case "when":
		if cb == nil {
			return nil, errors.New("event or log is required")
		}
		if kf.Position != nil {
			return func(k *timeline.Keyframes) { k.When(*kf.Position, cb) }, nil
		}
		if kf.At == "" {
			return nil, errors.New("position or at is required")
		}
		return func(k *timeline.Keyframes) { k.WhenLabel(kf.At, cb) }, nil

	case "loop":
		if kf.Count == nil {
			return func(k *timeline.Keyframes) { k.LoopForever() }, nil
		}
		return func(k *timeline.Keyframes) { k.Loop(*kf.Count) }, nil
	}
	return nil, fmt.Errorf("unknown op %q", kf.Op)
}

func callback(kf KeyframeSpec, hooks Hooks) timeline.Callback {
	switch {
	case kf.Event != "" && hooks.Event != nil:
		name := kf.Event
		return func() { hooks.Event(name) }
	case kf.Event != "":
		name := kf.Event
		return func() { log.Printf("event: %s", name) }
	case kf.Log != "":
		msg := kf.Log
		return func() { log.Println(msg) }
	}
	return nil
}

func (b *Built) layer(spec LayerSpec) (stream.Layer, error) {
	l := stream.Layer{
		From:       spec.From,
		Count:      spec.Count,
		Gradient:   stream.Rainbow,
		Saturation: 1.0,
		Luminance:  0.05,
	}
	if spec.Count <= 0 {
		return l, fmt.Errorf("count must be positive, got %d", spec.Count)
	}
	for _, name := range spec.Tracks {
		group, ok := b.Groups[name]
		if !ok {
			return l, fmt.Errorf("unknown track %q", name)
		}
		l.Levels = append(l.Levels, group...)
	}
	if spec.Hue != "" {
		hue, ok := b.Tracks[spec.Hue]
		if !ok {
			return l, fmt.Errorf("unknown hue track %q", spec.Hue)
		}
		l.Hue = hue
	}
	back, err := parseColour(spec.Back)
	if err != nil {
		return l, fmt.Errorf("back: %w", err)
	}
	l.Back = back
	if spec.Saturation != nil {
		l.Saturation = *spec.Saturation
	}
	if spec.Luminance != nil {
		l.Luminance = *spec.Luminance
	}
	if len(spec.Gradient) > 0 {
		l.Gradient = make(stream.GradientTable, len(spec.Gradient))
		for i, stop := range spec.Gradient {
			l.Gradient[i] = stream.GradientStop{Hue: stop.Hue, Pos: stop.Pos}
		}
	}
	return l, nil
}

func parseColour(hex string) (colorful.Color, error) {
	if hex == "" {
		return colorful.Color{}, nil
	}
	return colorful.Hex(hex)
}
