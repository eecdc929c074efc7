// Package scene loads YAML scene documents and compiles them into timeline
// tracks and LED layers.
//
// A scene declares tracks as lists of keyframe operations that mirror the
// timeline.Keyframes builder:
//
//	defaultEasing: InOutQuad
//	tracks:
//	  - name: glow
//	    parent: true
//	    keyframes:
//	      - {op: start, value: 0}
//	      - {op: then, value: 1, duration: 0.4, easing: OutQuad}
//	      - {op: hold, duration: 0.2}
//	      - {op: then, value: 0, duration: 0.4}
//	      - {op: when, at: end, event: glow-done}
//	  - name: wave
//	    stagger: {count: 8, offset: 0.05}
//	    keyframes:
//	      - {op: start, value: 0}
//	      - {op: child, parent: glow, duration: 0.5}
//	layers:
//	  - {tracks: [wave], from: 0, count: 400}
package scene

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"
)

// Scene is the root of a scene document.
type Scene struct {
	DefaultEasing string      `yaml:"defaultEasing"`
	Loop          int         `yaml:"loop"`
	Background    string      `yaml:"background"`
	Tracks        []TrackSpec `yaml:"tracks"`
	Layers        []LayerSpec `yaml:"layers"`
}

// TrackSpec declares one track, or a staggered group of tracks.
type TrackSpec struct {
	Name      string         `yaml:"name"`
	Parent    bool           `yaml:"parent"`
	Stagger   *StaggerSpec   `yaml:"stagger"`
	Keyframes []KeyframeSpec `yaml:"keyframes"`
}

// StaggerSpec turns a track into count phase-shifted copies.
type StaggerSpec struct {
	Count  int     `yaml:"count"`
	Offset float64 `yaml:"offset"`
}

// KeyframeSpec is one builder call. Op selects the call; the remaining
// fields are its arguments, and Event or Log attach a callback.
type KeyframeSpec struct {
	Op       string   `yaml:"op"`
	Value    float64  `yaml:"value"`
	Position *float64 `yaml:"position"`
	Duration *float64 `yaml:"duration"`
	Delay    float64  `yaml:"delay"`
	Easing   string   `yaml:"easing"`
	Parent   string   `yaml:"parent"`
	At       string   `yaml:"at"`
	Count    *int     `yaml:"count"`
	Event    string   `yaml:"event"`
	Log      string   `yaml:"log"`
}

// LayerSpec maps tracks onto a run of pixels. Tracks may name single
// tracks or stagger groups.
type LayerSpec struct {
	Tracks     []string   `yaml:"tracks"`
	Hue        string     `yaml:"hue"`
	From       int        `yaml:"from"`
	Count      int        `yaml:"count"`
	Back       string     `yaml:"back"`
	Saturation *float64   `yaml:"saturation"`
	Luminance  *float64   `yaml:"luminance"`
	Gradient   []StopSpec `yaml:"gradient"`
}

// StopSpec is a gradient stop.
type StopSpec struct {
	Hue float64 `yaml:"hue"`
	Pos float64 `yaml:"pos"`
}

// Read decodes a scene document. Unknown fields are rejected.
func Read(r io.Reader) (*Scene, error) {
	s := new(Scene)
	dec := yaml.NewDecoder(r)
	dec.SetStrict(true)
	if err := dec.Decode(s); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return s, nil
}

// Load reads the scene document at path.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	return Read(f)
}
