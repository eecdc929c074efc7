// Command tlpreview scrubs a scene's timeline in the terminal.
//
// Usage:
//
//	tlpreview -scene scene.yaml
//
// Keys: ←/→ step 0.01, shift+←/→ step 0.1, home/end jump, space play/pause,
// q quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-g-everett/ledtimeline/scene"
	"github.com/matt-g-everett/ledtimeline/timeline"
	"github.com/matt-g-everett/ledtimeline/util"
)

const (
	barWidth   = 40
	sparkWidth = 24
	maxEvents  = 5
)

var sparkRunes = []rune(" ▁▂▃▄▅▆▇█")

type tickMsg time.Time

// previewModel is the bubbletea model of the scrubber.
type previewModel struct {
	timeline *timeline.Timeline
	names    []string
	tracks   map[string]*timeline.Track
	progress float64
	playing  bool
	step     float64
	events   []string
	pending  *[]string
}

func newPreviewModel(tl *timeline.Timeline, tracks map[string]*timeline.Track, pending *[]string) previewModel {
	names := make([]string, 0, len(tracks))
	for name := range tracks {
		names = append(names, name)
	}
	sort.Strings(names)
	tl.Update(0)
	return previewModel{
		timeline: tl,
		names:    names,
		tracks:   tracks,
		step:     0.01,
		pending:  pending,
	}
}

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model interface.
func (m previewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model interface.
func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "right":
			m = m.seek(m.progress + m.step)
		case "left":
			m = m.seek(m.progress - m.step)
		case "shift+right":
			m = m.seek(m.progress + 10*m.step)
		case "shift+left":
			m = m.seek(m.progress - 10*m.step)
		case "home":
			m = m.seek(0)
		case "end":
			m = m.seek(1)
		case " ":
			m.playing = !m.playing
			if m.playing {
				return m, tick()
			}
		}
	case tickMsg:
		if !m.playing {
			return m, nil
		}
		m = m.seek(m.progress + m.step)
		if m.progress >= 1 {
			m.playing = false
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m previewModel) seek(p float64) previewModel {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	m.progress = p
	m.timeline.Update(p)
	for _, e := range *m.pending {
		m = m.logEvent(e)
	}
	*m.pending = (*m.pending)[:0]
	return m
}

func (m previewModel) logEvent(e string) previewModel {
	m.events = append(m.events, fmt.Sprintf("%.2f %s", m.progress, e))
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
	return m
}

// View implements tea.Model interface.
func (m previewModel) View() string {
	var b strings.Builder

	state := "paused"
	if m.playing {
		state = "playing"
	}
	b.WriteString(fmt.Sprintf("progress %.2f (%s)\n", m.progress, state))
	b.WriteString(bar(m.progress, 1) + "\n\n")

	width := 0
	for _, name := range m.names {
		if len(name) > width {
			width = len(name)
		}
	}
	for _, name := range m.names {
		t := m.tracks[name]
		b.WriteString(fmt.Sprintf("%-*s %s %s %7.3f\n", width, name, sparkline(t), bar(t.Value(), 1), t.Value()))
	}

	if len(m.events) > 0 {
		b.WriteString("\nevents:\n")
		for _, e := range m.events {
			b.WriteString("  " + e + "\n")
		}
	}
	b.WriteString("\n←/→ scrub  shift faster  home/end  space play  q quit\n")
	return b.String()
}

func bar(v, max float64) string {
	n := int(v / max * barWidth)
	if n < 0 {
		n = 0
	}
	if n > barWidth {
		n = barWidth
	}
	return "[" + strings.Repeat("#", n) + strings.Repeat(" ", barWidth-n) + "]"
}

// sparkline draws the track's whole curve, scaled to its own range.
func sparkline(t *timeline.Track) string {
	lut := util.GenerateLut(sparkWidth, t.Evaluate)
	lo, hi := lut[0], lut[0]
	for _, v := range lut {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	out := make([]rune, len(lut))
	for i, v := range lut {
		level := 0
		if hi > lo {
			level = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		out[i] = sparkRunes[level]
	}
	return string(out)
}

func main() {
	scenePath := flag.String("scene", "scene.yaml", "YAML scene file.")
	flag.Parse()

	sc, err := scene.Load(*scenePath)
	if err != nil {
		log.Fatal(err)
	}
	opts, err := sc.Options()
	if err != nil {
		log.Fatal(err)
	}

	var pending []string
	opts = append(opts, timeline.WithReporter(func(err error) {
		pending = append(pending, "! "+err.Error())
	}))
	tl := timeline.New(opts...)
	built, err := sc.Build(tl, scene.Hooks{Event: func(name string) {
		pending = append(pending, name)
	}})
	if err != nil {
		log.Fatal(err)
	}

	m := newPreviewModel(tl, built.Tracks, &pending)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
