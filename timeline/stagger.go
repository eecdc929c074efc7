package timeline

// Stagger compiles fn once and returns count tracks sharing the result,
// track i running offset*i behind track 0 and compressed to finish at 1.
func (tl *Timeline) Stagger(count int, offset float64, fn func(*Keyframes)) []*Track {
	compiled := tl.Keyframes(fn)
	tracks := make([]*Track, 0, count)
	for i := 0; i < count; i++ {
		delay := float64(i) * offset
		t := &Track{tl: tl, compiled: compiled, staggerDelay: delay}
		t.evaluate = func(progress float64) float64 {
			return staggered(compiled, delay, progress)
		}
		tl.register(t)
		tracks = append(tracks, t)
	}
	return tracks
}

func staggered(c *Compiled, delay, progress float64) float64 {
	effective := progress - delay
	if effective <= 0 {
		return 0
	}
	span := 1 - delay
	if span == 0 {
		return c.ValueAt(1)
	}
	normalized := effective / span
	if normalized <= 0 {
		return 0
	}
	if normalized > 1 {
		normalized = 1
	}
	return c.ValueAt(normalized)
}
