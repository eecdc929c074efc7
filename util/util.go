package util

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/ease"
	"github.com/matt-g-everett/ledtimeline/timeline"
)

var easings = map[string]timeline.Easing{
	"linear":       ease.Linear,
	"inquad":       ease.InQuad,
	"outquad":      ease.OutQuad,
	"inoutquad":    ease.InOutQuad,
	"incubic":      ease.InCubic,
	"outcubic":     ease.OutCubic,
	"inoutcubic":   ease.InOutCubic,
	"inquart":      ease.InQuart,
	"outquart":     ease.OutQuart,
	"inoutquart":   ease.InOutQuart,
	"inquint":      ease.InQuint,
	"outquint":     ease.OutQuint,
	"inoutquint":   ease.InOutQuint,
	"insine":       ease.InSine,
	"outsine":      ease.OutSine,
	"inoutsine":    ease.InOutSine,
	"inexpo":       ease.InExpo,
	"outexpo":      ease.OutExpo,
	"inoutexpo":    ease.InOutExpo,
	"incirc":       ease.InCirc,
	"outcirc":      ease.OutCirc,
	"inoutcirc":    ease.InOutCirc,
	"inelastic":    ease.InElastic,
	"outelastic":   ease.OutElastic,
	"inoutelastic": ease.InOutElastic,
	"inback":       ease.InBack,
	"outback":      ease.OutBack,
	"inoutback":    ease.InOutBack,
	"inbounce":     ease.InBounce,
	"outbounce":    ease.OutBounce,
	"inoutbounce":  ease.InOutBounce,
}

// Easing looks up an easing function by name. Names are case-insensitive
// and may use dashes or underscores, so "InOutQuad", "in-out-quad" and
// "in_out_quad" are equivalent. An empty name returns nil.
func Easing(name string) (timeline.Easing, error) {
	if name == "" {
		return nil, nil
	}
	key := strings.ToLower(name)
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	e, ok := easings[key]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return e, nil
}

// EasingNames lists the catalogue keys in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateLut samples e at length evenly spaced points across [0,1].
func GenerateLut(length int, e timeline.Easing) []float64 {
	lut := make([]float64, length)
	if length == 1 {
		lut[0] = e(0)
	}
	for i := 0; length > 1 && i < length; i++ {
		lut[i] = e(float64(i) / float64(length-1))
	}
	return lut
}
