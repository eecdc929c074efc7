package util

import (
	"testing"

	"github.com/fogleman/ease"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasingLookup(t *testing.T) {
	for _, name := range []string{"InOutQuad", "in-out-quad", "in_out_quad", "INOUTQUAD"} {
		e, err := Easing(name)
		require.NoError(t, err, name)
		assert.InDelta(t, ease.InOutQuad(0.3), e(0.3), 1e-12, name)
	}
}

func TestEasingEmptyName(t *testing.T) {
	e, err := Easing("")
	assert.NoError(t, err)
	assert.Nil(t, e)
}

func TestEasingUnknown(t *testing.T) {
	_, err := Easing("wobble")
	assert.EqualError(t, err, `unknown easing "wobble"`)
}

func TestEasingEndpoints(t *testing.T) {
	for _, name := range EasingNames() {
		e, err := Easing(name)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, e(0), 1e-2, name)
		assert.InDelta(t, 1.0, e(1), 1e-2, name)
	}
}

func TestGenerateLut(t *testing.T) {
	lut := GenerateLut(5, ease.Linear)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, lut)
	assert.Equal(t, []float64{0}, GenerateLut(1, ease.Linear))
	assert.Empty(t, GenerateLut(0, ease.Linear))
}
