package smoke

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoiseRange(t *testing.T) {
	n := NewNoise(7)
	for i := range 200 {
		u := float64(i) * 0.013
		v := float64(i) * 0.029
		s := n.At(u, v)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestNoiseTiles(t *testing.T) {
	n := NewNoise(7)
	tests := []struct{ u, v float64 }{
		{0.1, 0.2},
		{0.55, 0.9},
		{0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, n.At(tt.u, tt.v), n.At(tt.u+1, tt.v), 1e-9)
		assert.InDelta(t, n.At(tt.u, tt.v), n.At(tt.u, tt.v-2), 1e-9)
	}
}

func TestNoiseSeeded(t *testing.T) {
	assert.Equal(t, NewNoise(3).At(0.3, 0.4), NewNoise(3).At(0.3, 0.4))
	assert.NotEqual(t, NewNoise(3).At(0.3, 0.4), NewNoise(4).At(0.3, 0.4))
}

func TestHiddenUntilLoaded(t *testing.T) {
	s := New(1)
	assert.False(t, s.Node.Visible)

	s.Update(2, 80)
	assert.False(t, s.Node.Visible)
	for _, p := range s.Texture().Pixels {
		require.Zero(t, p.A)
	}

	s.Update(2, 100)
	assert.True(t, s.Node.Visible)
}

func TestTimeWraps(t *testing.T) {
	a, b := New(1), New(1)
	a.Update(0.5, 100)
	b.Update(TimeWrap+0.5, 100)

	assert.InDelta(t, 0.5, b.Time(), 1e-9)
	for i := range a.Texture().Pixels {
		assert.InDelta(t, int(a.Texture().Pixels[i].A), int(b.Texture().Pixels[i].A), 1)
	}
}

func TestEdgesFade(t *testing.T) {
	s := New(1)
	s.Update(3, 100)
	tex := s.Texture()
	for y := range tex.Height {
		assert.LessOrEqual(t, tex.GetPixel(0, y).A, uint8(20))
		assert.LessOrEqual(t, tex.GetPixel(tex.Width-1, y).A, uint8(20))
	}
	for x := range tex.Width {
		assert.Zero(t, tex.GetPixel(x, 0).A)
	}
}

func TestPlacement(t *testing.T) {
	s := New(1)
	b := s.Node.Mesh.Bounds.Transform(s.Node.WorldMatrix())
	assert.InDelta(t, Position.Y+planeBottom*scale, b.Min.Y, 1e-9)
	assert.InDelta(t, Position.Y+(planeBottom+planeHeight)*scale, b.Max.Y, 1e-9)
	assert.True(t, s.Node.Material.Transparent)
	assert.True(t, s.Node.Material.DoubleSided)
}
