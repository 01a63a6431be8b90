package whiteboard

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/scene"
)

func boundBoard(t *testing.T) (*Board, *scene.Node) {
	t.Helper()
	n := scene.NewQuad("whiteboard_raycaster_pointer", 2, 1)
	b := New(nil)
	b.Bind(n)
	require.Same(t, n, b.Bound())
	return b, n
}

func pixel(b *Board, x, y int) color.RGBA {
	return color.RGBAModel.Convert(b.Image().At(x, y)).(color.RGBA)
}

func isWhite(c color.RGBA) bool { return c.R > 240 && c.G > 240 && c.B > 240 }
func isBlack(c color.RGBA) bool { return c.R < 30 && c.G < 30 && c.B < 30 }
func isRed(c color.RGBA) bool   { return c.R > 200 && c.G < 40 && c.B < 40 }

func TestUnboundBoardIsInert(t *testing.T) {
	b := New(nil)

	assert.ErrorIs(t, b.Begin(math3d.V2(0.5, 0.5)), ErrUnbound)
	assert.False(t, b.DrawTo(math3d.V2(0.6, 0.5)))
	assert.NotPanics(t, func() {
		b.SelectMarker("red")
		b.End()
	})
	assert.False(t, b.Upload())
	assert.Nil(t, b.Image())
	assert.Nil(t, b.Bound())
}

func TestBindAssignsWhiteTexture(t *testing.T) {
	b, n := boundBoard(t)

	require.NotNil(t, n.Material)
	assert.Same(t, b.Texture(), n.Material.Texture)
	assert.False(t, b.Dirty(), "bind uploads the initial raster")
	assert.True(t, isWhite(pixel(b, 100, 100)))
	assert.Equal(t, DefaultColor, b.Color())
	assert.Equal(t, 20.0, b.LineWidth())
}

func TestSelectMarker(t *testing.T) {
	tests := []struct {
		token string
		color string
		hex   string
		width float64
	}{
		{"red", "red", "#ff0000", penWidth},
		{"white", EraserColor, "#ffffff", eraserWidth},
		{"#00ff00", "#00ff00", "#00ff00", penWidth},
		{"Blue", "Blue", "#0000ff", penWidth},
	}
	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			b, _ := boundBoard(t)
			b.SelectMarker(tc.token)
			assert.Equal(t, tc.color, b.Color())
			assert.Equal(t, tc.hex, Hex(b.StrokeColor()))
			assert.Equal(t, tc.width, b.LineWidth())
		})
	}
}

func TestUnknownMarkerKeepsStrokeColor(t *testing.T) {
	b, _ := boundBoard(t)
	b.SelectMarker("red")
	b.SelectMarker("sparkly")

	assert.Equal(t, "sparkly", b.Color())
	assert.Equal(t, "#ff0000", Hex(b.StrokeColor()))
}

func TestStrokeRequiresBegin(t *testing.T) {
	b, _ := boundBoard(t)
	assert.False(t, b.DrawTo(math3d.V2(0.5, 0.5)))

	require.NoError(t, b.Begin(math3d.V2(0.1, 0.5)))
	assert.True(t, b.Drawing())
	assert.True(t, b.DrawTo(math3d.V2(0.3, 0.5)))
	b.End()
	assert.False(t, b.Drawing())
	assert.False(t, b.DrawTo(math3d.V2(0.5, 0.5)))
}

func TestColorSwitchIsolatesStrokes(t *testing.T) {
	b, _ := boundBoard(t)

	require.NoError(t, b.Begin(math3d.V2(0.1, 0.2)))
	require.True(t, b.DrawTo(math3d.V2(0.3, 0.2)))

	// switching mid-stroke commits the black line and starts a new path
	b.SelectMarker("red")
	assert.False(t, b.DrawTo(math3d.V2(0.1, 0.8)))
	require.True(t, b.DrawTo(math3d.V2(0.3, 0.8)))

	assert.True(t, isBlack(pixel(b, 409, 204)), "first stroke lost: %v", pixel(b, 409, 204))
	assert.True(t, isRed(pixel(b, 409, 819)), "second stroke missing: %v", pixel(b, 409, 819))
	assert.True(t, isWhite(pixel(b, 409, 512)), "strokes were joined: %v", pixel(b, 409, 512))
}

func TestRedrawDoesNotAccumulate(t *testing.T) {
	b, _ := boundBoard(t)
	require.NoError(t, b.Begin(math3d.V2(0.1, 0.5)))
	for range 5 {
		b.DrawTo(math3d.V2(0.3, 0.5))
	}
	// 20px wide line centred on y=512 stays within 10px of it
	assert.True(t, isBlack(pixel(b, 409, 512)))
	assert.True(t, isWhite(pixel(b, 409, 512+14)))
}

func TestUploadCopiesRaster(t *testing.T) {
	b, _ := boundBoard(t)
	require.NoError(t, b.Begin(math3d.V2(0.1, 0.2)))
	require.True(t, b.DrawTo(math3d.V2(0.3, 0.2)))
	require.True(t, b.Dirty())

	assert.True(t, b.Upload())
	assert.False(t, b.Dirty())
	assert.False(t, b.Upload())

	c := b.Texture().GetPixel(409, 204)
	assert.Less(t, int(c.R), 30)
}

func TestParseColor(t *testing.T) {
	_, ok := ParseColor("#12")
	assert.False(t, ok)
	_, ok = ParseColor("notacolour")
	assert.False(t, ok)
	c, ok := ParseColor("#f00")
	require.True(t, ok)
	assert.Equal(t, "#ff0000", Hex(c))
}
