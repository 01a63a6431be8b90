package render

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func twoByTwo() *Texture {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, RGB(1, 0, 0))
	tex.SetPixel(1, 0, RGB(2, 0, 0))
	tex.SetPixel(0, 1, RGB(3, 0, 0))
	tex.SetPixel(1, 1, RGB(4, 0, 0))
	return tex
}

func TestSampleOrientation(t *testing.T) {
	tests := []struct {
		name  string
		flipY bool
		u, v  float64
		want  uint8
	}{
		{"top left", false, 0.25, 0.75, 1},
		{"top right", false, 0.75, 0.75, 2},
		{"bottom left", false, 0.25, 0.25, 3},
		{"flipped top left", true, 0.25, 0.75, 3},
		{"flipped bottom right", true, 0.75, 0.25, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tex := twoByTwo()
			tex.FlipY = tc.flipY
			if got := tex.Sample(tc.u, tc.v).R; got != tc.want {
				t.Errorf("Sample(%v, %v) = %d, want %d", tc.u, tc.v, got, tc.want)
			}
		})
	}
}

func TestSampleWrap(t *testing.T) {
	tex := twoByTwo()
	if got := tex.Sample(1.25, 0.75).R; got != 1 {
		t.Errorf("repeat wrap = %d, want 1", got)
	}

	tex.WrapU = WrapClamp
	if got := tex.Sample(1.25, 0.75).R; got != 2 {
		t.Errorf("clamp wrap = %d, want 2", got)
	}
}

func TestUVTransformMirror(t *testing.T) {
	tex := twoByTwo()
	tex.Transform = NewUVTransform()
	tex.Transform.Repeat[0] = -1

	// u is negated and wrapped, so the left column reads the right one
	if got := tex.Sample(0.25, 0.75).R; got != 2 {
		t.Errorf("mirrored sample = %d, want 2", got)
	}
}

func TestUVTransformRotationAboutCenter(t *testing.T) {
	tr := NewUVTransform()
	tr.Rotation = math.Pi
	tr.Center = [2]float64{0.5, 0.5}

	u, v := tr.Apply(0.2, 0.1)
	if math.Abs(u-0.8) > 1e-9 || math.Abs(v-0.9) > 1e-9 {
		t.Errorf("Apply = (%v, %v), want (0.8, 0.9)", u, v)
	}

	tr.Offset = [2]float64{-0.01, -0.009}
	u, v = tr.Apply(0.5, 0.5)
	if math.Abs(u-0.49) > 1e-9 || math.Abs(v-0.491) > 1e-9 {
		t.Errorf("Apply with offset = (%v, %v), want (0.49, 0.491)", u, v)
	}
}

func TestTextureFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	tex := TextureFromImage(img)
	if tex.Width != 3 || tex.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", tex.Width, tex.Height)
	}
	if got := tex.GetPixel(2, 1); got != RGB(10, 20, 30) {
		t.Errorf("pixel = %v", got)
	}
}

func TestSetRGBAResizes(t *testing.T) {
	tex := NewTexture(1, 1)
	pix := []uint8{
		1, 2, 3, 255, 4, 5, 6, 255,
	}
	tex.SetRGBA(pix, 8, 2, 1)

	if tex.Width != 2 || len(tex.Pixels) != 2 {
		t.Fatalf("texture not resized: %dx%d", tex.Width, tex.Height)
	}
	if tex.GetPixel(1, 0) != RGB(4, 5, 6) {
		t.Errorf("pixel = %v", tex.GetPixel(1, 0))
	}
}

func TestModulateColor(t *testing.T) {
	got := ModulateColor(RGB(255, 128, 0), RGBA(128, 255, 255, 255))
	if got.R != 128 || got.G != 128 || got.B != 0 {
		t.Errorf("ModulateColor = %v", got)
	}
}
