package media

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/taigrr/roomfolio/pkg/render"
	"github.com/taigrr/roomfolio/pkg/scene"
)

// minFrameDelay stands in for zero GIF delays.
const minFrameDelay = 0.1

// Video plays a muted looping frame sequence on a monitor screen. The
// texture is flipped vertically and mirrored horizontally. Switching the
// screen off pauses playback and switching it on resumes it.
type Video struct {
	*Screen

	log     *zap.Logger
	tex     *render.Texture
	frames  []*image.RGBA
	delays  []float64
	frame   int
	elapsed float64
	playing bool
}

// NewVideo creates a lit, playing monitor with a black placeholder frame.
func NewVideo(log *zap.Logger) *Video {
	if log == nil {
		log = zap.NewNop()
	}
	tex := render.NewTexture(1, 1)
	tex.SetPixel(0, 0, render.ColorBlack)
	tex.WrapU = render.WrapRepeat
	tex.FlipY = true
	tex.Transform = render.NewUVTransform()
	tex.Transform.Repeat[0] = -1

	v := &Video{log: log, tex: tex, playing: true}
	v.Screen = NewScreen(scene.NewTextureMaterial("video", tex), nil)
	v.Screen.onChange = func(lit bool) {
		if lit {
			v.Play()
		} else {
			v.Pause()
		}
	}
	return v
}

// Texture returns the texture frames are written to.
func (v *Video) Texture() *render.Texture { return v.tex }

// OpenGIF loads frames from an animated GIF file.
func (v *Video) OpenGIF(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open video: %w", err)
	}
	defer f.Close()
	return v.LoadGIF(f)
}

// LoadGIF decodes every frame of an animated GIF, composing partial
// frames onto the logical screen, and shows the first one.
func (v *Video) LoadGIF(r io.Reader) error {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return fmt.Errorf("decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return ErrNoSource
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)

	frames := make([]*image.RGBA, 0, len(g.Image))
	delays := make([]float64, 0, len(g.Image))
	for i, p := range g.Image {
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		var prev *image.RGBA
		if disposal == gif.DisposalPrevious {
			prev = cloneRGBA(canvas)
		}

		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)
		frames = append(frames, cloneRGBA(canvas))

		d := minFrameDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			d = float64(g.Delay[i]) / 100
		}
		delays = append(delays, d)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = prev
		}
	}

	v.frames, v.delays = frames, delays
	v.frame, v.elapsed = 0, 0
	v.tex.SetImage(frames[0])
	v.log.Debug("video loaded",
		zap.Int("frames", len(frames)),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()))
	return nil
}

// Frames returns the number of decoded frames.
func (v *Video) Frames() int { return len(v.frames) }

// Frame returns the index of the frame on screen.
func (v *Video) Frame() int { return v.frame }

// Playing reports whether frames advance on Update.
func (v *Video) Playing() bool { return v.playing }

// Play resumes playback.
func (v *Video) Play() { v.playing = true }

// Pause freezes the current frame.
func (v *Video) Pause() { v.playing = false }

// Update advances playback by dt seconds, wrapping at the end.
func (v *Video) Update(dt float64) {
	if !v.playing || len(v.frames) < 2 || dt <= 0 {
		return
	}
	v.elapsed += dt
	start := v.frame
	for v.elapsed >= v.delays[v.frame] {
		v.elapsed -= v.delays[v.frame]
		v.frame = (v.frame + 1) % len(v.frames)
	}
	if v.frame != start {
		v.tex.SetImage(v.frames[v.frame])
	}
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
