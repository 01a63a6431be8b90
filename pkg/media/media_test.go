package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/roomfolio/pkg/render"
	"github.com/taigrr/roomfolio/pkg/scene"
)

type fakeOutput struct {
	mu     sync.Mutex
	inits  int
	played []beep.Streamer
	closed bool
}

func (f *fakeOutput) Init(beep.SampleRate) error { f.inits++; return nil }
func (f *fakeOutput) Play(s beep.Streamer)       { f.played = append(f.played, s) }
func (f *fakeOutput) Lock()                      { f.mu.Lock() }
func (f *fakeOutput) Unlock()                    { f.mu.Unlock() }
func (f *fakeOutput) Close()                     { f.closed = true }

// constantWAV encodes n stereo frames of value v.
func constantWAV(t *testing.T, n int, v float64) []byte {
	t.Helper()
	left := n
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if left == 0 {
			return 0, false
		}
		k := min(len(samples), left)
		for i := range k {
			samples[i] = [2]float64{v, v}
		}
		left -= k
		return k, true
	})

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	format := beep.Format{SampleRate: DefaultSampleRate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, src, format))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func pull(s beep.Streamer, n int) [][2]float64 {
	buf := make([][2]float64, n)
	s.Stream(buf)
	return buf
}

func TestAudioWithoutSource(t *testing.T) {
	a := NewAudio(&fakeOutput{}, nil)
	assert.False(t, a.Loaded())
	assert.False(t, a.Playing())
	assert.ErrorIs(t, a.Play(), ErrNoSource)
	assert.False(t, a.Toggle())
}

func TestAudioLoadsPausedAtVolume(t *testing.T) {
	out := &fakeOutput{}
	a := NewAudio(out, nil)
	require.NoError(t, a.Load(constantWAV(t, 100, 0.5)))

	require.Len(t, out.played, 1)
	assert.Equal(t, 1, out.inits)
	assert.False(t, a.Playing())

	for _, s := range pull(out.played[0], 50) {
		assert.Zero(t, s[0])
	}

	require.NoError(t, a.Play())
	assert.True(t, a.Playing())
	for _, s := range pull(out.played[0], 50) {
		assert.InDelta(t, 0.05, s[0], 1e-3)
	}
}

func TestAudioLoops(t *testing.T) {
	out := &fakeOutput{}
	a := NewAudio(out, nil)
	require.NoError(t, a.Load(constantWAV(t, 100, 0.5)))
	require.NoError(t, a.Play())

	buf := make([][2]float64, 350)
	n, ok := out.played[0].Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, 350, n)
	assert.InDelta(t, 0.05, buf[349][1], 1e-3)
}

// stuckSource reports frames but never yields any.
type stuckSource struct {
	err   error
	seeks int
}

func (s *stuckSource) Stream([][2]float64) (int, bool) { return 0, false }
func (s *stuckSource) Err() error { return s.err }
func (s *stuckSource) Len() int { return 100 }
func (s *stuckSource) Position() int { return 0 }
func (s *stuckSource) Seek(int) error {
	s.seeks++
	return nil
}

func TestLoopStreamerStuckSource(t *testing.T) {
	buf := make([][2]float64, 64)

	broken := &stuckSource{err: errors.New("truncated data")}
	n, ok := (&loopStreamer{src: broken}).Stream(buf)
	assert.Zero(t, n)
	assert.False(t, ok)
	assert.Zero(t, broken.seeks)

	empty := &stuckSource{}
	n, ok = (&loopStreamer{src: empty}).Stream(buf)
	assert.Zero(t, n)
	assert.False(t, ok)
	assert.Equal(t, 1, empty.seeks)
}

func TestAudioToggle(t *testing.T) {
	out := &fakeOutput{}
	a := NewAudio(out, nil)
	require.NoError(t, a.Load(constantWAV(t, 10, 0.5)))

	assert.True(t, a.Toggle())
	assert.True(t, a.Playing())
	assert.False(t, a.Toggle())
	assert.False(t, a.Playing())
}

func TestAudioVolumeClamp(t *testing.T) {
	out := &fakeOutput{}
	a := NewAudio(out, nil)
	require.NoError(t, a.Load(constantWAV(t, 10, 0.5)))
	require.NoError(t, a.Play())

	a.SetVolume(4)
	assert.Equal(t, 1.0, a.Volume())
	assert.InDelta(t, 0.5, pull(out.played[0], 1)[0][0], 1e-3)

	a.SetVolume(-1)
	assert.Zero(t, a.Volume())
	assert.Zero(t, pull(out.played[0], 1)[0][0])
}

func TestAudioReloadInitsOnce(t *testing.T) {
	out := &fakeOutput{}
	a := NewAudio(out, nil)
	require.NoError(t, a.Load(constantWAV(t, 10, 0.5)))
	require.NoError(t, a.Load(constantWAV(t, 10, 0.5)))
	assert.Equal(t, 1, out.inits)
	assert.Len(t, out.played, 2)

	a.Close()
	assert.True(t, out.closed)
	assert.False(t, a.Loaded())
}

func TestAudioRejectsGarbage(t *testing.T) {
	out := &fakeOutput{}
	a := NewAudio(out, nil)
	assert.Error(t, a.Load([]byte("not a wav")))
	assert.Zero(t, out.inits)
}

func TestScreenToggle(t *testing.T) {
	on := scene.NewColorMaterial("about", render.ColorWhite)
	s := NewScreen(on, nil)
	n := scene.NewNode("Screen_1")
	s.Bind(n)

	assert.True(t, s.Lit())
	assert.Same(t, on, n.Material)

	assert.False(t, s.Toggle())
	assert.Equal(t, render.ColorBlack, n.Material.Color)
	assert.Nil(t, n.Material.Texture)

	assert.True(t, s.Toggle())
	assert.Same(t, on, n.Material)
}

func TestScreenUnbound(t *testing.T) {
	s := NewScreen(scene.NewColorMaterial("about", render.ColorWhite), nil)
	assert.False(t, s.Toggle())
	assert.Nil(t, s.Node())
}

// twoFrameGIF has a red frame then a frame red on the left half and blue
// on the right, each shown for 0.1s.
func twoFrameGIF(t *testing.T) []byte {
	t.Helper()
	pal := color.Palette{color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 255, 255}}
	r := image.Rect(0, 0, 4, 2)

	red := image.NewPaletted(r, pal)
	split := image.NewPaletted(r, pal)
	for y := range 2 {
		for x := range 4 {
			if x >= 2 {
				split.SetColorIndex(x, y, 1)
			}
		}
	}

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, &gif.GIF{
		Image: []*image.Paletted{red, split},
		Delay: []int{10, 10},
	}))
	return buf.Bytes()
}

func TestVideoPlays(t *testing.T) {
	v := NewVideo(nil)
	require.NoError(t, v.LoadGIF(bytes.NewReader(twoFrameGIF(t))))
	n := scene.NewNode("Screen_2")
	v.Bind(n)

	assert.Equal(t, 2, v.Frames())
	assert.True(t, v.Playing())
	assert.Same(t, v.OnMaterial(), n.Material)
	assert.Equal(t, uint8(255), v.Texture().GetPixel(3, 0).R)

	v.Update(0.05)
	assert.Equal(t, 0, v.Frame())
	v.Update(0.06)
	assert.Equal(t, 1, v.Frame())
	assert.Equal(t, uint8(255), v.Texture().GetPixel(3, 0).B)

	v.Update(0.1)
	assert.Equal(t, 0, v.Frame())
}

func TestVideoMirrored(t *testing.T) {
	v := NewVideo(nil)
	require.NoError(t, v.LoadGIF(bytes.NewReader(twoFrameGIF(t))))
	v.Update(0.1)
	require.Equal(t, 1, v.Frame())

	// Left of the mesh samples the right of the image
	c := v.Texture().Sample(0.1, 0.5)
	assert.Equal(t, uint8(255), c.B)
	c = v.Texture().Sample(0.9, 0.5)
	assert.Equal(t, uint8(255), c.R)
}

func TestVideoOffPauses(t *testing.T) {
	v := NewVideo(nil)
	require.NoError(t, v.LoadGIF(bytes.NewReader(twoFrameGIF(t))))
	n := scene.NewNode("Screen_2")
	v.Bind(n)

	assert.False(t, v.Toggle())
	assert.False(t, v.Playing())
	assert.Equal(t, render.ColorBlack, n.Material.Color)

	v.Update(0.5)
	assert.Equal(t, 0, v.Frame())

	assert.True(t, v.Toggle())
	assert.True(t, v.Playing())
	v.Update(0.1)
	assert.Equal(t, 1, v.Frame())
}

func TestVideoRejectsGarbage(t *testing.T) {
	v := NewVideo(nil)
	assert.Error(t, v.LoadGIF(bytes.NewReader([]byte("nope"))))
	assert.Zero(t, v.Frames())
	v.Update(1)
}
