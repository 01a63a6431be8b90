// Package media drives the room's screens and background music.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"
)

// DefaultSampleRate is the output rate tracks are resampled to.
const DefaultSampleRate = beep.SampleRate(44100)

// DefaultVolume is the background music amplitude.
const DefaultVolume = 0.1

// ErrNoSource is returned when playback is requested before a track loaded.
var ErrNoSource = errors.New("media: no source loaded")

// Output is where decoded audio ends up. Speaker is the real device.
type Output interface {
	Init(rate beep.SampleRate) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close()
}

// Speaker sends audio to the system device through beep's speaker.
type Speaker struct{}

func (Speaker) Init(rate beep.SampleRate) error {
	return speaker.Init(rate, rate.N(time.Second/30))
}

func (Speaker) Play(s beep.Streamer) { speaker.Play(s) }
func (Speaker) Lock()                { speaker.Lock() }
func (Speaker) Unlock()              { speaker.Unlock() }
func (Speaker) Close()               { speaker.Clear() }

// Audio is a single looping background track. It starts paused; Play
// and Toggle flip the pause flag under the output lock since the
// output pulls samples on its own goroutine.
type Audio struct {
	log    *zap.Logger
	out    Output
	rate   beep.SampleRate
	volume float64

	src    beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	gain   *effects.Volume
	inited bool
}

// NewAudio creates a player writing to out. A nil out uses Speaker.
func NewAudio(out Output, log *zap.Logger) *Audio {
	if out == nil {
		out = Speaker{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Audio{log: log, out: out, rate: DefaultSampleRate, volume: DefaultVolume}
}

// SetVolume sets the linear amplitude, clamped to [0, 1].
func (a *Audio) SetVolume(v float64) {
	a.volume = max(0, min(1, v))
	if a.gain == nil {
		return
	}
	a.out.Lock()
	applyVolume(a.gain, a.volume)
	a.out.Unlock()
}

// Volume returns the linear amplitude.
func (a *Audio) Volume() float64 { return a.volume }

// OpenFile loads a WAV track from disk.
func (a *Audio) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read audio: %w", err)
	}
	return a.Load(data)
}

// Load decodes WAV data and hands the looping stream to the output,
// paused. Loading again replaces the previous track.
func (a *Audio) Load(data []byte) error {
	src, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}

	if !a.inited {
		if err := a.out.Init(a.rate); err != nil {
			src.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
		a.inited = true
	}

	var s beep.Streamer = &loopStreamer{src: src}
	if format.SampleRate != a.rate {
		s = beep.Resample(4, format.SampleRate, a.rate, s)
	}

	ctrl := &beep.Ctrl{Streamer: s, Paused: true}
	gain := &effects.Volume{Streamer: ctrl, Base: 2}
	applyVolume(gain, a.volume)

	a.out.Lock()
	old := a.src
	a.src, a.ctrl, a.gain = src, ctrl, gain
	a.out.Unlock()
	if old != nil {
		old.Close()
	}

	a.out.Play(gain)
	a.log.Debug("audio loaded",
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Int("frames", src.Len()))
	return nil
}

// Loaded reports whether a track is ready.
func (a *Audio) Loaded() bool { return a.ctrl != nil }

// Playing reports whether the track is unpaused.
func (a *Audio) Playing() bool {
	if a.ctrl == nil {
		return false
	}
	a.out.Lock()
	defer a.out.Unlock()
	return !a.ctrl.Paused
}

// Play resumes the track.
func (a *Audio) Play() error { return a.setPaused(false) }

// Pause pauses the track, keeping its position.
func (a *Audio) Pause() error { return a.setPaused(true) }

// Toggle flips between playing and paused and returns the new playing
// state. Without a track it logs and stays silent.
func (a *Audio) Toggle() bool {
	playing := a.Playing()
	if err := a.setPaused(playing); err != nil {
		a.log.Warn("audio toggle", zap.Error(err))
		return false
	}
	return !playing
}

func (a *Audio) setPaused(p bool) error {
	if a.ctrl == nil {
		return ErrNoSource
	}
	a.out.Lock()
	a.ctrl.Paused = p
	a.out.Unlock()
	return nil
}

// Close stops output and releases the track.
func (a *Audio) Close() {
	if a.src != nil {
		a.src.Close()
	}
	if a.inited {
		a.out.Close()
	}
	a.src, a.ctrl, a.gain = nil, nil, nil
}

// applyVolume maps a linear amplitude onto a base-2 exponent.
func applyVolume(v *effects.Volume, amp float64) {
	if amp <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(amp)
}

// loopStreamer restarts its source from frame zero when it runs out.
type loopStreamer struct {
	src beep.StreamSeeker
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	rewound := false
	for filled < len(samples) {
		n, ok := l.src.Stream(samples[filled:])
		filled += n
		if ok && n > 0 {
			rewound = false
			continue
		}
		// A source that yields nothing straight after a rewind is stuck.
		if rewound || l.src.Err() != nil || l.src.Len() == 0 {
			return filled, filled > 0
		}
		if err := l.src.Seek(0); err != nil {
			return filled, filled > 0
		}
		rewound = true
	}
	return filled, true
}

func (l *loopStreamer) Err() error { return l.src.Err() }
