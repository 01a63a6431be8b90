// Package loading gates the room behind asset loading and the entry
// prompt, and fires the intro once both are done.
package loading

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Delays in seconds.
const (
	// PromptDelay is the wait between 100% and showing the entry prompt.
	PromptDelay = 0.5
	// LoadedDelay is the wait between 100% and marking the scene loaded.
	LoadedDelay = 0.5
	// IntroDelay is the wait between load plus entry and the intro.
	IntroDelay = 0.2
)

// ErrNotReady is returned by Enter before the prompt is shown.
var ErrNotReady = errors.New("loading: entry prompt not ready")

// Hooks are called from Update, each at most once.
type Hooks struct {
	// Intro starts the intro animation.
	Intro func()
	// Autoplay starts background music when the user entered with audio.
	Autoplay func()
}

// Tracker counts loaded resources and sequences entry.
type Tracker struct {
	log   *zap.Logger
	hooks Hooks

	total, done int
	progress    float64

	clock      float64
	completeAt float64
	complete   bool
	loaded     bool

	entered   bool
	withAudio bool
	readyAt   float64

	introFired    bool
	autoplayFired bool
}

// NewTracker expects total resources. A total of zero is immediately
// complete.
func NewTracker(total int, hooks Hooks, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tracker{log: log, hooks: hooks, total: total}
	if total <= 0 {
		t.SetProgress(100)
	}
	return t
}

// Step marks one resource as loaded.
func (t *Tracker) Step(name string) {
	t.done++
	t.log.Debug("loaded", zap.String("resource", name), zap.Int("done", t.done), zap.Int("total", t.total))
	if t.total > 0 {
		t.SetProgress(float64(t.done) / float64(t.total) * 100)
	}
}

// SetProgress sets progress directly, clamped to [0, 100]. Progress
// never goes backwards.
func (t *Tracker) SetProgress(p float64) {
	p = max(0, min(100, p))
	if p <= t.progress && t.progress > 0 {
		return
	}
	t.progress = p
	if p >= 100 && !t.complete {
		t.complete = true
		t.completeAt = t.clock
		t.log.Info("assets loaded")
	}
}

// Progress returns the percentage loaded.
func (t *Tracker) Progress() float64 { return t.progress }

// Message describes the current loading phase.
func (t *Tracker) Message() string {
	switch p := t.progress; {
	case p < 20:
		return "Loading 3D models..."
	case p < 50:
		return "Loading textures..."
	case p < 80:
		return "Setting up materials..."
	case p < 100:
		return "Finalizing scene..."
	default:
		return "Ready!"
	}
}

// Bar renders a text progress bar width cells wide.
func (t *Tracker) Bar(width int) string {
	width = max(width, 2)
	inner := width - 2
	fill := int(t.progress / 100 * float64(inner))
	return fmt.Sprintf("[%s%s] %3.0f%%",
		strings.Repeat("#", fill), strings.Repeat(".", inner-fill), t.progress)
}

// PromptReady reports whether the entry prompt should be shown.
func (t *Tracker) PromptReady() bool {
	return t.complete && t.clock-t.completeAt >= PromptDelay
}

// Loaded reports whether the scene counts as loaded.
func (t *Tracker) Loaded() bool { return t.loaded }

// Entered reports whether the user passed the entry prompt.
func (t *Tracker) Entered() bool { return t.entered }

// WithAudio reports the user's entry choice.
func (t *Tracker) WithAudio() bool { return t.withAudio }

// IntroFired reports whether the intro hook ran.
func (t *Tracker) IntroFired() bool { return t.introFired }

// Enter records the entry choice. Entering again is a no-op.
func (t *Tracker) Enter(withAudio bool) error {
	if !t.PromptReady() {
		return ErrNotReady
	}
	if t.entered {
		return nil
	}
	t.entered = true
	t.withAudio = withAudio
	t.log.Info("entered", zap.Bool("audio", withAudio))
	t.checkReady()
	return nil
}

// Update advances the clock by dt seconds and fires due hooks.
func (t *Tracker) Update(dt float64) {
	if dt > 0 {
		t.clock += dt
	}
	if t.complete && !t.loaded && t.clock-t.completeAt >= LoadedDelay {
		t.loaded = true
		t.checkReady()
	}
	if !t.loaded || !t.entered {
		return
	}
	if t.withAudio && !t.autoplayFired {
		t.autoplayFired = true
		if t.hooks.Autoplay != nil {
			t.hooks.Autoplay()
		}
	}
	if !t.introFired && t.clock-t.readyAt >= IntroDelay {
		t.introFired = true
		if t.hooks.Intro != nil {
			t.hooks.Intro()
		}
	}
}

// checkReady starts the intro countdown once loaded and entered.
func (t *Tracker) checkReady() {
	if t.loaded && t.entered {
		t.readyAt = t.clock
	}
}
