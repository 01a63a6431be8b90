package anim

// Animation is a Tween or a Timeline.
type Animation interface {
	Done() bool

	step(dt float64)
	kill(targets map[*float64]bool)
	finished() bool
	writes(target *float64) bool
}

// Engine advances running animations once per frame in the order they were
// played, so the most recent writer of a property wins within a frame.
type Engine struct {
	running []Animation
}

// NewEngine creates an idle engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Play starts a tween or timeline on the next Update.
func (e *Engine) Play(a Animation) Animation {
	e.running = append(e.running, a)
	return a
}

// To creates and plays a tween.
func (e *Engine) To(duration float64, ease Ease, tracks ...Track) *Tween {
	tw := To(duration, ease, tracks...)
	e.Play(tw)
	return tw
}

// Kill cancels every running track that writes one of targets, including
// tracks scheduled inside timelines. Cancelled tweens never complete.
func (e *Engine) Kill(targets ...*float64) {
	if len(targets) == 0 {
		return
	}
	set := make(map[*float64]bool, len(targets))
	for _, t := range targets {
		set[t] = true
	}
	for _, a := range e.running {
		a.kill(set)
	}
}

// Update advances every animation by dt seconds and drops finished ones.
// Animations played from callbacks start on the following Update.
func (e *Engine) Update(dt float64) {
	current := e.running
	for _, a := range current {
		a.step(dt)
	}
	kept := e.running[:0]
	for _, a := range e.running {
		if !a.finished() {
			kept = append(kept, a)
		}
	}
	clear(e.running[len(kept):])
	e.running = kept
}

// Active returns the number of unfinished animations.
func (e *Engine) Active() int {
	n := 0
	for _, a := range e.running {
		if !a.finished() {
			n++
		}
	}
	return n
}

// Animating reports whether an unfinished animation writes target.
func (e *Engine) Animating(target *float64) bool {
	for _, a := range e.running {
		if a.writes(target) {
			return true
		}
	}
	return false
}
