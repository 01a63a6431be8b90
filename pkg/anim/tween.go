package anim

import (
	"github.com/tanema/gween"

	"github.com/taigrr/roomfolio/pkg/math3d"
)

// Track animates a single float64 property toward To. The start value is
// read from Target the first time the owning tween renders.
type Track struct {
	Target *float64
	To     float64

	from  float64
	clock *gween.Tween
}

// Prop is shorthand for a Track.
func Prop(target *float64, to float64) Track {
	return Track{Target: target, To: to}
}

// Vec3 returns one track per component of v.
func Vec3(v *math3d.Vec3, to math3d.Vec3) []Track {
	return []Track{Prop(&v.X, to.X), Prop(&v.Y, to.Y), Prop(&v.Z, to.Z)}
}

// Fields returns the component addresses of v, for use with Engine.Kill.
func Fields(v *math3d.Vec3) []*float64 {
	return []*float64{&v.X, &v.Y, &v.Z}
}

// EulerFields returns the component addresses of e, for use with Engine.Kill.
func EulerFields(e *math3d.Euler) []*float64 {
	return []*float64{&e.X, &e.Y, &e.Z}
}

// Tween interpolates its tracks over Duration seconds.
//
// Inside a Timeline a zero Duration or nil Ease is replaced by the
// timeline defaults.
type Tween struct {
	Duration   float64
	Ease       Ease
	Tracks     []Track
	OnUpdate   func()
	OnComplete func()

	elapsed float64
	started bool
	done    bool
	killed  bool
}

// To builds a tween of the given tracks.
func To(duration float64, ease Ease, tracks ...Track) *Tween {
	return &Tween{Duration: duration, Ease: ease, Tracks: tracks}
}

// Done reports whether the tween reached its end or was killed.
func (tw *Tween) Done() bool {
	return tw.done || tw.killed
}

// Progress returns the linear progress in [0, 1].
func (tw *Tween) Progress() float64 {
	if tw.Duration <= 0 {
		if tw.started {
			return 1
		}
		return 0
	}
	return clamp01(tw.elapsed / tw.Duration)
}

func (tw *Tween) step(dt float64) {
	tw.render(tw.elapsed + dt)
}

// render sets every track to its value at local time t.
func (tw *Tween) render(t float64) {
	if tw.Done() {
		return
	}
	ease := tw.Ease
	if ease == nil {
		ease = Linear
	}
	if !tw.started {
		// gween runs in float32, so each clock yields the eased fraction
		// and the track interpolates in float64.
		for i := range tw.Tracks {
			tr := &tw.Tracks[i]
			tr.from = *tr.Target
			tr.clock = gween.New(0, 1, float32(tw.Duration), ease)
		}
		tw.started = true
	}
	tw.elapsed = t

	p := 1.0
	if tw.Duration > 0 {
		p = clamp01(t / tw.Duration)
	}

	for _, tr := range tw.Tracks {
		if p >= 1 {
			*tr.Target = tr.To
			continue
		}
		f, _ := tr.clock.Set(float32(t))
		*tr.Target = tr.from + (tr.To-tr.from)*float64(f)
	}

	if tw.OnUpdate != nil {
		tw.OnUpdate()
	}
	if p >= 1 {
		tw.done = true
		if tw.OnComplete != nil {
			tw.OnComplete()
		}
	}
}

// kill drops every track writing one of targets. A tween left without
// tracks is killed outright and never completes.
func (tw *Tween) kill(targets map[*float64]bool) {
	if tw.Done() {
		return
	}
	kept := tw.Tracks[:0]
	for _, tr := range tw.Tracks {
		if !targets[tr.Target] {
			kept = append(kept, tr)
		}
	}
	tw.Tracks = kept
	if len(kept) == 0 {
		tw.killed = true
	}
}

func (tw *Tween) finished() bool {
	return tw.Done()
}

func (tw *Tween) writes(target *float64) bool {
	if tw.Done() {
		return false
	}
	for _, tr := range tw.Tracks {
		if tr.Target == target {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
