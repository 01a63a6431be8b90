// Package anim drives property tweens and labelled timelines cooperatively
// from the frame loop. Curves and per-track interpolation come from gween;
// the package adds shared playheads, labels and kill-by-target on top.
package anim

import "github.com/tanema/gween/ease"

// Ease is a gween easing function: value at time t of a change c from b
// over duration d.
type Ease = ease.TweenFunc

// Curves used across the scene, named after their GSAP counterparts.
// GSAP power n is the polynomial of degree n+1.
var (
	Linear      Ease = ease.Linear
	Power2Out   Ease = ease.OutCubic
	Power3InOut Ease = ease.InOutQuart
	Power4Out   Ease = ease.OutQuint
	BounceOut   Ease = ease.OutBounce
)

// BackOut overshoots the target by an amount controlled by s before
// settling. gween's OutBack fixes s at 1.70158.
func BackOut(s float32) Ease {
	return func(t, b, c, d float32) float32 {
		t = t/d - 1
		return c*(t*t*((s+1)*t+s)+1) + b
	}
}

// Eval returns the eased progress of e at normalized time p.
func Eval(e Ease, p float64) float64 {
	return float64(e(float32(p), 0, 1, 1))
}
