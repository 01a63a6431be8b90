package anim

import (
	"math"
	"testing"

	"github.com/taigrr/roomfolio/pkg/math3d"
)

const eps = 1e-9

// curves are evaluated in float32
const easeEps = 1e-6

func TestEaseEndpoints(t *testing.T) {
	tests := []struct {
		name string
		ease Ease
	}{
		{"linear", Linear},
		{"power2.out", Power2Out},
		{"power3.inOut", Power3InOut},
		{"power4.out", Power4Out},
		{"back.out(1.8)", BackOut(1.8)},
		{"bounce.out", BounceOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eval(tt.ease, 0); math.Abs(got) > easeEps {
				t.Errorf("ease(0) = %v, want 0", got)
			}
			if got := Eval(tt.ease, 1); math.Abs(got-1) > easeEps {
				t.Errorf("ease(1) = %v, want 1", got)
			}
		})
	}
}

func TestPowerExponent(t *testing.T) {
	// power2 is the cubic curve
	if got, want := Eval(Power2Out, 0.5), 1-math.Pow(0.5, 3); math.Abs(got-want) > easeEps {
		t.Errorf("Power2Out(0.5) = %v, want %v", got, want)
	}
	if got := Eval(Power3InOut, 0.5); math.Abs(got-0.5) > easeEps {
		t.Errorf("Power3InOut(0.5) = %v, want 0.5", got)
	}
}

func TestBackOutOvershoots(t *testing.T) {
	ease := BackOut(1.8)
	peak := 0.0
	for i := 0; i <= 100; i++ {
		peak = max(peak, Eval(ease, float64(i)/100))
	}
	if peak <= 1 {
		t.Errorf("BackOut peak = %v, want > 1", peak)
	}
}

func TestTweenFollowsCurve(t *testing.T) {
	e := NewEngine()
	v := 1.0
	e.To(2, Power4Out, Prop(&v, 3))
	e.Update(0.5)

	want := 1 + 2*Eval(Power4Out, 0.25)
	if math.Abs(v-want) > easeEps {
		t.Errorf("value = %v, want %v", v, want)
	}
}

func TestTweenReachesTarget(t *testing.T) {
	e := NewEngine()
	v := 2.0
	completed := 0
	tw := e.To(0.5, BounceOut, Prop(&v, 7))
	tw.OnComplete = func() { completed++ }

	for range 7 {
		e.Update(0.1)
	}

	if v != 7 {
		t.Errorf("value = %v, want exactly 7", v)
	}
	if completed != 1 {
		t.Errorf("OnComplete called %d times, want 1", completed)
	}
	if e.Active() != 0 {
		t.Errorf("Active() = %d, want 0", e.Active())
	}
}

func TestTweenCapturesStartOnFirstStep(t *testing.T) {
	e := NewEngine()
	v := 0.0
	e.To(1, Linear, Prop(&v, 10))
	v = 4 // changed after creation, before the first frame

	e.Update(0.5)

	if math.Abs(v-7) > eps {
		t.Errorf("value = %v, want 7", v)
	}
}

func TestVec3Tracks(t *testing.T) {
	e := NewEngine()
	p := math3d.V3(0, 0, 0)
	e.To(1, Linear, Vec3(&p, math3d.V3(2, 4, 6))...)

	e.Update(0.5)
	if !p.ApproxEqual(math3d.V3(1, 2, 3), eps) {
		t.Errorf("halfway = %v, want (1,2,3)", p)
	}
	e.Update(0.5)
	if p != math3d.V3(2, 4, 6) {
		t.Errorf("final = %v, want (2,4,6)", p)
	}
}

func TestKillStopsTween(t *testing.T) {
	e := NewEngine()
	a, b := 0.0, 0.0
	completed := false
	tw := e.To(1, Linear, Prop(&a, 1), Prop(&b, 1))
	tw.OnComplete = func() { completed = true }

	e.Update(0.25)
	e.Kill(&a)
	e.Update(0.25)

	if math.Abs(a-0.25) > eps {
		t.Errorf("killed track moved: a = %v, want 0.25", a)
	}
	if math.Abs(b-0.5) > eps {
		t.Errorf("surviving track: b = %v, want 0.5", b)
	}

	e.Kill(&b)
	e.Update(1)
	if completed {
		t.Error("fully killed tween must not complete")
	}
	if e.Active() != 0 {
		t.Errorf("Active() = %d, want 0", e.Active())
	}
}

func TestKillThenRetarget(t *testing.T) {
	e := NewEngine()
	s := 1.0
	e.To(1, Linear, Prop(&s, 2))
	e.Update(0.5)

	e.Kill(&s)
	e.To(0.5, Linear, Prop(&s, 1))
	e.Update(0.5)

	if s != 1 {
		t.Errorf("s = %v, want 1", s)
	}
	if e.Animating(&s) {
		t.Error("no animation should still write s")
	}
}

func TestTimelineDefaults(t *testing.T) {
	tl := NewTimeline(Defaults{Duration: 0.8, Ease: Linear})
	v := 0.0
	tl.Add(To(0, nil, Prop(&v, 1)))

	if got := tl.Duration(); got != 0.8 {
		t.Errorf("Duration() = %v, want 0.8", got)
	}
}

func TestTimelineLabels(t *testing.T) {
	var a, b, c, d float64
	tl := NewTimeline(Defaults{Duration: 0.8, Ease: Linear})

	tl.Add(To(1.2, nil, Prop(&a, 1)))
	tl.AddLabel("icons", -0.4)
	tl.AddAt("icons", To(0, nil, Prop(&b, 1)))
	tl.AddAt("later", To(0.5, nil, Prop(&c, 1)))
	tl.AddAt("icons", To(1.5, nil, Prop(&d, 1)))

	tests := []struct {
		i    int
		want float64
	}{
		{0, 0},
		{1, 0.8},
		{2, 1.6}, // missing label is created at the end
		{3, 0.8},
	}
	for _, tt := range tests {
		if got := tl.Start(tt.i); math.Abs(got-tt.want) > eps {
			t.Errorf("Start(%d) = %v, want %v", tt.i, got, tt.want)
		}
	}
	if got := tl.Duration(); math.Abs(got-2.3) > eps {
		t.Errorf("Duration() = %v, want 2.3", got)
	}
}

func TestTimelinePlayback(t *testing.T) {
	e := NewEngine()
	x := 10.0
	done := false
	tl := NewTimeline(Defaults{Duration: 1, Ease: Linear})
	tl.Add(To(1, nil, Prop(&x, 0)))
	tl.Add(To(1, nil, Prop(&x, 5)))
	tl.OnComplete = func() { done = true }
	e.Play(tl)

	e.Update(0.5)
	if math.Abs(x-5) > eps {
		t.Errorf("t=0.5: x = %v, want 5", x)
	}
	e.Update(1.0)
	if math.Abs(x-2.5) > eps {
		t.Errorf("t=1.5: x = %v, want 2.5", x)
	}
	e.Update(1.0)
	if x != 5 || !done {
		t.Errorf("end: x = %v done = %v, want 5 true", x, done)
	}
}

func TestTimelineLargeStepSettlesInOrder(t *testing.T) {
	e := NewEngine()
	z := 1.0
	tl := NewTimeline(Defaults{Duration: 0.5, Ease: Linear})
	tl.Add(To(0, nil, Prop(&z, 0.5)))
	tl.Add(To(0, nil, Prop(&z, 1)))
	e.Play(tl)

	e.Update(10)

	if z != 1 {
		t.Errorf("z = %v, want 1", z)
	}
}

func TestKillReachesIntoTimeline(t *testing.T) {
	e := NewEngine()
	var s, r float64
	tl := NewTimeline(Defaults{Duration: 1, Ease: Linear})
	tl.Add(To(0, nil, Prop(&s, 1)))
	tl.Add(To(0, nil, Prop(&r, 1)))
	e.Play(tl)

	e.Update(0.5)
	e.Kill(&s)
	e.Update(1)

	if math.Abs(s-0.5) > eps {
		t.Errorf("s = %v, want 0.5 after kill", s)
	}
	if math.Abs(r-0.5) > eps {
		t.Errorf("r = %v, want 0.5", r)
	}

	e.Kill(&r)
	if e.Active() != 0 {
		t.Errorf("Active() = %d, want 0 once every track is killed", e.Active())
	}
}

func TestPlayFromCallback(t *testing.T) {
	e := NewEngine()
	var a, b float64
	first := e.To(0.1, Linear, Prop(&a, 1))
	first.OnComplete = func() {
		e.To(0.1, Linear, Prop(&b, 1))
	}

	e.Update(0.1)
	if b != 0 {
		t.Errorf("tween played from a callback ran early: b = %v", b)
	}
	e.Update(0.1)
	if b != 1 {
		t.Errorf("b = %v, want 1", b)
	}
}
