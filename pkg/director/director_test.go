package director

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/roomfolio/pkg/anim"
	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/scene"
)

const tol = 1e-9

func run(eng *anim.Engine, seconds float64) {
	for t := 0.0; t < seconds; t += 1.0 / 60 {
		eng.Update(1.0 / 60)
	}
}

func newDirector() (*Director, *anim.Engine) {
	eng := anim.NewEngine()
	return New(eng, nil), eng
}

func linkNode() *scene.Node {
	n := scene.NewNode("github_Eighth")
	n.Rotation = math3d.E(0, 0, 0.3)
	n.Baseline.CaptureInitialRotation(n.Rotation)
	n.Baseline.CaptureInitialPosition(n.Position)
	return n
}

func TestLinkHoverConverges(t *testing.T) {
	d, eng := newDirector()
	n := linkNode()

	d.LinkHover(n, true)
	run(eng, 0.5)
	assert.InDelta(t, 0.3-LinkTilt, n.Rotation.Z, tol)

	// rapid toggling must still settle on the baseline
	for i := range 7 {
		d.LinkHover(n, i%2 == 0)
		eng.Update(0.05)
	}
	d.LinkHover(n, false)
	run(eng, 0.5)
	assert.InDelta(t, 0.3, n.Rotation.Z, tol)
	assert.Zero(t, eng.Active())
}

func TestPlushieHover(t *testing.T) {
	d, eng := newDirector()
	n := scene.NewNode("plushie_1")
	n.Scale = math3d.V3(2, 2, 2)
	n.Rotation = math3d.E(0.2, 0, 0)
	n.Baseline.CaptureInitialScale(n.Scale)
	n.Baseline.CaptureInitialRotation(n.Rotation)

	d.PlushieHover(n, true)
	run(eng, 0.6)
	assert.True(t, n.Scale.ApproxEqual(math3d.V3(3, 3, 3), tol), "scale %v", n.Scale)

	n.Rotation.X = 1
	d.PlushieHover(n, false)
	run(eng, 0.4)
	assert.True(t, n.Scale.ApproxEqual(math3d.V3(2, 2, 2), tol), "scale %v", n.Scale)
	assert.InDelta(t, 0.2, n.Rotation.X, tol)
}

func TestMarkerHover(t *testing.T) {
	d, eng := newDirector()
	n := scene.NewNode("marker_red_003")
	n.Baseline.CaptureInitialScale(n.Scale)

	d.MarkerHover(n, true)
	run(eng, 0.4)
	assert.InDelta(t, 1.175, n.Scale.X, tol)

	d.MarkerHover(n, false)
	run(eng, 0.4)
	assert.InDelta(t, 1, n.Scale.Y, tol)
}

func TestPress(t *testing.T) {
	d, eng := newDirector()
	n := scene.NewNode("Music_Eighth")
	n.Baseline.CaptureInitialScale(n.Scale)

	d.Press(n)
	eng.Update(0.1)
	assert.InDelta(t, 0.85, n.Scale.Z, tol)

	run(eng, 0.5)
	assert.InDelta(t, 1, n.Scale.Z, tol)
	assert.Zero(t, eng.Active())
}

func TestRecipesNeedBaselines(t *testing.T) {
	d, eng := newDirector()
	bare := scene.NewNode("bare")

	assert.NotPanics(t, func() {
		d.LinkHover(bare, true)
		d.PlushieHover(bare, true)
		d.MarkerHover(bare, true)
		d.Press(bare)
		d.LinkHover(nil, true)
		d.Press(nil)
	})
	assert.Zero(t, eng.Active())
}

func introScene(withCar bool) IntroObjects {
	objs := IntroObjects{}
	if withCar {
		car := scene.NewNode("car")
		car.Baseline.CaptureInitialPosition(car.Position)
		car.Position.Y = 5
		objs["car"] = car
	}
	for _, key := range []string{"linkedin", "CV"} {
		n := linkNode()
		n.Position.Y = 3
		objs[key] = n
	}
	notes := scene.NewNode("no4tes")
	notes.Position = math3d.V3(1, 1, 1)
	notes.Baseline.CaptureInitialPosition(notes.Position)
	notes.Position = math3d.V3(7, -7, 7)
	objs["notes_004"] = notes

	toy := scene.NewNode("headset")
	toy.Baseline.CaptureInitialScale(toy.Scale)
	toy.Scale = math3d.Zero3()
	objs["headset"] = toy
	return objs
}

func TestIntroLabels(t *testing.T) {
	tests := []struct {
		name     string
		car      bool
		labels   map[string]float64
		duration float64
	}{
		{"with car", true, map[string]float64{
			LabelIconsStart: 0.8, LabelIconsRotate: 1.6, LabelIconsRotateBack: 2.1, LabelToys: 2.4,
		}, 3.2},
		{"without car", false, map[string]float64{
			LabelIconsStart: 0, LabelIconsRotate: 0.8, LabelIconsRotateBack: 1.3, LabelToys: 1.6,
		}, 2.4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tl := IntroTimeline(introScene(tc.car))
			for label, want := range tc.labels {
				got, ok := tl.Label(label)
				require.True(t, ok, label)
				assert.InDelta(t, want, got, tol, label)
			}
			assert.InDelta(t, tc.duration, tl.Duration(), tol)
		})
	}
}

func TestPlayIntroOnce(t *testing.T) {
	d, eng := newDirector()
	objs := introScene(true)

	require.True(t, d.PlayIntro(objs))
	assert.False(t, d.PlayIntro(objs))
	assert.True(t, d.IntroPlayed())
	assert.Equal(t, 1, eng.Active())

	run(eng, 3.5)
	assert.Zero(t, eng.Active())
	assert.InDelta(t, 0, objs["car"].Position.Y, tol)
	assert.InDelta(t, 0, objs["CV"].Position.Y, tol)
	assert.InDelta(t, 0.3, objs["linkedin"].Rotation.Z, tol)
	assert.True(t, objs["notes_004"].Position.ApproxEqual(math3d.V3(1, 1, 1), tol))
	assert.True(t, objs["headset"].Scale.ApproxEqual(math3d.One3(), tol))
}

func TestHoverKillsIntroTracks(t *testing.T) {
	d, eng := newDirector()
	objs := introScene(false)
	link := objs["linkedin"]
	d.PlayIntro(objs)
	eng.Update(0.9)

	d.LinkHover(link, true)
	run(eng, 3)
	// the intro's rotate-back must not override the hover tilt
	assert.InDelta(t, 0.3-math.Pi/5, link.Rotation.Z, tol)
}

func TestLinkHoverKeepsIntroDrop(t *testing.T) {
	d, eng := newDirector()
	objs := introScene(false)
	link := objs["CV"]
	d.PlayIntro(objs)
	eng.Update(0.2)
	require.Greater(t, link.Position.Y, 0.5, "link should still be dropping")

	d.LinkHover(link, true)
	eng.Update(0.1)
	d.LinkHover(link, false)
	run(eng, 5)

	assert.InDelta(t, 0, link.Position.Y, tol)
	assert.InDelta(t, 0.3, link.Rotation.Z, tol)
	assert.Zero(t, eng.Active())
}
