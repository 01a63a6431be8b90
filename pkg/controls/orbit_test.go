package controls

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/render"
)

var (
	startCamera = math3d.V3(2.988389442190818, 2.0308409462503008, 2.407836573389637)
	startTarget = math3d.V3(-0.5347883276206734, 0.6471834122468871, 0.1438416559725952)
)

func newOrbit() *Orbit {
	cam := render.NewCamera(35)
	cam.Position = startCamera
	return NewOrbit(cam, startTarget, 60)
}

func TestOrbitKeepsValidPose(t *testing.T) {
	o := newOrbit()
	assert.True(t, o.Camera.Position.ApproxEqual(startCamera, 1e-12), "%v", o.Camera.Position)

	// camera looks at the target
	dir := startTarget.Sub(startCamera).Normalize()
	assert.True(t, o.Camera.Forward().ApproxEqual(dir, 1e-9))
}

func TestOrbitClamps(t *testing.T) {
	tests := []struct {
		name  string
		pos   math3d.Vec3
		check func(t *testing.T, r, polar, az float64)
	}{
		{"below horizon", math3d.V3(0, -1, 1), func(t *testing.T, _, polar, _ float64) {
			assert.InDelta(t, math.Pi/2, polar, 1e-9)
		}},
		{"negative azimuth", math3d.V3(-1, 1, 1), func(t *testing.T, _, _, az float64) {
			assert.InDelta(t, 0, az, 1e-9)
		}},
		{"too far", math3d.V3(0, 20, 20), func(t *testing.T, r, _, _ float64) {
			assert.InDelta(t, 10, r, 1e-9)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam := render.NewCamera(35)
			cam.Position = tc.pos
			o := NewOrbit(cam, math3d.Zero3(), 60)
			r, polar, az := o.Spherical()
			tc.check(t, r, polar, az)
		})
	}
}

func TestRotateDecays(t *testing.T) {
	o := newOrbit()
	_, _, az0 := o.Spherical()

	o.Rotate(0.05, 0)
	for range 300 {
		o.Update()
	}
	_, _, az1 := o.Spherical()
	assert.Greater(t, az1, az0)
	assert.False(t, o.Moving())

	// settled: further updates leave the camera alone
	pos := o.Camera.Position
	o.Update()
	assert.True(t, o.Camera.Position.ApproxEqual(pos, 1e-6))
}

func TestDisabledIgnoresInput(t *testing.T) {
	o := newOrbit()
	o.Enabled = false
	o.Rotate(1, 1)
	o.Dolly(1)
	o.Update()

	assert.False(t, o.Moving())
	assert.True(t, o.Camera.Position.ApproxEqual(startCamera, 1e-9))
}

func TestDolly(t *testing.T) {
	o := newOrbit()
	r0, _, _ := o.Spherical()
	o.Dolly(-0.1)
	for range 60 {
		o.Update()
	}
	r1, _, _ := o.Spherical()
	assert.Less(t, r1, r0)
}
