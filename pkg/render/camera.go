package render

import (
	"math"

	"github.com/taigrr/roomfolio/pkg/math3d"
)

// Camera is a perspective camera oriented by pitch and yaw.
//
// Matrices are derived on every call; the room renders a few hundred
// thousand pixels per frame so caching them buys nothing.
type Camera struct {
	Position math3d.Vec3

	Pitch float64 // Rotation around X (look up/down)
	Yaw   float64 // Rotation around Y (look left/right)

	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64
	Far         float64
}

// NewCamera creates a camera with the given vertical field of view in
// degrees.
func NewCamera(fovDegrees float64) *Camera {
	return &Camera{
		FOV:         fovDegrees * math.Pi / 180,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         100,
	}
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	// -Z rotated by yaw and pitch
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// LookAt orients the camera toward target. A target equal to the camera
// position leaves the orientation unchanged.
func (c *Camera) LookAt(target math3d.Vec3) {
	d := target.Sub(c.Position)
	if d.LenSq() == 0 {
		return
	}
	dir := d.Normalize()
	c.Pitch = math.Asin(math.Max(-1, math.Min(1, dir.Y)))
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
}

// ViewMatrix returns the world to camera transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	rot := math3d.RotateX(-c.Pitch).Mul(math3d.RotateY(-c.Yaw))
	return rot.Mul(math3d.Translate(c.Position.Negate()))
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	return math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Ray returns the world-space ray through normalized device coordinates
// (x right, y up, both in [-1, 1]).
func (c *Camera) Ray(ndcX, ndcY float64) math3d.Ray {
	return math3d.RayFromNDC(ndcX, ndcY, c.ViewProjectionMatrix().Inverse())
}

// ScreenToNDC maps a cell or pixel coordinate to the NDC of its center.
func ScreenToNDC(x, y, width, height int) (float64, float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	nx := (float64(x)+0.5)/float64(width)*2 - 1
	ny := 1 - (float64(y)+0.5)/float64(height)*2
	return nx, ny
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight)
	return x, y, ndc.Z, true
}
