package render

import (
	"math"

	"github.com/taigrr/roomfolio/pkg/math3d"
)

// Vertex is a world-space position with texture coordinates.
type Vertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// Surface describes how a triangle is shaded. Lighting is baked into the
// room textures so shading is a texture lookup or a flat color.
type Surface struct {
	Texture     *Texture // Sampled when set, Color otherwise
	Color       Color
	Opacity     float64 // Used when Transparent
	Transparent bool
	AlphaTest   bool // Discard texels with alpha below one half
	DoubleSided bool
}

// SurfaceFunc resolves the surface of face i. A nil surface skips the face.
type SurfaceFunc func(face int) *Surface

// Uniform returns a SurfaceFunc that shades every face with s.
func Uniform(s *Surface) SurfaceFunc {
	return func(int) *Surface { return s }
}

// MeshRenderer is implemented by models.Mesh; declared here so render does
// not import models.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer adds local bounds for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() math3d.AABB
}

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	camera                 *Camera
	fb                     *Framebuffer
	zbuffer                []float64    // Depth buffer (1D array, row-major)
	frustum                Frustum      // Cached frustum planes
	frustumDirty           bool         // Whether frustum needs recalculation
	CullingStats           CullingStats // Statistics for debugging
	DisableBackfaceCulling bool         // If true, render both sides of triangles
}

// CullingStats tracks frustum culling per frame.
type CullingStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:       camera,
		fb:           fb,
		frustumDirty: true,
	}
	r.Resize()
	return r
}

// Resize resizes the rasterizer's buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// BeginFrame clears the depth buffer and refreshes the frustum. Call once
// per frame after the camera moved.
func (r *Rasterizer) BeginFrame() {
	r.ClearDepth()
	r.frustumDirty = true
	r.CullingStats = CullingStats{}
}

// ClearDepth clears the Z-buffer.
func (r *Rasterizer) ClearDepth() {
	// copy-doubling fill
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// GetFrustum returns the current frustum (updating if needed).
func (r *Rasterizer) GetFrustum() Frustum {
	if r.frustumDirty {
		r.frustum = r.camera.Frustum()
		r.frustumDirty = false
	}
	return r.frustum
}

// IsVisible tests if a world-space AABB is visible in the frustum.
func (r *Rasterizer) IsVisible(worldBounds math3d.AABB) bool {
	return r.GetFrustum().IntersectAABB(worldBounds)
}

// clipVertex is a vertex in homogeneous clip space.
type clipVertex struct {
	pos math3d.Vec4
	uv  math3d.Vec2
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y float64 // Screen coordinates
	Z    float64 // NDC depth
	InvW float64 // 1/w for perspective-correct interpolation
	UV   math3d.Vec2
}

// DrawTriangle clips a world-space triangle against the near plane and
// rasterizes what remains.
func (r *Rasterizer) DrawTriangle(tri Triangle, s *Surface) {
	if s == nil || r.fb == nil {
		return
	}
	viewProj := r.camera.ViewProjectionMatrix()

	var in [3]clipVertex
	for i := range 3 {
		in[i] = clipVertex{
			pos: viewProj.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1)),
			uv:  tri.V[i].UV,
		}
	}

	poly := clipNear(in[:])
	for i := 1; i+1 < len(poly); i++ {
		r.rasterize([3]clipVertex{poly[0], poly[i], poly[i+1]}, s)
	}
}

// clipNear clips a convex polygon against z >= -w (Sutherland-Hodgman).
func clipNear(poly []clipVertex) []clipVertex {
	dist := func(v clipVertex) float64 { return v.pos.Z + v.pos.W }

	inside := 0
	for _, v := range poly {
		if dist(v) >= 0 {
			inside++
		}
	}
	switch inside {
	case len(poly):
		return poly
	case 0:
		return nil
	}

	out := make([]clipVertex, 0, len(poly)+1)
	for i, cur := range poly {
		next := poly[(i+1)%len(poly)]
		dc, dn := dist(cur), dist(next)
		if dc >= 0 {
			out = append(out, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			t := dc / (dc - dn)
			out = append(out, clipVertex{
				pos: math3d.V4(
					cur.pos.X+(next.pos.X-cur.pos.X)*t,
					cur.pos.Y+(next.pos.Y-cur.pos.Y)*t,
					cur.pos.Z+(next.pos.Z-cur.pos.Z)*t,
					cur.pos.W+(next.pos.W-cur.pos.W)*t,
				),
				uv: cur.uv.Lerp(next.uv, t),
			})
		}
	}
	return out
}

func (r *Rasterizer) rasterize(cv [3]clipVertex, s *Surface) {
	var sv [3]screenVertex
	for i, v := range cv {
		if v.pos.W <= 1e-9 {
			return
		}
		invW := 1 / v.pos.W
		sv[i] = screenVertex{
			X:    (v.pos.X*invW + 1) * 0.5 * float64(r.Width()),
			Y:    (1 - v.pos.Y*invW) * 0.5 * float64(r.Height()),
			Z:    v.pos.Z * invW,
			InvW: invW,
			UV:   v.uv,
		}
	}

	// Screen-space winding; faces are stored clockwise after the Y flip
	cross := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if cross == 0 {
		return
	}
	if cross < 0 && !s.DoubleSided && !r.DisableBackfaceCulling {
		return
	}

	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			bc := barycentric(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y, sv[2].X, sv[2].Y, px, py)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			idx := y*r.Width() + x
			if z >= r.zbuffer[idx] {
				continue
			}

			c := s.Color
			if s.Texture != nil {
				w0, w1, w2 := bc.X*sv[0].InvW, bc.Y*sv[1].InvW, bc.Z*sv[2].InvW
				sum := w0 + w1 + w2
				if sum == 0 {
					continue
				}
				u := (w0*sv[0].UV.X + w1*sv[1].UV.X + w2*sv[2].UV.X) / sum
				v := (w0*sv[0].UV.Y + w1*sv[1].UV.Y + w2*sv[2].UV.Y) / sum
				c = s.Texture.Sample(u, v)
				if s.AlphaTest && c.A < 128 {
					continue
				}
			}

			if s.Transparent {
				// Blended surfaces do not occlude what is drawn after them
				alpha := s.Opacity
				if s.Texture != nil {
					alpha *= float64(c.A) / 255
				}
				r.fb.BlendPixel(x, y, c, alpha)
				continue
			}
			c.A = 255
			r.zbuffer[idx] = z
			r.fb.SetPixel(x, y, c)
		}
	}
}

// DrawMesh renders a mesh with the given model transform. Meshes with
// bounds outside the frustum are skipped; it reports whether anything was
// submitted.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, surfaces SurfaceFunc) bool {
	if bounded, ok := mesh.(BoundedMeshRenderer); ok {
		r.CullingStats.MeshesTested++
		if !r.IsVisible(bounded.GetBounds().Transform(transform)) {
			r.CullingStats.MeshesCulled++
			return false
		}
		r.CullingStats.MeshesDrawn++
	}

	for i := 0; i < mesh.TriangleCount(); i++ {
		s := surfaces(i)
		if s == nil {
			continue
		}
		face := mesh.GetFace(i)

		var tri Triangle
		for j := range 3 {
			p, uv := mesh.GetVertex(face[j])
			tri.V[j] = Vertex{Position: transform.MulVec3(p), UV: uv}
		}
		r.DrawTriangle(tri, s)
	}
	return true
}

// DrawQuad draws two triangles v0-v1-v2 and v0-v2-v3 with UVs covering the
// full texture, v0 at the bottom left.
func (r *Rasterizer) DrawQuad(v0, v1, v2, v3 math3d.Vec3, s *Surface) {
	uv0, uv1 := math3d.V2(0, 0), math3d.V2(1, 0)
	uv2, uv3 := math3d.V2(1, 1), math3d.V2(0, 1)
	r.DrawTriangle(Triangle{V: [3]Vertex{{v0, uv0}, {v1, uv1}, {v2, uv2}}}, s)
	r.DrawTriangle(Triangle{V: [3]Vertex{{v0, uv0}, {v2, uv2}, {v3, uv3}}}, s)
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
