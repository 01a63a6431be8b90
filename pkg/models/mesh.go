// Package models holds triangle geometry and materials decoded from glTF
// binaries.
package models

import (
	"image"

	"github.com/taigrr/roomfolio/pkg/math3d"
)

// Mesh is the geometry of one glTF mesh, all primitives merged.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Faces    []Face
	Bounds   math3d.AABB
}

// Vertex holds the attributes the rasterizer and picker need. Baked
// lighting lives in the textures so normals are not kept.
type Vertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2 // V flipped, bottom-left origin
}

// Face is a triangle with clockwise winding in screen space.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into File.Materials, -1 for none
}

// AlphaMode mirrors the glTF alpha modes.
type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

// Material is the subset of a glTF PBR material that survives baking.
type Material struct {
	Name        string
	BaseColor   [4]float64  // RGBA in 0-1 range
	BaseMap     image.Image // Optional embedded base color texture
	DoubleSided bool
	Alpha       AlphaMode
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the local axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = math3d.AABB{}
		return
	}

	lo, hi := m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		lo = lo.Min(v.Position)
		hi = hi.Max(v.Position)
	}
	m.Bounds = math3d.NewAABB(lo, hi)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Triangle returns the local positions of face i in file winding order.
// Face stores the winding swapped for the rasterizer, so it is undone here.
func (m *Mesh) Triangle(i int) (a, b, c math3d.Vec3) {
	f := m.Faces[i].V
	return m.Vertices[f[0]].Position, m.Vertices[f[2]].Position, m.Vertices[f[1]].Position
}

// TriangleUV returns the texture coordinates matching Triangle.
func (m *Mesh) TriangleUV(i int) (a, b, c math3d.Vec2) {
	f := m.Faces[i].V
	return m.Vertices[f[0]].UV, m.Vertices[f[2]].UV, m.Vertices[f[1]].UV
}

// GetVertex returns the position and UV for vertex i.
// Implements render.MeshRenderer.
func (m *Mesh) GetVertex(i int) (pos math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.UV
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the material index for face i, -1 for none.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetBounds returns the local bounding box.
func (m *Mesh) GetBounds() math3d.AABB {
	return m.Bounds
}
