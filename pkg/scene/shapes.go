package scene

import (
	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/models"
)

// QuadMesh builds a w by h rectangle in the XY plane, centered on the
// origin and facing +Z, with UV (0,0) at the bottom left.
func QuadMesh(name string, w, h float64) *models.Mesh {
	hw, hh := w/2, h/2
	m := models.NewMesh(name)
	m.Vertices = []models.Vertex{
		{Position: math3d.V3(-hw, -hh, 0), UV: math3d.V2(0, 0)},
		{Position: math3d.V3(hw, -hh, 0), UV: math3d.V2(1, 0)},
		{Position: math3d.V3(hw, hh, 0), UV: math3d.V2(1, 1)},
		{Position: math3d.V3(-hw, hh, 0), UV: math3d.V2(0, 1)},
	}
	// same winding swap as the glTF loader
	m.Faces = []models.Face{
		{V: [3]int{0, 2, 1}, Material: -1},
		{V: [3]int{0, 3, 2}, Material: -1},
	}
	m.CalculateBounds()
	return m
}

// NewQuad creates a mesh node carrying a QuadMesh.
func NewQuad(name string, w, h float64) *Node {
	return NewMeshNode(name, QuadMesh(name, w, h))
}
