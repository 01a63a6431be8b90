package scene

import "github.com/taigrr/roomfolio/pkg/render"

var defaultSurface = &render.Surface{Color: render.RGB(200, 200, 200)}

// Draw renders every visible mesh node. Opaque surfaces are drawn first so
// blended ones composite over finished depth.
func (s *Scene) Draw(r *render.Rasterizer) {
	var nodes []*Node
	s.Root.Walk(func(n *Node) bool {
		if !n.Visible {
			return false
		}
		if n.Mesh != nil {
			nodes = append(nodes, n)
		}
		return true
	})

	for _, n := range nodes {
		if n.Material == nil || !n.Material.Transparent {
			r.DrawMesh(n.Mesh, n.WorldMatrix(), n.surfaces(false))
		}
	}
	for _, n := range nodes {
		if n.hasBlended() {
			r.DrawMesh(n.Mesh, n.WorldMatrix(), n.surfaces(true))
		}
	}
}

func (n *Node) hasBlended() bool {
	if n.Material != nil {
		return n.Material.Transparent
	}
	for _, m := range n.fileMaterials {
		if m.Transparent {
			return true
		}
	}
	return false
}

// surfaces resolves each face to the override material or its file
// material, keeping only faces whose transparency matches blended.
func (n *Node) surfaces(blended bool) render.SurfaceFunc {
	if n.Material != nil {
		if n.Material.Transparent != blended {
			return func(int) *render.Surface { return nil }
		}
		return render.Uniform(&n.Material.Surface)
	}
	return func(i int) *render.Surface {
		s := defaultSurface
		if idx := n.Mesh.GetFaceMaterial(i); idx >= 0 && idx < len(n.fileMaterials) {
			s = &n.fileMaterials[idx].Surface
		}
		if s.Transparent != blended {
			return nil
		}
		return s
	}
}
