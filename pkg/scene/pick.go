package scene

import (
	"sort"

	"github.com/taigrr/roomfolio/pkg/math3d"
)

// Hit is one ray intersection with a mesh node.
type Hit struct {
	Node     *Node
	Distance float64
	Point    math3d.Vec3
	// UV is in texture space with the origin at the top left.
	UV math3d.Vec2
}

// Picker hit-tests a ray against node subtrees.
type Picker interface {
	Intersect(ray math3d.Ray, nodes ...*Node) []Hit
}

// BruteForce is a Picker testing every triangle of every node.
type BruteForce struct{}

// Intersect implements Picker.
func (BruteForce) Intersect(ray math3d.Ray, nodes ...*Node) []Hit {
	return Intersect(ray, nodes...)
}

// Intersect casts ray against the given nodes and all their descendants and
// returns every hit sorted nearest first. Triangles are tested in world
// space so nodes collapsed to zero scale cannot be hit.
func Intersect(ray math3d.Ray, nodes ...*Node) []Hit {
	var hits []Hit
	visited := make(map[*Node]bool)
	for _, root := range nodes {
		if root == nil {
			continue
		}
		root.Walk(func(n *Node) bool {
			if visited[n] {
				return false
			}
			visited[n] = true
			if n.Mesh != nil {
				hits = intersectNode(ray, n, hits)
			}
			return true
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// Intersect casts ray against the whole scene.
func (s *Scene) Intersect(ray math3d.Ray) []Hit {
	return Intersect(ray, s.Root)
}

func intersectNode(ray math3d.Ray, n *Node, hits []Hit) []Hit {
	world := n.WorldMatrix()
	if _, ok := ray.IntersectAABB(n.Mesh.Bounds.Transform(world)); !ok {
		return hits
	}

	doubleSided := n.doubleSided()
	best := Hit{Distance: -1}
	for i := range n.Mesh.TriangleCount() {
		la, lb, lc := n.Mesh.Triangle(i)
		a, b, c := world.MulVec3(la), world.MulVec3(lb), world.MulVec3(lc)

		t, u, v, ok := ray.IntersectTriangle(a, b, c)
		if !ok || t < 0 {
			continue
		}
		if !doubleSided && b.Sub(a).Cross(c.Sub(a)).Dot(ray.Dir) > 0 {
			// back face of a single-sided surface
			continue
		}
		if best.Distance >= 0 && t >= best.Distance {
			continue
		}

		ua, ub, uc := n.Mesh.TriangleUV(i)
		w := 1 - u - v
		mv := ua.Scale(w).Add(ub.Scale(u)).Add(uc.Scale(v))
		best = Hit{
			Node:     n,
			Distance: t,
			Point:    ray.At(t),
			UV:       math3d.V2(mv.X, 1-mv.Y),
		}
	}
	if best.Distance >= 0 {
		hits = append(hits, best)
	}
	return hits
}

func (n *Node) doubleSided() bool {
	if n.Material != nil {
		return n.Material.DoubleSided
	}
	if len(n.fileMaterials) == 0 || len(n.Mesh.Faces) == 0 {
		return false
	}
	idx := n.Mesh.Faces[0].Material
	if idx < 0 || idx >= len(n.fileMaterials) {
		return false
	}
	return n.fileMaterials[idx].DoubleSided
}
