package math3d

import "math"

// Ray is a half line starting at Origin. Dir is normalized when the ray is
// built by RayFromNDC, so hit distances are world units.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// RayFromNDC unprojects normalized device coordinates (-1..1, Y up) through
// the inverse view-projection matrix.
func RayFromNDC(x, y float64, invViewProj Mat4) Ray {
	near := invViewProj.MulVec4(V4(x, y, -1, 1)).PerspectiveDivide()
	far := invViewProj.MulVec4(V4(x, y, 1, 1)).PerspectiveDivide()
	return Ray{Origin: near, Dir: far.Sub(near).Normalize()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// IntersectTriangle tests the ray against triangle (a, b, c) from both sides.
// On a hit it returns the distance t and the barycentric weights u, v of b
// and c (a's weight is 1-u-v).
func (r Ray) IntersectTriangle(a, b, c Vec3) (t, u, v float64, ok bool) {
	const eps = 1e-12

	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < eps {
		return 0, 0, 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u = s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(e1)
	v = r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// IntersectAABB runs the slab test. It returns the entry distance, or the
// exit distance when the origin is inside the box.
func (r Ray) IntersectAABB(box AABB) (float64, bool) {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for i := range 3 {
		if dir[i] == 0 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}

	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
