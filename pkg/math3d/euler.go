package math3d

import "math"

// Euler holds rotation angles in radians applied in XYZ order, the same
// order the scene's authoring tool exports node rotations in.
type Euler struct {
	X, Y, Z float64
}

// E creates a new Euler.
func E(x, y, z float64) Euler {
	return Euler{x, y, z}
}

// Matrix returns the rotation matrix Rx * Ry * Rz.
func (e Euler) Matrix() Mat4 {
	return RotateX(e.X).Mul(RotateY(e.Y)).Mul(RotateZ(e.Z))
}

// EulerFromQuat converts a unit quaternion (x, y, z, w) to XYZ Euler angles.
func EulerFromQuat(x, y, z, w float64) Euler {
	m11 := 1 - 2*(y*y+z*z)
	m12 := 2 * (x*y - w*z)
	m13 := 2 * (x*z + w*y)
	m22 := 1 - 2*(x*x+z*z)
	m23 := 2 * (y*z - w*x)
	m32 := 2 * (y*z + w*x)
	m33 := 1 - 2*(x*x+y*y)
	return eulerFromRows(m11, m12, m13, m22, m23, m32, m33)
}

// EulerFromMatrix extracts XYZ Euler angles from the rotation part of m.
// The upper 3x3 must be free of scale.
func EulerFromMatrix(m Mat4) Euler {
	return eulerFromRows(m[0], m[4], m[8], m[5], m[9], m[6], m[10])
}

func eulerFromRows(m11, m12, m13, m22, m23, m32, m33 float64) Euler {
	var e Euler
	e.Y = math.Asin(math.Max(-1, math.Min(1, m13)))
	if math.Abs(m13) < 0.9999999 {
		e.X = math.Atan2(-m23, m33)
		e.Z = math.Atan2(-m12, m11)
	} else {
		// Gimbal lock: fold Z into X.
		e.X = math.Atan2(m32, m22)
	}
	return e
}
