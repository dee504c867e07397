package types

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Epsilon used for float comparisons and near-zero tests.
const floatCmpEpsilon = 1e-8

type Vec2 f32.Vec2
type Vec3 f32.Vec3
type Vec4 f32.Vec4

// Define a 2 component vector.
func XY(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Define a 3 component vector.
func XYZ(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Define a 4 component vector.
func XYZW(x, y, z, w float32) Vec4 {
	return Vec4{x, y, z, w}
}

// Expand a 2 component vector to a Vec3
func (v Vec2) Vec3(z float32) Vec3 {
	return Vec3{v[0], v[1], z}
}

// Expand a 3 component vector to a Vec4.
func (v Vec3) Vec4(w float32) Vec4 {
	return Vec4{v[0], v[1], v[2], w}
}

// Subtract a vector.
func (v Vec2) Sub(v2 Vec2) Vec2 {
	return Vec2{v[0] - v2[0], v[1] - v2[1]}
}

// Calculate dot product of 2 vectors
func (v Vec2) Dot(v2 Vec2) float32 {
	return v[0]*v2[0] + v[1]*v2[1]
}

// Add a vector.
func (v Vec3) Add(v2 Vec3) Vec3 {
	return Vec3{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Subtract a vector.
func (v Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Multiply a 3 component vector with a scalar.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Multiply two vectors component-wise.
func (v Vec3) MulVec3(v2 Vec3) Vec3 {
	return Vec3{v[0] * v2[0], v[1] * v2[1], v[2] * v2[2]}
}

// Divide a 3 component vector by a scalar.
func (v Vec3) Div(s float32) Vec3 {
	inv := 1.0 / s
	return Vec3{v[0] * inv, v[1] * inv, v[2] * inv}
}

// Get 3 component vector length.
func (v Vec3) Len() float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Get squared 3 component vector length.
func (v Vec3) LenSq() float32 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// Normalize 3 component vector. Near-zero vectors normalize to the zero
// vector so callers can detect degenerate directions.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < floatCmpEpsilon {
		return Vec3{}
	}
	inv := 1.0 / l
	return Vec3{v[0] * inv, v[1] * inv, v[2] * inv}
}

// Calculate dot product of 2 vectors
func (v Vec3) Dot(v2 Vec3) float32 {
	return v[0]*v2[0] + v[1]*v2[1] + v[2]*v2[2]
}

// Calculate cross product of 2 vectors.
func (v Vec3) Cross(v2 Vec3) Vec3 {
	return Vec3{v[1]*v2[2] - v[2]*v2[1], v[2]*v2[0] - v[0]*v2[2], v[0]*v2[1] - v[1]*v2[0]}
}

// Get the largest of the vector components.
func (v Vec3) MaxComponent() float32 {
	out := v[0]
	if v[1] > out {
		out = v[1]
	}
	if v[2] > out {
		out = v[2]
	}
	return out
}

// Check whether all components are close to zero.
func (v Vec3) NearZero() bool {
	const s = 1e-6
	return math32.Abs(v[0]) < s && math32.Abs(v[1]) < s && math32.Abs(v[2]) < s
}

// Check whether any component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	for i := 0; i < 3; i++ {
		if math32.IsNaN(v[i]) || math32.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}

// Compare two vectors within epsilon.
func (v Vec3) ApproxEqual(v2 Vec3, epsilon float32) bool {
	return math32.Abs(v[0]-v2[0]) <= epsilon &&
		math32.Abs(v[1]-v2[1]) <= epsilon &&
		math32.Abs(v[2]-v2[2]) <= epsilon
}

// Linearly interpolate between two vectors.
func Lerp(v1, v2 Vec3, t float32) Vec3 {
	return v1.Mul(1 - t).Add(v2.Mul(t))
}

// Reflect an incident direction about a normal.
func Reflect(v, n Vec3) Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// Refract a unit incident direction through a surface with the given ratio
// of refraction indices. The caller must ensure refraction is possible.
func Refract(v, n Vec3, etaRatio float32) Vec3 {
	cosTheta := math32.Min(-v.Dot(n), 1.0)
	perp := v.Add(n.Mul(cosTheta)).Mul(etaRatio)
	parallel := n.Mul(-math32.Sqrt(math32.Abs(1.0 - perp.LenSq())))
	return perp.Add(parallel)
}

// Calc min component from two vectors
func MinVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] < out[0] {
		out[0] = v2[0]
	}
	if v2[1] < out[1] {
		out[1] = v2[1]
	}
	if v2[2] < out[2] {
		out[2] = v2[2]
	}
	return out
}

// Calc max component from two vectors
func MaxVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] > out[0] {
		out[0] = v2[0]
	}
	if v2[1] > out[1] {
		out[1] = v2[1]
	}
	if v2[2] > out[2] {
		out[2] = v2[2]
	}
	return out
}

// Reduce a 4 component vector to a Vec3.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Multiply 4 component vector with scalar.
func (v Vec4) Mul(s float32) Vec4 {
	return Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}
