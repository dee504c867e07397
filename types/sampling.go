package types

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// Sample a point inside the unit disk via rejection.
func UnitDisk(rng *rand.Rand) Vec2 {
	for {
		p := Vec2{2*rng.Float32() - 1, 2*rng.Float32() - 1}
		if p.Dot(p) < 1 {
			return p
		}
	}
}

// Sample a point inside the unit sphere via rejection.
func UnitSphere(rng *rand.Rand) Vec3 {
	for {
		p := Vec3{2*rng.Float32() - 1, 2*rng.Float32() - 1, 2*rng.Float32() - 1}
		if p.LenSq() < 1 {
			return p
		}
	}
}

// Orthonormal basis around a unit w axis.
type ONB struct {
	U, V, W Vec3
}

// Build a basis whose W axis matches the given unit normal.
func BuildONB(w Vec3) ONB {
	a := Vec3{1, 0, 0}
	if math32.Abs(w[0]) > 0.9 {
		a = Vec3{0, 1, 0}
	}
	v := w.Cross(a).Normalize()
	return ONB{
		U: w.Cross(v),
		V: v,
		W: w,
	}
}

// Transform basis-local coordinates to world space.
func (b ONB) Local(x, y, z float32) Vec3 {
	return b.U.Mul(x).Add(b.V.Mul(y)).Add(b.W.Mul(z))
}

// Sample a cosine-weighted direction on the hemisphere around a unit normal.
func CosineHemisphere(n Vec3, rng *rand.Rand) Vec3 {
	r1 := rng.Float32()
	r2 := rng.Float32()
	phi := 2 * math32.Pi * r1
	sqrtR2 := math32.Sqrt(r2)

	basis := BuildONB(n)
	return basis.Local(
		math32.Cos(phi)*sqrtR2,
		math32.Sin(phi)*sqrtR2,
		math32.Sqrt(1-r2),
	)
}
