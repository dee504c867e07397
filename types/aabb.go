package types

import "github.com/chewxy/math32"

// Axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// Create an empty AABB that extends no point.
func NewAABB() AABB {
	return AABB{
		Min: Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
}

// Create an AABB spanning two corner points.
func AABBFromCorners(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Extend the box so that it includes a point.
func (b AABB) ExtendPoint(p Vec3) AABB {
	return AABB{
		Min: MinVec3(b.Min, p),
		Max: MaxVec3(b.Max, p),
	}
}

// Get the union of two boxes.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: MinVec3(b.Min, other.Min),
		Max: MaxVec3(b.Max, other.Max),
	}
}

// Get the box center.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Check whether the box extends no volume at all.
func (b AABB) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Get the box surface area. Used by the builder's split scoring.
func (b AABB) SurfaceArea() float32 {
	if b.Empty() {
		return 0
	}
	d := b.Max.Sub(b.Min)
	return 2 * (d[0]*d[1] + d[1]*d[2] + d[2]*d[0])
}

// Slab test against a ray segment. Returns true when the ray overlaps the
// box anywhere inside [tMin, tMax].
func (b AABB) Hit(r Ray, tMin, tMax float32) bool {
	for a := 0; a < 3; a++ {
		inv := r.InvDir[a]
		t0 := (b.Min[a] - r.Origin[a]) * inv
		t1 := (b.Max[a] - r.Origin[a]) * inv
		if inv < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax <= tMin {
			return false
		}
	}
	return true
}
