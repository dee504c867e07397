package scene

import (
	"github.com/aethr/lumen/types"
	"github.com/chewxy/math32"
)

// Translate shifts a wrapped primitive by a fixed offset. The ray is moved
// into object space instead of moving the geometry.
type Translate struct {
	Inner  Primitive
	Offset types.Vec3
}

// Create a translated instance of a primitive.
func NewTranslate(inner Primitive, offset types.Vec3) *Translate {
	return &Translate{Inner: inner, Offset: offset}
}

func (t *Translate) Intersect(r types.Ray, tMin, tMax float32, hit *Hit) bool {
	moved := r
	moved.Origin = r.Origin.Sub(t.Offset)
	if !t.Inner.Intersect(moved, tMin, tMax, hit) {
		return false
	}
	hit.Point = hit.Point.Add(t.Offset)
	return true
}

func (t *Translate) Bounds() types.AABB {
	inner := t.Inner.Bounds()
	if inner.Empty() {
		return inner
	}
	return types.AABBFromCorners(inner.Min.Add(t.Offset), inner.Max.Add(t.Offset))
}

func (t *Translate) Center() types.Vec3 {
	return t.Inner.Center().Add(t.Offset)
}

func (t *Translate) Material() Material {
	return t.Inner.Material()
}

// RotateY spins a wrapped primitive around the world Y axis.
type RotateY struct {
	Inner    Primitive
	sin, cos float32
	bounds   types.AABB
}

// Create a rotated instance of a primitive. The angle is in degrees,
// positive values rotate counter-clockwise when viewed from above.
func NewRotateY(inner Primitive, degrees float32) *RotateY {
	sin, cos := math32.Sincos(degrees * math32.Pi / 180)
	ry := &RotateY{Inner: inner, sin: sin, cos: cos}

	innerBounds := inner.Bounds()
	if innerBounds.Empty() {
		ry.bounds = innerBounds
		return ry
	}
	box := types.NewAABB()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				x := float32(i)*innerBounds.Max[0] + float32(1-i)*innerBounds.Min[0]
				y := float32(j)*innerBounds.Max[1] + float32(1-j)*innerBounds.Min[1]
				z := float32(k)*innerBounds.Max[2] + float32(1-k)*innerBounds.Min[2]
				box = box.ExtendPoint(ry.rotate(types.Vec3{x, y, z}))
			}
		}
	}
	ry.bounds = box
	return ry
}

func (ry *RotateY) rotate(v types.Vec3) types.Vec3 {
	return types.Vec3{
		ry.cos*v[0] + ry.sin*v[2],
		v[1],
		-ry.sin*v[0] + ry.cos*v[2],
	}
}

func (ry *RotateY) rotateInv(v types.Vec3) types.Vec3 {
	return types.Vec3{
		ry.cos*v[0] - ry.sin*v[2],
		v[1],
		ry.sin*v[0] + ry.cos*v[2],
	}
}

func (ry *RotateY) Intersect(r types.Ray, tMin, tMax float32, hit *Hit) bool {
	rotated := types.NewRayAt(ry.rotateInv(r.Origin), ry.rotateInv(r.Dir), r.Time)
	if !ry.Inner.Intersect(rotated, tMin, tMax, hit) {
		return false
	}
	hit.Point = ry.rotate(hit.Point)
	hit.Normal = ry.rotate(hit.Normal)
	return true
}

func (ry *RotateY) Bounds() types.AABB {
	return ry.bounds
}

func (ry *RotateY) Center() types.Vec3 {
	return ry.rotate(ry.Inner.Center())
}

func (ry *RotateY) Material() Material {
	return ry.Inner.Material()
}
