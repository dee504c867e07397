package scene

import (
	"github.com/aethr/lumen/types"
	"github.com/chewxy/math32"
)

// Plane selector for axis-aligned rectangles.
type RectPlane uint8

const (
	PlaneXY RectPlane = iota
	PlaneXZ
	PlaneYZ
)

// Component indexes (a, b, k) for each plane: a and b span the rectangle,
// k is the fixed axis.
var planeAxes = [3][3]int{
	PlaneXY: {0, 1, 2},
	PlaneXZ: {0, 2, 1},
	PlaneYZ: {1, 2, 0},
}

// Axis-aligned rectangle spanning [A0,A1]x[B0,B1] at offset K along the
// fixed axis.
type Quad struct {
	Plane  RectPlane
	A0, B0 float32
	A1, B1 float32
	K      float32
	Mat    Material
}

// Create an axis-aligned rectangle. Corners are reordered so that
// A0 < A1 and B0 < B1.
func NewQuad(plane RectPlane, a0, b0, a1, b1, k float32, mat Material) *Quad {
	if a0 > a1 {
		a0, a1 = a1, a0
	}
	if b0 > b1 {
		b0, b1 = b1, b0
	}
	return &Quad{Plane: plane, A0: a0, B0: b0, A1: a1, B1: b1, K: k, Mat: mat}
}

func (q *Quad) Intersect(r types.Ray, tMin, tMax float32, hit *Hit) bool {
	axes := planeAxes[q.Plane]
	ai, bi, ki := axes[0], axes[1], axes[2]

	t := (q.K - r.Origin[ki]) * r.InvDir[ki]
	if math32.IsNaN(t) || t < tMin || t > tMax {
		return false
	}

	p := r.At(t)
	a, b := p[ai], p[bi]
	if a < q.A0 || a > q.A1 || b < q.B0 || b > q.B1 {
		return false
	}

	var outward types.Vec3
	outward[ki] = 1

	hit.T = t
	hit.Point = p
	hit.SetFaceNormal(r, outward)
	hit.U = (a - q.A0) / (q.A1 - q.A0)
	hit.V = (b - q.B0) / (q.B1 - q.B0)
	hit.Mat = q.Mat
	return true
}

func (q *Quad) Bounds() types.AABB {
	axes := planeAxes[q.Plane]
	var min, max types.Vec3
	min[axes[0]], max[axes[0]] = q.A0, q.A1
	min[axes[1]], max[axes[1]] = q.B0, q.B1
	min[axes[2]], max[axes[2]] = q.K-1e-4, q.K+1e-4
	return types.AABBFromCorners(min, max)
}

func (q *Quad) Center() types.Vec3 {
	return q.Bounds().Center()
}

func (q *Quad) Material() Material {
	return q.Mat
}

// Axis-aligned box assembled from six rectangles.
type Box struct {
	Min, Max types.Vec3
	Mat      Material

	sides [6]*Quad
}

// Create an axis-aligned box between two corner points.
func NewBox(min, max types.Vec3, mat Material) *Box {
	b := &Box{Min: types.MinVec3(min, max), Max: types.MaxVec3(min, max), Mat: mat}

	i := 0
	for plane := PlaneXY; plane <= PlaneYZ; plane++ {
		axes := planeAxes[plane]
		for _, k := range [2]float32{b.Min[axes[2]], b.Max[axes[2]]} {
			b.sides[i] = NewQuad(plane,
				b.Min[axes[0]], b.Min[axes[1]],
				b.Max[axes[0]], b.Max[axes[1]],
				k, mat)
			i++
		}
	}
	return b
}

func (b *Box) Intersect(r types.Ray, tMin, tMax float32, hit *Hit) bool {
	found := false
	closest := tMax
	for _, side := range b.sides {
		if side.Intersect(r, tMin, closest, hit) {
			found = true
			closest = hit.T
		}
	}
	return found
}

func (b *Box) Bounds() types.AABB {
	return types.AABBFromCorners(b.Min, b.Max)
}

func (b *Box) Center() types.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b *Box) Material() Material {
	return b.Mat
}
