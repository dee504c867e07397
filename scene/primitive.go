package scene

import (
	"github.com/aethr/lumen/types"
	"github.com/chewxy/math32"
)

// Hit captures the nearest surface interaction along a ray.
type Hit struct {
	T         float32
	Point     types.Vec3
	Normal    types.Vec3
	U, V      float32
	FrontFace bool
	Mat       Material
}

// Orient the stored normal against the incident ray. The outward normal must
// be unit length; the stored normal always faces the ray origin.
func (h *Hit) SetFaceNormal(r types.Ray, outward types.Vec3) {
	h.FrontFace = r.Dir.Dot(outward) < 0
	if h.FrontFace {
		h.Normal = outward
	} else {
		h.Normal = outward.Mul(-1)
	}
}

// Primitive is the closed set of scene geometry. Intersect reports the
// nearest hit inside (tMin, tMax) and fills the hit record only on success.
// Bounds and Center drive the hierarchy build.
type Primitive interface {
	Intersect(r types.Ray, tMin, tMax float32, hit *Hit) bool
	Bounds() types.AABB
	Center() types.Vec3
	Material() Material
}

// Pad near-flat box dimensions so the slab test cannot collapse them.
func padBounds(b types.AABB) types.AABB {
	const pad = 1e-4
	for a := 0; a < 3; a++ {
		if b.Max[a]-b.Min[a] < pad {
			b.Min[a] -= pad
			b.Max[a] += pad
		}
	}
	return b
}

// Sphere primitive. A non-zero velocity moves the center linearly across the
// shutter interval [0, 1]. Non-positive radius marks the sphere degenerate:
// it never hits and extends no bounds.
type Sphere struct {
	Origin   types.Vec3
	Radius   float32
	Velocity types.Vec3
	Mat      Material

	moving bool
}

// Create a static sphere.
func NewSphere(origin types.Vec3, radius float32, mat Material) *Sphere {
	return &Sphere{Origin: origin, Radius: radius, Mat: mat}
}

// Create a sphere whose center moves from origin0 at shutter open to origin1
// at shutter close.
func NewMovingSphere(origin0, origin1 types.Vec3, radius float32, mat Material) *Sphere {
	return &Sphere{
		Origin:   origin0,
		Radius:   radius,
		Velocity: origin1.Sub(origin0),
		Mat:      mat,
		moving:   true,
	}
}

func (s *Sphere) centerAt(time float32) types.Vec3 {
	if !s.moving {
		return s.Origin
	}
	return s.Origin.Add(s.Velocity.Mul(time))
}

func (s *Sphere) Intersect(r types.Ray, tMin, tMax float32, hit *Hit) bool {
	if s.Radius <= 0 {
		return false
	}

	center := s.centerAt(r.Time)
	oc := r.Origin.Sub(center)
	halfB := oc.Dot(r.Dir)
	c := oc.LenSq() - s.Radius*s.Radius

	discriminant := halfB*halfB - c
	if discriminant < 0 {
		return false
	}
	sqrtD := math32.Sqrt(discriminant)

	root := -halfB - sqrtD
	if root < tMin || root > tMax {
		root = -halfB + sqrtD
		if root < tMin || root > tMax {
			return false
		}
	}

	hit.T = root
	hit.Point = r.At(root)
	outward := hit.Point.Sub(center).Div(s.Radius)
	hit.SetFaceNormal(r, outward)
	hit.U, hit.V = sphereUV(outward)
	hit.Mat = s.Mat
	return true
}

// Map a unit sphere surface point to latitude/longitude coordinates.
func sphereUV(p types.Vec3) (u, v float32) {
	theta := math32.Acos(-p[1])
	phi := math32.Atan2(-p[2], p[0]) + math32.Pi
	return phi / (2 * math32.Pi), theta / math32.Pi
}

func (s *Sphere) Bounds() types.AABB {
	if s.Radius <= 0 {
		return types.NewAABB()
	}
	rv := types.Vec3{s.Radius, s.Radius, s.Radius}
	box := types.AABBFromCorners(s.Origin.Sub(rv), s.Origin.Add(rv))
	if s.moving {
		end := s.Origin.Add(s.Velocity)
		box = box.Union(types.AABBFromCorners(end.Sub(rv), end.Add(rv)))
	}
	return box
}

func (s *Sphere) Center() types.Vec3 {
	return s.centerAt(0.5)
}

func (s *Sphere) Material() Material {
	return s.Mat
}
