package types

// Ray defined by an origin and a unit direction. Time selects a point inside
// the camera shutter interval and is only meaningful to moving primitives.
type Ray struct {
	Origin Vec3
	Dir    Vec3
	InvDir Vec3
	Time   float32
}

// Create a ray with a normalized direction. A near-zero direction yields a
// degenerate ray which can never hit anything.
func NewRay(origin, dir Vec3) Ray {
	return NewRayAt(origin, dir, 0)
}

// Create a ray with a normalized direction and a shutter time sample.
func NewRayAt(origin, dir Vec3, time float32) Ray {
	r := Ray{
		Origin: origin,
		Dir:    dir.Normalize(),
		Time:   time,
	}
	// Zero direction components map to +/-Inf which the slab test handles.
	r.InvDir = Vec3{1.0 / r.Dir[0], 1.0 / r.Dir[1], 1.0 / r.Dir[2]}
	return r
}

// Get the point at parametric distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Check whether the ray carries no usable direction.
func (r Ray) Degenerate() bool {
	return r.Dir.NearZero()
}
