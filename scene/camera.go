package scene

import (
	"fmt"
	"math/rand"

	"github.com/aethr/lumen/types"
	"github.com/chewxy/math32"
)

// Direction of an interactive camera move relative to the view axes.
type CameraDirection uint8

const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
)

// The camera type controls the scene viewpoint. It implements a thin lens
// model: rays start on a disk of Aperture diameter and converge on the focus
// plane at FocusDist. Aperture zero degrades to a pinhole. Time0/Time1 span
// the shutter interval sampled by moving primitives.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3

	// Pending orbit deltas in radians, consumed by the next Update.
	Pitch float32
	Yaw   float32

	// Vertical field of view in degrees.
	FOV       float32
	Aspect    float32
	Aperture  float32
	FocusDist float32

	Time0 float32
	Time1 float32

	origin     types.Vec3
	lowerLeft  types.Vec3
	horizontal types.Vec3
	vertical   types.Vec3
	u, v, w    types.Vec3
	lensRadius float32
}

func NewCamera(fov float32) *Camera {
	c := &Camera{
		Position:  types.Vec3{0, 0, 0},
		LookAt:    types.Vec3{0, 0, -1},
		Up:        types.Vec3{0, 1, 0},
		FOV:       fov,
		Aspect:    1,
		FocusDist: 1,
	}
	c.Update()
	return c
}

// Setup camera projection for the output aspect ratio.
func (c *Camera) SetupProjection(aspect float32) {
	c.Aspect = aspect
	c.Update()
}

// Update camera. Applies pending pitch/yaw orbit deltas and rebuilds the
// film vectors.
func (c *Camera) Update() {
	dir := c.LookAt.Sub(c.Position).Normalize()

	if c.Pitch != 0 || c.Yaw != 0 {
		pitchAxis := dir.Cross(c.Up)
		pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
		yawQuat := types.QuatFromAxisAngle(c.Up, c.Yaw)
		orientQuat := pitchQuat.Mul(yawQuat).Normalize()

		dir = orientQuat.Rotate(dir).Normalize()
		c.LookAt = c.Position.Add(dir)
		c.Pitch, c.Yaw = 0, 0
	}

	theta := c.FOV * math32.Pi / 180
	h := math32.Tan(theta * 0.5)
	viewportH := 2 * h
	viewportW := c.Aspect * viewportH

	c.w = c.Position.Sub(c.LookAt).Normalize()
	c.u = c.Up.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	c.origin = c.Position
	c.horizontal = c.u.Mul(viewportW * c.FocusDist)
	c.vertical = c.v.Mul(viewportH * c.FocusDist)
	c.lowerLeft = c.origin.
		Sub(c.horizontal.Mul(0.5)).
		Sub(c.vertical.Mul(0.5)).
		Sub(c.w.Mul(c.FocusDist))
	c.lensRadius = c.Aperture * 0.5
}

// Move the camera along its view axes keeping the orientation.
func (c *Camera) Move(dir CameraDirection, speed float32) {
	var delta types.Vec3
	switch dir {
	case Forward:
		delta = c.w.Mul(-speed)
	case Backward:
		delta = c.w.Mul(speed)
	case Left:
		delta = c.u.Mul(-speed)
	case Right:
		delta = c.u.Mul(speed)
	}

	c.Position = c.Position.Add(delta)
	c.LookAt = c.LookAt.Add(delta)
	c.Update()
}

// Generate the primary ray through film coordinates (s, t) in [0, 1] with
// t = 1 at the top of the frame. A pinhole camera draws no lens sample and a
// zero-width shutter draws no time sample, keeping the consumed random
// stream identical for any aperture setting.
func (c *Camera) Ray(s, t float32, rng *rand.Rand) types.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := types.UnitDisk(rng)
		offset := c.u.Mul(rd[0] * c.lensRadius).Add(c.v.Mul(rd[1] * c.lensRadius))
		origin = origin.Add(offset)
	}

	time := c.Time0
	if c.Time1 > c.Time0 {
		time = c.Time0 + rng.Float32()*(c.Time1-c.Time0)
	}

	dir := c.lowerLeft.
		Add(c.horizontal.Mul(s)).
		Add(c.vertical.Mul(t)).
		Sub(origin)
	return types.NewRayAt(origin, dir, time)
}

// Check camera parameters before a render starts.
func (c *Camera) Validate() error {
	if c.FOV <= 0 || c.FOV >= 180 {
		return fmt.Errorf("camera: fov out of (0, 180): %g", c.FOV)
	}
	if c.Aspect <= 0 {
		return fmt.Errorf("camera: non-positive aspect ratio: %g", c.Aspect)
	}
	if c.FocusDist <= 0 {
		return fmt.Errorf("camera: non-positive focus distance: %g", c.FocusDist)
	}
	if c.Aperture < 0 {
		return fmt.Errorf("camera: negative aperture: %g", c.Aperture)
	}
	if c.Time1 < c.Time0 {
		return fmt.Errorf("camera: shutter closes before it opens")
	}
	dir := c.LookAt.Sub(c.Position)
	if dir.NearZero() {
		return fmt.Errorf("camera: position and look-at coincide")
	}
	if dir.Normalize().Cross(c.Up).NearZero() {
		return fmt.Errorf("camera: up vector parallel to view direction")
	}
	return nil
}
