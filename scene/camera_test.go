package scene

import (
	"math/rand"
	"testing"

	"github.com/aethr/lumen/types"
	"github.com/chewxy/math32"
)

func TestCameraValidate(t *testing.T) {
	specs := []struct {
		desc   string
		mutate func(c *Camera)
		expErr bool
	}{
		{"defaults", func(c *Camera) {}, false},
		{"zero fov", func(c *Camera) { c.FOV = 0 }, true},
		{"fov at 180", func(c *Camera) { c.FOV = 180 }, true},
		{"negative aspect", func(c *Camera) { c.Aspect = -1 }, true},
		{"zero focus distance", func(c *Camera) { c.FocusDist = 0 }, true},
		{"negative aperture", func(c *Camera) { c.Aperture = -0.1 }, true},
		{"shutter closes before opening", func(c *Camera) { c.Time0, c.Time1 = 1, 0 }, true},
		{"position equals look-at", func(c *Camera) { c.LookAt = c.Position }, true},
		{"up parallel to view direction", func(c *Camera) {
			c.LookAt = types.Vec3{0, 1, 0}
			c.Up = types.Vec3{0, 1, 0}
		}, true},
	}

	for specIndex, spec := range specs {
		c := NewCamera(60)
		spec.mutate(c)

		err := c.Validate()
		if spec.expErr && err == nil {
			t.Fatalf("[spec %d] expected a validation error for %s", specIndex, spec.desc)
		}
		if !spec.expErr && err != nil {
			t.Fatalf("[spec %d] expected no validation error for %s; got %v", specIndex, spec.desc, err)
		}
	}
}

func TestCameraRayDirections(t *testing.T) {
	c := NewCamera(90)
	rng := rand.New(rand.NewSource(1))

	// Film center looks straight down the view axis.
	r := c.Ray(0.5, 0.5, rng)
	if r.Dir != (types.Vec3{0, 0, -1}) {
		t.Fatalf("expected center ray direction (0, 0, -1); got %v", r.Dir)
	}
	if r.Origin != c.Position {
		t.Fatalf("expected pinhole ray origin at the camera position; got %v", r.Origin)
	}

	// The film right edge bends 45 degrees at a 90 degree fov.
	r = c.Ray(1, 0.5, rng)
	exp := types.Vec3{0.70710678, 0, -0.70710678}
	if !r.Dir.ApproxEqual(exp, 1e-4) {
		t.Fatalf("expected right edge ray direction %v; got %v", exp, r.Dir)
	}

	// t = 1 addresses the top of the frame.
	r = c.Ray(0.5, 1, rng)
	if r.Dir[1] <= 0 {
		t.Fatalf("expected top-of-frame ray to point up; got %v", r.Dir)
	}
}

func TestCameraPinholeDrawsNothing(t *testing.T) {
	c := NewCamera(60)

	// A pinhole camera with a zero-width shutter must consume no random
	// draws, keeping sample streams identical across aperture settings.
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 3; i++ {
		r := c.Ray(0.3, 0.7, rng)
		if r.Origin != c.Position {
			t.Fatalf("[ray %d] expected pinhole origin at the camera position; got %v", i, r.Origin)
		}
		if r.Time != 0 {
			t.Fatalf("[ray %d] expected shutter time 0; got %f", i, r.Time)
		}
	}

	fresh := rand.New(rand.NewSource(99))
	if got, exp := rng.Float32(), fresh.Float32(); got != exp {
		t.Fatalf("expected untouched random stream; got %f want %f", got, exp)
	}
}

func TestCameraLensAndShutterDraws(t *testing.T) {
	c := NewCamera(60)
	c.Aperture = 0.2
	c.FocusDist = 5
	c.Time0, c.Time1 = 0, 1
	c.Update()

	rngA := rand.New(rand.NewSource(5))
	rngB := rand.New(rand.NewSource(5))

	sawOffset := false
	for i := 0; i < 16; i++ {
		ra := c.Ray(0.5, 0.5, rngA)
		rb := c.Ray(0.5, 0.5, rngB)

		// Equal seeds walk identical draw sequences.
		if ra != rb {
			t.Fatalf("[ray %d] expected identical rays for equal seeds; got %v and %v", i, ra, rb)
		}
		if ra.Time < 0 || ra.Time >= 1 {
			t.Fatalf("[ray %d] expected shutter time in [0, 1); got %f", i, ra.Time)
		}
		if ra.Origin != c.Position {
			sawOffset = true
		}
	}
	if !sawOffset {
		t.Fatal("expected the lens to offset at least one ray origin")
	}
}

func TestCameraMove(t *testing.T) {
	c := NewCamera(60)

	c.Move(Forward, 0.5)
	if c.Position != (types.Vec3{0, 0, -0.5}) || c.LookAt != (types.Vec3{0, 0, -1.5}) {
		t.Fatalf("expected forward move to -0.5 on z; got position %v look-at %v", c.Position, c.LookAt)
	}

	c.Move(Right, 0.25)
	if c.Position != (types.Vec3{0.25, 0, -0.5}) {
		t.Fatalf("expected right move to 0.25 on x; got %v", c.Position)
	}

	c.Move(Backward, 0.5)
	c.Move(Left, 0.25)
	if c.Position != (types.Vec3{0, 0, 0}) {
		t.Fatalf("expected moves to cancel back to the origin; got %v", c.Position)
	}
}

func TestCameraOrbit(t *testing.T) {
	c := NewCamera(60)

	// A quarter yaw turn swings the view from -z onto -x.
	c.Yaw = math32.Pi / 2
	c.Update()
	if !c.LookAt.ApproxEqual(types.Vec3{-1, 0, 0}, 1e-4) {
		t.Fatalf("expected look-at (-1, 0, 0) after yaw; got %v", c.LookAt)
	}
	if c.Pitch != 0 || c.Yaw != 0 {
		t.Fatalf("expected orbit deltas consumed by update; got pitch %f yaw %f", c.Pitch, c.Yaw)
	}

	// An eighth pitch turn tilts the view up by 45 degrees.
	c = NewCamera(60)
	c.Pitch = math32.Pi / 4
	c.Update()
	exp := types.Vec3{0, 0.70710678, -0.70710678}
	if !c.LookAt.ApproxEqual(exp, 1e-4) {
		t.Fatalf("expected look-at %v after pitch; got %v", exp, c.LookAt)
	}
}
