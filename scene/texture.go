package scene

import (
	"fmt"

	"github.com/aethr/lumen/types"
	"github.com/chewxy/math32"
)

// Texture maps a surface coordinate and world-space point to a color.
type Texture interface {
	At(u, v float32, p types.Vec3) types.Vec3
}

// Uniform color.
type Solid struct {
	C types.Vec3
}

// Create a solid color texture.
func NewSolid(r, g, b float32) Solid {
	return Solid{C: types.Vec3{r, g, b}}
}

func (s Solid) At(u, v float32, p types.Vec3) types.Vec3 {
	return s.C
}

// Two textures alternating on a 3D checkerboard.
type Checker struct {
	Even Texture
	Odd  Texture
}

// Create a checker texture from two solid colors.
func NewChecker(even, odd types.Vec3) Checker {
	return Checker{
		Even: Solid{C: even},
		Odd:  Solid{C: odd},
	}
}

func (c Checker) At(u, v float32, p types.Vec3) types.Vec3 {
	sines := math32.Sin(10*p[0]) * math32.Sin(10*p[1]) * math32.Sin(10*p[2])
	if sines < 0 {
		return c.Odd.At(u, v, p)
	}
	return c.Even.At(u, v, p)
}

// Marble-like procedural texture driven by perlin turbulence.
type Noise struct {
	Perlin *Perlin
	Scale  float32
}

// Create a noise texture. The perlin field must be non-nil.
func NewNoise(perlin *Perlin, scale float32) Noise {
	return Noise{Perlin: perlin, Scale: scale}
}

func (n Noise) At(u, v float32, p types.Vec3) types.Vec3 {
	phase := n.Scale*p[2] + 10*n.Perlin.Turbulence(p, 7)
	val := 0.5 * (1 + math32.Sin(phase))
	return types.Vec3{val, val, val}
}

// Check that a texture used as surface reflectance stays inside [0, 1].
func validateAlbedo(t Texture) error {
	switch tex := t.(type) {
	case nil:
		return fmt.Errorf("missing albedo texture")
	case Solid:
		return validateReflectance(tex.C)
	case Checker:
		if err := validateAlbedo(tex.Even); err != nil {
			return err
		}
		return validateAlbedo(tex.Odd)
	case Noise:
		if tex.Perlin == nil {
			return fmt.Errorf("noise texture missing perlin field")
		}
		// Turbulence output keeps the marble value inside [0, 1].
		return nil
	}
	return nil
}

func validateReflectance(c types.Vec3) error {
	for i := 0; i < 3; i++ {
		if c[i] < 0 || c[i] > 1 {
			return fmt.Errorf("reflectance component %d out of [0, 1]: %g", i, c[i])
		}
	}
	return nil
}
