package scene

import (
	"math/rand"
	"testing"

	"github.com/aethr/lumen/types"
	"github.com/chewxy/math32"
)

func perlinSamplePoints() []types.Vec3 {
	points := make([]types.Vec3, 0, 64)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				points = append(points, types.Vec3{
					float32(i)*1.3 - 2.1,
					float32(j)*0.7 + 0.35,
					float32(k)*2.9 - 4.2,
				})
			}
		}
	}
	return points
}

func TestPerlinNoiseRange(t *testing.T) {
	perlin := NewPerlin(rand.New(rand.NewSource(13)))

	var nonZero bool
	for _, pt := range perlinSamplePoints() {
		n := perlin.Noise(pt)
		if n < -1 || n > 1 {
			t.Fatalf("expected noise at %v inside [-1, 1]; got %f", pt, n)
		}
		if n != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Fatal("expected the noise field to not be identically zero")
	}
}

func TestPerlinDeterminism(t *testing.T) {
	perlinA := NewPerlin(rand.New(rand.NewSource(13)))
	perlinB := NewPerlin(rand.New(rand.NewSource(13)))
	perlinC := NewPerlin(rand.New(rand.NewSource(14)))

	var differs bool
	for _, pt := range perlinSamplePoints() {
		if perlinA.Noise(pt) != perlinB.Noise(pt) {
			t.Fatalf("expected equal seeds to generate the same field; differs at %v", pt)
		}
		if perlinA.Noise(pt) != perlinC.Noise(pt) {
			differs = true
		}
	}
	if !differs {
		t.Fatal("expected different seeds to generate different fields")
	}
}

func TestPerlinTurbulence(t *testing.T) {
	perlin := NewPerlin(rand.New(rand.NewSource(13)))

	for _, pt := range perlinSamplePoints() {
		if turb := perlin.Turbulence(pt, 7); turb < 0 {
			t.Fatalf("expected non-negative turbulence at %v; got %f", pt, turb)
		}
	}
}

func TestNoiseTextureRange(t *testing.T) {
	tex := NewNoise(NewPerlin(rand.New(rand.NewSource(13))), 4)

	for _, pt := range perlinSamplePoints() {
		c := tex.At(0, 0, pt)
		if c[0] < 0 || c[0] > 1 {
			t.Fatalf("expected marble value at %v inside [0, 1]; got %f", pt, c[0])
		}
		if c[0] != c[1] || c[1] != c[2] {
			t.Fatalf("expected a grayscale marble value at %v; got %v", pt, c)
		}
	}
}

func TestCheckerTexture(t *testing.T) {
	tex := NewChecker(types.Vec3{1, 1, 1}, types.Vec3{0, 0, 0})

	// sin(10 * pi/20) = 1 on all axes selects the even color.
	even := types.Vec3{math32.Pi / 20, math32.Pi / 20, math32.Pi / 20}
	if got := tex.At(0, 0, even); got != (types.Vec3{1, 1, 1}) {
		t.Fatalf("expected even checker color; got %v", got)
	}

	// Flipping one axis sign flips the sine product.
	odd := types.Vec3{-math32.Pi / 20, math32.Pi / 20, math32.Pi / 20}
	if got := tex.At(0, 0, odd); got != (types.Vec3{0, 0, 0}) {
		t.Fatalf("expected odd checker color; got %v", got)
	}
}
