package scene

import (
	"math/rand"

	"github.com/aethr/lumen/types"
	"github.com/chewxy/math32"
)

const perlinPointCount = 256

// Gradient lattice noise. All randomness is drawn from the rng passed to the
// constructor so equal seeds produce equal noise fields.
type Perlin struct {
	gradients [perlinPointCount]types.Vec3
	perm      [3][perlinPointCount]int
}

// Create a perlin noise generator from a random source.
func NewPerlin(rng *rand.Rand) *Perlin {
	p := &Perlin{}
	for i := 0; i < perlinPointCount; i++ {
		g := types.Vec3{
			2*rng.Float32() - 1,
			2*rng.Float32() - 1,
			2*rng.Float32() - 1,
		}
		p.gradients[i] = g.Normalize()
	}
	for axis := 0; axis < 3; axis++ {
		p.perm[axis] = generatePerm(rng)
	}
	return p
}

func generatePerm(rng *rand.Rand) [perlinPointCount]int {
	var perm [perlinPointCount]int
	for i := 0; i < perlinPointCount; i++ {
		perm[i] = i
	}
	for i := perlinPointCount - 1; i > 0; i-- {
		target := rng.Intn(i + 1)
		perm[i], perm[target] = perm[target], perm[i]
	}
	return perm
}

// Evaluate the noise field at a point. Output lies in [-1, 1].
func (p *Perlin) Noise(pt types.Vec3) float32 {
	var lattice [3]int
	var frac [3]float32
	for axis := 0; axis < 3; axis++ {
		floor := math32.Floor(pt[axis])
		lattice[axis] = int(floor)
		frac[axis] = pt[axis] - floor
	}

	// Hermite-smoothed interpolation weights.
	var smooth [3]float32
	for axis := 0; axis < 3; axis++ {
		u := frac[axis]
		smooth[axis] = u * u * (3 - 2*u)
	}

	var accum float32
	for di := 0; di < 2; di++ {
		for dj := 0; dj < 2; dj++ {
			for dk := 0; dk < 2; dk++ {
				idx := p.perm[0][(lattice[0]+di)&0xff] ^
					p.perm[1][(lattice[1]+dj)&0xff] ^
					p.perm[2][(lattice[2]+dk)&0xff]
				grad := p.gradients[idx]

				weight := types.Vec3{
					frac[0] - float32(di),
					frac[1] - float32(dj),
					frac[2] - float32(dk),
				}
				factor := lerpWeight(di, smooth[0]) *
					lerpWeight(dj, smooth[1]) *
					lerpWeight(dk, smooth[2])
				accum += factor * grad.Dot(weight)
			}
		}
	}
	return accum
}

func lerpWeight(corner int, u float32) float32 {
	if corner == 1 {
		return u
	}
	return 1 - u
}

// Sum octaves of noise with halving weights. Output is non-negative.
func (p *Perlin) Turbulence(pt types.Vec3, depth int) float32 {
	var accum float32
	weight := float32(1.0)
	for i := 0; i < depth; i++ {
		accum += weight * p.Noise(pt)
		weight *= 0.5
		pt = pt.Mul(2)
	}
	return math32.Abs(accum)
}
