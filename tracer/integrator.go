package tracer

import (
	"math/rand"

	"github.com/aethr/lumen/bvh"
	"github.com/aethr/lumen/scene"
	"github.com/aethr/lumen/types"
	"github.com/chewxy/math32"
)

// MinHitDist is the minimum parametric distance for ray intersections.
// Starting each segment this far off its origin keeps scattered rays from
// re-hitting the surface they just left.
const MinHitDist float32 = 1e-3

// Integrator estimates the radiance arriving along a ray by following
// scatter paths through the scene until they get absorbed, leave the scene,
// reach the depth limit or lose the russian roulette draw.
type Integrator struct {
	Tree       *bvh.Tree
	Background scene.Background

	// Maximum number of scatter events per path. Zero collects only the
	// emission of directly visible surfaces.
	MaxDepth uint32

	// Number of scatter events after which russian roulette may terminate
	// a path. Zero disables roulette.
	RouletteDepth uint32

	// Lower bound for the roulette continuation probability.
	RouletteFloor float32
}

// Radiance returns the light transported back along r.
func (in *Integrator) Radiance(r types.Ray, rng *rand.Rand) types.Vec3 {
	var radiance types.Vec3
	throughput := types.Vec3{1, 1, 1}

	var hit scene.Hit
	for depth := uint32(0); ; depth++ {
		if r.Degenerate() {
			break
		}
		if !in.Tree.Intersect(r, MinHitDist, math32.Inf(1), &hit) {
			radiance = radiance.Add(throughput.MulVec3(in.Background.Radiance(r)))
			break
		}

		radiance = radiance.Add(throughput.MulVec3(hit.Mat.Emitted(&hit)))
		if depth >= in.MaxDepth {
			break
		}

		scatter, ok := hit.Mat.Scatter(r, &hit, rng)
		if !ok {
			break
		}
		throughput = throughput.MulVec3(scatter.Attenuation)
		r = scatter.Ray

		if in.RouletteDepth > 0 && depth+1 >= in.RouletteDepth {
			p := throughput.MaxComponent()
			if p > 1 {
				p = 1
			}
			if p < in.RouletteFloor {
				p = in.RouletteFloor
			}
			if rng.Float32() >= p {
				break
			}
			// Weight surviving paths so the estimate stays unbiased.
			throughput = throughput.Mul(1 / p)
		}
	}

	// A path that picked up a NaN or Inf contributes nothing.
	if !radiance.IsFinite() {
		return types.Vec3{}
	}
	return radiance
}
