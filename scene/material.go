package scene

import (
	"fmt"
	"math/rand"

	"github.com/aethr/lumen/types"
	"github.com/chewxy/math32"
)

// Scatter describes a bounce off a surface: the continuation ray and the
// throughput attenuation it carries.
type Scatter struct {
	Ray         types.Ray
	Attenuation types.Vec3
}

// Material is the closed set of surface responses. Scatter returns false when
// the path is absorbed. All randomness comes from the passed source; no
// variant may keep hidden random state.
type Material interface {
	Scatter(r types.Ray, hit *Hit, rng *rand.Rand) (Scatter, bool)
	Emitted(hit *Hit) types.Vec3
	Validate() error
}

// Diffuse surface with cosine-weighted hemisphere scattering.
type Lambertian struct {
	Albedo Texture
}

// Create a lambertian material from a solid color.
func NewLambertian(r, g, b float32) *Lambertian {
	return &Lambertian{Albedo: NewSolid(r, g, b)}
}

// Create a lambertian material from a texture.
func NewTexturedLambertian(tex Texture) *Lambertian {
	return &Lambertian{Albedo: tex}
}

func (m *Lambertian) Scatter(r types.Ray, hit *Hit, rng *rand.Rand) (Scatter, bool) {
	dir := types.CosineHemisphere(hit.Normal, rng)
	if dir.NearZero() {
		dir = hit.Normal
	}
	return Scatter{
		Ray:         types.NewRayAt(hit.Point, dir, r.Time),
		Attenuation: m.Albedo.At(hit.U, hit.V, hit.Point),
	}, true
}

func (m *Lambertian) Emitted(hit *Hit) types.Vec3 {
	return types.Vec3{}
}

func (m *Lambertian) Validate() error {
	if err := validateAlbedo(m.Albedo); err != nil {
		return fmt.Errorf("lambertian: %s", err)
	}
	return nil
}

// Reflective surface. Fuzz perturbs the mirror direction; rays perturbed
// below the surface are absorbed.
type Metal struct {
	Albedo Texture
	Fuzz   float32
}

// Create a metal material. Fuzz above 1 is clamped.
func NewMetal(albedo types.Vec3, fuzz float32) *Metal {
	if fuzz > 1 {
		fuzz = 1
	}
	return &Metal{Albedo: Solid{C: albedo}, Fuzz: fuzz}
}

func (m *Metal) Scatter(r types.Ray, hit *Hit, rng *rand.Rand) (Scatter, bool) {
	reflected := types.Reflect(r.Dir, hit.Normal)
	if m.Fuzz > 0 {
		reflected = reflected.Add(types.UnitSphere(rng).Mul(m.Fuzz))
	}
	if reflected.Dot(hit.Normal) <= 0 {
		return Scatter{}, false
	}
	return Scatter{
		Ray:         types.NewRayAt(hit.Point, reflected, r.Time),
		Attenuation: m.Albedo.At(hit.U, hit.V, hit.Point),
	}, true
}

func (m *Metal) Emitted(hit *Hit) types.Vec3 {
	return types.Vec3{}
}

func (m *Metal) Validate() error {
	if m.Fuzz < 0 || m.Fuzz > 1 {
		return fmt.Errorf("metal: fuzz out of [0, 1]: %g", m.Fuzz)
	}
	if err := validateAlbedo(m.Albedo); err != nil {
		return fmt.Errorf("metal: %s", err)
	}
	return nil
}

// Clear dielectric such as glass or water. Attenuation is always full white;
// the refraction index decides how rays bend or reflect.
type Dielectric struct {
	RefIdx float32
}

// Create a dielectric material with the given refraction index.
func NewDielectric(refIdx float32) *Dielectric {
	return &Dielectric{RefIdx: refIdx}
}

func (m *Dielectric) Scatter(r types.Ray, hit *Hit, rng *rand.Rand) (Scatter, bool) {
	ratio := m.RefIdx
	if hit.FrontFace {
		ratio = 1.0 / m.RefIdx
	}

	cosTheta := math32.Min(-r.Dir.Dot(hit.Normal), 1.0)
	sinTheta := math32.Sqrt(1.0 - cosTheta*cosTheta)

	var dir types.Vec3
	cannotRefract := ratio*sinTheta > 1.0
	if cannotRefract || SchlickReflectance(cosTheta, ratio) > rng.Float32() {
		dir = types.Reflect(r.Dir, hit.Normal)
	} else {
		dir = types.Refract(r.Dir, hit.Normal, ratio)
	}

	return Scatter{
		Ray:         types.NewRayAt(hit.Point, dir, r.Time),
		Attenuation: types.Vec3{1, 1, 1},
	}, true
}

func (m *Dielectric) Emitted(hit *Hit) types.Vec3 {
	return types.Vec3{}
}

func (m *Dielectric) Validate() error {
	if m.RefIdx < 1 {
		return fmt.Errorf("dielectric: refraction index below 1: %g", m.RefIdx)
	}
	return nil
}

// Light-emitting surface. Never scatters; brightness lives in the texture
// color and may exceed 1.
type Emissive struct {
	Emit Texture
}

// Create an emissive material from a solid color.
func NewEmissive(r, g, b float32) *Emissive {
	return &Emissive{Emit: NewSolid(r, g, b)}
}

func (m *Emissive) Scatter(r types.Ray, hit *Hit, rng *rand.Rand) (Scatter, bool) {
	return Scatter{}, false
}

func (m *Emissive) Emitted(hit *Hit) types.Vec3 {
	return m.Emit.At(hit.U, hit.V, hit.Point)
}

func (m *Emissive) Validate() error {
	if m.Emit == nil {
		return fmt.Errorf("emissive: missing emit texture")
	}
	return nil
}

// Schlick approximation of the Fresnel reflectance for a given incidence
// cosine and refraction ratio.
func SchlickReflectance(cosine, ratio float32) float32 {
	r0 := (1 - ratio) / (1 + ratio)
	r0 = r0 * r0
	return r0 + (1-r0)*math32.Pow(1-cosine, 5)
}
