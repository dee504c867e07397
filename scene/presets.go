package scene

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/aethr/lumen/types"
)

var ErrUnknownPreset = errors.New("scene: unknown preset")

// Preset is a named, self-contained scene plus the camera it was designed
// for. Build is deterministic for a given seed.
type Preset struct {
	Name        string
	Description string
	Build       func(seed int64) (*Scene, *Camera, error)
}

// Catalog of built-in scenes.
func Presets() []Preset {
	return []Preset{
		{
			Name:        "random",
			Description: "grid of small random spheres with three marquee spheres",
			Build:       randomScene,
		},
		{
			Name:        "two-spheres",
			Description: "two large checkered spheres",
			Build:       twoSpheres,
		},
		{
			Name:        "perlin-spheres",
			Description: "marble noise spheres on a noise ground",
			Build:       perlinSpheres,
		},
		{
			Name:        "simple-light",
			Description: "noise spheres lit by a rectangular area light",
			Build:       simpleLight,
		},
		{
			Name:        "cornell",
			Description: "cornell box with two rotated boxes",
			Build:       cornellBox,
		},
		{
			Name:        "mesh",
			Description: "metal pyramid mesh beside a glass sphere",
			Build:       meshDemo,
		},
	}
}

// Look up a preset by name.
func PresetByName(name string) (Preset, error) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// The shared preset camera: all presets keep a 0.1 aperture, a focus
// distance of 10 and a full [0, 1] shutter.
func presetCamera(position, lookAt types.Vec3, fov float32) *Camera {
	cam := NewCamera(fov)
	cam.Position = position
	cam.LookAt = lookAt
	cam.Aperture = 0.1
	cam.FocusDist = 10
	cam.Time0, cam.Time1 = 0, 1
	cam.Update()
	return cam
}

func randVec3(rng *rand.Rand, min, max float32) types.Vec3 {
	span := max - min
	return types.Vec3{
		min + span*rng.Float32(),
		min + span*rng.Float32(),
		min + span*rng.Float32(),
	}
}

func randomScene(seed int64) (*Scene, *Camera, error) {
	rng := rand.New(rand.NewSource(seed))
	b := NewBuilder()

	ground := NewTexturedLambertian(NewChecker(
		types.Vec3{0.2, 0.3, 0.1},
		types.Vec3{0.9, 0.9, 0.9},
	))
	b.Add(NewSphere(types.Vec3{0, -1000, 0}, 1000, ground))

	for a := -11; a < 11; a++ {
		for c := -11; c < 11; c++ {
			matChoice := rng.Float32()
			center := types.Vec3{
				float32(a) + 0.9*rng.Float32(),
				0.2,
				float32(c) + 0.9*rng.Float32(),
			}
			if center.Sub(types.Vec3{4, 0.2, 0}).Len() <= 0.9 {
				continue
			}

			switch {
			case matChoice < 0.8:
				albedo := randVec3(rng, 0, 1).MulVec3(randVec3(rng, 0, 1))
				center1 := center.Add(types.Vec3{0, 0.5 * rng.Float32(), 0})
				b.Add(NewMovingSphere(center, center1, 0.2, NewTexturedLambertian(Solid{C: albedo})))
			case matChoice < 0.95:
				albedo := randVec3(rng, 0.5, 1)
				fuzz := 0.5 * rng.Float32()
				b.Add(NewSphere(center, 0.2, NewMetal(albedo, fuzz)))
			default:
				b.Add(NewSphere(center, 0.2, NewDielectric(1.5)))
			}
		}
	}

	b.Add(
		NewSphere(types.Vec3{0, 1, 0}, 1, NewDielectric(1.5)),
		NewSphere(types.Vec3{-4, 1, 0}, 1, NewLambertian(0.4, 0.2, 0.1)),
		NewSphere(types.Vec3{4, 1, 0}, 1, NewMetal(types.Vec3{0.7, 0.6, 0.5}, 0)),
	)

	sc, err := b.Build()
	if err != nil {
		return nil, nil, err
	}
	return sc, presetCamera(types.Vec3{13, 2, 3}, types.Vec3{0, 0, 0}, 20), nil
}

func twoSpheres(seed int64) (*Scene, *Camera, error) {
	checker := NewTexturedLambertian(NewChecker(
		types.Vec3{0.2, 0.3, 0.1},
		types.Vec3{0.9, 0.9, 0.9},
	))
	sc, err := NewBuilder().Add(
		NewSphere(types.Vec3{0, -10, 0}, 10, checker),
		NewSphere(types.Vec3{0, 10, 0}, 10, checker),
	).Build()
	if err != nil {
		return nil, nil, err
	}
	return sc, presetCamera(types.Vec3{13, 2, 3}, types.Vec3{0, 0, 0}, 20), nil
}

func perlinSpheres(seed int64) (*Scene, *Camera, error) {
	rng := rand.New(rand.NewSource(seed))
	marble := NewTexturedLambertian(NewNoise(NewPerlin(rng), 4))
	sc, err := NewBuilder().Add(
		NewSphere(types.Vec3{0, -1000, 0}, 1000, marble),
		NewSphere(types.Vec3{0, 2, 0}, 2, marble),
	).Build()
	if err != nil {
		return nil, nil, err
	}
	return sc, presetCamera(types.Vec3{13, 2, 3}, types.Vec3{0, 0, 0}, 20), nil
}

func simpleLight(seed int64) (*Scene, *Camera, error) {
	rng := rand.New(rand.NewSource(seed))
	marble := NewTexturedLambertian(NewNoise(NewPerlin(rng), 4))
	sc, err := NewBuilder().
		SetBackground(ConstantBackground(types.Vec3{})).
		Add(
			NewSphere(types.Vec3{0, -1000, 0}, 1000, marble),
			NewSphere(types.Vec3{0, 2, 0}, 2, marble),
			NewQuad(PlaneXY, 3, 1, 5, 3, -2, NewEmissive(4, 4, 4)),
		).Build()
	if err != nil {
		return nil, nil, err
	}
	return sc, presetCamera(types.Vec3{26, 3, 6}, types.Vec3{0, 2, 0}, 20), nil
}

func cornellBox(seed int64) (*Scene, *Camera, error) {
	red := NewLambertian(0.65, 0.05, 0.05)
	white := NewLambertian(0.73, 0.73, 0.73)
	green := NewLambertian(0.12, 0.45, 0.15)
	light := NewEmissive(15, 15, 15)

	tall := NewTranslate(
		NewRotateY(NewBox(types.Vec3{0, 0, 0}, types.Vec3{165, 330, 165}, white), 15),
		types.Vec3{265, 0, 295},
	)
	squat := NewTranslate(
		NewRotateY(NewBox(types.Vec3{0, 0, 0}, types.Vec3{165, 165, 165}, white), -18),
		types.Vec3{130, 0, 65},
	)

	sc, err := NewBuilder().
		SetBackground(ConstantBackground(types.Vec3{})).
		Add(
			NewQuad(PlaneYZ, 0, 0, 555, 555, 555, green),
			NewQuad(PlaneYZ, 0, 0, 555, 555, 0, red),
			NewQuad(PlaneXZ, 213, 227, 343, 332, 554, light),
			NewQuad(PlaneXZ, 0, 0, 555, 555, 0, white),
			NewQuad(PlaneXZ, 0, 0, 555, 555, 555, white),
			NewQuad(PlaneXY, 0, 0, 555, 555, 555, white),
			tall,
			squat,
		).Build()
	if err != nil {
		return nil, nil, err
	}
	return sc, presetCamera(types.Vec3{278, 278, -800}, types.Vec3{278, 278, 0}, 40), nil
}

func meshDemo(seed int64) (*Scene, *Camera, error) {
	ground := NewTexturedLambertian(NewChecker(
		types.Vec3{0.2, 0.3, 0.1},
		types.Vec3{0.9, 0.9, 0.9},
	))

	pyramid := NewMesh(
		[]types.Vec3{
			{-1, 0, -1},
			{1, 0, -1},
			{1, 0, 1},
			{-1, 0, 1},
			{0, 1.6, 0},
		},
		[][3]int{
			{0, 2, 1},
			{0, 3, 2},
			{0, 1, 4},
			{1, 2, 4},
			{2, 3, 4},
			{3, 0, 4},
		},
		NewMetal(types.Vec3{0.8, 0.6, 0.2}, 0.1),
	).Transformed(1.2, 30, types.Vec3{0, 0, 0})

	sc, err := NewBuilder().
		Add(NewSphere(types.Vec3{0, -1000, 0}, 1000, ground)).
		AddMesh(pyramid).
		Add(NewSphere(types.Vec3{2.5, 1, 0}, 1, NewDielectric(1.5))).
		Build()
	if err != nil {
		return nil, nil, err
	}
	return sc, presetCamera(types.Vec3{6, 3, 6}, types.Vec3{0, 0.8, 0}, 25), nil
}
