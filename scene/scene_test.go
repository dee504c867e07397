package scene

import (
	"errors"
	"strings"
	"testing"

	"github.com/aethr/lumen/types"
)

func TestBuilderNoPrimitives(t *testing.T) {
	_, err := NewBuilder().Build()
	if !errors.Is(err, ErrNoPrimitives) {
		t.Fatalf("expected ErrNoPrimitives; got %v", err)
	}
}

func TestBuilderMissingMaterial(t *testing.T) {
	_, err := NewBuilder().Add(
		NewSphere(types.Vec3{0, 0, 0}, 1, NewLambertian(0.5, 0.5, 0.5)),
		NewSphere(types.Vec3{3, 0, 0}, 1, nil),
	).Build()

	if !errors.Is(err, ErrMissingMaterial) {
		t.Fatalf("expected ErrMissingMaterial; got %v", err)
	}
	if !strings.Contains(err.Error(), "primitive 1") {
		t.Fatalf("expected the error to name primitive 1; got %v", err)
	}
}

func TestBuilderAccumulatesErrors(t *testing.T) {
	_, err := NewBuilder().Add(
		NewSphere(types.Vec3{0, 0, 0}, 1, nil),
		NewSphere(types.Vec3{3, 0, 0}, 1, NewDielectric(0.5)),
	).Build()

	if err == nil {
		t.Fatal("expected build to fail")
	}
	for _, fragment := range []string{"primitive 0", "primitive 1"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected the error to mention %q; got %v", fragment, err)
		}
	}
}

func TestBuilderMeshError(t *testing.T) {
	bad := NewMesh(
		[]types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[][3]int{{0, 1, 9}},
		NewLambertian(0.5, 0.5, 0.5),
	)

	_, err := NewBuilder().AddMesh(bad).Build()
	if err == nil || !strings.Contains(err.Error(), "mesh") {
		t.Fatalf("expected a mesh bake error; got %v", err)
	}
}

func TestBackgroundRadiance(t *testing.T) {
	grad := GradientBackground(types.Vec3{1, 1, 1}, types.Vec3{0.5, 0.7, 1.0})

	specs := []struct {
		bg  Background
		dir types.Vec3
		exp types.Vec3
	}{
		{grad, types.Vec3{0, 1, 0}, types.Vec3{0.5, 0.7, 1.0}},
		{grad, types.Vec3{0, -1, 0}, types.Vec3{1, 1, 1}},
		{grad, types.Vec3{1, 0, 0}, types.Vec3{0.75, 0.85, 1.0}},
		{ConstantBackground(types.Vec3{2, 3, 4}), types.Vec3{0, 1, 0}, types.Vec3{2, 3, 4}},
		{ConstantBackground(types.Vec3{2, 3, 4}), types.Vec3{1, -1, 1}, types.Vec3{2, 3, 4}},
	}

	for specIndex, spec := range specs {
		got := spec.bg.Radiance(types.NewRay(types.Vec3{}, spec.dir))
		if !got.ApproxEqual(spec.exp, 1e-6) {
			t.Fatalf("[spec %d] expected background radiance %v; got %v", specIndex, spec.exp, got)
		}
	}
}

func TestSceneBounds(t *testing.T) {
	sc, err := NewBuilder().Add(
		NewSphere(types.Vec3{0, 0, 0}, 1, NewLambertian(0.5, 0.5, 0.5)),
		NewSphere(types.Vec3{5, 0, 0}, 2, NewLambertian(0.5, 0.5, 0.5)),
	).Build()
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Primitives()) != 2 {
		t.Fatalf("expected 2 primitives; got %d", len(sc.Primitives()))
	}

	bounds := sc.Bounds()
	if bounds.Min != (types.Vec3{-1, -2, -2}) || bounds.Max != (types.Vec3{7, 2, 2}) {
		t.Fatalf("expected scene bounds (-1,-2,-2)-(7,2,2); got %v - %v", bounds.Min, bounds.Max)
	}
}

func TestSceneStats(t *testing.T) {
	sc, err := NewBuilder().Add(
		NewSphere(types.Vec3{0, -1000, 0}, 1000, NewLambertian(0.5, 0.5, 0.5)),
		NewMovingSphere(types.Vec3{0, 1, 0}, types.Vec3{0, 2, 0}, 1, NewLambertian(0.5, 0.5, 0.5)),
		NewQuad(PlaneXZ, 0, 0, 1, 1, 3, NewEmissive(4, 4, 4)),
		NewBox(types.Vec3{2, 0, 0}, types.Vec3{3, 1, 1}, NewMetal(types.Vec3{0.8, 0.8, 0.8}, 0)),
	).Build()
	if err != nil {
		t.Fatal(err)
	}

	stats := sc.Stats()
	for _, fragment := range []string{"sphere", "moving sphere", "quad", "box", "materials", "Total primitives", "4"} {
		if !strings.Contains(stats, fragment) {
			t.Fatalf("expected stats to contain %q; got:\n%s", fragment, stats)
		}
	}
}

func TestPresetCatalog(t *testing.T) {
	seen := make(map[string]struct{})
	for _, preset := range Presets() {
		if _, dup := seen[preset.Name]; dup {
			t.Fatalf("duplicate preset name %q", preset.Name)
		}
		seen[preset.Name] = struct{}{}

		sc, camera, err := preset.Build(7)
		if err != nil {
			t.Fatalf("preset %q failed to build: %v", preset.Name, err)
		}
		if len(sc.Primitives()) == 0 {
			t.Fatalf("preset %q built an empty scene", preset.Name)
		}
		if err = camera.Validate(); err != nil {
			t.Fatalf("preset %q camera invalid: %v", preset.Name, err)
		}
	}
}

func TestPresetByName(t *testing.T) {
	preset, err := PresetByName("cornell")
	if err != nil {
		t.Fatal(err)
	}
	if preset.Name != "cornell" {
		t.Fatalf("expected preset name to be cornell; got %q", preset.Name)
	}

	if _, err = PresetByName("bogus"); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset; got %v", err)
	}
}

func TestPresetDeterminism(t *testing.T) {
	scA := buildPreset(t, "random", 11)
	scB := buildPreset(t, "random", 11)

	primsA, primsB := scA.Primitives(), scB.Primitives()
	if len(primsA) != len(primsB) {
		t.Fatalf("expected equal primitive counts for equal seeds; got %d and %d", len(primsA), len(primsB))
	}
	for i := range primsA {
		sphereA, okA := primsA[i].(*Sphere)
		sphereB, okB := primsB[i].(*Sphere)
		if !okA || !okB {
			continue
		}
		if sphereA.Origin != sphereB.Origin || sphereA.Radius != sphereB.Radius {
			t.Fatalf("[prim %d] expected identical spheres for equal seeds", i)
		}
	}

	// A different seed shifts at least one generated sphere.
	primsC := buildPreset(t, "random", 12).Primitives()
	differs := len(primsA) != len(primsC)
	for i := 0; !differs && i < len(primsA) && i < len(primsC); i++ {
		sphereA, okA := primsA[i].(*Sphere)
		sphereC, okC := primsC[i].(*Sphere)
		if okA && okC && sphereA.Origin != sphereC.Origin {
			differs = true
		}
	}
	if !differs {
		t.Fatal("expected different seeds to generate different scenes")
	}
}

func buildPreset(t *testing.T, name string, seed int64) *Scene {
	t.Helper()
	preset, err := PresetByName(name)
	if err != nil {
		t.Fatal(err)
	}
	sc, _, err := preset.Build(seed)
	if err != nil {
		t.Fatal(err)
	}
	return sc
}
