package scene

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/aethr/lumen/types"
	"github.com/olekukonko/tablewriter"
)

// Scene construction errors.
var (
	ErrNoPrimitives    = errors.New("scene: no primitives defined")
	ErrMissingMaterial = errors.New("scene: primitive without material")
)

// Background radiance for rays that leave the scene. The color blends from
// Bottom at the horizon's nadir to Top at the zenith; equal colors yield a
// constant background.
type Background struct {
	Bottom types.Vec3
	Top    types.Vec3
}

// Create a vertical gradient background.
func GradientBackground(bottom, top types.Vec3) Background {
	return Background{Bottom: bottom, Top: top}
}

// Create a constant background.
func ConstantBackground(c types.Vec3) Background {
	return Background{Bottom: c, Top: c}
}

// The default daylight gradient: white below fading to sky blue above.
func SkyBackground() Background {
	return GradientBackground(types.Vec3{1, 1, 1}, types.Vec3{0.5, 0.7, 1.0})
}

// Radiance carried by an escaped ray.
func (b Background) Radiance(r types.Ray) types.Vec3 {
	t := 0.5 * (r.Dir[1] + 1)
	return types.Lerp(b.Bottom, b.Top, t)
}

// Scene is an immutable collection of primitives plus a background. Build one
// through a Builder; rendering never mutates it.
type Scene struct {
	primitives []Primitive
	background Background
}

// Get the primitive list. Callers must treat the slice as read-only.
func (s *Scene) Primitives() []Primitive {
	return s.primitives
}

func (s *Scene) Background() Background {
	return s.background
}

// Get the union of all primitive bounds.
func (s *Scene) Bounds() types.AABB {
	box := types.NewAABB()
	for _, p := range s.primitives {
		box = box.Union(p.Bounds())
	}
	return box
}

// Get a tabular summary of the scene contents.
func (s *Scene) Stats() string {
	counts := make(map[string]int)
	mats := make(map[Material]struct{})
	for _, p := range s.primitives {
		counts[primitiveKind(p)]++
		if m := p.Material(); m != nil {
			mats[m] = struct{}{}
		}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Scene Item", "Count"})
	for _, kind := range []string{"sphere", "moving sphere", "triangle", "quad", "box", "translate", "rotateY"} {
		if counts[kind] > 0 {
			table.Append([]string{kind, fmt.Sprintf("%d", counts[kind])})
		}
	}
	table.Append([]string{"materials", fmt.Sprintf("%d", len(mats))})
	table.SetFooter([]string{"Total primitives", fmt.Sprintf("%d", len(s.primitives))})
	table.Render()
	return buf.String()
}

func primitiveKind(p Primitive) string {
	switch prim := p.(type) {
	case *Sphere:
		if prim.moving {
			return "moving sphere"
		}
		return "sphere"
	case *Triangle:
		return "triangle"
	case *Quad:
		return "quad"
	case *Box:
		return "box"
	case *Translate:
		return "translate"
	case *RotateY:
		return "rotateY"
	}
	return "unknown"
}

// Builder assembles and validates a scene. Errors accumulate and are all
// reported by Build, before any acceleration structure work happens.
type Builder struct {
	prims      []Primitive
	background Background
	errs       []error
}

func NewBuilder() *Builder {
	return &Builder{
		background: SkyBackground(),
	}
}

// Set the background. Defaults to the daylight gradient.
func (b *Builder) SetBackground(bg Background) *Builder {
	b.background = bg
	return b
}

// Add primitives to the scene.
func (b *Builder) Add(prims ...Primitive) *Builder {
	b.prims = append(b.prims, prims...)
	return b
}

// Bake a mesh instance into world-space triangles and add them.
func (b *Builder) AddMesh(m *Mesh) *Builder {
	tris, err := m.Triangles()
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	return b.Add(tris...)
}

// Build validates the assembled scene and seals it. All accumulated
// construction errors are reported together.
func (b *Builder) Build() (*Scene, error) {
	errs := append([]error(nil), b.errs...)

	if len(b.prims) == 0 {
		errs = append(errs, ErrNoPrimitives)
	}
	for i, p := range b.prims {
		mat := p.Material()
		if mat == nil {
			errs = append(errs, fmt.Errorf("%w: primitive %d", ErrMissingMaterial, i))
			continue
		}
		if err := mat.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("scene: primitive %d: %s", i, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Scene{
		primitives: append([]Primitive(nil), b.prims...),
		background: b.background,
	}, nil
}
