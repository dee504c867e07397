package scene

import (
	"fmt"

	"github.com/aethr/lumen/types"
	"github.com/chewxy/math32"
)

// Triangle primitive with per-vertex texture coordinates. Zero-area
// triangles are degenerate and never hit.
type Triangle struct {
	V0, V1, V2 types.Vec3
	UV         [3]types.Vec2
	Mat        Material

	e1, e2     types.Vec3
	normal     types.Vec3
	degenerate bool
}

// Create a triangle. Vertices are specified counter-clockwise when viewed
// from the front face.
func NewTriangle(v0, v1, v2 types.Vec3, mat Material) *Triangle {
	return NewTriangleUV(v0, v1, v2, [3]types.Vec2{{0, 0}, {1, 0}, {0, 1}}, mat)
}

// Create a triangle with explicit per-vertex texture coordinates.
func NewTriangleUV(v0, v1, v2 types.Vec3, uv [3]types.Vec2, mat Material) *Triangle {
	t := &Triangle{
		V0: v0, V1: v1, V2: v2,
		UV:  uv,
		Mat: mat,
		e1:  v1.Sub(v0),
		e2:  v2.Sub(v0),
	}
	cross := t.e1.Cross(t.e2)
	if cross.NearZero() {
		t.degenerate = true
	} else {
		t.normal = cross.Normalize()
	}
	return t
}

func (t *Triangle) Intersect(r types.Ray, tMin, tMax float32, hit *Hit) bool {
	if t.degenerate {
		return false
	}

	// Moeller-Trumbore with two-sided faces.
	pvec := r.Dir.Cross(t.e2)
	det := t.e1.Dot(pvec)
	if math32.Abs(det) < 1e-8 {
		return false
	}
	invDet := 1.0 / det

	tvec := r.Origin.Sub(t.V0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return false
	}

	qvec := tvec.Cross(t.e1)
	v := r.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return false
	}

	dist := t.e2.Dot(qvec) * invDet
	if dist < tMin || dist > tMax {
		return false
	}

	w := 1 - u - v
	hit.T = dist
	hit.Point = r.At(dist)
	hit.SetFaceNormal(r, t.normal)
	hit.U = w*t.UV[0][0] + u*t.UV[1][0] + v*t.UV[2][0]
	hit.V = w*t.UV[0][1] + u*t.UV[1][1] + v*t.UV[2][1]
	hit.Mat = t.Mat
	return true
}

func (t *Triangle) Bounds() types.AABB {
	if t.degenerate {
		return types.NewAABB()
	}
	box := types.NewAABB().ExtendPoint(t.V0).ExtendPoint(t.V1).ExtendPoint(t.V2)
	return padBounds(box)
}

func (t *Triangle) Center() types.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Mul(1.0 / 3.0)
}

func (t *Triangle) Material() Material {
	return t.Mat
}

// Mesh instance: indexed triangle geometry plus a placement transform. The
// transform is baked when the scene is built; the instance itself never
// enters the primitive list.
type Mesh struct {
	Vertices []types.Vec3
	Faces    [][3]int
	UVs      []types.Vec2
	Mat      Material

	Scale  float32
	YawDeg float32
	Offset types.Vec3
}

// Create a mesh instance with an identity transform.
func NewMesh(vertices []types.Vec3, faces [][3]int, mat Material) *Mesh {
	return &Mesh{
		Vertices: vertices,
		Faces:    faces,
		Mat:      mat,
		Scale:    1,
	}
}

// Set the instance placement: uniform scale, yaw around the Y axis in
// degrees, then a world-space offset.
func (m *Mesh) Transformed(scale, yawDeg float32, offset types.Vec3) *Mesh {
	m.Scale = scale
	m.YawDeg = yawDeg
	m.Offset = offset
	return m
}

// Bake the instance into world-space triangles. Face indexes are validated
// against the vertex and UV arrays.
func (m *Mesh) Triangles() ([]Primitive, error) {
	if len(m.Vertices) == 0 || len(m.Faces) == 0 {
		return nil, fmt.Errorf("mesh: no geometry")
	}
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}
	sin, cos := math32.Sincos(m.YawDeg * math32.Pi / 180)

	world := make([]types.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		v = v.Mul(scale)
		world[i] = types.Vec3{
			cos*v[0] + sin*v[2],
			v[1],
			-sin*v[0] + cos*v[2],
		}.Add(m.Offset)
	}

	out := make([]Primitive, 0, len(m.Faces))
	for fi, face := range m.Faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(world) {
				return nil, fmt.Errorf("mesh: face %d references vertex %d of %d", fi, idx, len(world))
			}
			if m.UVs != nil && idx >= len(m.UVs) {
				return nil, fmt.Errorf("mesh: face %d references uv %d of %d", fi, idx, len(m.UVs))
			}
		}
		uv := [3]types.Vec2{{0, 0}, {1, 0}, {0, 1}}
		if m.UVs != nil {
			uv = [3]types.Vec2{m.UVs[face[0]], m.UVs[face[1]], m.UVs[face[2]]}
		}
		out = append(out, NewTriangleUV(world[face[0]], world[face[1]], world[face[2]], uv, m.Mat))
	}
	return out, nil
}
