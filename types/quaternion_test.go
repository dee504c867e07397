package types

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestQuatRotate(t *testing.T) {
	specs := []struct {
		axis  Vec3
		angle float32
		v     Vec3
		exp   Vec3
	}{
		// Quarter turn about y maps -z onto -x.
		{Vec3{0, 1, 0}, math32.Pi / 2, Vec3{0, 0, -1}, Vec3{-1, 0, 0}},
		// Quarter turn about x maps -z onto +y.
		{Vec3{1, 0, 0}, math32.Pi / 2, Vec3{0, 0, -1}, Vec3{0, 1, 0}},
		// Full turn is the identity.
		{Vec3{0, 1, 0}, 2 * math32.Pi, Vec3{1, 2, 3}, Vec3{1, 2, 3}},
	}

	for specIndex, spec := range specs {
		got := QuatFromAxisAngle(spec.axis, spec.angle).Rotate(spec.v)
		if !got.ApproxEqual(spec.exp, 1e-4) {
			t.Fatalf("[spec %d] expected rotated vector to be %v; got %v", specIndex, spec.exp, got)
		}
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{V: Vec3{0, 3, 0}, W: 4}.Normalize()
	if math32.Abs(q.Len()-1) > 1e-6 {
		t.Fatalf("expected normalized quaternion length to be 1; got %f", q.Len())
	}

	ident := QuatIdent()
	if got := ident.Rotate(Vec3{1, 2, 3}); got != (Vec3{1, 2, 3}) {
		t.Fatalf("expected identity rotation to keep the vector; got %v", got)
	}
}
