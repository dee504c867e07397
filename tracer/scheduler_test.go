package tracer

import (
	"testing"
)

func TestTileScheduler(t *testing.T) {
	type spec struct {
		frameW   uint32
		frameH   uint32
		size     uint32
		expUnits int
	}
	specs := []spec{
		{64, 64, 32, 4},
		{64, 48, 32, 4},
		// Edge tiles get clipped instead of dropped
		{65, 33, 32, 6},
		{10, 10, 32, 1},
		// Zero size selects the default
		{64, 64, 0, 4},
	}

	for index, s := range specs {
		units := NewTileScheduler(s.size).Schedule(s.frameW, s.frameH)
		if len(units) != s.expUnits {
			t.Fatalf("[spec %d] expected %d units; got %d", index, s.expUnits, len(units))
		}
		assertExactCover(t, index, units, s.frameW, s.frameH)
	}
}

func TestRowScheduler(t *testing.T) {
	type spec struct {
		frameW   uint32
		frameH   uint32
		rows     uint32
		expUnits int
	}
	specs := []spec{
		{64, 64, 16, 4},
		{64, 50, 16, 4},
		{64, 1, 16, 1},
		{64, 64, 0, 64},
	}

	for index, s := range specs {
		units := NewRowScheduler(s.rows).Schedule(s.frameW, s.frameH)
		if len(units) != s.expUnits {
			t.Fatalf("[spec %d] expected %d units; got %d", index, s.expUnits, len(units))
		}

		for _, u := range units {
			if u.X0 != 0 || u.X1 != s.frameW {
				t.Fatalf("[spec %d] expected full-width bands; got [%d, %d)", index, u.X0, u.X1)
			}
		}
		assertExactCover(t, index, units, s.frameW, s.frameH)
	}
}

// Every frame pixel must be covered by exactly one unit.
func assertExactCover(t *testing.T, index int, units []Unit, frameW, frameH uint32) {
	t.Helper()

	covered := make([]uint8, frameW*frameH)
	for _, u := range units {
		if u.X1 > frameW || u.Y1 > frameH {
			t.Fatalf("[spec %d] unit %+v exceeds the %dx%d frame", index, u, frameW, frameH)
		}
		for y := u.Y0; y < u.Y1; y++ {
			for x := u.X0; x < u.X1; x++ {
				covered[y*frameW+x]++
			}
		}
	}

	for i, c := range covered {
		if c != 1 {
			t.Fatalf("[spec %d] pixel (%d,%d) covered %d times", index, uint32(i)%frameW, uint32(i)/frameW, c)
		}
	}
}
