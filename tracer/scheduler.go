package tracer

// DefaultTileSize is the tile edge used when the caller does not request one.
const DefaultTileSize = 32

// A Unit is a rectangular frame region traced as a single work item. Bounds
// are half-open: the unit covers pixels [X0, X1) x [Y0, Y1).
type Unit struct {
	X0, Y0 uint32
	X1, Y1 uint32
}

// Get the number of pixels covered by the unit.
func (u Unit) Pixels() uint32 {
	return (u.X1 - u.X0) * (u.Y1 - u.Y0)
}

// The Scheduler interface is implemented by all unit scheduling algorithms.
type Scheduler interface {
	// Split a frame into work units. The returned units are disjoint and
	// cover every frame pixel exactly once.
	Schedule(frameW, frameH uint32) []Unit
}

// The tile scheduler splits the frame into square tiles. Tiles at the right
// and bottom edges are clipped to the frame.
type tileScheduler struct {
	size uint32
}

// Create a tile scheduler instance. A zero size selects DefaultTileSize.
func NewTileScheduler(size uint32) Scheduler {
	if size == 0 {
		size = DefaultTileSize
	}
	return &tileScheduler{size: size}
}

func (sch *tileScheduler) Schedule(frameW, frameH uint32) []Unit {
	cols := (frameW + sch.size - 1) / sch.size
	rows := (frameH + sch.size - 1) / sch.size

	units := make([]Unit, 0, cols*rows)
	for y := uint32(0); y < frameH; y += sch.size {
		y1 := y + sch.size
		if y1 > frameH {
			y1 = frameH
		}
		for x := uint32(0); x < frameW; x += sch.size {
			x1 := x + sch.size
			if x1 > frameW {
				x1 = frameW
			}
			units = append(units, Unit{X0: x, Y0: y, X1: x1, Y1: y1})
		}
	}
	return units
}

// The row scheduler splits the frame into full-width bands. Useful for
// progressive display where completed bands blit as contiguous scanlines.
type rowScheduler struct {
	rows uint32
}

// Create a row scheduler instance generating bands of the given height.
func NewRowScheduler(rows uint32) Scheduler {
	if rows == 0 {
		rows = 1
	}
	return &rowScheduler{rows: rows}
}

func (sch *rowScheduler) Schedule(frameW, frameH uint32) []Unit {
	units := make([]Unit, 0, (frameH+sch.rows-1)/sch.rows)
	for y := uint32(0); y < frameH; y += sch.rows {
		y1 := y + sch.rows
		if y1 > frameH {
			y1 = frameH
		}
		units = append(units, Unit{X0: 0, Y0: y, X1: frameW, Y1: y1})
	}
	return units
}
