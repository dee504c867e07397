package tracer

import (
	"errors"

	"github.com/aethr/lumen/bvh"
	"github.com/aethr/lumen/log"
	"github.com/aethr/lumen/scene"
)

// ErrInterrupted is returned by render passes that got aborted via Interrupt
// before all of their units completed.
var ErrInterrupted = errors.New("tracer: render interrupted")

var logger = log.New("tracer")

// A unit of work that is processed by a pool worker.
type unitRequest struct {
	// The frame region to trace.
	unit Unit

	// First sample index and number of samples to accumulate per pixel.
	sampleStart uint32
	sampleCount uint32

	// A channel to signal on unit completion.
	doneChan chan<- Unit

	// A channel to signal if an error occurs.
	errChan chan<- error
}

// Config packs everything a pool needs to trace frames.
type Config struct {
	// Camera generating primary rays.
	Camera *scene.Camera

	// The intersection structure and background for the traced scene.
	Tree       *bvh.Tree
	Background scene.Background

	// Frame dimensions in pixels.
	FrameW uint32
	FrameH uint32

	// Total samples per pixel for the finished frame. Single sample
	// renders shoot through pixel centers instead of jittering.
	SamplesPerPixel uint32

	// Path depth and roulette controls. See Integrator.
	MaxDepth      uint32
	RouletteDepth uint32
	RouletteFloor float32

	// Seed for the per-sample random sequences.
	Seed uint64

	// Number of pool workers. Defaults to runtime.NumCPU.
	NumWorkers int
}
