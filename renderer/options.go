package renderer

import "runtime"

// DefaultRouletteFloor bounds the russian roulette continuation probability
// from below so dark paths keep a chance to survive.
const DefaultRouletteFloor float32 = 0.05

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Target samples per pixel. Interactive renders treat zero as
	// unbounded refinement.
	SamplesPerPixel uint32

	// Maximum number of scatter events per path. Zero collects only the
	// emission of directly visible surfaces.
	MaxDepth uint32

	// Number of scatter events before russian roulette may terminate a
	// path. Zero disables roulette.
	RouletteDepth uint32

	// Lower bound for the roulette continuation probability. Zero selects
	// DefaultRouletteFloor.
	RouletteFloor float32

	// Exposure for tonemapping. Zero selects 1.
	Exposure float32

	// Seed for all random sequences of the frame.
	Seed uint64

	// Number of pool workers. Zero selects runtime.NumCPU.
	NumWorkers int

	// Progress, when set, is invoked after each completed work unit.
	Progress func(done, total int)
}

func (o *Options) applyDefaults() {
	if o.Exposure <= 0 {
		o.Exposure = 1
	}
	if o.RouletteDepth > 0 && o.RouletteFloor <= 0 {
		o.RouletteFloor = DefaultRouletteFloor
	}
	if o.NumWorkers <= 0 {
		o.NumWorkers = runtime.NumCPU()
	}
}

func (o *Options) validate(requireSamples bool) error {
	if o.FrameW == 0 || o.FrameH == 0 {
		return ErrInvalidDimensions
	}
	if requireSamples && o.SamplesPerPixel == 0 {
		return ErrInvalidSampleCount
	}
	return nil
}
