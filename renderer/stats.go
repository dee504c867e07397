package renderer

import "time"

type FrameStats struct {
	// Acceleration structure shape.
	BvhNodes   int
	BvhLeafs   int
	BvhDepth   int
	Primitives int

	// Wall times for building the acceleration structure and for tracing
	// all samples of the frame.
	BvhBuildTime time.Duration
	RenderTime   time.Duration

	// Work distribution for the frame.
	Workers         int
	Units           int
	SamplesPerPixel uint32
}
